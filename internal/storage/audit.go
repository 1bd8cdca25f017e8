// Package storage provides the SQLite audit log that records every
// classification decision for later review.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/MelanieRosenberg/Town/internal/model"
)

// AuditLog records classification decisions. The JSON output files remain
// the primary artifacts; the log exists so an operator can answer "when was
// this vendor classified, by which layer, and at what confidence".
type AuditLog struct {
	db     *sql.DB
	dbPath string
}

// NewAuditLog opens (or creates) the audit database.
func NewAuditLog(dbPath string) (*AuditLog, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("audit database path is required")
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &AuditLog{db: db, dbPath: dbPath}, nil
}

// Migrate creates the audit schema if it does not exist.
func (l *AuditLog) Migrate(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS classification_audit (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		company_id TEXT NOT NULL,
		unit_kind TEXT NOT NULL,
		vendor_key TEXT NOT NULL,
		classification TEXT NOT NULL,
		deduction_rate REAL NOT NULL,
		confidence TEXT NOT NULL,
		source TEXT NOT NULL,
		reason TEXT,
		recorded_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_audit_company_time
		ON classification_audit(company_id, recorded_at);`

	if _, err := l.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate audit schema: %w", err)
	}
	return nil
}

// Record appends one audit row per classification result in a single
// transaction.
func (l *AuditLog) Record(ctx context.Context, companyID string, kind model.UnitKind, results []model.ClassificationResult) error {
	if len(results) == 0 {
		return nil
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO classification_audit (
			company_id, unit_kind, vendor_key, classification,
			deduction_rate, confidence, source, reason, recorded_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare audit insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	now := time.Now().UTC()
	for _, r := range results {
		if _, err := stmt.ExecContext(ctx,
			companyID,
			string(kind),
			r.VendorName,
			string(r.Classification),
			float64(r.DeductionRate),
			string(r.Confidence),
			string(r.Source),
			r.Reason,
			now,
		); err != nil {
			return fmt.Errorf("failed to record audit row for %s: %w", r.VendorName, err)
		}
	}

	return tx.Commit()
}

// CountBySource returns how many decisions each layer produced for a
// company, most recent run included.
func (l *AuditLog) CountBySource(ctx context.Context, companyID string) (map[model.ClassificationSource]int, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT source, COUNT(*)
		FROM classification_audit
		WHERE company_id = ?
		GROUP BY source`, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit counts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[model.ClassificationSource]int)
	for rows.Next() {
		var source string
		var count int
		if err := rows.Scan(&source, &count); err != nil {
			return nil, fmt.Errorf("failed to scan audit count: %w", err)
		}
		counts[model.ClassificationSource(source)] = count
	}

	return counts, rows.Err()
}

// Close closes the database connection.
func (l *AuditLog) Close() error {
	return l.db.Close()
}
