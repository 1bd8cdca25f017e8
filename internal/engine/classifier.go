package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/MelanieRosenberg/Town/internal/model"
	"github.com/MelanieRosenberg/Town/internal/oracle"
)

// BatchClassifier runs classification units through the layered decision
// policy: deterministic patterns first, the oracle second, the conservative
// default last. Runs are batch-sequential; one oracle call is outstanding
// at a time.
type BatchClassifier struct {
	matcher     Matcher
	oracle      Oracle
	store       ResultStore
	audit       Auditor
	logger      *slog.Logger
	companyID   string
	primaryCity string

	// Progress, when set, is invoked after each batch with the number of
	// units processed so far and the total.
	Progress func(processed, total int)
}

// RunStats summarizes a classification run for operator auditing.
type RunStats struct {
	Total     int
	Skipped   int
	Pattern   int
	Oracle    int
	Defaulted int
	Uncertain int
}

// NewBatchClassifier wires the pipeline layers together. audit may be nil.
func NewBatchClassifier(matcher Matcher, o Oracle, store ResultStore, audit Auditor, companyID, primaryCity string, logger *slog.Logger) *BatchClassifier {
	return &BatchClassifier{
		matcher:     matcher,
		oracle:      o,
		store:       store,
		audit:       audit,
		logger:      logger,
		companyID:   companyID,
		primaryCity: primaryCity,
	}
}

// Run classifies units in contiguous batches of batchSize and persists the
// ordered results. Every classifiable unit yields exactly one result, in
// input order, for any batchSize >= 1.
func (c *BatchClassifier) Run(ctx context.Context, kind model.UnitKind, units []model.ClassificationUnit, batchSize int) ([]model.ClassificationResult, RunStats, error) {
	if batchSize < 1 {
		return nil, RunStats{}, fmt.Errorf("batch size must be positive, got %d", batchSize)
	}

	stats := RunStats{Total: len(units)}

	classifiable := make([]model.ClassificationUnit, 0, len(units))
	for _, unit := range units {
		if !hasClassifiableText(unit) {
			stats.Skipped++
			c.logger.Warn("skipping unit with no parseable vendor or description",
				"kind", kind,
				"unit", unit.DisplayText())
			continue
		}
		classifiable = append(classifiable, unit)
	}

	results := make([]model.ClassificationResult, 0, len(classifiable))
	if len(classifiable) == 0 {
		c.logger.Info("no units to classify", "kind", kind)
	}

	for start := 0; start < len(classifiable); start += batchSize {
		end := start + batchSize
		if end > len(classifiable) {
			end = len(classifiable)
		}
		batch := classifiable[start:end]

		batchResults := c.classifyBatch(ctx, kind, batch)
		results = append(results, batchResults...)

		if c.Progress != nil {
			c.Progress(end, len(classifiable))
		}
	}

	for i := range results {
		switch results[i].Source {
		case model.SourcePattern:
			stats.Pattern++
		case model.SourceOracle:
			stats.Oracle++
		case model.SourceDefault:
			stats.Defaulted++
		}
		if results[i].Confidence == model.ConfidenceLow {
			stats.Uncertain++
		}
	}

	if err := c.store.SaveResults(kind, results); err != nil {
		return nil, stats, fmt.Errorf("failed to persist %s results: %w", kind, err)
	}

	if c.audit != nil {
		if err := c.audit.Record(ctx, c.companyID, kind, results); err != nil {
			// The JSON output is the primary artifact; a failed audit write
			// is logged but does not fail the run.
			c.logger.Warn("failed to record audit rows", "error", err)
		}
	}

	c.logger.Info("classification run complete",
		"kind", kind,
		"classified", len(results),
		"pattern", stats.Pattern,
		"oracle", stats.Oracle,
		"defaulted", stats.Defaulted,
		"uncertain", stats.Uncertain,
		"skipped", stats.Skipped)

	return results, stats, nil
}

// classifyBatch resolves one batch: pattern hits short-circuit the oracle,
// and the remaining units go to the oracle in a single call.
func (c *BatchClassifier) classifyBatch(ctx context.Context, kind model.UnitKind, batch []model.ClassificationUnit) []model.ClassificationResult {
	results := make([]model.ClassificationResult, len(batch))
	var pending []model.ClassificationUnit
	var pendingIdx []int

	for i, unit := range batch {
		fields := unit.ContextFields()
		vendor, _ := fields["vendor"].(string)
		description, _ := fields["description"].(string)

		if rate, ok := c.matcher.Match(vendor, description); ok {
			c.logger.Debug("pattern match",
				"vendor", vendor,
				"rate", rate.Percent())
			results[i] = c.finalize(kind, unit, model.PatternResult(unit.VendorName(), rate))
			continue
		}

		pending = append(pending, unit)
		pendingIdx = append(pendingIdx, i)
	}

	if len(pending) > 0 {
		oracleResults := c.oracle.ClassifyBatch(ctx, kind, pending, oracle.BatchContext{PrimaryCity: c.primaryCity})
		for j, r := range oracleResults {
			results[pendingIdx[j]] = c.finalize(kind, pending[j], r)
		}
	}

	return results
}

// finalize stitches per-unit metadata onto a result: canonical dates and
// row ids for expense units, and the synthetic surrogate key for unknown
// vendors so unrelated transactions never share a classification.
func (c *BatchClassifier) finalize(kind model.UnitKind, unit model.ClassificationUnit, result model.ClassificationResult) model.ClassificationResult {
	switch u := unit.(type) {
	case model.ExpenseUnit:
		result.Date = model.CanonicalDate(u.Date)
		result.ExpenseID = u.ExpenseID
	case model.VendorUnit:
		if kind == model.KindVendors && u.IsUnknown() {
			result.VendorName = model.UnknownVendorKey(u.ExpenseID)
			result.ExpenseID = u.ExpenseID
		}
	}
	return result
}

// hasClassifiableText reports whether the unit carries enough source data to
// classify. Silently-unparseable rows are dropped by policy, not failed.
func hasClassifiableText(unit model.ClassificationUnit) bool {
	switch u := unit.(type) {
	case model.VendorUnit:
		return strings.TrimSpace(u.Name) != "" || len(u.SampleDescriptions) > 0
	case model.ExpenseUnit:
		return strings.TrimSpace(u.Name) != "" || strings.TrimSpace(u.Description) != ""
	default:
		return unit != nil
	}
}
