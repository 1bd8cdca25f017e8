// Package engine orchestrates the classification pipeline: the keyword
// layer first, the oracle fallback second, and the aggregation of classified
// vendors into per-transaction and per-bucket totals.
package engine

import (
	"context"

	"github.com/MelanieRosenberg/Town/internal/model"
	"github.com/MelanieRosenberg/Town/internal/oracle"
)

// Matcher is the deterministic keyword layer.
type Matcher interface {
	Match(vendor, description string) (model.Rate, bool)
}

// Oracle is the probabilistic fallback layer. Implementations never return
// an error: failures degrade to conservative defaults internally.
type Oracle interface {
	ClassifyBatch(ctx context.Context, kind model.UnitKind, units []model.ClassificationUnit, bctx oracle.BatchContext) []model.ClassificationResult
}

// ResultStore persists a run's classified output.
type ResultStore interface {
	SaveResults(kind model.UnitKind, results []model.ClassificationResult) error
}

// Auditor records individual classification decisions.
type Auditor interface {
	Record(ctx context.Context, companyID string, kind model.UnitKind, results []model.ClassificationResult) error
}
