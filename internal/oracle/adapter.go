package oracle

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/MelanieRosenberg/Town/internal/common"
	"github.com/MelanieRosenberg/Town/internal/config"
	"github.com/MelanieRosenberg/Town/internal/model"
)

// BatchContext carries the locality context included in every prompt.
type BatchContext struct {
	PrimaryCity string
}

// Adapter turns batches of classification units into classification
// results. It never returns an error: transport failures and malformed
// replies degrade to conservative defaults so a flaky backend cannot abort
// a run or corrupt aggregate totals.
type Adapter struct {
	client    Client
	logger    *slog.Logger
	retryOpts common.RetryOptions
}

// NewAdapter creates an oracle adapter around the given client.
func NewAdapter(client Client, cfg config.Oracle, logger *slog.Logger) *Adapter {
	retryOpts := common.RetryOptions{
		MaxAttempts:  cfg.MaxRetries,
		InitialDelay: cfg.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
	if retryOpts.MaxAttempts == 0 {
		retryOpts.MaxAttempts = 3
	}
	if retryOpts.InitialDelay == 0 {
		retryOpts.InitialDelay = time.Second
	}

	return &Adapter{
		client:    client,
		logger:    logger,
		retryOpts: retryOpts,
	}
}

// ClassifyBatch classifies one batch of units. The returned slice always
// has exactly one result per unit, in input order.
func (a *Adapter) ClassifyBatch(ctx context.Context, kind model.UnitKind, units []model.ClassificationUnit, bctx BatchContext) []model.ClassificationResult {
	if len(units) == 0 {
		return nil
	}

	prompt := BuildPrompt(kind, units, bctx.PrimaryCity)

	var content string
	err := common.WithRetry(ctx, func() error {
		reply, classifyErr := a.client.Classify(ctx, prompt)
		if classifyErr != nil {
			return &common.RetryableError{Err: classifyErr, Retryable: true}
		}
		content = reply
		return nil
	}, a.retryOpts)
	if err != nil {
		a.logger.Warn("oracle call failed, degrading batch to conservative defaults",
			"kind", kind,
			"batch_size", len(units),
			"error", err)
		return a.defaultBatch(kind, units)
	}

	raws, err := parseReply(content)
	if err != nil {
		a.logger.Warn("oracle reply unparseable, degrading batch to conservative defaults",
			"kind", kind,
			"batch_size", len(units),
			"error", err)
		return a.defaultBatch(kind, units)
	}

	if len(raws) < len(units) {
		a.logger.Warn("oracle returned fewer results than requested, padding with defaults",
			"kind", kind,
			"expected", len(units),
			"got", len(raws))
	}
	if len(raws) > len(units) {
		a.logger.Warn("oracle returned more results than requested, truncating",
			"kind", kind,
			"expected", len(units),
			"got", len(raws))
		raws = raws[:len(units)]
	}

	results := make([]model.ClassificationResult, len(units))
	for i, unit := range units {
		if i >= len(raws) {
			// Positional alignment is preserved: the padded default is
			// keyed to the missing unit's own vendor name.
			results[i] = a.stitch(kind, unit, model.DefaultResult(unit.VendorName()))
			continue
		}
		results[i] = a.stitch(kind, unit, a.normalize(unit, raws[i]))
	}

	return results
}

// normalize converts one raw reply object into a typed result. A rate that
// does not reduce to the canonical domain defaults that single field only.
func (a *Adapter) normalize(unit model.ClassificationUnit, raw rawResult) model.ClassificationResult {
	vendorName := strings.TrimSpace(raw.VendorName)
	if vendorName == "" {
		vendorName = unit.VendorName()
	}

	businessType := strings.TrimSpace(raw.BusinessType)
	if businessType == "" {
		businessType = "unknown"
	}

	rate, ok := normalizeRate(raw.DeductionRate)
	if !ok {
		a.logger.Warn("deduction rate not reducible to canonical value, defaulting field to 0",
			"vendor", vendorName,
			"raw_rate", string(raw.DeductionRate))
		rate = model.RateZero
	}

	return model.ClassificationResult{
		VendorName:     vendorName,
		BusinessType:   businessType,
		Classification: normalizeCategory(raw.Classification),
		DeductionRate:  rate,
		Reason:         raw.Reason,
		Confidence:     normalizeConfidence(raw.Confidence),
		Source:         model.SourceOracle,
	}
}

// stitch re-attaches per-unit metadata the oracle is not trusted to echo
// verbatim: the canonical date and the originating row id.
func (a *Adapter) stitch(kind model.UnitKind, unit model.ClassificationUnit, result model.ClassificationResult) model.ClassificationResult {
	if kind != model.KindExpenses {
		return result
	}
	if expense, ok := unit.(model.ExpenseUnit); ok {
		result.Date = model.CanonicalDate(expense.Date)
		result.ExpenseID = expense.ExpenseID
	}
	return result
}

func (a *Adapter) defaultBatch(kind model.UnitKind, units []model.ClassificationUnit) []model.ClassificationResult {
	results := make([]model.ClassificationResult, len(units))
	for i, unit := range units {
		results[i] = a.stitch(kind, unit, model.DefaultResult(unit.VendorName()))
	}
	return results
}
