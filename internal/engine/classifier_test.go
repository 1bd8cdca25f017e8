package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MelanieRosenberg/Town/internal/model"
	"github.com/MelanieRosenberg/Town/internal/oracle"
	"github.com/MelanieRosenberg/Town/internal/pattern"
)

// fakeOracle classifies every unit it receives and counts calls, so tests
// can assert both batching behavior and the pattern short-circuit.
type fakeOracle struct {
	calls      int
	batchSizes []int
}

func (f *fakeOracle) ClassifyBatch(_ context.Context, _ model.UnitKind, units []model.ClassificationUnit, _ oracle.BatchContext) []model.ClassificationResult {
	f.calls++
	f.batchSizes = append(f.batchSizes, len(units))

	results := make([]model.ClassificationResult, len(units))
	for i, u := range units {
		results[i] = model.ClassificationResult{
			VendorName:     u.VendorName(),
			BusinessType:   "test business",
			Classification: model.CategoryMeals,
			DeductionRate:  model.RateHalf,
			Reason:         "test classification",
			Confidence:     model.ConfidenceHigh,
			Source:         model.SourceOracle,
		}
	}
	return results
}

type fakeStore struct {
	saved map[model.UnitKind][]model.ClassificationResult
	err   error
}

func (f *fakeStore) SaveResults(kind model.UnitKind, results []model.ClassificationResult) error {
	if f.err != nil {
		return f.err
	}
	if f.saved == nil {
		f.saved = make(map[model.UnitKind][]model.ClassificationResult)
	}
	f.saved[kind] = results
	return nil
}

type fakeAuditor struct {
	recorded int
	err      error
}

func (f *fakeAuditor) Record(_ context.Context, _ string, _ model.UnitKind, results []model.ClassificationResult) error {
	if f.err != nil {
		return f.err
	}
	f.recorded += len(results)
	return nil
}

func newTestClassifier(o Oracle, store ResultStore, audit Auditor) *BatchClassifier {
	return NewBatchClassifier(pattern.NewMatcher(), o, store, audit, "A", "New York", discardLogger())
}

func vendorUnits(names ...string) []model.ClassificationUnit {
	units := make([]model.ClassificationUnit, len(names))
	for i, name := range names {
		units[i] = model.VendorUnit{Name: name, SampleDescriptions: []string{name + " purchase"}}
	}
	return units
}

func TestBatchClassifier_OneResultPerUnitInOrder(t *testing.T) {
	names := []string{"Acme Widgets", "Globex", "Initech", "Umbrella", "Hooli"}

	for _, batchSize := range []int{1, 2, 5, 10} {
		o := &fakeOracle{}
		store := &fakeStore{}
		c := newTestClassifier(o, store, nil)

		results, stats, err := c.Run(context.Background(), model.KindVendors, vendorUnits(names...), batchSize)
		require.NoError(t, err, "batch size %d", batchSize)
		require.Len(t, results, len(names))
		for i, name := range names {
			assert.Equal(t, name, results[i].VendorName)
		}
		assert.Equal(t, len(names), stats.Total)
		assert.Equal(t, results, store.saved[model.KindVendors])
	}
}

func TestBatchClassifier_ContiguousBatches(t *testing.T) {
	o := &fakeOracle{}
	c := newTestClassifier(o, &fakeStore{}, nil)

	_, _, err := c.Run(context.Background(), model.KindVendors, vendorUnits("A1", "B2", "C3", "D4", "E5"), 2)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2, 1}, o.batchSizes)
}

func TestBatchClassifier_PatternShortCircuitsOracle(t *testing.T) {
	o := &fakeOracle{}
	store := &fakeStore{}
	c := newTestClassifier(o, store, nil)

	units := vendorUnits("Starbucks #1234", "XYZ Club", "Holiday Party Rentals")
	results, stats, err := c.Run(context.Background(), model.KindVendors, units, 10)
	require.NoError(t, err)

	assert.Equal(t, 0, o.calls, "pattern hits must not reach the oracle")
	assert.Equal(t, 3, stats.Pattern)
	assert.Equal(t, 0, stats.Oracle)

	require.Len(t, results, 3)
	assert.Equal(t, model.RateHalf, results[0].DeductionRate)
	assert.Equal(t, model.RateZero, results[1].DeductionRate)
	assert.Equal(t, model.RateFull, results[2].DeductionRate)
	for _, r := range results {
		assert.Equal(t, model.SourcePattern, r.Source)
		assert.Equal(t, model.ConfidenceHigh, r.Confidence)
	}
}

func TestBatchClassifier_MixedBatchSplitsBetweenLayers(t *testing.T) {
	o := &fakeOracle{}
	c := newTestClassifier(o, &fakeStore{}, nil)

	units := vendorUnits("Starbucks", "Acme Widgets", "XYZ Club", "Globex")
	results, stats, err := c.Run(context.Background(), model.KindVendors, units, 4)
	require.NoError(t, err)

	// One oracle call carrying only the two pattern misses.
	assert.Equal(t, 1, o.calls)
	assert.Equal(t, []int{2}, o.batchSizes)
	assert.Equal(t, 2, stats.Pattern)
	assert.Equal(t, 2, stats.Oracle)

	// Input order survives the merge.
	assert.Equal(t, "Starbucks", results[0].VendorName)
	assert.Equal(t, model.SourcePattern, results[0].Source)
	assert.Equal(t, "Acme Widgets", results[1].VendorName)
	assert.Equal(t, model.SourceOracle, results[1].Source)
	assert.Equal(t, "XYZ Club", results[2].VendorName)
	assert.Equal(t, model.SourcePattern, results[2].Source)
	assert.Equal(t, "Globex", results[3].VendorName)
	assert.Equal(t, model.SourceOracle, results[3].Source)
}

func TestBatchClassifier_SkipsUnitsWithoutText(t *testing.T) {
	o := &fakeOracle{}
	store := &fakeStore{}
	c := newTestClassifier(o, store, nil)

	units := []model.ClassificationUnit{
		model.VendorUnit{Name: "Acme Widgets", SampleDescriptions: []string{"widgets"}},
		model.VendorUnit{Name: "   "},
		model.ExpenseUnit{Name: "", Description: "  ", ExpenseID: 3},
	}

	results, stats, err := c.Run(context.Background(), model.KindVendors, units, 10)
	require.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Skipped)
}

func TestBatchClassifier_EmptyInput(t *testing.T) {
	o := &fakeOracle{}
	store := &fakeStore{}
	c := newTestClassifier(o, store, nil)

	results, stats, err := c.Run(context.Background(), model.KindVendors, nil, 10)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, 0, o.calls)
	assert.Equal(t, RunStats{}, stats)
	assert.Empty(t, store.saved[model.KindVendors])
}

func TestBatchClassifier_InvalidBatchSize(t *testing.T) {
	c := newTestClassifier(&fakeOracle{}, &fakeStore{}, nil)

	_, _, err := c.Run(context.Background(), model.KindVendors, vendorUnits("Acme Widgets"), 0)
	assert.Error(t, err)
}

func TestBatchClassifier_UnknownVendorGetsSurrogateKey(t *testing.T) {
	o := &fakeOracle{}
	c := newTestClassifier(o, &fakeStore{}, nil)

	units := []model.ClassificationUnit{
		model.VendorUnit{Name: "Unknown Vendor", SampleDescriptions: []string{"mystery charge"}, ExpenseID: 42},
	}

	results, _, err := c.Run(context.Background(), model.KindVendors, units, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, model.UnknownVendorKey(42), results[0].VendorName)
	assert.Equal(t, 42, results[0].ExpenseID)
}

func TestBatchClassifier_ExpenseUnitsCarryDateAndID(t *testing.T) {
	o := &fakeOracle{}
	c := newTestClassifier(o, &fakeStore{}, nil)

	units := []model.ClassificationUnit{
		model.ExpenseUnit{Name: "Acme Widgets", Description: "parts", Date: "2024-03-01 00:00:00", ExpenseID: 5},
	}

	results, _, err := c.Run(context.Background(), model.KindExpenses, units, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "2024-03-01", results[0].Date)
	assert.Equal(t, 5, results[0].ExpenseID)
}

func TestBatchClassifier_AuditFailureDoesNotFailRun(t *testing.T) {
	audit := &fakeAuditor{err: assert.AnError}
	c := newTestClassifier(&fakeOracle{}, &fakeStore{}, audit)

	results, _, err := c.Run(context.Background(), model.KindVendors, vendorUnits("Acme Widgets"), 10)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestBatchClassifier_StoreFailureFailsRun(t *testing.T) {
	c := newTestClassifier(&fakeOracle{}, &fakeStore{err: assert.AnError}, nil)

	_, _, err := c.Run(context.Background(), model.KindVendors, vendorUnits("Acme Widgets"), 10)
	assert.Error(t, err)
}

func TestBatchClassifier_ProgressCallback(t *testing.T) {
	c := newTestClassifier(&fakeOracle{}, &fakeStore{}, nil)

	var seen []int
	c.Progress = func(processed, total int) {
		assert.Equal(t, 5, total)
		seen = append(seen, processed)
	}

	_, _, err := c.Run(context.Background(), model.KindVendors, vendorUnits("A1", "B2", "C3", "D4", "E5"), 2)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 4, 5}, seen)
}
