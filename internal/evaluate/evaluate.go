// Package evaluate measures classification quality against a curated set of
// vendors known to be zero-deductible.
package evaluate

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/MelanieRosenberg/Town/internal/common"
	"github.com/MelanieRosenberg/Town/internal/model"
)

// evalSheet is the workbook tab holding the curated vendor list.
const evalSheet = "Eval Set"

// Miss is one known zero-deductible vendor that received a nonzero rate.
type Miss struct {
	Vendor         string     `json:"vendor"`
	ClassifiedRate model.Rate `json:"classified_rate"`
	Reason         string     `json:"reason"`
}

// Report is the outcome of one evaluation run. Accuracy is a percentage;
// zero when the evaluation set is empty.
type Report struct {
	Total    int     `json:"total"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"`
	Misses   []Miss  `json:"misses,omitempty"`
}

// ZeroDeductibleAccuracy scores classified vendors against the known
// zero-deductible set. Only vendors present in the set are scored; a set
// vendor missing from the results counts against accuracy by never being
// marked correct.
func ZeroDeductibleAccuracy(results []model.ClassificationResult, knownZero []string) Report {
	known := make(map[string]struct{}, len(knownZero))
	for _, name := range knownZero {
		known[name] = struct{}{}
	}

	report := Report{Total: len(known)}
	for _, r := range results {
		if _, ok := known[r.VendorName]; !ok {
			continue
		}
		if r.DeductionRate == model.RateZero {
			report.Correct++
			continue
		}
		report.Misses = append(report.Misses, Miss{
			Vendor:         r.VendorName,
			ClassifiedRate: r.DeductionRate,
			Reason:         r.Reason,
		})
	}

	if report.Total > 0 {
		report.Accuracy = float64(report.Correct) / float64(report.Total) * 100
	}
	return report
}

// ReadEvalSet extracts the curated vendor names from the ledger workbook's
// evaluation tab. Blank cells and the repeated "Vendor" header are skipped.
func ReadEvalSet(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, common.NewUserError(fmt.Sprintf("cannot open ledger file %s", path), err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(evalSheet)
	if err != nil {
		return nil, common.NewUserError(fmt.Sprintf("ledger file %s has no %q sheet", path, evalSheet), err)
	}

	var vendors []string
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		name := strings.TrimSpace(row[0])
		if name == "" || strings.EqualFold(name, "vendor") {
			continue
		}
		vendors = append(vendors, name)
	}

	return vendors, nil
}
