package model

// ClassificationSource indicates which layer produced a result.
type ClassificationSource string

// Classification sources, in decision order.
const (
	SourcePattern ClassificationSource = "PATTERN"
	SourceOracle  ClassificationSource = "ORACLE"
	SourceDefault ClassificationSource = "DEFAULT"
)

// ClassificationResult is the outcome of classifying one unit. Field names
// mirror the persisted JSON consumed by the aggregation and evaluation steps.
type ClassificationResult struct {
	VendorName     string               `json:"vendor_name"`
	BusinessType   string               `json:"business_type"`
	Classification Category             `json:"classification"`
	DeductionRate  Rate                 `json:"deduction_rate"`
	Reason         string               `json:"reason"`
	Confidence     Confidence           `json:"confidence"`
	Date           string               `json:"date,omitempty"`
	ExpenseID      int                  `json:"expense_id,omitempty"`
	Source         ClassificationSource `json:"-"`
}

// DefaultReason is the reason attached to every conservative fallback result.
const DefaultReason = "Default conservative classification due to error"

// DefaultResult returns the conservative fallback classification for a unit.
// Every failure path resolves to this value: the system's bias on
// uncertainty is always toward zero deduction.
func DefaultResult(vendorName string) ClassificationResult {
	return ClassificationResult{
		VendorName:     vendorName,
		BusinessType:   "unknown",
		Classification: CategoryEntertainment,
		DeductionRate:  RateZero,
		Reason:         DefaultReason,
		Confidence:     ConfidenceLow,
		Source:         SourceDefault,
	}
}

// PatternResult builds a result for a unit resolved by the keyword layer.
func PatternResult(vendorName string, rate Rate) ClassificationResult {
	return ClassificationResult{
		VendorName:     vendorName,
		BusinessType:   "pattern match",
		Classification: rate.category(),
		DeductionRate:  rate,
		Reason:         "Matched deterministic vendor pattern",
		Confidence:     ConfidenceHigh,
		Source:         SourcePattern,
	}
}

// category maps a canonical rate back to its tax category.
func (r Rate) category() Category {
	switch r {
	case RateHalf:
		return CategoryMeals
	case RateFull:
		return CategoryEmployeeEvents
	default:
		return CategoryEntertainment
	}
}
