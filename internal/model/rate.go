// Package model defines the core domain models used throughout the application.
package model

import "fmt"

// Rate is the deductible fraction of an expense amount.
// The domain is fixed: only RateZero, RateHalf and RateFull are valid.
type Rate float64

// Canonical deduction rates.
const (
	RateZero Rate = 0.0
	RateHalf Rate = 0.5
	RateFull Rate = 1.0
)

// Valid reports whether r is one of the three canonical rates.
func (r Rate) Valid() bool {
	return r == RateZero || r == RateHalf || r == RateFull
}

// Percent renders the rate as a whole-number percentage ("50%").
func (r Rate) Percent() string {
	return fmt.Sprintf("%d%%", int(float64(r)*100))
}

// Category is the tax category a classification unit falls into.
type Category string

// Tax categories and the rates they imply.
const (
	CategoryEntertainment  Category = "entertainment"
	CategoryMeals          Category = "meals"
	CategoryEmployeeEvents Category = "employee-events"
)

// Confidence expresses how sure the classifier is about a result.
type Confidence string

// Confidence levels.
const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)
