package oracle

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/MelanieRosenberg/Town/internal/common"
	"github.com/MelanieRosenberg/Town/internal/model"
)

// rawResult mirrors one reply object before normalization. DeductionRate is
// kept raw because the backend sometimes answers with a percentage string
// instead of a number.
type rawResult struct {
	VendorName     string          `json:"vendor_name"`
	BusinessType   string          `json:"business_type"`
	Classification string          `json:"classification"`
	DeductionRate  json.RawMessage `json:"deduction_rate"`
	Reason         string          `json:"reason"`
	Confidence     string          `json:"confidence"`
}

// parseReply strips code-fence artifacts and parses the reply as a JSON
// array of result objects. A single top-level object is wrapped into a
// one-element slice. Anything else is reported as malformed; the caller
// resolves malformed replies to the conservative-default path, never a
// propagated fault.
func parseReply(content string) ([]rawResult, error) {
	cleaned := stripCodeFences(content)
	if cleaned == "" {
		return nil, fmt.Errorf("%w: empty reply", common.ErrOracleMalformed)
	}

	var results []rawResult
	if err := json.Unmarshal([]byte(cleaned), &results); err == nil {
		return results, nil
	}

	var single rawResult
	if err := json.Unmarshal([]byte(cleaned), &single); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrOracleMalformed, err)
	}

	return []rawResult{single}, nil
}

// stripCodeFences removes markdown fence markers the backend sometimes
// wraps around its JSON.
func stripCodeFences(content string) string {
	content = strings.ReplaceAll(content, "```json", "")
	content = strings.ReplaceAll(content, "```", "")
	return strings.TrimSpace(content)
}

// normalizeRate reduces a wire deduction_rate to a canonical rate. Percent
// strings ("50%") are stripped and divided by 100. ok is false when the
// value does not reduce to exactly 0, 0.5 or 1; the caller defaults that
// single field, not the whole item.
func normalizeRate(raw json.RawMessage) (model.Rate, bool) {
	if len(raw) == 0 {
		return model.RateZero, false
	}

	var num float64
	if err := json.Unmarshal(raw, &num); err == nil {
		r := model.Rate(num)
		return r, r.Valid()
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return model.RateZero, false
	}

	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	num, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return model.RateZero, false
	}

	r := model.Rate(num / 100)
	return r, r.Valid()
}

// normalizeConfidence maps free-text confidence onto the enum, defaulting
// low for anything unrecognized.
func normalizeConfidence(s string) model.Confidence {
	switch model.Confidence(strings.ToLower(strings.TrimSpace(s))) {
	case model.ConfidenceHigh:
		return model.ConfidenceHigh
	case model.ConfidenceMedium:
		return model.ConfidenceMedium
	default:
		return model.ConfidenceLow
	}
}

// normalizeCategory maps free-text classification onto the category enum.
// Unrecognized values fall back to entertainment, matching the
// conservative-default bias.
func normalizeCategory(s string) model.Category {
	switch model.Category(strings.ToLower(strings.TrimSpace(s))) {
	case model.CategoryMeals:
		return model.CategoryMeals
	case model.CategoryEmployeeEvents:
		return model.CategoryEmployeeEvents
	default:
		return model.CategoryEntertainment
	}
}
