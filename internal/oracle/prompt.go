package oracle

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/MelanieRosenberg/Town/internal/model"
)

// taxonomyRules is the fixed category set and decision policy shared by
// every batch prompt. The category semantics are not extensible.
const taxonomyRules = `TAX CATEGORIES:
- ENTERTAINMENT (0%): Bars, clubs, venues, recreational activities, transportation
- MEALS (50%): Restaurants, cafes, coffee shops, food delivery, catering
- EMPLOYEE EVENTS (100%): Company-wide celebrations, holiday parties, team events for all employees

CRITICAL RULES:
1. Classify all bars and alcohol-focused venues as ENTERTAINMENT (0%)
2. Only classify as MEALS (50%) when food is clearly the primary offering
3. Only use EMPLOYEE EVENTS (100%) with explicit evidence in description (e.g., "team event", "team dinner")
4. When uncertain after research, default to ENTERTAINMENT (0%)
5. Key description terms like "dinner", "lunch", "meal" strongly suggest MEALS (50%)
6. Terms like "team dinner", "staff lunch" indicate EMPLOYEE EVENTS (100%)`

// BuildPrompt renders one batch of units into the request text. The reply
// contract is a JSON array with exactly one object per input unit.
func BuildPrompt(kind model.UnitKind, units []model.ClassificationUnit, primaryCity string) string {
	entries := make([]map[string]any, 0, len(units))
	for _, unit := range units {
		entries = append(entries, unit.ContextFields())
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		// Context fields are plain strings and numbers; this cannot fail
		// for real units, but an empty list keeps the prompt well-formed.
		data = []byte("[]")
	}

	label := "Vendors"
	singular := "vendor"
	if kind == model.KindExpenses {
		label = "Expenses"
		singular = "expense"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Classify these %s for tax deduction purposes:\n", kind)
	fmt.Fprintf(&b, "%s: %s\n", label, data)
	fmt.Fprintf(&b, "Location: %s\n\n", primaryCity)
	b.WriteString("RESEARCH PROCESS:\n")
	b.WriteString("1. Analyze each vendor name for clear indicators (restaurant, bar, cafe, etc.)\n")
	fmt.Fprintf(&b, "2. If unclear, conduct targeted research on the vendor name in %s\n", primaryCity)
	b.WriteString("3. For businesses like \"Blank Street\" in New York, research would reveal it's a coffee shop chain\n")
	b.WriteString("4. If vendor is \"Unknown\", carefully analyze the transaction description for clues\n\n")
	b.WriteString(taxonomyRules)
	b.WriteString("\n")
	fmt.Fprintf(&b, "7. IMPORTANT: Return one classification object for EACH %s in the input list\n\n", singular)
	fmt.Fprintf(&b, "Respond with ONLY this JSON array containing exactly %d items:\n", len(units))
	b.WriteString(`[
  {
    "vendor_name": "vendor name",
    "business_type": "Specific business type identified",
    "classification": "entertainment" or "meals" or "employee-events",
    "deduction_rate": 0.0 or 0.5 or 1.0,
    "reason": "Brief explanation including research findings",
    "confidence": "high" or "medium" or "low"
  },
  ...
]`)

	return b.String()
}
