// Package pattern implements the deterministic keyword layer that resolves
// well-known vendors without an oracle call.
package pattern

import (
	"strings"
	"unicode"

	"github.com/MelanieRosenberg/Town/internal/model"
)

// keywordSet pairs a deduction rate with the phrases that imply it.
type keywordSet struct {
	rate     model.Rate
	keywords []string
}

// The three tables are evaluated in fixed priority order: 100% phrases are
// the most specific, 0% terms next, and food terms last because they are the
// widest false-positive surface and must not preempt the others.
var keywordSets = []keywordSet{
	{
		rate: model.RateFull,
		keywords: []string{
			"holiday party", "christmas party", "team building",
			"all hands", "company event", "staff party", "employee event",
		},
	},
	{
		rate: model.RateZero,
		keywords: []string{
			"soho house", "soho ludlow", "soho works", "soho home",
			"club", "theater", "cinema", "entertainment",
			"golf", "sport", "venue", "lounge", "bar", "pub",
			"membership", "dues", "subscription",
		},
	},
	{
		rate: model.RateHalf,
		keywords: []string{
			"restaurant", "cafe", "coffee", "deli", "bistro", "kitchen",
			"uber eats", "doordash", "grubhub", "seamless", "caviar",
			"food", "catering", "pizzeria", "sushi", "thai", "chinese",
			"mexican", "burger", "steak", "seafood", "bakery",
			"starbucks", "dunkin", "mcdonald", "chipotle", "sweetgreen",
			"juice", "sandwich", "bagel", "diner",
		},
	},
}

// Matcher tests vendor and description text against the keyword tables.
// It is a pure function of its inputs; safe for concurrent use.
type Matcher struct{}

// NewMatcher creates a keyword matcher.
func NewMatcher() *Matcher {
	return &Matcher{}
}

// Match returns the deduction rate implied by the first keyword table with a
// substring hit, or ok=false when no table matches and the caller must fall
// through to the oracle.
func (m *Matcher) Match(vendor, description string) (model.Rate, bool) {
	text := Normalize(vendor + " " + description)
	if text == "" {
		return 0, false
	}

	for _, set := range keywordSets {
		for _, kw := range set.keywords {
			if strings.Contains(text, kw) {
				return set.rate, true
			}
		}
	}

	return 0, false
}

// Normalize lowercases the text, drops PayPal artifacts, strips punctuation
// and collapses whitespace so keyword containment behaves predictably.
func Normalize(text string) string {
	text = strings.ToLower(text)
	// PayPal entries arrive as "PAYPAL *VENDOR"; the marker and the
	// processor name both hide the real vendor.
	text = strings.ReplaceAll(text, "*", " ")
	text = strings.ReplaceAll(text, "paypal", "")

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}
