package oracle

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MelanieRosenberg/Town/internal/model"
)

func TestParseReply(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantLen int
		wantErr bool
	}{
		{
			name:    "json array",
			content: `[{"vendor_name": "A"}, {"vendor_name": "B"}]`,
			wantLen: 2,
		},
		{
			name:    "fenced json array",
			content: "```json\n[{\"vendor_name\": \"A\"}]\n```",
			wantLen: 1,
		},
		{
			name:    "single object wrapped",
			content: `{"vendor_name": "Solo"}`,
			wantLen: 1,
		},
		{
			name:    "prose is malformed",
			content: "Here are your results: none.",
			wantErr: true,
		},
		{
			name:    "empty reply is malformed",
			content: "   ",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := parseReply(tt.content)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, results, tt.wantLen)
		})
	}
}

func TestNormalizeRate(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantRate model.Rate
		wantOK   bool
	}{
		{"number zero", `0.0`, model.RateZero, true},
		{"number half", `0.5`, model.RateHalf, true},
		{"number full", `1.0`, model.RateFull, true},
		{"percent string", `"50%"`, model.RateHalf, true},
		{"percent string full", `"100%"`, model.RateFull, true},
		{"percent string zero", `"0%"`, model.RateZero, true},
		{"bare number string divided by 100", `"50"`, model.RateHalf, true},
		{"non-canonical number", `0.75`, model.RateZero, false},
		{"non-canonical percent", `"37%"`, model.RateZero, false},
		{"garbage string", `"half"`, model.RateZero, false},
		{"missing", ``, model.RateZero, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rate, ok := normalizeRate(json.RawMessage(tt.raw))
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantRate, rate)
			}
		})
	}
}

func TestBuildPrompt(t *testing.T) {
	units := []model.ClassificationUnit{
		model.VendorUnit{Name: "Blank Street", SampleDescriptions: []string{"coffee"}},
		model.VendorUnit{Name: "Soho House"},
	}

	prompt := BuildPrompt(model.KindVendors, units, "New York")

	assert.Contains(t, prompt, "Blank Street")
	assert.Contains(t, prompt, "Location: New York")
	assert.Contains(t, prompt, "exactly 2 items")
	assert.Contains(t, prompt, "ENTERTAINMENT (0%)")
	assert.Contains(t, prompt, "default to ENTERTAINMENT (0%)")

	expensePrompt := BuildPrompt(model.KindExpenses, []model.ClassificationUnit{
		model.ExpenseUnit{Name: "Cafe", Description: "lunch", Amount: 12.5, Date: "2024-01-02 00:00:00"},
	}, "Chicago")

	assert.Contains(t, expensePrompt, "Expenses:")
	assert.Contains(t, expensePrompt, "amount")
	assert.Contains(t, expensePrompt, "exactly 1 items")
}
