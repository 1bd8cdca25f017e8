package config

import (
	"bytes"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MelanieRosenberg/Town/internal/common"
)

const testYAML = `
data_dir: /tmp/deduct-data
oracle:
  api_key: test-key
  model: gpt-4
  rate_limit: 60
companies:
  A:
    primary_city: New York
    skip_rows: 3
    eval_set: true
    column_names: ["Date", "Transaction Type", "Num", "Name", "Memo/Description", "Split", "Amount"]
    filter:
      column: Split
      values: ["Meals", "Entertainment"]
`

func loadTestConfig(t *testing.T, yaml string) *Config {
	t.Helper()

	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(bytes.NewBufferString(yaml)))

	cfg, err := Load(v)
	require.NoError(t, err)
	return cfg
}

func TestLoad(t *testing.T) {
	cfg := loadTestConfig(t, testYAML)

	assert.Equal(t, "/tmp/deduct-data", cfg.DataDir)
	assert.Equal(t, "test-key", cfg.Oracle.APIKey)
	assert.Equal(t, "gpt-4", cfg.Oracle.Model)
	assert.Equal(t, 60, cfg.Oracle.RateLimit)

	company, err := cfg.Company("A")
	require.NoError(t, err)
	assert.Equal(t, "New York", company.PrimaryCity)
	assert.Equal(t, 3, company.SkipRows)
	assert.True(t, company.EvalSet)
	assert.Equal(t, "Split", company.Filter.Column)
	assert.Len(t, company.ColumnNames, 7)
}

func TestLoad_Defaults(t *testing.T) {
	cfg := loadTestConfig(t, "oracle:\n  api_key: k\n")

	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, "data/audit.db", cfg.AuditDB)
	assert.Equal(t, "gpt-3.5-turbo", cfg.Oracle.Model)
	assert.Equal(t, 30*time.Second, cfg.Oracle.Timeout)
}

func TestCompany_Unknown(t *testing.T) {
	cfg := loadTestConfig(t, testYAML)

	_, err := cfg.Company("Z")
	assert.ErrorIs(t, err, common.ErrUnknownCompany)
}
