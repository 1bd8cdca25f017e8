// Package config provides the application configuration, loaded once at
// process start and passed explicitly into each component.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/MelanieRosenberg/Town/internal/common"
)

// Config is the full application configuration.
type Config struct {
	Companies map[string]Company `mapstructure:"companies"`
	DataDir   string             `mapstructure:"data_dir"`
	AuditDB   string             `mapstructure:"audit_db"`
	Logging   Logging            `mapstructure:"logging"`
	Oracle    Oracle             `mapstructure:"oracle"`
}

// Company holds the per-company ledger layout and filter rules.
type Company struct {
	PrimaryCity string   `mapstructure:"primary_city"`
	ColumnNames []string `mapstructure:"column_names"`
	SkipRows    int      `mapstructure:"skip_rows"`
	Filter      Filter   `mapstructure:"filter"`
	EvalSet     bool     `mapstructure:"eval_set"`
}

// Filter is the row-selection predicate applied to the raw ledger.
type Filter struct {
	Column string   `mapstructure:"column"`
	Values []string `mapstructure:"values"`
}

// Logging selects the slog handler.
type Logging struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Oracle configures the external classification service client.
type Oracle struct {
	Provider    string        `mapstructure:"provider"`
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	Temperature float64       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	RateLimit   int           `mapstructure:"rate_limit"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxRetries  int           `mapstructure:"max_retries"`
	RetryDelay  time.Duration `mapstructure:"retry_delay"`
}

// Load unmarshals the configuration out of viper and applies defaults.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidConfig, err)
	}

	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}
	if cfg.AuditDB == "" {
		cfg.AuditDB = "data/audit.db"
	}
	if cfg.Oracle.Model == "" {
		cfg.Oracle.Model = "gpt-3.5-turbo"
	}
	if cfg.Oracle.Timeout <= 0 {
		cfg.Oracle.Timeout = 30 * time.Second
	}

	return &cfg, nil
}

// Company returns the configuration for a company, or ErrUnknownCompany.
func (c *Config) Company(id string) (Company, error) {
	company, ok := c.Companies[id]
	if !ok {
		return Company{}, fmt.Errorf("%w: %q", common.ErrUnknownCompany, id)
	}
	return company, nil
}
