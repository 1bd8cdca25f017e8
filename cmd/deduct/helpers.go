package main

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/MelanieRosenberg/Town/internal/config"
	"github.com/MelanieRosenberg/Town/internal/store"
)

// companyContext is what every subcommand needs: the global config, the
// company's ledger rules, and the store over its directory tree.
type companyContext struct {
	cfg     *config.Config
	company config.Company
	store   *store.Store
}

func loadCompanyContext(companyID string) (*companyContext, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}

	company, err := cfg.Company(companyID)
	if err != nil {
		return nil, err
	}

	paths := store.NewPaths(cfg.DataDir, companyID)
	if err := paths.EnsureDirs(); err != nil {
		return nil, fmt.Errorf("failed to prepare data directories: %w", err)
	}

	return &companyContext{
		cfg:     cfg,
		company: company,
		store:   store.New(paths),
	}, nil
}
