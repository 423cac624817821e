package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/garygao333/chert-number-search/internal/provider"
	"github.com/garygao333/chert-number-search/internal/store"
	"github.com/garygao333/chert-number-search/pkg/aviato"
	"github.com/garygao333/chert-number-search/pkg/forager"
)

func initForager() (*provider.Forager, error) {
	if cfg.Forager.APIKey == "" {
		return nil, eris.New("forager API key is required (CHERT_FORAGER_API_KEY)")
	}
	if cfg.Forager.AccountID == "" {
		return nil, eris.New("forager account ID is required (CHERT_FORAGER_ACCOUNT_ID)")
	}

	opts := []forager.Option{
		forager.WithTimeout(time.Duration(cfg.Forager.TimeoutSecs) * time.Second),
		forager.WithRateLimit(cfg.Forager.RateLimit, 1),
	}
	if cfg.Forager.BaseURL != "" {
		opts = append(opts, forager.WithBaseURL(cfg.Forager.BaseURL))
	}

	return provider.NewForager(forager.NewClient(cfg.Forager.APIKey, cfg.Forager.AccountID, opts...)), nil
}

func initAviato() (*provider.Aviato, error) {
	if cfg.Aviato.APIKey == "" {
		return nil, eris.New("aviato API key is required (CHERT_AVIATO_API_KEY)")
	}

	opts := []aviato.Option{
		aviato.WithTimeout(time.Duration(cfg.Aviato.TimeoutSecs) * time.Second),
		aviato.WithRateLimit(cfg.Aviato.RateLimit, 1),
	}
	if cfg.Aviato.BaseURL != "" {
		opts = append(opts, aviato.WithBaseURL(cfg.Aviato.BaseURL))
	}

	return provider.NewAviato(aviato.NewClient(cfg.Aviato.APIKey, opts...)), nil
}

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "chert.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}
