package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/gradlift/scholar-cli/internal/engine"
	"github.com/gradlift/scholar-cli/internal/registry"
	"github.com/gradlift/scholar-cli/internal/store"
)

// initStore opens the configured store backend.
func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite", "":
		st, err := store.NewSQLite(cfg.Store.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return st, nil
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, &store.PoolConfig{
			MaxConns: cfg.Store.MaxConns,
			MinConns: cfg.Store.MinConns,
		})
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// initEngine loads the registries and wires the engine around an open store.
func initEngine(ctx context.Context) (*engine.Engine, store.Store, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, nil, eris.Wrap(err, "migrate store")
	}

	catalog, err := registry.LoadCatalog(cfg.Registry.CatalogPath)
	if err != nil {
		st.Close()
		return nil, nil, err
	}
	profiles, err := registry.LoadProfiles(cfg.Registry.ProfilesPath)
	if err != nil {
		st.Close()
		return nil, nil, err
	}

	eng := engine.New(profiles, catalog, st, cfg.Match, cfg.Lifecycle)
	return eng, st, nil
}
