package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/contract-costs/internal/api"
	"github.com/sells-group/contract-costs/internal/attach"
	"github.com/sells-group/contract-costs/internal/auth"
	"github.com/sells-group/contract-costs/internal/classify"
	"github.com/sells-group/contract-costs/internal/dashboard"
	"github.com/sells-group/contract-costs/internal/importer"
	"github.com/sells-group/contract-costs/internal/report"
	"github.com/sells-group/contract-costs/internal/store"
	"github.com/sells-group/contract-costs/internal/webhook"
)

// appEnv holds the store, the report catalog and the domain services used
// by the serve, import and user commands. Catalog and Services.Reports are
// only set for serve.
type appEnv struct {
	Store    *store.PostgresStore
	Catalog  *report.Catalog
	Services api.Services
}

// Close releases resources held by the environment.
func (e *appEnv) Close() {
	if e.Catalog != nil {
		if err := e.Catalog.Close(); err != nil {
			zap.L().Warn("close report catalog", zap.Error(err))
		}
	}
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

// initStore opens the Postgres pool using the store config.
func initStore(ctx context.Context) (*store.PostgresStore, error) {
	st, err := store.NewPostgres(ctx, cfg.Store.DatabaseURL, &store.PoolConfig{
		MaxConns:       cfg.Store.MaxConns,
		MinConns:       cfg.Store.MinConns,
		ConnectRetries: cfg.Store.ConnectRetries,
	})
	if err != nil {
		return nil, eris.Wrap(err, "init store")
	}
	return st, nil
}

// initApp validates the config for mode, connects to the database and
// builds every service. Callers should defer env.Close().
func initApp(ctx context.Context, mode string) (*appEnv, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}
	env := &appEnv{Store: st}

	if mode == "serve" {
		if err := store.Migrate(ctx, st.Pool()); err != nil {
			env.Close()
			return nil, eris.Wrap(err, "migrate store")
		}
	}

	var authSvc *auth.Service
	if cfg.Auth.SecretKey != "" {
		tokens, err := auth.NewTokens(cfg.Auth)
		if err != nil {
			env.Close()
			return nil, err
		}
		authSvc = auth.NewService(st, tokens)
	} else {
		authSvc = auth.NewService(st, nil)
	}

	classifier := classify.NewService(st)
	files := attach.NewService(st, cfg.Server.AttachmentsDir)

	env.Services = api.Services{
		Store:     st,
		Auth:      authSvc,
		Importer:  importer.NewService(st, classifier, files, cfg.Import),
		Classify:  classifier,
		Attach:    files,
		Webhook:   webhook.NewTrigger(st, cfg.Webhook),
		Dashboard: dashboard.NewService(st.Pool(), st, cfg.Dashboard),
	}

	// Only the API serves reports.
	if mode == "serve" {
		if err := os.MkdirAll(filepath.Dir(cfg.Reports.CatalogPath), 0o755); err != nil {
			env.Close()
			return nil, eris.Wrap(err, "create report catalog dir")
		}
		catalog, err := report.OpenCatalog(ctx, cfg.Reports.CatalogPath)
		if err != nil {
			env.Close()
			return nil, eris.Wrap(err, "open report catalog")
		}
		env.Catalog = catalog
		env.Services.Reports = report.NewService(st.Pool(), st, catalog, cfg.Reports)
	}

	zap.L().Debug("application services ready", zap.String("mode", mode))
	return env, nil
}
