// Package bootstrap wires configuration into the client stores shared by the
// terminal client and the view server.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/finmate/internal/client/api"
	"github.com/dmitrijs2005/finmate/internal/client/articles"
	"github.com/dmitrijs2005/finmate/internal/client/catalog"
	"github.com/dmitrijs2005/finmate/internal/client/config"
	"github.com/dmitrijs2005/finmate/internal/client/metrics"
	"github.com/dmitrijs2005/finmate/internal/client/notify"
	"github.com/dmitrijs2005/finmate/internal/client/router"
	"github.com/dmitrijs2005/finmate/internal/client/session"
	"github.com/dmitrijs2005/finmate/internal/client/storage"
	"github.com/dmitrijs2005/finmate/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
)

// Stack is the set of collaborators a front end runs on.
type Stack struct {
	Session  *session.Session
	Catalog  *catalog.Store
	Articles *articles.Store
	Router   *router.Router
	Registry *prometheus.Registry
	Metrics  *metrics.Collector

	db *sql.DB
}

// Build opens the session storage, restores the persisted session and
// constructs the stores. An empty StoragePath keeps the session in memory.
func Build(ctx context.Context, cfg *config.Config, n notify.Notifier, log logging.Logger) (*Stack, error) {
	st := &Stack{Registry: prometheus.NewRegistry()}
	st.Metrics = metrics.NewCollector(st.Registry)

	var repo storage.Repository
	if cfg.StoragePath == "" {
		repo = storage.NewMemoryRepository()
	} else {
		db, err := storage.Open(ctx, cfg.StoragePath)
		if err != nil {
			return nil, fmt.Errorf("open storage: %w", err)
		}
		st.db = db
		repo = storage.NewSQLiteRepository(db)
	}

	opts := []api.Option{api.WithObserver(st.Metrics)}
	if cfg.RequestTimeout > 0 {
		opts = append(opts, api.WithTimeout(cfg.RequestTimeout))
	}
	client, err := api.NewHTTPClient(cfg.BaseURL, opts...)
	if err != nil {
		st.Close()
		return nil, err
	}

	st.Session = session.New(session.Deps{
		Client:   client,
		Repo:     repo,
		Notifier: n,
		Logger:   log,
	})
	st.Router = router.New(st.Session, n, router.WithObserver(st.Metrics), router.WithLogger(log))
	st.Session.SetNavigator(st.Router)
	st.Catalog = catalog.New(client, st.Session, n, log)
	st.Articles = articles.New(client, st.Session, n, log)

	if err := st.Session.Hydrate(ctx); err != nil {
		st.Close()
		return nil, fmt.Errorf("restore session: %w", err)
	}
	return st, nil
}

// Close releases the storage.
func (s *Stack) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
