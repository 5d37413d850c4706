// Package app wires the configured store, metric sinks and event bus into
// a ready-to-use planner manager.
package app

import (
	"fmt"

	"github.com/clubops/planner/config"
	"github.com/clubops/planner/core/planner"
	corestore "github.com/clubops/planner/core/store"
	"github.com/clubops/planner/infra/logger"
	"github.com/clubops/planner/infra/metrics"
	"github.com/clubops/planner/infra/store"
	"github.com/clubops/planner/internal/eventbus"
	"github.com/clubops/planner/internal/idgen"
)

// Service bundles the planner manager with the infrastructure it runs on.
type Service struct {
	Manager *planner.Manager
	Tenant  string
	Bus     eventbus.EventBus
	log     logger.Logger
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	var st corestore.Store
	switch cfg.Store.Backend {
	case "memory":
		st = store.NewMemoryStore()
	case "sqlite":
		s, err := store.NewSQLiteStore(cfg.Store.Path)
		if err != nil {
			return nil, fmt.Errorf("sqlite store: %w", err)
		}
		st = s
	default:
		return nil, fmt.Errorf("unknown store backend %s", cfg.Store.Backend)
	}

	sink, err := metrics.NewSink(cfg.Metrics)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	if cfg.Metrics.Prometheus {
		_, errCh := metrics.StartPromServer(cfg.Metrics.PrometheusPort)
		go func() {
			for err := range errCh {
				logg.Errorf("prom server: %v", err)
			}
		}()
	}

	bus := eventbus.New()
	manager, err := planner.NewManager(st, idgen.UUID{}, logg, sink, bus)
	if err != nil {
		return nil, fmt.Errorf("planner manager: %w", err)
	}
	return &Service{Manager: manager, Tenant: cfg.Tenant, Bus: bus, log: logg}, nil
}

// Close releases resources held by the service.
func (s *Service) Close() error { return s.Manager.Close() }
