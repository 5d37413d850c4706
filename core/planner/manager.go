// Package planner orchestrates the assignment engine: drafts buffer one
// edit in memory, availability checks annotate candidate choices, and
// Commit runs the registry update, budget derivation and backlink
// synchronization as one unit of work flushed to the store in a single
// batch.
package planner

import (
	"fmt"

	"github.com/clubops/planner/core/logger"
	"github.com/clubops/planner/core/metrics"
	"github.com/clubops/planner/core/store"
	"github.com/clubops/planner/internal/eventbus"
)

// IDGenerator produces opaque unique ids for manually created entities.
// Generated ids must never collide with the deterministic auto- prefixed
// budget item ids.
type IDGenerator interface {
	NewID() string
}

// Manager is the single entry point the presentation layer talks to. It is
// safe to share: every edit runs on its own Draft and commits are
// serialized by the store's atomic Apply.
type Manager struct {
	store   store.Store
	ids     IDGenerator
	logger  logger.Logger
	metrics metrics.Sink
	bus     eventbus.EventBus
}

// NewManager creates a new manager. Store, id generator and logger are
// required; a nil metrics sink discards records and a nil bus disables
// event publication.
func NewManager(st store.Store, ids IDGenerator, log logger.Logger, sink metrics.Sink, bus eventbus.EventBus) (*Manager, error) {
	if st == nil || ids == nil || log == nil {
		return nil, fmt.Errorf("planner: nil parameter provided to NewManager")
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Manager{store: st, ids: ids, logger: log, metrics: sink, bus: bus}, nil
}

// Close releases resources held by the manager.
func (m *Manager) Close() error {
	if m.bus != nil {
		m.bus.Close()
	}
	return m.store.Close()
}

func (m *Manager) publish(e eventbus.Event) {
	if m.bus != nil {
		m.bus.Publish(e)
	}
}
