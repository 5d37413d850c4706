package events

import "time"

// DraftCommitted is published after a draft's three-stage commit pipeline
// has been flushed to the store.
type DraftCommitted struct {
	Tenant    string
	EventID   string
	Legs      int
	AutoItems int
	Backlinks int
	Duration  time.Duration
}

// ConflictDetected is published when a commit is rejected because a
// resource in the draft is unavailable.
type ConflictDetected struct {
	Tenant     string
	EventID    string
	ResourceID string
	Reason     string
}

// BudgetRecomputed is published after a standalone budget derivation run.
type BudgetRecomputed struct {
	Tenant    string
	EventID   string
	AutoItems int
}

// BacklinksSynced is published after a full backlink rebuild.
type BacklinksSynced struct {
	Tenant  string
	Changed int
}
