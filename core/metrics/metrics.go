package metrics

import "time"

// CommitRecord captures one committed draft for observability purposes.
type CommitRecord struct {
	Tenant    string
	EventID   string
	Legs      int
	AutoItems int
	Backlinks int
	Duration  time.Duration
	Time      time.Time
}

// ConflictRecord captures a commit rejected by the availability check.
type ConflictRecord struct {
	Tenant     string
	EventID    string
	ResourceID string
	Reason     string
	Time       time.Time
}

// Sink records committed drafts.
type Sink interface {
	RecordCommit(rec CommitRecord) error
}

// ConflictRecorder records rejected commits. Sinks implement it when the
// backend can represent conflicts.
type ConflictRecorder interface {
	RecordConflict(rec ConflictRecord) error
}

// NopSink discards every record.
type NopSink struct{}

// RecordCommit implements Sink.
func (NopSink) RecordCommit(CommitRecord) error { return nil }

// RecordConflict implements ConflictRecorder.
func (NopSink) RecordConflict(ConflictRecord) error { return nil }
