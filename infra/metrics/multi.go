package metrics

import coremetrics "github.com/clubops/planner/core/metrics"

// MultiSink fans records out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordCommit forwards the record to all sinks, returning the first error
// encountered.
func (m *MultiSink) RecordCommit(rec coremetrics.CommitRecord) error {
	for _, s := range m.Sinks {
		if err := s.RecordCommit(rec); err != nil {
			return err
		}
	}
	return nil
}

// RecordConflict forwards the record to sinks that support it.
func (m *MultiSink) RecordConflict(rec coremetrics.ConflictRecord) error {
	for _, s := range m.Sinks {
		if cr, ok := s.(coremetrics.ConflictRecorder); ok {
			if err := cr.RecordConflict(rec); err != nil {
				return err
			}
		}
	}
	return nil
}
