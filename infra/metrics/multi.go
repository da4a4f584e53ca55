package metrics

import coremetrics "github.com/evtrip/planner/core/metrics"

// MultiSink fans planning events out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordPlan forwards the event to all sinks, returning the first error.
func (m *MultiSink) RecordPlan(ev coremetrics.PlanEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordPlan(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordSourceError forwards the event to sinks that track source errors.
func (m *MultiSink) RecordSourceError(ev coremetrics.SourceErrorEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.SourceErrorRecorder); ok {
			if err := rec.RecordSourceError(ev); err != nil {
				return err
			}
		}
	}
	return nil
}
