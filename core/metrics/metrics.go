// Package metrics defines the sink interface used to record planning activity.
package metrics

import "time"

// PlanEvent summarises one computed trip plan.
type PlanEvent struct {
	PlanID        string
	Vehicle       string
	DriveMode     string
	DistanceKm    float64
	BaseKWh       float64
	AdjustedKWh   float64
	Multiplier    float64
	FactorCount   int
	NeedsCharging bool
	Time          time.Time
}

// SourceErrorEvent records a degraded external source.
type SourceErrorEvent struct {
	Source string
	Time   time.Time
}

// Sink records planning events.
type Sink interface {
	RecordPlan(PlanEvent) error
}

// SourceErrorRecorder is implemented by sinks that track source degradation.
type SourceErrorRecorder interface {
	RecordSourceError(SourceErrorEvent) error
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) RecordPlan(PlanEvent) error { return nil }
