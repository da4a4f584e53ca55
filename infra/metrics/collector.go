package metrics

import (
	"time"

	"github.com/evtrip/planner/core/metrics"
	"github.com/evtrip/planner/core/plan"
	"github.com/evtrip/planner/internal/eventbus"
)

// StartEventCollector subscribes to the event bus and records computed plans
// and source degradations on the sink. It stops when the bus is closed.
func StartEventCollector(bus eventbus.EventBus, sink metrics.Sink) {
	if bus == nil || sink == nil {
		return
	}
	sub := bus.Subscribe()
	go func() {
		for ev := range sub {
			switch e := ev.(type) {
			case plan.PlanComputed:
				p := e.Plan
				_ = sink.RecordPlan(metrics.PlanEvent{
					PlanID:        p.ID,
					Vehicle:       p.Request.Vehicle.Name,
					DriveMode:     string(p.Request.DriveMode),
					DistanceKm:    p.Route.DistanceKm,
					BaseKWh:       p.Estimate.BaseKWh,
					AdjustedKWh:   p.Estimate.AdjustedKWh,
					Multiplier:    p.Estimate.TotalMultiplier,
					FactorCount:   len(p.Estimate.Factors),
					NeedsCharging: p.NeedsCharging(),
					Time:          p.CreatedAt,
				})
			case plan.SourceDegraded:
				if rec, ok := sink.(metrics.SourceErrorRecorder); ok {
					_ = rec.RecordSourceError(metrics.SourceErrorEvent{
						Source: e.Source,
						Time:   time.Now().UTC(),
					})
				}
			}
		}
	}()
}
