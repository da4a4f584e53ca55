package metrics

import (
	"errors"
	"testing"
	"time"

	coremetrics "github.com/evtrip/planner/core/metrics"
	"github.com/evtrip/planner/core/model"
	"github.com/evtrip/planner/core/plan"
	"github.com/evtrip/planner/internal/eventbus"
)

type recordingSink struct {
	plans []coremetrics.PlanEvent
	errs  []coremetrics.SourceErrorEvent
	fail  error
}

func (r *recordingSink) RecordPlan(ev coremetrics.PlanEvent) error {
	if r.fail != nil {
		return r.fail
	}
	r.plans = append(r.plans, ev)
	return nil
}

func (r *recordingSink) RecordSourceError(ev coremetrics.SourceErrorEvent) error {
	r.errs = append(r.errs, ev)
	return nil
}

func TestMultiSink_FanOut(t *testing.T) {
	a, b := &recordingSink{}, &recordingSink{}
	m := NewMultiSink(a, b)
	if err := m.RecordPlan(coremetrics.PlanEvent{PlanID: "p1"}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if len(a.plans) != 1 || len(b.plans) != 1 {
		t.Fatalf("fan-out failed: %d %d", len(a.plans), len(b.plans))
	}
	if err := m.RecordSourceError(coremetrics.SourceErrorEvent{Source: "traffic"}); err != nil {
		t.Fatalf("source error: %v", err)
	}
	if len(a.errs) != 1 || len(b.errs) != 1 {
		t.Fatalf("source-error fan-out failed")
	}
}

func TestMultiSink_FirstError(t *testing.T) {
	boom := errors.New("sink down")
	a, b := &recordingSink{fail: boom}, &recordingSink{}
	m := NewMultiSink(a, b)
	if err := m.RecordPlan(coremetrics.PlanEvent{}); !errors.Is(err, boom) {
		t.Fatalf("expected sink error, got %v", err)
	}
}

type chanSink struct {
	ch     chan coremetrics.PlanEvent
	srcErr chan coremetrics.SourceErrorEvent
}

func (c chanSink) RecordPlan(ev coremetrics.PlanEvent) error {
	c.ch <- ev
	return nil
}

func (c chanSink) RecordSourceError(ev coremetrics.SourceErrorEvent) error {
	c.srcErr <- ev
	return nil
}

func TestStartEventCollector(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()
	sink := chanSink{ch: make(chan coremetrics.PlanEvent, 1), srcErr: make(chan coremetrics.SourceErrorEvent, 1)}
	StartEventCollector(bus, sink)

	tp := model.TripPlan{
		ID:      "p1",
		Request: model.TripRequest{Vehicle: model.Vehicle{Name: "test", UsableKWh: 40, MassKg: 1600, BaseWhPerKm: 160}},
	}
	bus.Publish("unrelated")
	bus.Publish(plan.PlanComputed{Plan: tp})

	select {
	case ev := <-sink.ch:
		if ev.PlanID != "p1" {
			t.Fatalf("unexpected event %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatalf("plan event not collected")
	}
}

func TestStartEventCollector_SourceDegradations(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()
	sink := chanSink{ch: make(chan coremetrics.PlanEvent, 1), srcErr: make(chan coremetrics.SourceErrorEvent, 1)}
	StartEventCollector(bus, sink)

	bus.Publish(plan.SourceDegraded{Source: "weather", Err: errors.New("timeout")})

	select {
	case ev := <-sink.srcErr:
		if ev.Source != "weather" {
			t.Fatalf("unexpected source %q", ev.Source)
		}
		if ev.Time.IsZero() {
			t.Fatalf("event not timestamped")
		}
	case <-time.After(time.Second):
		t.Fatalf("source degradation not collected")
	}
}
