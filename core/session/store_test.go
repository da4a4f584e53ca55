package session

import (
	"sync"
	"testing"

	"github.com/evtrip/planner/core/model"
)

func TestMemoryStore_PlanSurvivesRefresh(t *testing.T) {
	s := NewMemoryStore()
	s.SetPlan("u1", model.TripPlan{ID: "p1"})
	sess, ok := s.Get("u1")
	if !ok || sess.Plan == nil || sess.Plan.ID != "p1" {
		t.Fatalf("plan not memoized: %+v %v", sess, ok)
	}
	// SoC updates must not drop the plan.
	s.SetSoC("u1", 0.55)
	sess, _ = s.Get("u1")
	if sess.Plan == nil || sess.SoC != 0.55 {
		t.Fatalf("session lost state: %+v", sess)
	}
}

func TestMemoryStore_SoCClamped(t *testing.T) {
	s := NewMemoryStore()
	s.SetSoC("u1", 1.4)
	if sess, _ := s.Get("u1"); sess.SoC != 1 {
		t.Fatalf("soc above 1 should clamp: %v", sess.SoC)
	}
	s.SetSoC("u1", -2)
	if sess, _ := s.Get("u1"); sess.SoC != 0 {
		t.Fatalf("negative soc should clamp: %v", sess.SoC)
	}
}

func TestMemoryStore_Clear(t *testing.T) {
	s := NewMemoryStore()
	s.SetPlan("u1", model.TripPlan{ID: "p1"})
	s.Clear("u1")
	if _, ok := s.Get("u1"); ok {
		t.Fatalf("session should be gone")
	}
}

func TestMemoryStore_Concurrent(t *testing.T) {
	s := NewMemoryStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			s.SetSoC("u1", float64(n)/100)
			s.Get("u1")
		}(i)
	}
	wg.Wait()
}
