package trips

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/evtrip/planner/core/model"
	"github.com/evtrip/planner/core/plan"
	"github.com/evtrip/planner/core/session"
	"github.com/evtrip/planner/infra/logger"
	"github.com/evtrip/planner/infra/store"
)

type stubGeocoder struct{}

func (stubGeocoder) Geocode(context.Context, string) (model.Coordinates, error) {
	return model.Coordinates{Lat: 12.97, Lon: 77.59}, nil
}

type stubRouter struct{}

func (stubRouter) Route(context.Context, model.Coordinates, model.Coordinates) (model.Route, error) {
	return model.Route{DistanceKm: 143, DurationH: 2.5}, nil
}

func newTestHandler(t *testing.T) (*Handler, *store.SQLiteStore) {
	t.Helper()
	p, err := plan.New(stubGeocoder{}, stubRouter{}, nil, nil, nil, nil, nil, nil, logger.NopLogger{})
	if err != nil {
		t.Fatalf("planner: %v", err)
	}
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return NewHandler(p, session.NewMemoryStore(), s, logger.NopLogger{}), s
}

func TestHandlePlan(t *testing.T) {
	h, _ := newTestHandler(t)
	mux := http.NewServeMux()
	h.Register(mux)

	body := `{"start":"Bangalore","end":"Mysore","vehicle":"MG ZS EV","drive_mode":"normal","soc_start":0.8,"hvac_on":true,"reserve_frac":0.1}`
	req := httptest.NewRequest(http.MethodPost, "/api/trips/plan", strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	var resp PlanResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Plan.ID == "" || resp.Plan.Route.DistanceKm != 143 {
		t.Fatalf("unexpected plan: %+v", resp.Plan)
	}
	if resp.Plan.Estimate.AdjustedKWh <= 0 {
		t.Fatalf("missing estimate")
	}
	if resp.SoCEnd >= 0.8 {
		t.Fatalf("soc should decrease: %v", resp.SoCEnd)
	}
}

type stubTraffic struct{ c float64 }

func (s stubTraffic) Congestion(context.Context, model.Coordinates, model.Coordinates) (float64, error) {
	return s.c, nil
}

func TestHandlePlan_TrafficStatus(t *testing.T) {
	p, err := plan.New(stubGeocoder{}, stubRouter{}, nil, nil, nil, stubTraffic{c: 0.5}, nil, nil, logger.NopLogger{})
	if err != nil {
		t.Fatalf("planner: %v", err)
	}
	h := NewHandler(p, session.NewMemoryStore(), nil, logger.NopLogger{})
	mux := http.NewServeMux()
	h.Register(mux)

	body := `{"start":"Bangalore","end":"Mysore","vehicle":"MG ZS EV","soc_start":0.8}`
	req := httptest.NewRequest(http.MethodPost, "/api/trips/plan", strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	var resp PlanResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.TrafficStatus != "heavy traffic" {
		t.Fatalf("expected heavy traffic, got %q", resp.TrafficStatus)
	}
	if resp.Plan.CongestionFactor == nil || *resp.Plan.CongestionFactor != 0.5 {
		t.Fatalf("congestion reading missing: %v", resp.Plan.CongestionFactor)
	}
}

func TestHandlePlan_Validation(t *testing.T) {
	h, _ := newTestHandler(t)
	mux := http.NewServeMux()
	h.Register(mux)

	cases := []struct {
		name string
		body string
	}{
		{"missing locations", `{"vehicle":"MG ZS EV"}`},
		{"unknown vehicle", `{"start":"a","end":"b","vehicle":"DeLorean"}`},
		{"no vehicle", `{"start":"a","end":"b"}`},
		{"bad json", `{`},
	}
	for _, c := range cases {
		req := httptest.NewRequest(http.MethodPost, "/api/trips/plan", strings.NewReader(c.body))
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400 got %d", c.name, rec.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/trips/plan", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 got %d", rec.Code)
	}
}

func TestHandlePlan_SaveAndHistory(t *testing.T) {
	h, s := newTestHandler(t)
	mux := http.NewServeMux()
	h.Register(mux)

	u, err := s.CreateUser(context.Background(), "alice", "a@example.com", "longenough", "")
	if err != nil {
		t.Fatalf("user: %v", err)
	}

	body := `{"user_id":` + jsonID(u.ID) + `,"start":"Bangalore","end":"Mysore","vehicle":"MG ZS EV","soc_start":0.9,"save":true}`
	req := httptest.NewRequest(http.MethodPost, "/api/trips/plan", strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("plan: %d %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/trips/history?user_id="+jsonID(u.ID), nil)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("history: %d", rec.Code)
	}
	var recs []store.TripRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &recs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(recs) != 1 || recs[0].DistanceKm != 143 {
		t.Fatalf("trip not saved: %+v", recs)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/trips/stats?user_id="+jsonID(u.ID), nil)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("stats: %d", rec.Code)
	}
	var st store.TripStats
	if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if st.TotalTrips != 1 {
		t.Fatalf("unexpected stats: %+v", st)
	}
}

func TestHandleCharge_SaveAndList(t *testing.T) {
	h, s := newTestHandler(t)
	mux := http.NewServeMux()
	h.Register(mux)

	u, err := s.CreateUser(context.Background(), "bob", "b@example.com", "longenough", "")
	if err != nil {
		t.Fatalf("user: %v", err)
	}

	body := `{"user_id":` + jsonID(u.ID) + `,"station_name":"Mysore Hwy Fast Charger","kwh_charged":18.5,"minutes":35}`
	req := httptest.NewRequest(http.MethodPost, "/api/trips/charge", strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("charge: %d %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/trips/charge?user_id="+jsonID(u.ID), nil)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("list charges: %d", rec.Code)
	}
	var recs []store.ChargeRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &recs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(recs) != 1 || recs[0].KWhCharged != 18.5 || recs[0].StationName != "Mysore Hwy Fast Charger" {
		t.Fatalf("charge not saved: %+v", recs)
	}
}

func TestHandleCharge_Validation(t *testing.T) {
	h, _ := newTestHandler(t)
	mux := http.NewServeMux()
	h.Register(mux)

	cases := []struct {
		name string
		body string
	}{
		{"missing user", `{"kwh_charged":10}`},
		{"non-positive kwh", `{"user_id":1,"kwh_charged":0}`},
		{"bad json", `{`},
	}
	for _, c := range cases {
		req := httptest.NewRequest(http.MethodPost, "/api/trips/charge", strings.NewReader(c.body))
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400 got %d", c.name, rec.Code)
		}
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/trips/charge", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 got %d", rec.Code)
	}
}

func TestHandleHistory_RequiresUser(t *testing.T) {
	h, _ := newTestHandler(t)
	mux := http.NewServeMux()
	h.Register(mux)

	req := httptest.NewRequest(http.MethodGet, "/api/trips/history", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestHandleVehicles(t *testing.T) {
	h, _ := newTestHandler(t)
	mux := http.NewServeMux()
	h.Register(mux)

	req := httptest.NewRequest(http.MethodGet, "/api/vehicles", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var presets []model.Vehicle
	if err := json.Unmarshal(rec.Body.Bytes(), &presets); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(presets) == 0 {
		t.Fatalf("no presets returned")
	}
}

func jsonID(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
