// Package trips exposes the trip-planning HTTP API.
package trips

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/evtrip/planner/core/logger"
	"github.com/evtrip/planner/core/model"
	"github.com/evtrip/planner/core/plan"
	"github.com/evtrip/planner/core/session"
	"github.com/evtrip/planner/infra/store"
	"github.com/evtrip/planner/infra/traffic"
)

// PlanRequest is the POST /api/trips/plan payload.
type PlanRequest struct {
	UserID        int64          `json:"user_id,omitempty"`
	Start         string         `json:"start"`
	End           string         `json:"end"`
	Vehicle       string         `json:"vehicle,omitempty"` // preset name
	CustomVehicle *model.Vehicle `json:"custom_vehicle,omitempty"`
	DriveMode     string         `json:"drive_mode,omitempty"`
	SoCStart      float64        `json:"soc_start"`
	HVACOn        bool           `json:"hvac_on"`
	ReserveFrac   float64        `json:"reserve_frac"`
	Save          bool           `json:"save,omitempty"` // append to trip history
}

// PlanResponse wraps the computed plan with derived battery figures.
type PlanResponse struct {
	Plan           model.TripPlan `json:"plan"`
	BatteryUsedPct float64        `json:"battery_used_pct"`
	SoCEnd         float64        `json:"soc_end"`
	NeedsCharging  bool           `json:"needs_charging"`
	TrafficStatus  string         `json:"traffic_status,omitempty"`
}

// ChargeRequest is the POST /api/trips/charge payload.
type ChargeRequest struct {
	UserID      int64   `json:"user_id"`
	StationName string  `json:"station_name"`
	KWhCharged  float64 `json:"kwh_charged"`
	Minutes     int     `json:"minutes"`
}

// Handler serves the planning endpoints.
type Handler struct {
	planner  *plan.Planner
	sessions session.Store
	trips    *store.SQLiteStore // optional, history disabled when nil
	log      logger.Logger
}

// NewHandler creates the trips API handler. The trip store may be nil.
func NewHandler(p *plan.Planner, sessions session.Store, trips *store.SQLiteStore, log logger.Logger) *Handler {
	return &Handler{planner: p, sessions: sessions, trips: trips, log: log}
}

// Register attaches the endpoints to the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/trips/plan", h.handlePlan)
	mux.HandleFunc("/api/trips/history", h.handleHistory)
	mux.HandleFunc("/api/trips/stats", h.handleStats)
	mux.HandleFunc("/api/trips/charge", h.handleCharge)
	mux.HandleFunc("/api/vehicles", h.handleVehicles)
}

func (h *Handler) handlePlan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req PlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Start == "" || req.End == "" {
		http.Error(w, "start and end are required", http.StatusBadRequest)
		return
	}

	vehicle, err := resolveVehicle(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tripReq := model.TripRequest{
		Start:       req.Start,
		End:         req.End,
		Vehicle:     vehicle,
		DriveMode:   model.DriveMode(req.DriveMode),
		SoCStart:    req.SoCStart,
		HVACOn:      req.HVACOn,
		ReserveFrac: req.ReserveFrac,
	}
	tp, err := h.planner.Plan(r.Context(), tripReq)
	if err != nil {
		h.log.Errorf("plan: %v", err)
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	if h.sessions != nil && req.UserID != 0 {
		h.sessions.SetPlan(strconv.FormatInt(req.UserID, 10), tp)
	}
	if req.Save && h.trips != nil && req.UserID != 0 {
		rec := store.TripRecord{
			UserID:        req.UserID,
			StartLocation: req.Start,
			EndLocation:   req.End,
			DistanceKm:    tp.Route.DistanceKm,
			EnergyKWh:     tp.Estimate.AdjustedKWh,
			DurationMin:   int(tp.Route.DurationH * 60),
			DriveMode:     req.DriveMode,
			SoCStart:      req.SoCStart,
			SoCEnd:        tp.SoCEnd(),
		}
		if _, err := h.trips.SaveTrip(r.Context(), rec); err != nil {
			h.log.Errorf("save trip: %v", err)
		}
	}

	resp := PlanResponse{
		Plan:           tp,
		BatteryUsedPct: tp.BatteryUsedPct(),
		SoCEnd:         tp.SoCEnd(),
		NeedsCharging:  tp.NeedsCharging(),
	}
	if tp.CongestionFactor != nil {
		resp.TrafficStatus = traffic.Status(*tp.CongestionFactor)
	}
	writeJSON(w, resp)
}

func (h *Handler) handleCharge(w http.ResponseWriter, r *http.Request) {
	if h.trips == nil {
		http.Error(w, "history disabled", http.StatusNotFound)
		return
	}
	switch r.Method {
	case http.MethodPost:
		h.logCharge(w, r)
	case http.MethodGet:
		h.listCharges(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) logCharge(w http.ResponseWriter, r *http.Request) {
	var req ChargeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.UserID == 0 {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}
	if req.KWhCharged <= 0 {
		http.Error(w, "kwh_charged must be positive", http.StatusBadRequest)
		return
	}
	if err := h.trips.SaveCharge(r.Context(), req.UserID, req.StationName, req.KWhCharged, req.Minutes); err != nil {
		h.log.Errorf("save charge: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) listCharges(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 64)
	if err != nil {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	recs, err := h.trips.UserCharges(r.Context(), userID, limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if recs == nil {
		recs = []store.ChargeRecord{}
	}
	writeJSON(w, recs)
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.trips == nil {
		http.Error(w, "history disabled", http.StatusNotFound)
		return
	}
	userID, err := strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 64)
	if err != nil {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	recs, err := h.trips.UserTrips(r.Context(), userID, limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if recs == nil {
		recs = []store.TripRecord{}
	}
	writeJSON(w, recs)
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.trips == nil {
		http.Error(w, "history disabled", http.StatusNotFound)
		return
	}
	userID, err := strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 64)
	if err != nil {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}
	stats, err := h.trips.Stats(r.Context(), userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, stats)
}

func (h *Handler) handleVehicles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, model.Presets())
}

func resolveVehicle(req PlanRequest) (model.Vehicle, error) {
	if req.CustomVehicle != nil {
		return *req.CustomVehicle, nil
	}
	if req.Vehicle == "" {
		return model.Vehicle{}, errors.New("vehicle or custom_vehicle is required")
	}
	v, ok := model.PresetByName(req.Vehicle)
	if !ok {
		return model.Vehicle{}, errors.New("unknown vehicle preset: " + req.Vehicle)
	}
	return v, nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
