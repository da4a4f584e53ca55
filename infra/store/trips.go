package store

import (
	"context"
	"fmt"
	"time"

	"gonum.org/v1/gonum/stat"
)

// TripRecord is one completed plan saved to history.
type TripRecord struct {
	ID            int64     `json:"trip_id"`
	UserID        int64     `json:"user_id"`
	StartLocation string    `json:"start_location"`
	EndLocation   string    `json:"end_location"`
	DistanceKm    float64   `json:"distance_km"`
	EnergyKWh     float64   `json:"energy_kwh"`
	DurationMin   int       `json:"duration_minutes"`
	DriveMode     string    `json:"drive_mode"`
	SoCStart      float64   `json:"soc_start"`
	SoCEnd        float64   `json:"soc_end"`
	CreatedAt     time.Time `json:"created_at"`
}

// TripStats aggregates a user's history.
type TripStats struct {
	TotalTrips      int     `json:"total_trips"`
	TotalDistanceKm float64 `json:"total_distance_km"`
	TotalEnergyKWh  float64 `json:"total_energy_kwh"`
	MeanKWhPerKm    float64 `json:"mean_kwh_per_km"`
	StdDevKWhPerKm  float64 `json:"stddev_kwh_per_km"`
}

// SaveTrip appends a trip to the user's history and returns its id.
func (s *SQLiteStore) SaveTrip(ctx context.Context, rec TripRecord) (int64, error) {
	if rec.UserID == 0 {
		return 0, fmt.Errorf("user id is required")
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO trip_history (user_id, start_location, end_location, distance_km, energy_kwh, duration_minutes, drive_mode, soc_start, soc_end, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.UserID, rec.StartLocation, rec.EndLocation, rec.DistanceKm, rec.EnergyKWh,
		rec.DurationMin, rec.DriveMode, rec.SoCStart, rec.SoCEnd, rec.CreatedAt.Unix())
	if err != nil {
		return 0, fmt.Errorf("save trip: %w", err)
	}
	return res.LastInsertId()
}

// UserTrips returns the user's most recent trips, newest first.
func (s *SQLiteStore) UserTrips(ctx context.Context, userID int64, limit int) ([]TripRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT trip_id, user_id, start_location, end_location, distance_km, energy_kwh, duration_minutes, drive_mode, soc_start, soc_end, created_at
		 FROM trip_history WHERE user_id = ? ORDER BY created_at DESC, trip_id DESC LIMIT ?`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query trips: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []TripRecord
	for rows.Next() {
		var (
			r  TripRecord
			ts int64
		)
		if err := rows.Scan(&r.ID, &r.UserID, &r.StartLocation, &r.EndLocation, &r.DistanceKm, &r.EnergyKWh, &r.DurationMin, &r.DriveMode, &r.SoCStart, &r.SoCEnd, &ts); err != nil {
			return nil, err
		}
		r.CreatedAt = time.Unix(ts, 0).UTC()
		out = append(out, r)
	}
	return out, rows.Err()
}

// Stats computes per-user aggregates. Per-km consumption moments are derived
// in Go rather than SQL so trips with zero distance can be excluded cleanly.
func (s *SQLiteStore) Stats(ctx context.Context, userID int64) (TripStats, error) {
	trips, err := s.UserTrips(ctx, userID, 10000)
	if err != nil {
		return TripStats{}, err
	}
	st := TripStats{TotalTrips: len(trips)}
	var perKm []float64
	for _, tr := range trips {
		st.TotalDistanceKm += tr.DistanceKm
		st.TotalEnergyKWh += tr.EnergyKWh
		if tr.DistanceKm > 0 {
			perKm = append(perKm, tr.EnergyKWh/tr.DistanceKm)
		}
	}
	if len(perKm) > 0 {
		st.MeanKWhPerKm = stat.Mean(perKm, nil)
	}
	if len(perKm) > 1 {
		st.StdDevKWhPerKm = stat.StdDev(perKm, nil)
	}
	return st, nil
}

// ChargeRecord is one logged charging session.
type ChargeRecord struct {
	ID          int64     `json:"charge_id"`
	UserID      int64     `json:"user_id"`
	StationName string    `json:"station_name"`
	KWhCharged  float64   `json:"kwh_charged"`
	Minutes     int       `json:"minutes"`
	CreatedAt   time.Time `json:"created_at"`
}

// SaveCharge appends a charging session to history.
func (s *SQLiteStore) SaveCharge(ctx context.Context, userID int64, station string, kwh float64, minutes int) error {
	if userID == 0 {
		return fmt.Errorf("user id is required")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO charging_history (user_id, station_name, kwh_charged, minutes, created_at) VALUES (?, ?, ?, ?, ?)`,
		userID, station, kwh, minutes, time.Now().Unix())
	return err
}

// UserCharges returns the user's charging sessions, newest first.
func (s *SQLiteStore) UserCharges(ctx context.Context, userID int64, limit int) ([]ChargeRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT charge_id, user_id, station_name, kwh_charged, minutes, created_at
		 FROM charging_history WHERE user_id = ? ORDER BY created_at DESC, charge_id DESC LIMIT ?`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("charging history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []ChargeRecord
	for rows.Next() {
		var cr ChargeRecord
		var created int64
		if err := rows.Scan(&cr.ID, &cr.UserID, &cr.StationName, &cr.KWhCharged, &cr.Minutes, &created); err != nil {
			return nil, err
		}
		cr.CreatedAt = time.Unix(created, 0).UTC()
		out = append(out, cr)
	}
	return out, rows.Err()
}
