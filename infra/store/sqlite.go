// Package store persists users and trip history to SQLite.
package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteStore wraps the planner database.
type SQLiteStore struct {
	db *sql.DB
}

// Open opens or creates the database at path and ensures the schema.
// Use ":memory:" for an ephemeral database.
func Open(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		user_id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT UNIQUE NOT NULL,
		email TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		full_name TEXT,
		vehicle_name TEXT,
		drive_mode TEXT DEFAULT 'normal',
		created_at INTEGER,
		last_login INTEGER
	);
	CREATE TABLE IF NOT EXISTS trip_history (
		trip_id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		start_location TEXT,
		end_location TEXT,
		distance_km REAL,
		energy_kwh REAL,
		duration_minutes INTEGER,
		drive_mode TEXT,
		soc_start REAL,
		soc_end REAL,
		created_at INTEGER,
		FOREIGN KEY(user_id) REFERENCES users(user_id)
	);
	CREATE TABLE IF NOT EXISTS charging_history (
		charge_id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		station_name TEXT,
		kwh_charged REAL,
		minutes INTEGER,
		created_at INTEGER,
		FOREIGN KEY(user_id) REFERENCES users(user_id)
	);`
	if _, err := db.Exec(schema); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
		}
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error { return s.db.Close() }
