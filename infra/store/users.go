package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned when the username or password is wrong.
// The two cases are deliberately indistinguishable.
var ErrInvalidCredentials = errors.New("invalid username or password")

// User is a registered account.
type User struct {
	ID          int64     `json:"user_id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	FullName    string    `json:"full_name,omitempty"`
	VehicleName string    `json:"vehicle_name,omitempty"`
	DriveMode   string    `json:"drive_mode,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateUser registers a new account. The password is bcrypt-hashed.
func (s *SQLiteStore) CreateUser(ctx context.Context, username, email, password, fullName string) (User, error) {
	if username == "" || email == "" {
		return User{}, fmt.Errorf("username and email are required")
	}
	if len(password) < 8 {
		return User{}, fmt.Errorf("password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, email, password_hash, full_name, created_at) VALUES (?, ?, ?, ?, ?)`,
		username, email, string(hash), fullName, now.Unix())
	if err != nil {
		return User{}, fmt.Errorf("create user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return User{}, err
	}
	return User{ID: id, Username: username, Email: email, FullName: fullName, CreatedAt: now}, nil
}

// Authenticate verifies the credentials and records the login time.
func (s *SQLiteStore) Authenticate(ctx context.Context, username, password string) (User, error) {
	var (
		u       User
		hash    string
		created int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, username, email, COALESCE(full_name,''), COALESCE(vehicle_name,''), COALESCE(drive_mode,''), password_hash, created_at
		 FROM users WHERE username = ?`, username).
		Scan(&u.ID, &u.Username, &u.Email, &u.FullName, &u.VehicleName, &u.DriveMode, &hash, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrInvalidCredentials
	}
	if err != nil {
		return User{}, fmt.Errorf("lookup user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return User{}, ErrInvalidCredentials
	}
	u.CreatedAt = time.Unix(created, 0).UTC()
	if _, err := s.db.ExecContext(ctx, `UPDATE users SET last_login = ? WHERE user_id = ?`, time.Now().Unix(), u.ID); err != nil {
		return User{}, fmt.Errorf("record login: %w", err)
	}
	return u, nil
}

// SetPreferences stores the user's default vehicle and drive mode.
func (s *SQLiteStore) SetPreferences(ctx context.Context, userID int64, vehicleName, driveMode string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE users SET vehicle_name = ?, drive_mode = ? WHERE user_id = ?`,
		vehicleName, driveMode, userID)
	return err
}
