// Package traffic estimates congestion from the local time of day. The free
// tiers of commercial traffic APIs are too limited for continuous polling, so
// the model mirrors typical urban rush-hour patterns instead.
package traffic

import (
	"context"
	"time"

	"github.com/evtrip/planner/core/model"
)

// ClockModel maps the hour of day to a congestion factor in [0,1].
type ClockModel struct {
	now func() time.Time
}

// New creates a ClockModel using the system clock.
func New() *ClockModel { return &ClockModel{now: time.Now} }

// NewWithClock creates a ClockModel with an injectable clock, for tests.
func NewWithClock(now func() time.Time) *ClockModel { return &ClockModel{now: now} }

// Congestion returns the estimated fraction of time lost to traffic.
// Morning rush 7-10h: 0.4, evening rush 17-20h: 0.5, night 20-6h: 0,
// otherwise 0.2.
func (m *ClockModel) Congestion(ctx context.Context, start, end model.Coordinates) (float64, error) {
	_ = ctx
	_ = start
	_ = end
	hour := m.now().Hour()
	switch {
	case hour >= 7 && hour < 10:
		return 0.4, nil
	case hour >= 17 && hour < 20:
		return 0.5, nil
	case hour >= 20 || hour < 6:
		return 0.0, nil
	default:
		return 0.2, nil
	}
}

// Status describes the congestion factor for display.
func Status(congestion float64) string {
	switch {
	case congestion >= 0.4:
		return "heavy traffic"
	case congestion > 0:
		return "moderate traffic"
	default:
		return "light traffic"
	}
}
