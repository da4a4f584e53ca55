package traffic

import (
	"context"
	"testing"
	"time"

	"github.com/evtrip/planner/core/model"
)

func at(hour int) func() time.Time {
	return func() time.Time {
		return time.Date(2024, 3, 11, hour, 30, 0, 0, time.Local)
	}
}

func TestClockModel_Congestion(t *testing.T) {
	cases := []struct {
		hour int
		want float64
	}{
		{8, 0.4},  // morning rush
		{18, 0.5}, // evening rush
		{23, 0.0}, // night
		{3, 0.0},  // night
		{13, 0.2}, // off-peak
		{6, 0.2},  // 6h is off-peak, not night
	}
	for _, c := range cases {
		m := NewWithClock(at(c.hour))
		got, err := m.Congestion(context.Background(), model.Coordinates{}, model.Coordinates{})
		if err != nil {
			t.Fatalf("hour %d: %v", c.hour, err)
		}
		if got != c.want {
			t.Fatalf("hour %d: expected %v got %v", c.hour, c.want, got)
		}
	}
}

func TestStatus(t *testing.T) {
	if Status(0.5) != "heavy traffic" || Status(0.2) != "moderate traffic" || Status(0) != "light traffic" {
		t.Fatalf("unexpected status strings")
	}
}
