// Package energy implements the trip energy consumption model: a
// physics-based baseline estimate plus a layered adjustment for
// environmental conditions. All functions are pure.
package energy

const (
	gravity      = 9.81  // m/s^2
	joulesPerKWh = 3.6e6 // J/kWh

	hvacPenalty   = 1.1
	speedPenalty  = 1.15
	speedCutoffKm = 90.0 // km/h, penalty applies strictly above
)

// TripParameters holds the static inputs of the baseline formula.
type TripParameters struct {
	DistanceKm    float64 // total route distance
	AvgSpeedKmh   float64 // average travel speed
	AscentM       float64 // cumulative elevation gain, descents ignored
	VehicleMassKg float64
	BaseWhPerKm   float64 // vehicle baseline efficiency
	HVACOn        bool
	ReserveFrac   float64 // safety margin in [0,1)
}

// EstimateBaseEnergy converts trip parameters into a baseline estimate in kWh.
//
// The HVAC penalty multiplies the base rate before the ascent addend is
// applied, and the reserve margin is applied last; callers relying on exact
// values must not reorder these steps. A non-positive distance contributes
// nothing: negative distances are clamped to zero rather than rejected, since
// upstream routing glue occasionally hands over degenerate legs. The function
// never returns an error.
func EstimateBaseEnergy(p TripParameters) float64 {
	if p.DistanceKm < 0 {
		p.DistanceKm = 0
	}

	whPerKm := p.BaseWhPerKm
	if p.HVACOn {
		whPerKm *= hvacPenalty
	}

	// Potential energy to lift the vehicle through the total ascent,
	// spread over the trip distance.
	whFromAscent := p.VehicleMassKg * gravity * p.AscentM / joulesPerKWh * 1000
	if p.DistanceKm > 0 {
		whPerKm += whFromAscent / p.DistanceKm
	}

	if p.AvgSpeedKmh > speedCutoffKm {
		whPerKm *= speedPenalty
	}

	kwh := whPerKm * p.DistanceKm / 1000
	return kwh * (1 + p.ReserveFrac)
}
