package energy

// Reading is a sensor or API value that may be missing. External condition
// sources are unreliable; an errored or absent reading must skip its
// adjustment factor instead of failing the whole estimate.
type Reading struct {
	value float64
	ok    bool
}

// Available wraps a usable reading.
func Available(v float64) Reading { return Reading{value: v, ok: true} }

// Unavailable marks a reading whose source errored or returned nothing.
func Unavailable() Reading { return Reading{} }

// Get returns the value and whether it is usable.
func (r Reading) Get() (float64, bool) { return r.value, r.ok }

// Conditions groups the optional environmental readings consumed by
// AdjustForConditions. The zero value applies no adjustment at all.
type Conditions struct {
	TemperatureC     Reading
	WindSpeedKmh     Reading
	HumidityPct      Reading
	ElevationGainM   Reading // route-sampled profile, distinct from TripParameters.AscentM
	CongestionFactor Reading // fraction of time lost to traffic, in [0,1]
}
