package energy

import "fmt"

// Factor is one triggered adjustment with its human-readable magnitude.
type Factor struct {
	Name       string  `json:"name"`
	Impact     string  `json:"impact"`
	Multiplier float64 `json:"multiplier"`
}

// Estimate is the result of adjusting a baseline estimate for conditions.
// Factors preserves evaluation order; untriggered factors are absent.
type Estimate struct {
	BaseKWh         float64  `json:"base_kwh"`
	Factors         []Factor `json:"factors,omitempty"`
	TotalMultiplier float64  `json:"total_multiplier"`
	AdjustedKWh     float64  `json:"adjusted_kwh"`
}

// AdjustForConditions applies the environmental adjustment layer to a baseline
// estimate. Every factor is independent and multiplicative, contributes a
// multiplier >= 1 when triggered, and is skipped entirely when its reading is
// unavailable. Evaluation order is temperature, wind, humidity, elevation
// gain, traffic; the order is part of the reported breakdown.
func AdjustForConditions(baseKWh float64, c Conditions) Estimate {
	est := Estimate{BaseKWh: baseKWh, TotalMultiplier: 1.0}

	if temp, ok := c.TemperatureC.Get(); ok && temp < 10 {
		// Cold reduces efficiency, linearly below 10°C.
		f := 1 + 0.05*(10-temp)/10
		est.apply("Temperature Effect", f)
	}
	if wind, ok := c.WindSpeedKmh.Get(); ok && wind > 20 {
		f := 1 + (wind-20)*0.01
		est.apply("Wind Resistance", f)
	}
	if hum, ok := c.HumidityPct.Get(); ok && hum > 80 {
		est.applyFlat("High Humidity/Rain", 1.05, "5% increase")
	}
	if gain, ok := c.ElevationGainM.Get(); ok && gain > 0 {
		// ~0.5% per 10 m of climb.
		f := 1 + gain*0.005
		est.apply("Elevation Gain", f)
	}
	if cong, ok := c.CongestionFactor.Get(); ok && cong > 0 {
		// Stop-and-go inefficiency, up to 30% at full congestion.
		f := 1 + cong*0.3
		est.apply("Traffic Congestion", f)
	}

	est.AdjustedKWh = baseKWh * est.TotalMultiplier
	return est
}

func (e *Estimate) apply(name string, mult float64) {
	e.applyFlat(name, mult, fmt.Sprintf("%.1f%% increase", (mult-1)*100))
}

func (e *Estimate) applyFlat(name string, mult float64, impact string) {
	e.Factors = append(e.Factors, Factor{Name: name, Impact: impact, Multiplier: mult})
	e.TotalMultiplier *= mult
}
