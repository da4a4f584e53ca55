package model

import "fmt"

// DriveMode scales the vehicle's baseline consumption rate.
type DriveMode string

const (
	ModeEco    DriveMode = "eco"
	ModeNormal DriveMode = "normal"
	ModeSport  DriveMode = "sport"
)

// Multiplier returns the Wh/km scale for the mode. Unknown modes are
// treated as normal.
func (m DriveMode) Multiplier() float64 {
	switch m {
	case ModeEco:
		return 0.9
	case ModeSport:
		return 1.2
	default:
		return 1.0
	}
}

// Vehicle describes an EV's energy-relevant characteristics.
type Vehicle struct {
	Name        string  `json:"name"`
	UsableKWh   float64 `json:"usable_kwh"`  // capacity available for driving
	MassKg      float64 `json:"mass_kg"`     // curb mass
	BaseWhPerKm float64 `json:"base_wh_km"`  // baseline efficiency in normal mode
}

// Validate checks that the vehicle configuration is sound.
func (v Vehicle) Validate() error {
	if v.UsableKWh <= 0 {
		return fmt.Errorf("usable capacity must be positive")
	}
	if v.MassKg <= 0 {
		return fmt.Errorf("vehicle mass must be positive")
	}
	if v.BaseWhPerKm <= 0 {
		return fmt.Errorf("base consumption must be positive")
	}
	return nil
}

// AvailableKWh returns the energy on board at the given state of charge.
// SoC is a fraction in [0,1]; out-of-range values are clamped.
func (v Vehicle) AvailableKWh(soc float64) float64 {
	if soc < 0 {
		soc = 0
	}
	if soc > 1 {
		soc = 1
	}
	return v.UsableKWh * soc
}

// Presets returns the built-in vehicle catalogue.
func Presets() []Vehicle {
	return []Vehicle{
		{Name: "Tata Nexon EV", UsableKWh: 30, MassKg: 1400, BaseWhPerKm: 150},
		{Name: "MG ZS EV", UsableKWh: 44, MassKg: 1610, BaseWhPerKm: 175},
		{Name: "Hyundai Kona EV", UsableKWh: 39, MassKg: 1685, BaseWhPerKm: 150},
		{Name: "Mahindra eVerito", UsableKWh: 21, MassKg: 1265, BaseWhPerKm: 140},
	}
}

// PresetByName finds a preset vehicle, matching case-sensitively.
func PresetByName(name string) (Vehicle, bool) {
	for _, v := range Presets() {
		if v.Name == name {
			return v, true
		}
	}
	return Vehicle{}, false
}
