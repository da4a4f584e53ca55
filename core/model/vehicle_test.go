package model

import "testing"

func TestVehicleValidate(t *testing.T) {
	v := Vehicle{Name: "test", UsableKWh: 40, MassKg: 1600, BaseWhPerKm: 160}
	if err := v.Validate(); err != nil {
		t.Fatalf("valid vehicle rejected: %v", err)
	}
	v.UsableKWh = 0
	if err := v.Validate(); err == nil {
		t.Fatalf("zero capacity accepted")
	}
}

func TestAvailableKWhClamps(t *testing.T) {
	v := Vehicle{UsableKWh: 40, MassKg: 1600, BaseWhPerKm: 160}
	if got := v.AvailableKWh(1.5); got != 40 {
		t.Fatalf("soc above 1 should clamp: %v", got)
	}
	if got := v.AvailableKWh(-0.2); got != 0 {
		t.Fatalf("negative soc should clamp: %v", got)
	}
	if got := v.AvailableKWh(0.5); got != 20 {
		t.Fatalf("expected 20 got %v", got)
	}
}

func TestDriveModeMultiplier(t *testing.T) {
	if ModeEco.Multiplier() >= ModeNormal.Multiplier() {
		t.Fatalf("eco must consume less than normal")
	}
	if ModeSport.Multiplier() <= ModeNormal.Multiplier() {
		t.Fatalf("sport must consume more than normal")
	}
	if DriveMode("unknown").Multiplier() != 1.0 {
		t.Fatalf("unknown mode should be neutral")
	}
}

func TestPresetByName(t *testing.T) {
	v, ok := PresetByName("MG ZS EV")
	if !ok || v.UsableKWh != 44 {
		t.Fatalf("preset lookup failed: %+v %v", v, ok)
	}
	if _, ok := PresetByName("DeLorean"); ok {
		t.Fatalf("unexpected preset")
	}
}

func TestRouteAvgSpeed(t *testing.T) {
	r := Route{DistanceKm: 120, DurationH: 1.5}
	if got := r.AvgSpeedKmh(); got != 80 {
		t.Fatalf("expected 80 got %v", got)
	}
	if (Route{DistanceKm: 10}).AvgSpeedKmh() != 0 {
		t.Fatalf("zero duration must not divide")
	}
}
