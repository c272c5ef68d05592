package domain

import (
	"testing"
	"time"
)

func ts(value string) *time.Time {
	t, err := time.Parse("2006-01-02 15:04", value)
	if err != nil {
		panic(err)
	}
	return &t
}

func f(v float64) *float64 { return &v }

func TestOutstationCharges(t *testing.T) {
	// Two full days on the road, one night halt, driven under the km floor.
	in := ChargeInputs{
		Kind:          TripOutstation,
		PickupAt:      ts("2024-01-01 10:00"),
		ReturnAt:      ts("2024-01-03 10:00"),
		StartOdometer: f(1000),
		EndOdometer:   f(1450),
		Rates: Rates{
			PerKm:       15,
			Night:       250,
			MinKmPerDay: 250,
		},
	}

	got := ComputeCharges(in)

	if got.Days != 2 {
		t.Fatalf("Days = %d, want 2", got.Days)
	}
	if got.Nights != 1 {
		t.Fatalf("Nights = %d, want 1", got.Nights)
	}
	if got.TotalKm != 450 {
		t.Fatalf("TotalKm = %v, want 450", got.TotalKm)
	}
	if got.ChargeableKm != 500 {
		t.Fatalf("ChargeableKm = %v, want 500 (minimum km floor)", got.ChargeableKm)
	}
	if got.BaseAmount != 7500 {
		t.Fatalf("BaseAmount = %v, want 7500", got.BaseAmount)
	}
	if got.NightCharges != 250 {
		t.Fatalf("NightCharges = %v, want 250", got.NightCharges)
	}
	if got.TermTotal != 7750 {
		t.Fatalf("TermTotal = %v, want 7750", got.TermTotal)
	}
}

func TestLocalCharges(t *testing.T) {
	// 8-hour package overrun by 2 hours and 20 km.
	in := ChargeInputs{
		Kind:          TripLocal,
		PickupAt:      ts("2024-02-10 08:00"),
		ReturnAt:      ts("2024-02-10 18:00"),
		StartOdometer: f(200),
		EndOdometer:   f(300),
		Rates: Rates{
			PerHour:    150,
			MinHours:   8,
			MinKm:      80,
			LocalPerKm: 12,
		},
	}

	got := ComputeCharges(in)

	if got.BaseAmount != 1200 {
		t.Fatalf("BaseAmount = %v, want 1200", got.BaseAmount)
	}
	if got.ExtraHourCharges != 300 {
		t.Fatalf("ExtraHourCharges = %v, want 300", got.ExtraHourCharges)
	}
	if got.ExtraKmCharges != 240 {
		t.Fatalf("ExtraKmCharges = %v, want 240", got.ExtraKmCharges)
	}
	if got.TermTotal != 1740 {
		t.Fatalf("TermTotal = %v, want 1740", got.TermTotal)
	}
}

func TestOutstationDayCounting(t *testing.T) {
	tests := []struct {
		name       string
		pickup     string
		ret        string
		wantDays   int
		wantNights int
	}{
		{"same instant", "2024-01-01 10:00", "2024-01-01 10:00", 1, 0},
		{"few hours", "2024-01-01 10:00", "2024-01-01 18:00", 1, 0},
		{"exactly one day", "2024-01-01 10:00", "2024-01-02 10:00", 1, 0},
		{"one day and a minute", "2024-01-01 10:00", "2024-01-02 10:01", 2, 1},
		{"return before pickup", "2024-01-03 10:00", "2024-01-01 10:00", 1, 0},
		{"five days", "2024-01-01 08:00", "2024-01-06 08:00", 5, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := ChargeInputs{
				Kind:     TripOutstation,
				PickupAt: ts(tt.pickup),
				ReturnAt: ts(tt.ret),
				Rates:    Rates{PerKm: 10, Night: 100, MinKmPerDay: 250},
			}
			got := ComputeCharges(in)
			if got.Days != tt.wantDays {
				t.Fatalf("Days = %d, want %d", got.Days, tt.wantDays)
			}
			if got.Nights != tt.wantNights {
				t.Fatalf("Nights = %d, want %d", got.Nights, tt.wantNights)
			}
			if got.Nights != got.Days-1 {
				t.Fatalf("Nights = %d, Days = %d; nights must be days-1", got.Nights, got.Days)
			}
		})
	}
}

func TestOutstationChargeableKmFloor(t *testing.T) {
	base := ChargeInputs{
		Kind:     TripOutstation,
		PickupAt: ts("2024-01-01 10:00"),
		ReturnAt: ts("2024-01-04 10:00"), // 3 days, min 750 km
		Rates:    Rates{PerKm: 10, MinKmPerDay: 250},
	}

	t.Run("driven above floor", func(t *testing.T) {
		in := base
		in.StartOdometer = f(0)
		in.EndOdometer = f(900)
		got := ComputeCharges(in)
		if got.ChargeableKm != 900 {
			t.Fatalf("ChargeableKm = %v, want 900", got.ChargeableKm)
		}
	})

	t.Run("driven below floor", func(t *testing.T) {
		in := base
		in.StartOdometer = f(0)
		in.EndOdometer = f(100)
		got := ComputeCharges(in)
		if got.ChargeableKm != 750 {
			t.Fatalf("ChargeableKm = %v, want 750", got.ChargeableKm)
		}
	})

	t.Run("manual override preserved", func(t *testing.T) {
		in := base
		in.StartOdometer = f(0)
		in.EndOdometer = f(100)
		in.ChargeableKm = 400
		in.ChargeableKmOverridden = true
		got := ComputeCharges(in)
		if got.ChargeableKm != 400 {
			t.Fatalf("ChargeableKm = %v, want overridden 400", got.ChargeableKm)
		}
		if got.BaseAmount != 4000 {
			t.Fatalf("BaseAmount = %v, want 4000", got.BaseAmount)
		}
	})

	t.Run("override to zero is honored", func(t *testing.T) {
		in := base
		in.StartOdometer = f(0)
		in.EndOdometer = f(100)
		in.ChargeableKm = 0
		in.ChargeableKmOverridden = true
		got := ComputeCharges(in)
		if got.ChargeableKm != 0 {
			t.Fatalf("ChargeableKm = %v, want 0", got.ChargeableKm)
		}
	})
}

func TestMissingTimestampsLeaveChargesZero(t *testing.T) {
	tests := []struct {
		name string
		in   ChargeInputs
	}{
		{"no pickup", ChargeInputs{Kind: TripOutstation, ReturnAt: ts("2024-01-02 10:00"), Rates: Rates{PerKm: 10, MinKmPerDay: 250}}},
		{"no return", ChargeInputs{Kind: TripLocal, PickupAt: ts("2024-01-01 10:00"), Rates: Rates{PerHour: 150, MinHours: 8}}},
		{"neither", ChargeInputs{Kind: TripOutstation, Rates: Rates{PerKm: 10}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeCharges(tt.in)
			if got != (Charges{}) {
				t.Fatalf("ComputeCharges() = %+v, want zero charges", got)
			}
		})
	}
}

func TestNegativeDifferencesClampToZero(t *testing.T) {
	t.Run("odometer rollback outstation", func(t *testing.T) {
		in := ChargeInputs{
			Kind:          TripOutstation,
			PickupAt:      ts("2024-01-01 10:00"),
			ReturnAt:      ts("2024-01-02 12:00"),
			StartOdometer: f(500),
			EndOdometer:   f(300),
			Rates:         Rates{PerKm: 10, MinKmPerDay: 250},
		}
		got := ComputeCharges(in)
		if got.TotalKm != 0 {
			t.Fatalf("TotalKm = %v, want 0", got.TotalKm)
		}
		// Floor still applies even with zero driven km.
		if got.ChargeableKm != 500 {
			t.Fatalf("ChargeableKm = %v, want 500", got.ChargeableKm)
		}
	})

	t.Run("return before pickup local", func(t *testing.T) {
		in := ChargeInputs{
			Kind:          TripLocal,
			PickupAt:      ts("2024-01-01 18:00"),
			ReturnAt:      ts("2024-01-01 08:00"),
			StartOdometer: f(0),
			EndOdometer:   f(50),
			Rates:         Rates{PerHour: 150, MinHours: 8, MinKm: 80, LocalPerKm: 12},
		}
		got := ComputeCharges(in)
		if got.ExtraHourCharges != 0 {
			t.Fatalf("ExtraHourCharges = %v, want 0", got.ExtraHourCharges)
		}
		// Base package still owed.
		if got.BaseAmount != 1200 {
			t.Fatalf("BaseAmount = %v, want 1200", got.BaseAmount)
		}
	})
}

func TestComputeChargesDeterministic(t *testing.T) {
	in := ChargeInputs{
		Kind:          TripOutstation,
		PickupAt:      ts("2024-01-01 10:00"),
		ReturnAt:      ts("2024-01-03 10:00"),
		StartOdometer: f(1000),
		EndOdometer:   f(1450),
		Rates:         Rates{PerKm: 15, Night: 250, MinKmPerDay: 250},
	}

	first := ComputeCharges(in)
	for i := 0; i < 10; i++ {
		if got := ComputeCharges(in); got != first {
			t.Fatalf("recompute %d drifted: %+v != %+v", i, got, first)
		}
	}
}
