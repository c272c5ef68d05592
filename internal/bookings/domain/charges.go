package domain

import "math"

const secondsPerDay = 86400

// ComputeCharges runs the per-kind fare rules. A booking without both
// timestamps is not yet computable and yields zero charges rather than an
// error.
func ComputeCharges(in ChargeInputs) Charges {
	if in.PickupAt == nil || in.ReturnAt == nil {
		return Charges{}
	}

	switch in.Kind {
	case TripLocal:
		return computeLocal(in)
	case TripOutstation:
		return computeOutstation(in)
	default:
		return Charges{}
	}
}

// computeLocal prices an hourly hire: a minimum-hours base, overage billed
// per extra hour and extra km, and explicitly recorded nights.
func computeLocal(in ChargeInputs) Charges {
	totalHours := in.ReturnAt.Sub(*in.PickupAt).Hours()
	if totalHours < 0 {
		totalHours = 0
	}
	totalKm := odometerDiff(in.StartOdometer, in.EndOdometer)

	base := in.Rates.MinHours * in.Rates.PerHour
	extraHours := math.Max(0, totalHours-in.Rates.MinHours)
	extraHourCharges := extraHours * in.Rates.PerHour
	extraKm := math.Max(0, totalKm-in.Rates.MinKm)
	extraKmCharges := extraKm * in.Rates.LocalPerKm

	nights := in.Nights
	if nights < 0 {
		nights = 0
	}
	nightCharges := float64(nights) * in.Rates.Night

	return Charges{
		Days:             1,
		Nights:           nights,
		TotalKm:          totalKm,
		ChargeableKm:     totalKm,
		BaseAmount:       base,
		ExtraHourCharges: extraHourCharges,
		ExtraKmCharges:   extraKmCharges,
		NightCharges:     nightCharges,
		TermTotal:        base + extraHourCharges + extraKmCharges + nightCharges,
	}
}

// computeOutstation prices a round trip by days and kilometers: every started
// day counts, each day carries a contractual km minimum, and nights are one
// fewer than days.
func computeOutstation(in ChargeInputs) Charges {
	seconds := in.ReturnAt.Sub(*in.PickupAt).Seconds()
	days := int(math.Ceil(seconds / secondsPerDay))
	if days < 1 {
		days = 1
	}
	nights := days - 1
	nightCharges := float64(nights) * in.Rates.Night

	minKm := in.Rates.MinKmPerDay * float64(days)
	diffKm := odometerDiff(in.StartOdometer, in.EndOdometer)

	chargeableKm := math.Max(diffKm, minKm)
	if in.ChargeableKmOverridden {
		chargeableKm = in.ChargeableKm
	}
	kmAmount := chargeableKm * in.Rates.PerKm

	return Charges{
		Days:         days,
		Nights:       nights,
		TotalKm:      diffKm,
		ChargeableKm: chargeableKm,
		BaseAmount:   kmAmount,
		NightCharges: nightCharges,
		TermTotal:    kmAmount + nightCharges,
	}
}

func odometerDiff(start, end *float64) float64 {
	if start == nil || end == nil {
		return 0
	}
	diff := *end - *start
	if diff < 0 {
		return 0
	}
	return diff
}
