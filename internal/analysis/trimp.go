package analysis

import "math"

// TRIMP calculates the Edwards training impulse for one activity: duration in
// minutes multiplied by a zone coefficient picked from the heart-rate-reserve
// percentage. It returns nil when either athlete constant is missing; absent
// data is never an error here, callers store the null.
//
// The reserve percentage is deliberately not clamped below 0 or above 100; the
// threshold ladder itself bounds the coefficient to [1, 5], and historical
// scores depend on that exact behavior.
func TRIMP(durationSec float64, avgHR float64, athlete Athlete) *int {
	if !athlete.Valid() || avgHR <= 0 {
		return nil
	}

	reserve := athlete.MaxHR - athlete.RestingHR
	hrrPct := (avgHR - athlete.RestingHR) / reserve * 100

	var coeff float64
	switch {
	case hrrPct >= 90:
		coeff = 5
	case hrrPct >= 80:
		coeff = 4
	case hrrPct >= 70:
		coeff = 3
	case hrrPct >= 60:
		coeff = 2
	default:
		coeff = 1
	}

	score := int(math.Round(durationSec / 60 * coeff))
	return &score
}
