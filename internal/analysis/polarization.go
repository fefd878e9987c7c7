package analysis

import "math"

// The canonical endurance intensity distribution the score is measured
// against: 80% low, 10% moderate, 10% high.
const (
	targetLowPct      = 80.0
	targetModeratePct = 10.0
	targetHighPct     = 10.0
)

// PolarizationFocus categorizes where an athlete's intensity distribution
// needs attention.
type PolarizationFocus string

const (
	FocusInsufficientBase PolarizationFocus = "insufficient base"
	FocusMissingHigh      PolarizationFocus = "missing high intensity"
	FocusTooMuchIntensity PolarizationFocus = "too much intensity"
	FocusBalanced         PolarizationFocus = "balanced"
)

var focusAdvice = map[PolarizationFocus]string{
	FocusInsufficientBase: "Add more easy, conversational-pace volume in zones 1-2.",
	FocusMissingHigh:      "Schedule one or two hard interval sessions per week.",
	FocusTooMuchIntensity: "Reduce threshold work; most training should feel easy.",
	FocusBalanced:         "Intensity distribution is on target. Keep it up.",
}

// PolarizationReport scores an aggregate zone distribution against the
// 80/10/10 target.
type PolarizationReport struct {
	LowPct      float64 // zones 1-2
	ModeratePct float64 // zone 3
	HighPct     float64 // zones 4-5
	Score       float64 // 0-100, 100 = exactly on target
	Focus       PolarizationFocus
	Advice      string
}

// Polarization aggregates per-zone seconds across many activities into an
// intensity-distribution score. A zero-second aggregate yields an explicit
// zero report rather than scoring an empty training block.
func Polarization(zoneSeconds [5]float64) PolarizationReport {
	var total float64
	for _, s := range zoneSeconds {
		total += s
	}
	if total <= 0 {
		return PolarizationReport{}
	}

	report := PolarizationReport{
		LowPct:      (zoneSeconds[0] + zoneSeconds[1]) / total * 100,
		ModeratePct: zoneSeconds[2] / total * 100,
		HighPct:     (zoneSeconds[3] + zoneSeconds[4]) / total * 100,
	}

	deviation := math.Abs(report.LowPct-targetLowPct) +
		math.Abs(report.ModeratePct-targetModeratePct) +
		math.Abs(report.HighPct-targetHighPct)
	report.Score = math.Max(0, 100-0.8*deviation)

	// First match wins.
	switch {
	case report.LowPct < 70:
		report.Focus = FocusInsufficientBase
	case report.HighPct < 8:
		report.Focus = FocusMissingHigh
	case report.HighPct > 20:
		report.Focus = FocusTooMuchIntensity
	default:
		report.Focus = FocusBalanced
	}
	report.Advice = focusAdvice[report.Focus]

	return report
}
