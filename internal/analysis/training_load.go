package analysis

import (
	"sort"
	"time"
)

// DailyLoad represents the training impulse accumulated on a single day.
type DailyLoad struct {
	Date  time.Time
	TRIMP float64
}

// LoadSample is one day of the chronic/acute load series.
type LoadSample struct {
	Date        time.Time
	TRIMP       float64
	ChronicLoad float64 // long-window EMA - "fitness"
	AcuteLoad   float64 // short-window EMA - "fatigue"
	Balance     float64 // chronic - acute - "form"
}

// LoadOptions tunes the two EMA smoothing windows.
type LoadOptions struct {
	ChronicDays int
	AcuteDays   int
}

// DefaultLoadOptions returns the standard 42-day chronic / 7-day acute windows.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{ChronicDays: 42, AcuteDays: 7}
}

// LoadSeries computes per-day chronic load, acute load, and balance from daily
// TRIMP totals. Missing days inside the range are filled with zero load, and
// multiple entries on the same date are summed. Both EMAs are initialized to
// the first day's raw impulse instead of zero, avoiding an artificial
// near-zero startup transient. The series is inherently sequential: each day
// depends on the previous day's smoothed state.
func LoadSeries(dailyLoads []DailyLoad, opts LoadOptions) []LoadSample {
	if len(dailyLoads) == 0 {
		return nil
	}
	if opts.ChronicDays <= 0 || opts.AcuteDays <= 0 {
		opts = DefaultLoadOptions()
	}

	sort.Slice(dailyLoads, func(i, j int) bool {
		return dailyLoads[i].Date.Before(dailyLoads[j].Date)
	})

	// Smoothing factor for an N-day window: 2 / (N + 1).
	chronicAlpha := 2.0 / (float64(opts.ChronicDays) + 1.0)
	acuteAlpha := 2.0 / (float64(opts.AcuteDays) + 1.0)

	startDate := dailyLoads[0].Date.Truncate(24 * time.Hour)
	endDate := dailyLoads[len(dailyLoads)-1].Date.Truncate(24 * time.Hour)

	loadMap := make(map[string]float64)
	for _, dl := range dailyLoads {
		loadMap[dl.Date.Format("2006-01-02")] += dl.TRIMP
	}

	var series []LoadSample
	var chronic, acute float64

	for d := startDate; !d.After(endDate); d = d.AddDate(0, 0, 1) {
		trimp := loadMap[d.Format("2006-01-02")]

		if len(series) == 0 {
			chronic = trimp
			acute = trimp
		} else {
			chronic = trimp*chronicAlpha + chronic*(1-chronicAlpha)
			acute = trimp*acuteAlpha + acute*(1-acuteAlpha)
		}

		series = append(series, LoadSample{
			Date:        d,
			TRIMP:       trimp,
			ChronicLoad: chronic,
			AcuteLoad:   acute,
			Balance:     chronic - acute,
		})
	}

	return series
}

// CurrentLoad returns the most recent sample of the series, or a zero sample
// for an empty input.
func CurrentLoad(dailyLoads []DailyLoad, opts LoadOptions) LoadSample {
	series := LoadSeries(dailyLoads, opts)
	if len(series) == 0 {
		return LoadSample{}
	}
	return series[len(series)-1]
}

// LoadStatus classifies an athlete's current balance.
type LoadStatus string

const (
	StatusFresh       LoadStatus = "fresh"
	StatusRested      LoadStatus = "rested"
	StatusOptimal     LoadStatus = "optimal"
	StatusTired       LoadStatus = "tired"
	StatusOverreached LoadStatus = "overreached"
)

// BalanceThresholds are the status cut points, evaluated in descending order.
// These are a product decision rather than a physiological constant, so they
// stay configurable but default to the canonical values.
type BalanceThresholds struct {
	Fresh   float64 // balance above this: fresh
	Rested  float64
	Optimal float64
	Tired   float64 // at or below this: overreached
}

// DefaultBalanceThresholds returns the standard cut points.
func DefaultBalanceThresholds() BalanceThresholds {
	return BalanceThresholds{Fresh: 25, Rested: 5, Optimal: -10, Tired: -30}
}

var statusRecommendation = map[LoadStatus]string{
	StatusFresh:       "Very fresh. Fitness may be detraining; pick the load back up.",
	StatusRested:      "Rested and ready for a hard session or a race.",
	StatusOptimal:     "Productive training zone. Keep the current rhythm.",
	StatusTired:       "Fatigue is building. Plan an easier day soon.",
	StatusOverreached: "Overreached. Recovery is overdue.",
}

// ClassifyBalance maps the most recent day's balance onto a status.
func ClassifyBalance(balance float64, t BalanceThresholds) LoadStatus {
	switch {
	case balance > t.Fresh:
		return StatusFresh
	case balance > t.Rested:
		return StatusRested
	case balance > t.Optimal:
		return StatusOptimal
	case balance > t.Tired:
		return StatusTired
	default:
		return StatusOverreached
	}
}

// Recommendation returns the fixed advisory string for a status.
func Recommendation(status LoadStatus) string {
	return statusRecommendation[status]
}
