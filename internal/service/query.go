package service

import (
	"time"

	"trainlog/internal/analysis"
	"trainlog/internal/config"
	"trainlog/internal/store"
)

// QueryService provides the read side: aggregate analytics over stored
// activities. All computation is derived on demand; nothing here writes.
type QueryService struct {
	db  *store.DB
	cfg *config.Config
}

// NewQueryService creates a new query service
func NewQueryService(db *store.DB, cfg *config.Config) *QueryService {
	return &QueryService{db: db, cfg: cfg}
}

func (q *QueryService) athlete() analysis.Athlete {
	return analysis.Athlete{
		MaxHR:     q.cfg.Athlete.MaxHR,
		RestingHR: q.cfg.Athlete.RestingHR,
	}
}

// ZoneSummary aggregates per-activity zone allocations over a date range.
type ZoneSummary struct {
	Durations    [5]float64 // seconds per zone
	TotalSeconds float64
	Activities   int
	BySource     map[analysis.ZoneSource]int
}

// GetZoneSummary sums zone time across all activities in [from, to). Without
// configured athlete constants every activity lands in the no-data tier.
func (q *QueryService) GetZoneSummary(from, to time.Time) (*ZoneSummary, error) {
	activities, err := q.db.ListActivities(from, to)
	if err != nil {
		return nil, err
	}

	summary := &ZoneSummary{
		Activities: len(activities),
		BySource:   make(map[analysis.ZoneSource]int),
	}

	if !q.athlete().Valid() {
		summary.BySource[analysis.SourceNone] = len(activities)
		return summary, nil
	}

	zones := analysis.Zones(q.athlete())
	for i := range activities {
		alloc := analysis.AllocateZones(&activities[i], zones)
		summary.BySource[alloc.Source]++
		for z, d := range alloc.Durations {
			summary.Durations[z] += d
		}
		summary.TotalSeconds += alloc.TotalSeconds
	}

	return summary, nil
}

// GetPolarization scores the zone distribution of [from, to) against the
// 80/10/10 target.
func (q *QueryService) GetPolarization(from, to time.Time) (analysis.PolarizationReport, error) {
	summary, err := q.GetZoneSummary(from, to)
	if err != nil {
		return analysis.PolarizationReport{}, err
	}
	return analysis.Polarization(summary.Durations), nil
}

// LoadTrend is the chronic/acute load series for a window plus the status
// derived from its most recent day.
type LoadTrend struct {
	Series         []analysis.LoadSample
	Status         analysis.LoadStatus
	Recommendation string
}

// GetLoadTrend builds daily training impulse totals over the full requested
// window (days without activities count as zero) and runs the EMA model over
// them.
func (q *QueryService) GetLoadTrend(from, to time.Time) (*LoadTrend, error) {
	activities, err := q.db.ListActivities(from, to)
	if err != nil {
		return nil, err
	}

	// Zero-load sentinels pin the series to the requested window so the
	// EMAs run over rest days at both ends, not just between activities.
	start := from.Truncate(24 * time.Hour)
	end := to.Truncate(24 * time.Hour)
	if !end.After(start) {
		end = start
	}
	dailyLoads := []analysis.DailyLoad{
		{Date: start},
		{Date: end},
	}

	for i := range activities {
		if activities[i].TRIMP == nil {
			continue
		}
		dailyLoads = append(dailyLoads, analysis.DailyLoad{
			Date:  activities[i].StartTime.Truncate(24 * time.Hour),
			TRIMP: float64(*activities[i].TRIMP),
		})
	}

	opts := analysis.LoadOptions{
		ChronicDays: q.cfg.Load.ChronicDays,
		AcuteDays:   q.cfg.Load.AcuteDays,
	}
	series := analysis.LoadSeries(dailyLoads, opts)

	trend := &LoadTrend{Series: series}
	if len(series) > 0 {
		thresholds := analysis.BalanceThresholds{
			Fresh:   q.cfg.Load.FreshAbove,
			Rested:  q.cfg.Load.RestedAbove,
			Optimal: q.cfg.Load.OptimalAbove,
			Tired:   q.cfg.Load.TiredAbove,
		}
		trend.Status = analysis.ClassifyBalance(series[len(series)-1].Balance, thresholds)
		trend.Recommendation = analysis.Recommendation(trend.Status)
	}

	return trend, nil
}
