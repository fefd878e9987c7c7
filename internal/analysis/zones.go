package analysis

import (
	"sort"

	"trainlog/internal/activity"
)

// Athlete holds the physiological constants zone and TRIMP calculations need.
// Both values must be positive for anything HR-based to be computed.
type Athlete struct {
	MaxHR     float64
	RestingHR float64
}

// Valid reports whether the constants allow heart-rate-reserve math.
func (a Athlete) Valid() bool {
	return a.MaxHR > 0 && a.RestingHR > 0 && a.MaxHR > a.RestingHR
}

// Zone is one heart rate zone boundary pair in bpm.
type Zone struct {
	Min float64
	Max float64
}

// Karvonen heart-rate-reserve fractions for the five zones.
var zoneThresholds = [5][2]float64{
	{0.50, 0.60},
	{0.60, 0.70},
	{0.70, 0.80},
	{0.80, 0.90},
	{0.90, 1.00},
}

// Zones derives the five zone boundaries from the athlete's constants using
// the Karvonen formula: resting + fraction * (max - resting). Zones are
// recomputed on every call and never persisted.
func Zones(athlete Athlete) [5]Zone {
	reserve := athlete.MaxHR - athlete.RestingHR
	var zones [5]Zone
	for i, t := range zoneThresholds {
		zones[i] = Zone{
			Min: athlete.RestingHR + t[0]*reserve,
			Max: athlete.RestingHR + t[1]*reserve,
		}
	}
	return zones
}

// ResolveZone returns the index of the first zone whose [Min, Max] range
// contains hr. Values below every zone map to zone 0, values above every
// zone map to the last zone.
func ResolveZone(zones [5]Zone, hr float64) int {
	for i, z := range zones {
		if hr >= z.Min && hr <= z.Max {
			return i
		}
	}
	if hr < zones[0].Min {
		return 0
	}
	return len(zones) - 1
}

// ZoneSource labels the data quality tier an allocation was derived from.
type ZoneSource string

const (
	SourceSamples ZoneSource = "samples" // ≥2 timestamped HR samples
	SourceAverage ZoneSource = "average" // synthesized from average HR
	SourceNone    ZoneSource = "none"    // no heart rate data at all
)

// ZoneAllocation is the per-zone time split for one activity.
type ZoneAllocation struct {
	Durations    [5]float64 // seconds per zone
	TotalSeconds float64
	Source       ZoneSource
}

// Sample deltas outside this range are clamped so clock jumps and very
// sparse recordings cannot skew a single zone.
const (
	minSampleDelta = 1.0
	maxSampleDelta = 30.0
)

// Rescaling sampled time to the recorded duration is only trusted when the
// ratio sits inside this band; outside it the samples are judged unreliable
// and the engine falls back to the average-HR tier. Tunable heuristic.
const (
	rescaleMinRatio = 0.3
	rescaleMaxRatio = 3.0
)

// Tier-2 synthetic distribution split. Tunable heuristic, not physiology.
const (
	tier2Dominant  = 0.60
	tier2Below     = 0.20
	tier2Above     = 0.15
	tier2Remainder = 0.05
)

// AllocateZones reconstructs per-zone time for one activity. It tries three
// tiers in order of confidence: timestamped HR samples from the GPS trace,
// a synthetic split around the average heart rate, and finally an all-zero
// allocation when no heart rate data exists.
func AllocateZones(act *activity.Activity, zones [5]Zone) ZoneAllocation {
	if alloc, ok := allocateFromSamples(act, zones); ok {
		return alloc
	}
	if act.AvgHeartRate != nil && *act.AvgHeartRate > 0 {
		return allocateFromAverage(float64(*act.AvgHeartRate), float64(act.Duration), zones)
	}
	return ZoneAllocation{Source: SourceNone}
}

// allocateFromSamples is tier 1. It needs at least two track points carrying
// both a positive heart rate and a timestamp. The time between consecutive
// samples is credited to the earlier sample's zone.
func allocateFromSamples(act *activity.Activity, zones [5]Zone) (ZoneAllocation, bool) {
	type hrSample struct {
		t  int64 // unix seconds
		hr float64
	}

	var samples []hrSample
	for _, p := range act.Track {
		if p.HeartRate != nil && *p.HeartRate > 0 && p.Time != nil {
			samples = append(samples, hrSample{t: p.Time.Unix(), hr: float64(*p.HeartRate)})
		}
	}
	if len(samples) < 2 {
		return ZoneAllocation{}, false
	}

	sort.Slice(samples, func(i, j int) bool { return samples[i].t < samples[j].t })

	alloc := ZoneAllocation{Source: SourceSamples}
	for i := 0; i < len(samples)-1; i++ {
		delta := float64(samples[i+1].t - samples[i].t)
		if delta < minSampleDelta {
			delta = minSampleDelta
		}
		if delta > maxSampleDelta {
			delta = maxSampleDelta
		}
		zone := ResolveZone(zones, samples[i].hr)
		alloc.Durations[zone] += delta
		alloc.TotalSeconds += delta
	}

	duration := float64(act.Duration)
	if duration > 0 && alloc.TotalSeconds != duration {
		ratio := duration / alloc.TotalSeconds
		if ratio <= rescaleMinRatio || ratio >= rescaleMaxRatio {
			// Sampled time disagrees too strongly with the recorded
			// duration to trust; fall through to the lower tiers.
			return ZoneAllocation{}, false
		}
		for i := range alloc.Durations {
			alloc.Durations[i] *= ratio
		}
		alloc.TotalSeconds = duration
	}

	return alloc, true
}

// allocateFromAverage is tier 2: a synthetic split around the zone containing
// the average heart rate. The dominant zone gets 60% of the duration, the zone
// below 20%, the zone above 15%, and the remaining 5% is spread evenly over
// the zones that are neither dominant nor its immediate neighbors. At the
// boundary zones the missing neighbor's share folds into the dominant zone so
// the allocation still sums to the full duration.
func allocateFromAverage(avgHR, duration float64, zones [5]Zone) ZoneAllocation {
	alloc := ZoneAllocation{Source: SourceAverage, TotalSeconds: duration}
	dominant := ResolveZone(zones, avgHR)

	alloc.Durations[dominant] = duration * tier2Dominant
	if dominant > 0 {
		alloc.Durations[dominant-1] = duration * tier2Below
	} else {
		alloc.Durations[dominant] += duration * tier2Below
	}
	if dominant < len(zones)-1 {
		alloc.Durations[dominant+1] = duration * tier2Above
	} else {
		alloc.Durations[dominant] += duration * tier2Above
	}

	var others []int
	for i := range zones {
		if i < dominant-1 || i > dominant+1 {
			others = append(others, i)
		}
	}
	share := duration * tier2Remainder / float64(len(others))
	for _, i := range others {
		alloc.Durations[i] = share
	}
	return alloc
}
