package activity

import (
	"sort"
	"time"
)

// Type is the closed set of activity types every parser normalizes to.
type Type string

const (
	TypeCycling    Type = "cycling"
	TypeRunning    Type = "running"
	TypeWalking    Type = "walking"
	TypeRowing     Type = "rowing"
	TypeSwimming   Type = "swimming"
	TypeHiking     Type = "hiking"
	TypeFitness    Type = "fitness"
	TypeTraining   Type = "training"
	TypeTransition Type = "transition"
)

// TrackPoint is one GPS sample. Optional fields are pointers: zero is a valid
// elevation, heart rate, and speed, so absence must stay distinguishable.
type TrackPoint struct {
	Lat       float64
	Lon       float64
	Elevation *float64   // meters
	Time      *time.Time
	HeartRate *int       // bpm
	Speed     *float64   // km/h
}

// Activity is the canonical record every parser produces and all analytics
// consume. Fields a format cannot represent are nil, never zero-filled.
type Activity struct {
	ID        string
	Type      Type
	SubType   string // free-form device label, e.g. "Indoor Cycling"
	StartTime time.Time

	Duration       int  // elapsed seconds, includes pauses
	MovingDuration *int // seconds excluding pauses

	Distance      float64  // meters
	AvgSpeed      *float64 // km/h
	MaxSpeed      *float64 // km/h
	ElevationGain *float64 // meters
	ElevationLoss *float64 // meters

	AvgHeartRate    *int     // bpm
	MaxHeartRate    *int     // bpm
	AvgCadence      *float64
	AvgPower        *int     // watts
	NormalizedPower *int     // watts
	AvgTemperature  *float64 // °C
	MaxTemperature  *float64 // °C
	Calories        *int

	TRIMP *int // computed at import when athlete constants are known

	Track []TrackPoint // may be empty (manual or summary-only entries)
}

// SortTrack orders the GPS trace chronologically. Points without a timestamp
// keep their relative position at the end.
func SortTrack(points []TrackPoint) {
	sort.SliceStable(points, func(i, j int) bool {
		if points[i].Time == nil || points[j].Time == nil {
			return points[j].Time == nil && points[i].Time != nil
		}
		return points[i].Time.Before(*points[j].Time)
	})
}

// HasGPS reports whether the activity carries any track points.
func (a *Activity) HasGPS() bool {
	return len(a.Track) > 0
}

// Date returns the calendar day the activity started on (YYYY-MM-DD).
func (a *Activity) Date() string {
	return a.StartTime.Format("2006-01-02")
}
