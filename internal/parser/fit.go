package parser

import (
	"bytes"
	"fmt"
	"math"

	"github.com/tormoder/fit"

	"trainlog/internal/activity"
)

const (
	mpsToKmh = 3.6

	// Degrees per semicircle: 180 / 2^31.
	semicirclesToDegrees = 180.0 / 2147483648.0
)

// Device sport codes map onto the closed activity type set. Codes without an
// entry fall back to cycling; that default is deliberate and documented, not
// silently derived.
var sportTypes = map[fit.Sport]activity.Type{
	fit.SportCycling:          activity.TypeCycling,
	fit.SportRunning:          activity.TypeRunning,
	fit.SportWalking:          activity.TypeWalking,
	fit.SportRowing:           activity.TypeRowing,
	fit.SportSwimming:         activity.TypeSwimming,
	fit.SportHiking:           activity.TypeHiking,
	fit.SportFitnessEquipment: activity.TypeFitness,
	fit.SportTraining:         activity.TypeTraining,
	fit.SportTransition:       activity.TypeTransition,
}

// Human-readable labels for common sub-sport codes. Unmapped codes pass
// through verbatim as the device reports them.
var subSportLabels = map[fit.SubSport]string{
	fit.SubSportRoad:          "Road",
	fit.SubSportMountain:      "Mountain",
	fit.SubSportTrail:         "Trail",
	fit.SubSportTrack:         "Track",
	fit.SubSportTreadmill:     "Treadmill",
	fit.SubSportSpin:          "Spinning",
	fit.SubSportIndoorCycling: "Indoor Cycling",
	fit.SubSportIndoorRowing:  "Indoor Rowing",
	fit.SubSportLapSwimming:   "Lap Swimming",
	fit.SubSportOpenWater:     "Open Water",
}

// ParseFIT decodes binary telemetry into a canonical activity record. A
// missing session message is not fatal (summary fields stay absent and are
// reconstructed from samples where possible); an undecodable byte stream or
// a file without an activity structure is.
func ParseFIT(data []byte) (*activity.Activity, error) {
	fitFile, err := fit.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &ParseError{Format: FormatFIT, Stage: "decode", Err: err}
	}

	fitActivity, err := fitFile.Activity()
	if err != nil {
		return nil, &ParseError{Format: FormatFIT, Stage: "activity", Err: fmt.Errorf("no activity structure: %w", err)}
	}

	act := &activity.Activity{Type: activity.TypeCycling}
	act.Track = buildTrack(fitActivity.Records)

	if len(fitActivity.Sessions) > 0 {
		applySession(act, fitActivity.Sessions[0])
	}

	if act.StartTime.IsZero() || act.Duration == 0 {
		fillFromTrack(act)
	}

	return act, nil
}

// applySession copies the device's session summary onto the record. Invalid
// FIT sentinel values stay nil rather than becoming zeros.
func applySession(act *activity.Activity, s *fit.SessionMsg) {
	if t, ok := sportTypes[s.Sport]; ok {
		act.Type = t
	}
	switch s.SubSport {
	case fit.SubSportGeneric, fit.SubSportAll, fit.SubSportInvalid:
		// No usable sub-sport recorded.
	default:
		if label, ok := subSportLabels[s.SubSport]; ok {
			act.SubType = label
		} else {
			act.SubType = s.SubSport.String()
		}
	}

	if !s.StartTime.IsZero() {
		act.StartTime = s.StartTime
	}

	if v := s.GetTotalElapsedTimeScaled(); validScaled(v) {
		act.Duration = int(v)
	}
	if v := s.GetTotalTimerTimeScaled(); validScaled(v) {
		act.MovingDuration = intPtr(int(v))
	}
	if v := s.GetTotalDistanceScaled(); validScaled(v) {
		act.Distance = v
	}

	if v := s.GetAvgSpeedScaled(); validScaled(v) {
		act.AvgSpeed = floatPtr(v * mpsToKmh)
	}
	if v := s.GetMaxSpeedScaled(); validScaled(v) {
		act.MaxSpeed = floatPtr(v * mpsToKmh)
	}

	if s.TotalAscent != 0 && s.TotalAscent != math.MaxUint16 {
		act.ElevationGain = floatPtr(float64(s.TotalAscent))
	}
	if s.TotalDescent != 0 && s.TotalDescent != math.MaxUint16 {
		act.ElevationLoss = floatPtr(float64(s.TotalDescent))
	}

	if validUint8(s.AvgHeartRate) {
		act.AvgHeartRate = intPtr(int(s.AvgHeartRate))
	}
	if validUint8(s.MaxHeartRate) {
		act.MaxHeartRate = intPtr(int(s.MaxHeartRate))
	}
	if validUint8(s.AvgCadence) {
		act.AvgCadence = floatPtr(float64(s.AvgCadence))
	}

	if validUint16(s.AvgPower) {
		act.AvgPower = intPtr(int(s.AvgPower))
	}
	if validUint16(s.NormalizedPower) {
		act.NormalizedPower = intPtr(int(s.NormalizedPower))
	}
	if validUint16(s.TotalCalories) {
		act.Calories = intPtr(int(s.TotalCalories))
	}

	if validInt8(s.AvgTemperature) {
		act.AvgTemperature = floatPtr(float64(s.AvgTemperature))
	}
	if validInt8(s.MaxTemperature) {
		act.MaxTemperature = floatPtr(float64(s.MaxTemperature))
	}
}

// buildTrack keeps only sample records carrying both latitude and longitude.
// Optional per-point fields default to nil, never zero: zero is a valid
// elevation and a valid coordinate-adjacent reading.
func buildTrack(records []*fit.RecordMsg) []activity.TrackPoint {
	var track []activity.TrackPoint
	for _, r := range records {
		// Unset positions decode to zero or sentinel semicircles; both fail
		// the checks below.
		if r.PositionLat.Semicircles() == 0 || r.PositionLong.Semicircles() == 0 {
			continue
		}
		lat := float64(r.PositionLat.Semicircles()) * semicirclesToDegrees
		lon := float64(r.PositionLong.Semicircles()) * semicirclesToDegrees
		if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
			continue
		}

		p := activity.TrackPoint{Lat: lat, Lon: lon}
		if v := r.GetAltitudeScaled(); scaledPresent(v) {
			p.Elevation = floatPtr(v)
		}
		if !r.Timestamp.IsZero() {
			t := r.Timestamp
			p.Time = &t
		}
		if validUint8(r.HeartRate) {
			p.HeartRate = intPtr(int(r.HeartRate))
		}
		if v := r.GetSpeedScaled(); scaledPresent(v) {
			p.Speed = floatPtr(v * mpsToKmh)
		}
		track = append(track, p)
	}
	return track
}

// fillFromTrack reconstructs start time and duration from the sample
// timestamps when the session summary did not provide them.
func fillFromTrack(act *activity.Activity) {
	var first, last *activity.TrackPoint
	for i := range act.Track {
		if act.Track[i].Time == nil {
			continue
		}
		if first == nil {
			first = &act.Track[i]
		}
		last = &act.Track[i]
	}
	if first == nil || last == nil {
		return
	}
	if act.StartTime.IsZero() {
		act.StartTime = *first.Time
	}
	if act.Duration == 0 {
		act.Duration = int(last.Time.Sub(*first.Time).Seconds())
	}
}

// FIT encodes "absent" as all-ones sentinels per field width; zero heart
// rates are sensor dropouts and treated the same way.
func validUint8(v uint8) bool { return v != 0 && v != math.MaxUint8 }

func validUint16(v uint16) bool { return v != 0 && v != math.MaxUint16 }

func validInt8(v int8) bool { return v != math.MaxInt8 }

// validScaled accepts only positive summary values; scaledPresent additionally
// allows zero and negatives for per-sample fields where zero is meaningful
// (sea-level altitude, standing still).
func validScaled(v float64) bool { return scaledPresent(v) && v > 0 }

func scaledPresent(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
