package parser

import (
	"encoding/xml"
	"math"
	"time"

	"trainlog/internal/activity"
)

type gpxDocument struct {
	XMLName xml.Name   `xml:"gpx"`
	Tracks  []gpxTrack `xml:"trk"`
}

type gpxTrack struct {
	Name     string       `xml:"name"`
	Segments []gpxSegment `xml:"trkseg"`
}

type gpxSegment struct {
	Points []gpxPoint `xml:"trkpt"`
}

type gpxPoint struct {
	Lat  float64  `xml:"lat,attr"`
	Lon  float64  `xml:"lon,attr"`
	Ele  *float64 `xml:"ele"`
	Time string   `xml:"time"`
}

// ParseGPX converts a GPS track into a canonical activity record. The format
// carries no activity type, so the record defaults to cycling and callers
// with better context (a paired primary file) override it. Moving time,
// heart rate, power, and cadence are not representable in GPX and stay nil.
func ParseGPX(data []byte) (*activity.Activity, error) {
	var doc gpxDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Format: FormatGPX, Stage: "decode", Err: err}
	}

	act := &activity.Activity{Type: activity.TypeCycling}

	var distance, gain, loss float64
	var hasElevation bool
	var firstTime, lastTime *time.Time

	for _, trk := range doc.Tracks {
		for _, seg := range trk.Segments {
			var prev *gpxPoint
			for i := range seg.Points {
				pt := &seg.Points[i]

				tp := activity.TrackPoint{Lat: pt.Lat, Lon: pt.Lon, Elevation: pt.Ele}
				if ts, err := time.Parse(time.RFC3339, pt.Time); err == nil {
					t := ts
					tp.Time = &t
					if firstTime == nil {
						firstTime = &t
					}
					lastTime = &t
				}
				act.Track = append(act.Track, tp)

				if prev != nil {
					distance += haversine(prev.Lat, prev.Lon, pt.Lat, pt.Lon)
					if prev.Ele != nil && pt.Ele != nil {
						if d := *pt.Ele - *prev.Ele; d > 0 {
							gain += d
						} else {
							loss -= d
						}
					}
				}
				if pt.Ele != nil {
					hasElevation = true
				}
				prev = pt
			}
		}
	}

	if len(act.Track) == 0 {
		return nil, &ParseError{Format: FormatGPX, Stage: "track", Err: ErrNoTrack}
	}

	if firstTime != nil {
		act.StartTime = *firstTime
	}
	if firstTime != nil && lastTime != nil {
		act.Duration = int(lastTime.Sub(*firstTime).Seconds())
	}

	act.Distance = distance

	// Average speed is undefined for a zero-duration track; leave it nil
	// instead of propagating Inf into downstream aggregation.
	if act.Duration > 0 {
		act.AvgSpeed = floatPtr(distance / 1000 / (float64(act.Duration) / 3600))
	}

	if hasElevation {
		act.ElevationGain = floatPtr(gain)
		act.ElevationLoss = floatPtr(loss)
	}

	return act, nil
}

// haversine returns the great-circle distance between two coordinates in
// meters.
func haversine(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadius = 6371000.0

	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadius * c
}
