package parser

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"trainlog/internal/activity"
)

// Each logical field accepts exactly two header spellings, matched
// case-insensitively. Anything else in the header is ignored.
var csvColumns = map[string][2]string{
	"date":     {"date", "start_time"},
	"type":     {"type", "sport"},
	"duration": {"duration", "duration_s"},
	"distance": {"distance", "distance_m"},
	"avgHR":    {"avg_hr", "average_heart_rate"},
	"maxHR":    {"max_hr", "max_heart_rate"},
	"avgSpeed": {"avg_speed", "average_speed"},
	"cadence":  {"cadence", "avg_cadence"},
	"calories": {"calories", "kcal"},
	"ascent":   {"ascent", "elevation_gain"},
	"descent":  {"descent", "elevation_loss"},
}

var csvDateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

var csvTypes = map[string]activity.Type{
	"cycling":    activity.TypeCycling,
	"running":    activity.TypeRunning,
	"walking":    activity.TypeWalking,
	"rowing":     activity.TypeRowing,
	"swimming":   activity.TypeSwimming,
	"hiking":     activity.TypeHiking,
	"fitness":    activity.TypeFitness,
	"training":   activity.TypeTraining,
	"transition": activity.TypeTransition,
}

// ParseCSV builds a canonical activity record from the first data row of a
// headered CSV export. Files describing more than one activity are a usage
// error handled upstream; this parser never sums rows. A header-only file is
// a malformed-input failure, not a record of nulls.
func ParseCSV(data []byte) (*activity.Activity, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, &ParseError{Format: FormatCSV, Stage: "decode", Err: err}
	}
	if len(rows) < 2 {
		return nil, &ParseError{Format: FormatCSV, Stage: "rows", Err: ErrEmptyFile}
	}

	header := rows[0]
	row := rows[1]

	// Column name -> index, matched case-insensitively against the fixed
	// synonym pairs.
	fields := make(map[string]int)
	for i, name := range header {
		normalized := strings.ToLower(strings.TrimSpace(name))
		for field, synonyms := range csvColumns {
			if normalized == synonyms[0] || normalized == synonyms[1] {
				fields[field] = i
			}
		}
	}

	cell := func(field string) (string, bool) {
		i, ok := fields[field]
		if !ok || i >= len(row) {
			return "", false
		}
		v := strings.TrimSpace(row[i])
		return v, v != ""
	}

	dateStr, ok := cell("date")
	if !ok {
		return nil, &ParseError{Format: FormatCSV, Stage: "date", Err: fmt.Errorf("required date column missing")}
	}

	act := &activity.Activity{Type: activity.TypeCycling}

	parsed := false
	for _, layout := range csvDateLayouts {
		if t, err := time.Parse(layout, dateStr); err == nil {
			act.StartTime = t
			parsed = true
			break
		}
	}
	if !parsed {
		return nil, &ParseError{Format: FormatCSV, Stage: "date", Err: fmt.Errorf("unparsable date %q", dateStr)}
	}

	if v, ok := cell("type"); ok {
		if t, known := csvTypes[strings.ToLower(v)]; known {
			act.Type = t
		} else {
			act.SubType = v
		}
	}

	num := func(field string) (float64, bool, error) {
		v, ok := cell(field)
		if !ok {
			return 0, false, nil
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false, &ParseError{Format: FormatCSV, Stage: field, Err: fmt.Errorf("non-numeric value %q", v)}
		}
		return f, true, nil
	}

	if v, ok, err := num("duration"); err != nil {
		return nil, err
	} else if ok {
		act.Duration = int(v)
	}
	if v, ok, err := num("distance"); err != nil {
		return nil, err
	} else if ok {
		act.Distance = v
	}
	if v, ok, err := num("avgHR"); err != nil {
		return nil, err
	} else if ok {
		act.AvgHeartRate = intPtr(int(math.Round(v)))
	}
	if v, ok, err := num("maxHR"); err != nil {
		return nil, err
	} else if ok {
		act.MaxHeartRate = intPtr(int(math.Round(v)))
	}
	if v, ok, err := num("avgSpeed"); err != nil {
		return nil, err
	} else if ok {
		act.AvgSpeed = floatPtr(v)
	}
	if v, ok, err := num("cadence"); err != nil {
		return nil, err
	} else if ok {
		act.AvgCadence = floatPtr(v)
	}
	if v, ok, err := num("calories"); err != nil {
		return nil, err
	} else if ok {
		act.Calories = intPtr(int(math.Round(v)))
	}
	if v, ok, err := num("ascent"); err != nil {
		return nil, err
	} else if ok {
		act.ElevationGain = floatPtr(v)
	}
	if v, ok, err := num("descent"); err != nil {
		return nil, err
	} else if ok {
		act.ElevationLoss = floatPtr(v)
	}

	return act, nil
}
