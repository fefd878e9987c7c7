package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"trainlog/internal/activity"
	"trainlog/internal/analysis"
	"trainlog/internal/config"
	"trainlog/internal/parser"
	"trainlog/internal/store"
)

// ImportService turns uploaded activity files into persisted canonical
// records.
type ImportService struct {
	db      *store.DB
	athlete analysis.Athlete
}

// NewImportService creates an import service with the athlete constants used
// for training impulse scoring.
func NewImportService(db *store.DB, athleteCfg config.AthleteConfig) *ImportService {
	return &ImportService{
		db: db,
		athlete: analysis.Athlete{
			MaxHR:     athleteCfg.MaxHR,
			RestingHR: athleteCfg.RestingHR,
		},
	}
}

// ImportResult reports one completed import.
type ImportResult struct {
	Activity *activity.Activity
	Warnings []string
}

// ImportFile imports a primary activity file, optionally paired with a
// separate GPS track file, and persists the merged record.
func (s *ImportService) ImportFile(ctx context.Context, path, companionPath string) (*ImportResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var companion []byte
	if companionPath != "" {
		companion, err = os.ReadFile(companionPath)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", companionPath, err)
		}
	}

	return s.Import(ctx, filepath.Base(path), data, companion)
}

// Import parses the primary content and the optional companion GPX
// concurrently, merges the results once both are done, computes the training
// impulse, and stores the record. A companion that fails to parse degrades to
// a warning; it never aborts an otherwise successful primary import.
func (s *ImportService) Import(ctx context.Context, filename string, primary, companion []byte) (*ImportResult, error) {
	type gpxResult struct {
		act *activity.Activity
		err error
	}

	var gpxCh chan gpxResult
	if len(companion) > 0 {
		gpxCh = make(chan gpxResult, 1)
		go func() {
			act, err := parser.ParseGPX(companion)
			gpxCh <- gpxResult{act: act, err: err}
		}()
	}

	act, err := parser.Parse(filename, primary)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Activity: act}

	if gpxCh != nil {
		gpx := <-gpxCh
		if gpx.err != nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("companion GPX ignored: %v", gpx.err))
		} else {
			mergeTrack(act, gpx.act)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	act.ID = uuid.NewString()
	act.TRIMP = analysis.TRIMP(float64(act.Duration), trimpHeartRate(act), s.athlete)

	if err := s.db.SaveActivity(act); err != nil {
		return nil, fmt.Errorf("saving activity: %w", err)
	}

	return result, nil
}

// mergeTrack copies the GPS trace and related fields from a companion track
// file onto the primary record. The primary always wins where it has data;
// the companion only fills gaps. Activity type is never taken from GPX; the
// format carries none and its parser default is a placeholder.
func mergeTrack(primary, gpx *activity.Activity) {
	if len(primary.Track) == 0 {
		primary.Track = gpx.Track
	}
	if primary.Distance == 0 {
		primary.Distance = gpx.Distance
	}
	if primary.Duration == 0 {
		primary.Duration = gpx.Duration
	}
	if primary.StartTime.IsZero() {
		primary.StartTime = gpx.StartTime
	}
	if primary.AvgSpeed == nil {
		primary.AvgSpeed = gpx.AvgSpeed
	}
	if primary.ElevationGain == nil {
		primary.ElevationGain = gpx.ElevationGain
	}
	if primary.ElevationLoss == nil {
		primary.ElevationLoss = gpx.ElevationLoss
	}
}

// trimpHeartRate picks the heart rate the impulse score is based on: the
// recorded session average when present, otherwise the mean of the trace's
// HR samples.
func trimpHeartRate(act *activity.Activity) float64 {
	if act.AvgHeartRate != nil {
		return float64(*act.AvgHeartRate)
	}

	var sum, n float64
	for _, p := range act.Track {
		if p.HeartRate != nil && *p.HeartRate > 0 {
			sum += float64(*p.HeartRate)
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / n
}
