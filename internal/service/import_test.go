package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"trainlog/internal/activity"
	"trainlog/internal/config"
	"trainlog/internal/parser"
	"trainlog/internal/store"
)

var testAthlete = config.AthleteConfig{MaxHR: 185, RestingHR: 50}

const companionGPX = `<gpx><trk><trkseg>
<trkpt lat="52.5200" lon="13.405"><ele>34</ele><time>2026-03-01T08:30:00Z</time></trkpt>
<trkpt lat="52.5210" lon="13.405"><ele>39</ele><time>2026-03-01T09:30:00Z</time></trkpt>
</trkseg></trk></gpx>`

func TestImport(t *testing.T) {
	db := store.NewTestDB(t)
	svc := NewImportService(db, testAthlete)

	csvData := []byte("date,type,duration,avg_hr\n2026-03-01 08:30:00,running,3600,150\n")
	result, err := svc.Import(context.Background(), "run.csv", csvData, nil)
	if err != nil {
		t.Fatalf("Import() error: %v", err)
	}

	act := result.Activity
	if act.ID == "" {
		t.Error("imported activity has no ID")
	}
	if act.Type != activity.TypeRunning {
		t.Errorf("type = %s, want running", act.Type)
	}
	// 60 minutes at 150bpm against a 50-185 reserve scores 180.
	if act.TRIMP == nil || *act.TRIMP != 180 {
		t.Errorf("trimp = %v, want 180", act.TRIMP)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("warnings = %v, want none", result.Warnings)
	}

	stored, err := db.GetActivity(act.ID)
	if err != nil {
		t.Fatalf("GetActivity() error: %v", err)
	}
	if stored.TRIMP == nil || *stored.TRIMP != 180 {
		t.Errorf("stored trimp = %v, want 180", stored.TRIMP)
	}
}

func TestImportWithCompanion(t *testing.T) {
	db := store.NewTestDB(t)
	svc := NewImportService(db, testAthlete)

	// The summary row has no distance or elevation; the companion supplies
	// them along with the trace.
	csvData := []byte("date,type,duration,avg_hr\n2026-03-01 08:30:00,running,3600,150\n")
	result, err := svc.Import(context.Background(), "run.csv", csvData, []byte(companionGPX))
	if err != nil {
		t.Fatalf("Import() error: %v", err)
	}

	act := result.Activity
	if len(act.Track) != 2 {
		t.Errorf("track points = %d, want 2 from companion", len(act.Track))
	}
	if act.Distance == 0 {
		t.Error("distance not filled from companion")
	}
	if act.ElevationGain == nil || *act.ElevationGain != 5 {
		t.Errorf("gain = %v, want 5 from companion", act.ElevationGain)
	}
	// The summary file's values win over companion-derived ones.
	if act.Duration != 3600 {
		t.Errorf("duration = %d, want primary's 3600", act.Duration)
	}
	if act.Type != activity.TypeRunning {
		t.Errorf("type = %s, companion must not override it", act.Type)
	}
}

func TestImportBadCompanionWarns(t *testing.T) {
	db := store.NewTestDB(t)
	svc := NewImportService(db, testAthlete)

	csvData := []byte("date,duration\n2026-03-01,600\n")
	result, err := svc.Import(context.Background(), "run.csv", csvData, []byte("<gpx><trk>"))
	if err != nil {
		t.Fatalf("Import() error: %v, bad companion must not abort", err)
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "companion GPX ignored") {
		t.Errorf("warnings = %v, want one companion warning", result.Warnings)
	}
	if result.Activity.ID == "" {
		t.Error("primary record not persisted despite bad companion")
	}
}

func TestImportBadPrimaryFails(t *testing.T) {
	db := store.NewTestDB(t)
	svc := NewImportService(db, testAthlete)

	_, err := svc.Import(context.Background(), "run.csv", []byte("date,duration\n"), nil)
	if !errors.Is(err, parser.ErrEmptyFile) {
		t.Fatalf("error = %v, want ErrEmptyFile", err)
	}
	n, err := db.CountActivities()
	if err != nil {
		t.Fatalf("CountActivities() error: %v", err)
	}
	if n != 0 {
		t.Errorf("count = %d, want nothing persisted", n)
	}
}

func TestImportWithoutAthleteConstants(t *testing.T) {
	db := store.NewTestDB(t)
	svc := NewImportService(db, config.AthleteConfig{})

	csvData := []byte("date,duration,avg_hr\n2026-03-01,3600,150\n")
	result, err := svc.Import(context.Background(), "run.csv", csvData, nil)
	if err != nil {
		t.Fatalf("Import() error: %v", err)
	}
	if result.Activity.TRIMP != nil {
		t.Errorf("trimp = %v, want nil without athlete constants", *result.Activity.TRIMP)
	}
}

func TestImportCancelledContext(t *testing.T) {
	db := store.NewTestDB(t)
	svc := NewImportService(db, testAthlete)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Import(ctx, "run.csv", []byte("date,duration\n2026-03-01,600\n"), nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	n, err := db.CountActivities()
	if err != nil {
		t.Fatalf("CountActivities() error: %v", err)
	}
	if n != 0 {
		t.Errorf("count = %d, want nothing persisted after cancel", n)
	}
}

func TestTrimpHeartRate(t *testing.T) {
	hr := func(v int) *int { return &v }

	t.Run("session average wins", func(t *testing.T) {
		act := &activity.Activity{
			AvgHeartRate: hr(150),
			Track:        []activity.TrackPoint{{HeartRate: hr(100)}},
		}
		if got := trimpHeartRate(act); got != 150 {
			t.Errorf("trimpHeartRate() = %v, want 150", got)
		}
	})

	t.Run("falls back to trace mean", func(t *testing.T) {
		act := &activity.Activity{
			Track: []activity.TrackPoint{{HeartRate: hr(140)}, {HeartRate: hr(160)}, {}},
		}
		if got := trimpHeartRate(act); got != 150 {
			t.Errorf("trimpHeartRate() = %v, want 150", got)
		}
	})

	t.Run("no data", func(t *testing.T) {
		if got := trimpHeartRate(&activity.Activity{}); got != 0 {
			t.Errorf("trimpHeartRate() = %v, want 0", got)
		}
	})
}
