package store

import (
	"errors"
	"testing"
	"time"

	"trainlog/internal/activity"
)

func intp(v int) *int { return &v }

func floatp(v float64) *float64 { return &v }

func testActivity(id string, start time.Time) *activity.Activity {
	ts := start.Add(10 * time.Second)
	return &activity.Activity{
		ID:            id,
		Type:          activity.TypeRunning,
		SubType:       "Trail",
		StartTime:     start,
		Duration:      3600,
		Distance:      10000,
		AvgSpeed:      floatp(10),
		AvgHeartRate:  intp(150),
		MaxHeartRate:  intp(172),
		ElevationGain: floatp(120),
		Calories:      intp(650),
		TRIMP:         intp(180),
		Track: []activity.TrackPoint{
			{Lat: 52.52, Lon: 13.405, Elevation: floatp(34), Time: &start, HeartRate: intp(140), Speed: floatp(18)},
			{Lat: 52.521, Lon: 13.405, Time: &ts},
		},
	}
}

func TestSaveAndGetActivity(t *testing.T) {
	db := NewTestDB(t)
	start := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	want := testActivity("act-1", start)
	if err := db.SaveActivity(want); err != nil {
		t.Fatalf("SaveActivity() error: %v", err)
	}

	got, err := db.GetActivity("act-1")
	if err != nil {
		t.Fatalf("GetActivity() error: %v", err)
	}

	if got.Type != activity.TypeRunning || got.SubType != "Trail" {
		t.Errorf("type/subtype = %s/%s, want running/Trail", got.Type, got.SubType)
	}
	if !got.StartTime.Equal(start) {
		t.Errorf("start = %v, want %v", got.StartTime, start)
	}
	if got.Duration != 3600 || got.Distance != 10000 {
		t.Errorf("duration/distance = %d/%v", got.Duration, got.Distance)
	}
	if got.AvgHeartRate == nil || *got.AvgHeartRate != 150 {
		t.Errorf("avg HR = %v, want 150", got.AvgHeartRate)
	}
	if got.TRIMP == nil || *got.TRIMP != 180 {
		t.Errorf("trimp = %v, want 180", got.TRIMP)
	}
	// Unset optional fields survive a round trip as nil, not zero.
	if got.MovingDuration != nil || got.AvgPower != nil || got.AvgTemperature != nil {
		t.Error("unset optional fields came back non-nil")
	}

	if len(got.Track) != 2 {
		t.Fatalf("track points = %d, want 2", len(got.Track))
	}
	p := got.Track[0]
	if p.Lat != 52.52 || p.Elevation == nil || *p.Elevation != 34 {
		t.Errorf("first point = %+v", p)
	}
	if p.Time == nil || !p.Time.Equal(start) {
		t.Errorf("first point time = %v, want %v", p.Time, start)
	}
	if got.Track[1].HeartRate != nil || got.Track[1].Elevation != nil {
		t.Error("second point optional fields came back non-nil")
	}
}

func TestSaveActivityReplacesTrack(t *testing.T) {
	db := NewTestDB(t)
	start := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	a := testActivity("act-1", start)
	if err := db.SaveActivity(a); err != nil {
		t.Fatalf("SaveActivity() error: %v", err)
	}

	// Re-import with an updated record and a shorter trace.
	a.Duration = 1800
	a.Track = a.Track[:1]
	if err := db.SaveActivity(a); err != nil {
		t.Fatalf("SaveActivity() second write error: %v", err)
	}

	got, err := db.GetActivity("act-1")
	if err != nil {
		t.Fatalf("GetActivity() error: %v", err)
	}
	if got.Duration != 1800 {
		t.Errorf("duration = %d, want updated 1800", got.Duration)
	}
	if len(got.Track) != 1 {
		t.Errorf("track points = %d, want old trace replaced", len(got.Track))
	}

	n, err := db.CountActivities()
	if err != nil {
		t.Fatalf("CountActivities() error: %v", err)
	}
	if n != 1 {
		t.Errorf("count = %d, want 1 after upsert", n)
	}
}

func TestGetActivityNotFound(t *testing.T) {
	db := NewTestDB(t)
	if _, err := db.GetActivity("missing"); !errors.Is(err, ErrActivityNotFound) {
		t.Errorf("error = %v, want ErrActivityNotFound", err)
	}
}

func TestListActivities(t *testing.T) {
	db := NewTestDB(t)
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	// Insert out of order to exercise the sort.
	for i, offset := range []int{2, 0, 1, 10} {
		a := testActivity(string(rune('a'+i)), base.AddDate(0, 0, offset))
		if err := db.SaveActivity(a); err != nil {
			t.Fatalf("SaveActivity() error: %v", err)
		}
	}

	got, err := db.ListActivities(base, base.AddDate(0, 0, 5))
	if err != nil {
		t.Fatalf("ListActivities() error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3 inside the window", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].StartTime.Before(got[i-1].StartTime) {
			t.Errorf("activities out of order: %v before %v", got[i].StartTime, got[i-1].StartTime)
		}
	}
	for _, a := range got {
		if len(a.Track) == 0 {
			t.Errorf("activity %s listed without its track", a.ID)
		}
	}

	// The upper bound is exclusive.
	exact, err := db.ListActivities(base, base.AddDate(0, 0, 2))
	if err != nil {
		t.Fatalf("ListActivities() error: %v", err)
	}
	if len(exact) != 2 {
		t.Errorf("len = %d, want 2 with exclusive upper bound", len(exact))
	}
}

func TestDeleteActivity(t *testing.T) {
	db := NewTestDB(t)
	start := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	if err := db.SaveActivity(testActivity("act-1", start)); err != nil {
		t.Fatalf("SaveActivity() error: %v", err)
	}
	if err := db.DeleteActivity("act-1"); err != nil {
		t.Fatalf("DeleteActivity() error: %v", err)
	}
	if _, err := db.GetActivity("act-1"); !errors.Is(err, ErrActivityNotFound) {
		t.Errorf("error = %v, want ErrActivityNotFound after delete", err)
	}

	// Track points cascade with the parent row.
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM track_points").Scan(&n); err != nil {
		t.Fatalf("counting track points: %v", err)
	}
	if n != 0 {
		t.Errorf("orphaned track points = %d, want 0", n)
	}

	if err := db.DeleteActivity("act-1"); !errors.Is(err, ErrActivityNotFound) {
		t.Errorf("error = %v, want ErrActivityNotFound for missing row", err)
	}
}
