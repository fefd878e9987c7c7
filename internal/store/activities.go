package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"trainlog/internal/activity"
)

// SaveActivity inserts or replaces an activity together with its GPS trace.
// The whole write is transactional: a record is never visible without its
// track points.
func (db *DB) SaveActivity(a *activity.Activity) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO activities (
			id, type, sub_type, start_time, duration, moving_duration,
			distance, avg_speed, max_speed, elevation_gain, elevation_loss,
			avg_heart_rate, max_heart_rate, avg_cadence, avg_power,
			normalized_power, avg_temperature, max_temperature, calories, trimp,
			updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			type = excluded.type,
			sub_type = excluded.sub_type,
			start_time = excluded.start_time,
			duration = excluded.duration,
			moving_duration = excluded.moving_duration,
			distance = excluded.distance,
			avg_speed = excluded.avg_speed,
			max_speed = excluded.max_speed,
			elevation_gain = excluded.elevation_gain,
			elevation_loss = excluded.elevation_loss,
			avg_heart_rate = excluded.avg_heart_rate,
			max_heart_rate = excluded.max_heart_rate,
			avg_cadence = excluded.avg_cadence,
			avg_power = excluded.avg_power,
			normalized_power = excluded.normalized_power,
			avg_temperature = excluded.avg_temperature,
			max_temperature = excluded.max_temperature,
			calories = excluded.calories,
			trimp = excluded.trimp,
			updated_at = CURRENT_TIMESTAMP
	`,
		a.ID, string(a.Type), a.SubType, a.StartTime.Format(timeLayout),
		a.Duration, a.MovingDuration, a.Distance, a.AvgSpeed, a.MaxSpeed,
		a.ElevationGain, a.ElevationLoss, a.AvgHeartRate, a.MaxHeartRate,
		a.AvgCadence, a.AvgPower, a.NormalizedPower, a.AvgTemperature,
		a.MaxTemperature, a.Calories, a.TRIMP,
	)
	if err != nil {
		return fmt.Errorf("upserting activity: %w", err)
	}

	if _, err := tx.Exec("DELETE FROM track_points WHERE activity_id = ?", a.ID); err != nil {
		return fmt.Errorf("deleting existing track points: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO track_points (activity_id, seq, lat, lon, elevation, time, heart_rate, speed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for i, p := range a.Track {
		var ts *string
		if p.Time != nil {
			s := p.Time.Format(timeLayout)
			ts = &s
		}
		if _, err := stmt.Exec(a.ID, i, p.Lat, p.Lon, p.Elevation, ts, p.HeartRate, p.Speed); err != nil {
			return fmt.Errorf("inserting track point: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

const activityColumns = `id, type, sub_type, start_time, duration, moving_duration,
	distance, avg_speed, max_speed, elevation_gain, elevation_loss,
	avg_heart_rate, max_heart_rate, avg_cadence, avg_power,
	normalized_power, avg_temperature, max_temperature, calories, trimp`

// GetActivity retrieves an activity and its GPS trace by ID
func (db *DB) GetActivity(id string) (*activity.Activity, error) {
	row := db.QueryRow(`SELECT `+activityColumns+` FROM activities WHERE id = ?`, id)

	a, err := scanActivity(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrActivityNotFound
	}
	if err != nil {
		return nil, err
	}

	a.Track, err = db.getTrack(a.ID)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ListActivities returns activities whose start time falls inside [from, to),
// in chronological order, each with its GPS trace loaded.
func (db *DB) ListActivities(from, to time.Time) ([]activity.Activity, error) {
	rows, err := db.Query(`
		SELECT `+activityColumns+`
		FROM activities
		WHERE start_time >= ? AND start_time < ?
		ORDER BY start_time
	`, from.Format(timeLayout), to.Format(timeLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []activity.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range activities {
		activities[i].Track, err = db.getTrack(activities[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return activities, nil
}

// DeleteActivity removes an activity; track points cascade.
func (db *DB) DeleteActivity(id string) error {
	result, err := db.Exec("DELETE FROM activities WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrActivityNotFound
	}
	return nil
}

// CountActivities returns the total number of stored activities
func (db *DB) CountActivities() (int, error) {
	var n int
	err := db.QueryRow("SELECT COUNT(*) FROM activities").Scan(&n)
	return n, err
}

type scannable interface {
	Scan(dest ...any) error
}

func scanActivity(row scannable) (*activity.Activity, error) {
	var a activity.Activity
	var typ, startTime string

	err := row.Scan(
		&a.ID, &typ, &a.SubType, &startTime, &a.Duration, &a.MovingDuration,
		&a.Distance, &a.AvgSpeed, &a.MaxSpeed, &a.ElevationGain, &a.ElevationLoss,
		&a.AvgHeartRate, &a.MaxHeartRate, &a.AvgCadence, &a.AvgPower,
		&a.NormalizedPower, &a.AvgTemperature, &a.MaxTemperature, &a.Calories, &a.TRIMP,
	)
	if err != nil {
		return nil, err
	}

	a.Type = activity.Type(typ)
	a.StartTime, err = time.Parse(timeLayout, startTime)
	if err != nil {
		return nil, fmt.Errorf("parsing start time: %w", err)
	}
	return &a, nil
}

func (db *DB) getTrack(activityID string) ([]activity.TrackPoint, error) {
	rows, err := db.Query(`
		SELECT lat, lon, elevation, time, heart_rate, speed
		FROM track_points
		WHERE activity_id = ?
		ORDER BY seq
	`, activityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var track []activity.TrackPoint
	for rows.Next() {
		var p activity.TrackPoint
		var ts *string
		if err := rows.Scan(&p.Lat, &p.Lon, &p.Elevation, &ts, &p.HeartRate, &p.Speed); err != nil {
			return nil, err
		}
		if ts != nil {
			t, err := time.Parse(timeLayout, *ts)
			if err != nil {
				return nil, fmt.Errorf("parsing track point time: %w", err)
			}
			p.Time = &t
		}
		track = append(track, p)
	}
	return track, rows.Err()
}
