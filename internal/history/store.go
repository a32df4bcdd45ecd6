package history

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"gnc-attendance/internal/attendance"
	"gnc-attendance/internal/components/assert"
)

//go:embed schema.sql
var Schema string

// Snapshot is a report as it was scraped at a point in time.
type Snapshot struct {
	Time   time.Time
	Report attendance.Report
}

// Store keeps one attendance snapshot per calendar day.
type Store struct {
	db *sql.DB
}

func NewStore(database *sql.DB) Store {
	assert.NotNil(database)
	return Store{db: database}
}

// Push records the report for the day of t, replacing an earlier snapshot
// of that same day. Days are in t's location.
func (s Store) Push(ctx context.Context, t time.Time, r attendance.Report) error {
	encoded, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("push snapshot: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("push snapshot: %w", err)
	}
	defer tx.Rollback()

	startOfToday := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()).Unix()
	startOfTomorrow := time.Date(t.Year(), t.Month(), t.Day()+1, 0, 0, 0, 0, t.Location()).Unix()

	_, err = tx.ExecContext(
		ctx,
		"delete from attendance_snapshot where time >= ? and time < ?",
		startOfToday, startOfTomorrow,
	)
	if err != nil {
		return fmt.Errorf("push snapshot: delete same day: %w", err)
	}

	_, err = tx.ExecContext(
		ctx,
		`insert into attendance_snapshot (
			time, overall, total_present, total_instructional,
			today_found, today_hours, today_posted, report
		) values (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.Unix(),
		r.Overall,
		r.TotalPresent,
		r.TotalInstructional,
		r.Today.Found,
		r.Today.Hours,
		r.Today.Posted,
		string(encoded),
	)
	if err != nil {
		return fmt.Errorf("push snapshot: insert: %w", err)
	}

	return tx.Commit()
}

// Pull returns up to limit snapshots, newest first, with times in loc.
func (s Store) Pull(ctx context.Context, limit int, loc *time.Location) ([]Snapshot, error) {
	rows, err := s.db.QueryContext(
		ctx,
		"select time, report from attendance_snapshot order by time desc limit ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("pull snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []Snapshot
	for rows.Next() {
		var (
			unix    int64
			encoded string
		)
		err := rows.Scan(&unix, &encoded)
		if err != nil {
			return nil, fmt.Errorf("pull snapshots: %w", err)
		}

		var r attendance.Report
		err = json.Unmarshal([]byte(encoded), &r)
		if err != nil {
			return nil, fmt.Errorf("pull snapshots: decode report at %d: %w", unix, err)
		}
		snapshots = append(snapshots, Snapshot{
			Time:   time.Unix(unix, 0).In(loc),
			Report: r,
		})
	}
	return snapshots, rows.Err()
}
