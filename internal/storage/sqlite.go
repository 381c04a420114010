// Package storage is the relational collaborator behind the engine. Records
// are stored as JSON blobs keyed by date: the schema exists for keying and
// upserts, not for querying inside records.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"trade-report-engine/internal/interfaces"
	"trade-report-engine/internal/types"
)

const dateLayout = "2006-01-02"

const schema = `
CREATE TABLE IF NOT EXISTS raw_reports (
	id         TEXT PRIMARY KEY,
	kind       TEXT NOT NULL,
	report_date TEXT NOT NULL,
	body       TEXT NOT NULL,
	created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS daily_reports (
	report_date TEXT PRIMARY KEY,
	record      TEXT NOT NULL,
	warnings    TEXT NOT NULL,
	created_at  TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS weekly_reports (
	week_start     TEXT NOT NULL,
	week_end       TEXT NOT NULL,
	record         TEXT NOT NULL,
	warnings       TEXT NOT NULL,
	parser_version TEXT NOT NULL,
	created_at     TEXT NOT NULL,
	PRIMARY KEY (week_start, week_end)
);
CREATE TABLE IF NOT EXISTS day_scores (
	score_date TEXT PRIMARY KEY,
	score      TEXT NOT NULL,
	created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS week_scores (
	week_label TEXT PRIMARY KEY,
	scorecard  TEXT NOT NULL,
	created_at TEXT NOT NULL
);`

// Store is a sqlite-backed ReportStore.
type Store struct {
	db *sql.DB
}

var _ interfaces.ReportStore = (*Store)(nil)

// Open opens (or creates) the database at path and applies the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s", filepath.ToSlash(path)))
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) SaveRaw(ctx context.Context, raw types.RawReport) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO raw_reports (id, kind, report_date, body, created_at) VALUES (?, ?, ?, ?, ?)`,
		uuid.NewString(), string(raw.Kind), raw.Date.Format(dateLayout), raw.Text, time.Now().UTC().Format(time.RFC3339))
	return err
}

func (s *Store) SaveDaily(ctx context.Context, r *types.DailyReport, warnings []types.Warning) error {
	record, warns, err := marshalPair(r, warnings)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO daily_reports (report_date, record, warnings, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(report_date) DO UPDATE SET record=excluded.record, warnings=excluded.warnings`,
		r.Date.Format(dateLayout), record, warns, time.Now().UTC().Format(time.RFC3339))
	return err
}

func (s *Store) GetDaily(ctx context.Context, date time.Time) (*types.DailyReport, []types.Warning, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT record, warnings FROM daily_reports WHERE report_date = ?`, date.Format(dateLayout))
	var record, warns string
	if err := row.Scan(&record, &warns); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, &interfaces.NotFoundError{Key: "daily_reports/" + date.Format(dateLayout)}
		}
		return nil, nil, err
	}
	var r types.DailyReport
	var warnings []types.Warning
	if err := unmarshalPair(record, warns, &r, &warnings); err != nil {
		return nil, nil, err
	}
	return &r, warnings, nil
}

func (s *Store) SaveWeekly(ctx context.Context, r *types.WeeklyReport, warnings []types.Warning) error {
	record, warns, err := marshalPair(r, warnings)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO weekly_reports (week_start, week_end, record, warnings, parser_version, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(week_start, week_end) DO UPDATE SET
		   record=excluded.record, warnings=excluded.warnings, parser_version=excluded.parser_version`,
		r.WeekStart.Format(dateLayout), r.WeekEnd.Format(dateLayout), record, warns,
		r.ParserVersion, time.Now().UTC().Format(time.RFC3339))
	return err
}

func (s *Store) GetWeekly(ctx context.Context, weekStart time.Time) (*types.WeeklyReport, []types.Warning, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT record, warnings FROM weekly_reports WHERE week_start = ?`, weekStart.Format(dateLayout))
	var record, warns string
	if err := row.Scan(&record, &warns); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, &interfaces.NotFoundError{Key: "weekly_reports/" + weekStart.Format(dateLayout)}
		}
		return nil, nil, err
	}
	var r types.WeeklyReport
	var warnings []types.Warning
	if err := unmarshalPair(record, warns, &r, &warnings); err != nil {
		return nil, nil, err
	}
	return &r, warnings, nil
}

func (s *Store) SaveDayScore(ctx context.Context, da types.DayAccuracy) error {
	b, err := json.Marshal(da)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO day_scores (score_date, score, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(score_date) DO UPDATE SET score=excluded.score`,
		da.Date.Format(dateLayout), string(b), time.Now().UTC().Format(time.RFC3339))
	return err
}

func (s *Store) GetDayScore(ctx context.Context, date time.Time) (*types.DayAccuracy, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT score FROM day_scores WHERE score_date = ?`, date.Format(dateLayout))
	var b string
	if err := row.Scan(&b); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &interfaces.NotFoundError{Key: "day_scores/" + date.Format(dateLayout)}
		}
		return nil, err
	}
	var da types.DayAccuracy
	if err := json.Unmarshal([]byte(b), &da); err != nil {
		return nil, err
	}
	return &da, nil
}

func (s *Store) DayScoresBetween(ctx context.Context, from, to time.Time) ([]types.DayAccuracy, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT score FROM day_scores WHERE score_date >= ? AND score_date <= ? ORDER BY score_date`,
		from.Format(dateLayout), to.Format(dateLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []types.DayAccuracy
	for rows.Next() {
		var b string
		if err := rows.Scan(&b); err != nil {
			return nil, err
		}
		var da types.DayAccuracy
		if err := json.Unmarshal([]byte(b), &da); err != nil {
			return nil, err
		}
		days = append(days, da)
	}
	return days, rows.Err()
}

func (s *Store) SaveWeekScore(ctx context.Context, card types.WeekScorecard) error {
	b, err := json.Marshal(card)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO week_scores (week_label, scorecard, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(week_label) DO UPDATE SET scorecard=excluded.scorecard`,
		card.WeekLabel, string(b), time.Now().UTC().Format(time.RFC3339))
	return err
}

func (s *Store) GetWeekScore(ctx context.Context, label string) (*types.WeekScorecard, error) {
	row := s.db.QueryRowContext(ctx, `SELECT scorecard FROM week_scores WHERE week_label = ?`, label)
	var b string
	if err := row.Scan(&b); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &interfaces.NotFoundError{Key: "week_scores/" + label}
		}
		return nil, err
	}
	var card types.WeekScorecard
	if err := json.Unmarshal([]byte(b), &card); err != nil {
		return nil, err
	}
	return &card, nil
}

func marshalPair(record any, warnings []types.Warning) (string, string, error) {
	rb, err := json.Marshal(record)
	if err != nil {
		return "", "", err
	}
	if warnings == nil {
		warnings = []types.Warning{}
	}
	wb, err := json.Marshal(warnings)
	if err != nil {
		return "", "", err
	}
	return string(rb), string(wb), nil
}

func unmarshalPair(record, warns string, dst any, warnings *[]types.Warning) error {
	if err := json.Unmarshal([]byte(record), dst); err != nil {
		return err
	}
	return json.Unmarshal([]byte(warns), warnings)
}
