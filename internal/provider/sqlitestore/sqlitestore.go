// Package sqlitestore keeps season slates in a SQLite database.
package sqlitestore

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/reallyasi9/survivor-pool/internal/survivor"

	_ "modernc.org/sqlite"
)

// Store reads and writes slates in SQLite. Missing values are stored as NULL.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens (or creates) the SQLite database and runs migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS slate_rows (
			year            INTEGER NOT NULL,
			week            INTEGER NOT NULL,
			position        INTEGER NOT NULL,
			team            TEXT NOT NULL,
			win_probability REAL,
			future_val      REAL,
			outcome         TEXT,
			PRIMARY KEY (year, week, position),
			UNIQUE (year, week, team)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_slate_rows_year ON slate_rows(year)`,
	}

	for i, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

// Season reads a year's slates. Rows keep the order they were stored in.
func (s *Store) Season(ctx context.Context, year int) (survivor.Season, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT week, team, win_probability, future_val, outcome
		FROM slate_rows WHERE year = ? ORDER BY week, position`, year)
	if err != nil {
		return nil, fmt.Errorf("query season %d: %w", year, err)
	}
	defer rows.Close()

	season := make(survivor.Season)
	for rows.Next() {
		var (
			week    int
			team    string
			winProb sql.NullFloat64
			future  sql.NullFloat64
			outcome sql.NullString
		)
		if err := rows.Scan(&week, &team, &winProb, &future, &outcome); err != nil {
			return nil, fmt.Errorf("scan season %d: %w", year, err)
		}
		row := survivor.NewRow(survivor.Team(team))
		if winProb.Valid {
			row.WinProbability = winProb.Float64
		}
		if future.Valid {
			row.FutureVal = future.Float64
		}
		row.Outcome = outcome.String
		season[week] = append(season[week], row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read season %d: %w", year, err)
	}
	return season, nil
}

// PutSeason replaces everything stored for the year with the given season.
func (s *Store) PutSeason(ctx context.Context, year int, season survivor.Season) error {
	if err := season.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM slate_rows WHERE year = ?`, year); err != nil {
		return fmt.Errorf("clear season %d: %w", year, err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO slate_rows
		(year, week, position, team, win_probability, future_val, outcome)
		VALUES (?,?,?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, week := range season.Weeks() {
		for i, r := range season[week] {
			_, err := stmt.ExecContext(ctx, year, week, i, string(r.Team),
				nullFloat(r.WinProbability), nullFloat(r.FutureVal), nullString(r.Outcome))
			if err != nil {
				return fmt.Errorf("insert %d week %d team %s: %w", year, week, r.Team, err)
			}
		}
	}

	return tx.Commit()
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func nullFloat(v float64) sql.NullFloat64 {
	if survivor.Missing(v) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

func nullString(v string) sql.NullString {
	if v == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: v, Valid: true}
}
