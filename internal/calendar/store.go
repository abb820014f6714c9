package calendar

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/freema/daysync/internal/apperror"
	"github.com/freema/daysync/internal/metrics"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Store persists seasons in SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies pending migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	fsys, err := fs.Sub(migrationFS, "migrations")
	if err != nil {
		return fmt.Errorf("migrations fs: %w", err)
	}
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, fsys)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Replace stores cal as the full season for cal.Year, dropping any races
// previously stored for that year. It returns the import ID.
func (s *Store) Replace(ctx context.Context, cal *Calendar) (string, error) {
	if cal.Year <= 0 {
		return "", apperror.Validation("calendar year is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin import: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	importID := uuid.New().String()

	if _, err := tx.ExecContext(ctx, `DELETE FROM races WHERE year = ?`, cal.Year); err != nil {
		return "", fmt.Errorf("clearing season %d: %w", cal.Year, err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO seasons (year, import_id, imported_at) VALUES (?, ?, ?)
		 ON CONFLICT(year) DO UPDATE SET import_id = excluded.import_id, imported_at = excluded.imported_at`,
		cal.Year, importID, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return "", fmt.Errorf("recording season %d: %w", cal.Year, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO races (year, round, name, location, country, circuit, date, q1, q2, sprint, race)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("prepare race insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range cal.Races {
		_, err := stmt.ExecContext(ctx, cal.Year, r.Round, r.Name, r.Location, r.Country, r.Circuit,
			r.Date, r.Sessions.Q1, r.Sessions.Q2, r.Sessions.Sprint, r.Sessions.Race)
		if err != nil {
			return "", fmt.Errorf("inserting round %d: %w", r.Round, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit import: %w", err)
	}

	metrics.CalendarRaces.Set(float64(len(cal.Races)))
	return importID, nil
}

// Season returns the stored calendar for year.
func (s *Store) Season(ctx context.Context, year int) (*Calendar, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM seasons WHERE year = ?`, year).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NotFound("no calendar stored for %d", year)
	}
	if err != nil {
		return nil, fmt.Errorf("reading season %d: %w", year, err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT round, name, location, country, circuit, date, q1, q2, sprint, race
		 FROM races WHERE year = ? ORDER BY round`, year)
	if err != nil {
		return nil, fmt.Errorf("reading races for %d: %w", year, err)
	}
	defer rows.Close()

	cal := &Calendar{Year: year, Races: []Race{}}
	for rows.Next() {
		var r Race
		if err := rows.Scan(&r.Round, &r.Name, &r.Location, &r.Country, &r.Circuit, &r.Date,
			&r.Sessions.Q1, &r.Sessions.Q2, &r.Sessions.Sprint, &r.Sessions.Race); err != nil {
			return nil, fmt.Errorf("scanning race: %w", err)
		}
		cal.Races = append(cal.Races, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading races for %d: %w", year, err)
	}
	return cal, nil
}

// Latest returns the most recent stored season.
func (s *Store) Latest(ctx context.Context) (*Calendar, error) {
	var year sql.NullInt64
	if err := s.db.QueryRowContext(ctx, `SELECT MAX(year) FROM seasons`).Scan(&year); err != nil {
		return nil, fmt.Errorf("reading latest season: %w", err)
	}
	if !year.Valid {
		return nil, apperror.NotFound("no calendar has been imported")
	}
	return s.Season(ctx, int(year.Int64))
}
