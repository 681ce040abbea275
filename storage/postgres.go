package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"tidbyt.dev/bikeshare/model"
)

const (
	PSQLTripBatchSize = 10000
)

type PSQLStorage struct {
	db *sql.DB
}

type PSQLTripWriter struct {
	id      string
	db      *sql.DB
	tripBuf []model.Trip
}

type PSQLTripReader struct {
	id string
	db *sql.DB
}

// Creates a new Postgres Storage using the provided connection string.
//
// If clearDB is true, the database will be cleared on startup. You
// probably only want this for testing.
func NewPSQLStorage(connStr string, clearDB bool) (*PSQLStorage, error) {

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	if clearDB {
		_, err = db.Exec(`
DROP TABLE IF EXISTS trip_columns;
DROP TABLE IF EXISTS trips;
`)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("clearing db: %w", err)
		}
	}

	_, err = db.Exec(`
CREATE TABLE IF NOT EXISTS trip_columns (
    table_id TEXT NOT NULL,
    name TEXT NOT NULL,
    PRIMARY KEY (table_id, name)
);

CREATE TABLE IF NOT EXISTS trips (
    table_id TEXT NOT NULL,
    idx INTEGER NOT NULL,
    start_time TEXT NOT NULL,
    end_time TEXT NOT NULL,
    duration DOUBLE PRECISION NOT NULL,
    start_station TEXT NOT NULL,
    end_station TEXT NOT NULL,
    user_type TEXT NOT NULL,
    gender TEXT NOT NULL,
    birth_year DOUBLE PRECISION,
    month INTEGER NOT NULL,
    day_of_week TEXT NOT NULL,
    PRIMARY KEY (table_id, idx)
);
CREATE INDEX IF NOT EXISTS trips_table_month_day ON trips (table_id, month, day_of_week);
`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}

	return &PSQLStorage{
		db: db,
	}, nil
}

func (s *PSQLStorage) Close() error {
	err := s.db.Close()
	if err != nil {
		return fmt.Errorf("failed to close db: %w", err)
	}
	return nil
}

func (s *PSQLStorage) GetReader(table string) (TripReader, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM trip_columns WHERE table_id = $1`, table).Scan(&n)
	if err != nil {
		return nil, fmt.Errorf("checking table: %w", err)
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, table)
	}

	return &PSQLTripReader{
		id: table,
		db: s.db,
	}, nil
}

func (s *PSQLStorage) GetWriter(table string) (TripWriter, error) {
	err := s.deleteRecords(table)
	if err != nil {
		return nil, err
	}

	return &PSQLTripWriter{
		id: table,
		db: s.db,
	}, nil
}

func (s *PSQLStorage) DeleteTable(table string) error {
	return s.deleteRecords(table)
}

func (s *PSQLStorage) deleteRecords(table string) error {
	for _, name := range []string{"trip_columns", "trips"} {
		_, err := s.db.Exec(`DELETE FROM `+name+` WHERE table_id = $1`, table)
		if err != nil {
			return fmt.Errorf("deleting %s records: %w", name, err)
		}
	}
	return nil
}

func (w *PSQLTripWriter) WriteSchema(schema model.Schema) error {
	for _, col := range schema.Columns() {
		_, err := w.db.Exec(`
INSERT INTO trip_columns (table_id, name)
VALUES ($1, $2)
ON CONFLICT DO NOTHING`,
			w.id,
			col,
		)
		if err != nil {
			return fmt.Errorf("inserting column: %w", err)
		}
	}
	return nil
}

func (w *PSQLTripWriter) BeginTrips() error {
	return nil
}

func (w *PSQLTripWriter) WriteTrip(trip *model.Trip) error {
	w.tripBuf = append(w.tripBuf, *trip)

	if len(w.tripBuf) >= PSQLTripBatchSize {
		err := w.flushTrips()
		if err != nil {
			return fmt.Errorf("flushing trips: %w", err)
		}
	}

	return nil
}

func (w *PSQLTripWriter) EndTrips() error {
	if len(w.tripBuf) > 0 {
		err := w.flushTrips()
		if err != nil {
			return fmt.Errorf("flushing trips: %w", err)
		}
	}
	return nil
}

func (w *PSQLTripWriter) flushTrips() error {
	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(pq.CopyIn(
		"trips",
		"table_id", "idx", "start_time", "end_time", "duration", "start_station",
		"end_station", "user_type", "gender", "birth_year", "month", "day_of_week",
	))
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, trip := range w.tripBuf {
		birthYear := sql.NullFloat64{
			Float64: trip.BirthYear,
			Valid:   trip.HasBirthYear,
		}
		_, err = stmt.Exec(
			w.id,
			trip.Index,
			formatTimestamp(trip.StartTime),
			formatTimestamp(trip.EndTime),
			trip.Duration,
			trip.StartStation,
			trip.EndStation,
			trip.UserType,
			trip.Gender,
			birthYear,
			trip.Month,
			trip.DayOfWeek,
		)
		if err != nil {
			return fmt.Errorf("COPY trip: %w", err)
		}
	}

	_, err = stmt.Exec()
	if err != nil {
		return fmt.Errorf("executing statement: %w", err)
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("committing: %w", err)
	}

	w.tripBuf = nil

	return nil
}

func (w *PSQLTripWriter) Close() error {
	w.tripBuf = nil
	return nil
}

func (r *PSQLTripReader) Schema() (model.Schema, error) {
	rows, err := r.db.Query(`SELECT name FROM trip_columns WHERE table_id = $1`, r.id)
	if err != nil {
		return nil, fmt.Errorf("querying columns: %w", err)
	}
	defer rows.Close()

	schema := model.Schema{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning column: %w", err)
		}
		schema[name] = true
	}

	return schema, rows.Err()
}

func (r *PSQLTripReader) Trips(filter TripFilter) ([]*model.Trip, error) {
	query := `
SELECT
    idx,
    start_time,
    end_time,
    duration,
    start_station,
    end_station,
    user_type,
    gender,
    birth_year,
    month,
    day_of_week
FROM trips`

	conditions := []string{"table_id = $1"}
	params := []interface{}{r.id}
	paramCount := 2

	if filter.Month != 0 {
		conditions = append(conditions, fmt.Sprintf("month = $%d", paramCount))
		params = append(params, filter.Month)
		paramCount++
	}
	if filter.DayOfWeek != "" {
		conditions = append(conditions, fmt.Sprintf("day_of_week = $%d", paramCount))
		params = append(params, filter.DayOfWeek)
		paramCount++
	}

	query += " WHERE " + strings.Join(conditions, " AND ") + " ORDER BY idx ASC"

	rows, err := r.db.Query(query, params...)
	if err != nil {
		return nil, fmt.Errorf("querying trips: %w", err)
	}
	defer rows.Close()

	return scanTrips(rows)
}
