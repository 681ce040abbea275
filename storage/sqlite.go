package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"tidbyt.dev/bikeshare/model"
)

type SQLiteConfig struct {
	OnDisk    bool
	Directory string
}

type SQLiteStorage struct {
	SQLiteConfig

	tables map[string]*sql.DB
}

type SQLiteTripWriter struct {
	db              *sql.DB
	tripInsertQuery *sql.Stmt
	tripInsertTx    *sql.Tx
}

type SQLiteTripReader struct {
	db *sql.DB
}

func NewSQLiteStorage(cfg ...SQLiteConfig) (*SQLiteStorage, error) {
	onDisk := false
	directory := ""
	if len(cfg) > 0 {
		onDisk = cfg[0].OnDisk
		directory = cfg[0].Directory
	}

	if onDisk {
		if err := os.MkdirAll(directory, 0755); err != nil {
			return nil, fmt.Errorf("creating directory: %w", err)
		}
	}

	return &SQLiteStorage{
		SQLiteConfig: SQLiteConfig{
			OnDisk:    onDisk,
			Directory: directory,
		},
		tables: map[string]*sql.DB{},
	}, nil
}

func (s *SQLiteStorage) sourceName(table string) string {
	if !s.OnDisk {
		return ":memory:"
	}
	return filepath.Join(s.Directory, table+".db")
}

func (s *SQLiteStorage) Close() error {
	for table, db := range s.tables {
		if err := db.Close(); err != nil {
			return fmt.Errorf("closing %s: %w", table, err)
		}
		delete(s.tables, table)
	}
	return nil
}

func (s *SQLiteStorage) GetReader(table string) (TripReader, error) {
	db, found := s.tables[table]
	if found {
		return &SQLiteTripReader{
			db: db,
		}, nil
	}
	if !s.OnDisk {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, table)
	}

	sourceName := s.sourceName(table)
	if _, err := os.Stat(sourceName); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s at %s", ErrTableNotFound, table, sourceName)
	}

	db, err := sql.Open("sqlite3", sourceName)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s.tables[table] = db

	return &SQLiteTripReader{
		db: db,
	}, nil
}

func (s *SQLiteStorage) GetWriter(table string) (TripWriter, error) {
	if db, found := s.tables[table]; found {
		db.Close()
		delete(s.tables, table)
	}

	sourceName := s.sourceName(table)
	if s.OnDisk {
		// delete file if it exists
		if _, err := os.Stat(sourceName); err == nil {
			err := os.Remove(sourceName)
			if err != nil {
				return nil, fmt.Errorf("removing existing database: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite3", sourceName)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Each connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	for name, query := range map[string]string{
		"columns": `
CREATE TABLE columns (
    name TEXT PRIMARY KEY
);`,
		"trips": `
CREATE TABLE trips (
    idx INTEGER PRIMARY KEY,
    start_time TEXT NOT NULL,
    end_time TEXT NOT NULL,
    duration REAL NOT NULL,
    start_station TEXT NOT NULL,
    end_station TEXT NOT NULL,
    user_type TEXT NOT NULL,
    gender TEXT NOT NULL,
    birth_year REAL,
    month INTEGER NOT NULL,
    day_of_week TEXT NOT NULL
);
CREATE INDEX trips_month ON trips (month);
CREATE INDEX trips_day_of_week ON trips (day_of_week);
`,
	} {
		_, err = db.Exec(query)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("creating %s table: %s", name, err)
		}
	}

	s.tables[table] = db

	return &SQLiteTripWriter{
		db: db,
	}, nil
}

func (s *SQLiteStorage) DeleteTable(table string) error {
	db, found := s.tables[table]
	if !found {
		return fmt.Errorf("%w: %s", ErrTableNotFound, table)
	}
	delete(s.tables, table)

	if err := db.Close(); err != nil {
		return fmt.Errorf("closing database: %w", err)
	}

	if s.OnDisk {
		err := os.Remove(s.sourceName(table))
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing database: %w", err)
		}
	}

	return nil
}

func (f *SQLiteTripWriter) WriteSchema(schema model.Schema) error {
	for _, col := range schema.Columns() {
		_, err := f.db.Exec(`INSERT INTO columns (name) VALUES (?)`, col)
		if err != nil {
			return fmt.Errorf("inserting column: %w", err)
		}
	}
	return nil
}

func (f *SQLiteTripWriter) BeginTrips() error {
	// transaction with prepared statement.
	var err error
	f.tripInsertTx, err = f.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning trip insert transaction: %w", err)
	}

	f.tripInsertQuery, err = f.tripInsertTx.Prepare(`
INSERT INTO trips (idx, start_time, end_time, duration, start_station, end_station, user_type, gender, birth_year, month, day_of_week)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		f.tripInsertTx.Rollback()
		f.tripInsertTx = nil
		return fmt.Errorf("preparing trip insert: %w", err)
	}

	return nil
}

func (f *SQLiteTripWriter) WriteTrip(trip *model.Trip) error {
	birthYear := sql.NullFloat64{
		Float64: trip.BirthYear,
		Valid:   trip.HasBirthYear,
	}

	_, err := f.tripInsertQuery.Exec(
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
		f.tripInsertQuery.Close()
		f.tripInsertTx.Rollback()
		f.tripInsertTx = nil
		f.tripInsertQuery = nil
		return fmt.Errorf("inserting trip: %w", err)
	}

	return nil
}

func (f *SQLiteTripWriter) EndTrips() error {
	// commit transaction and clean up
	f.tripInsertQuery.Close()
	err := f.tripInsertTx.Commit()
	if err != nil {
		return fmt.Errorf("committing trip insert transaction: %w", err)
	}
	f.tripInsertTx = nil
	f.tripInsertQuery = nil

	return nil
}

func (f *SQLiteTripWriter) Close() error {
	if f.tripInsertTx != nil {
		f.tripInsertQuery.Close()
		f.tripInsertTx.Rollback()
		f.tripInsertTx = nil
		f.tripInsertQuery = nil
	}
	return nil
}

func (f *SQLiteTripReader) Schema() (model.Schema, error) {
	rows, err := f.db.Query(`SELECT name FROM columns`)
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

func (f *SQLiteTripReader) Trips(filter TripFilter) ([]*model.Trip, error) {
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

	conditions := []string{}
	params := []interface{}{}
	if filter.Month != 0 {
		conditions = append(conditions, "month = ?")
		params = append(params, filter.Month)
	}
	if filter.DayOfWeek != "" {
		conditions = append(conditions, "day_of_week = ?")
		params = append(params, filter.DayOfWeek)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY idx ASC"

	rows, err := f.db.Query(query, params...)
	if err != nil {
		return nil, fmt.Errorf("querying trips: %w", err)
	}
	defer rows.Close()

	return scanTrips(rows)
}

// Scans rows of the column layout selected by the SQL readers.
func scanTrips(rows *sql.Rows) ([]*model.Trip, error) {
	trips := []*model.Trip{}
	for rows.Next() {
		var t model.Trip
		var startTime, endTime string
		var birthYear sql.NullFloat64
		err := rows.Scan(
			&t.Index,
			&startTime,
			&endTime,
			&t.Duration,
			&t.StartStation,
			&t.EndStation,
			&t.UserType,
			&t.Gender,
			&birthYear,
			&t.Month,
			&t.DayOfWeek,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning trip: %w", err)
		}

		t.StartTime, err = parseTimestamp(startTime)
		if err != nil {
			return nil, fmt.Errorf("parsing start_time: %w", err)
		}
		t.EndTime, err = parseTimestamp(endTime)
		if err != nil {
			return nil, fmt.Errorf("parsing end_time: %w", err)
		}
		t.BirthYear = birthYear.Float64
		t.HasBirthYear = birthYear.Valid

		trips = append(trips, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating trips: %w", err)
	}

	return trips, nil
}
