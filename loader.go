package bikeshare

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"tidbyt.dev/bikeshare/datasource"
	"tidbyt.dev/bikeshare/model"
	"tidbyt.dev/bikeshare/parse"
	"tidbyt.dev/bikeshare/storage"
)

// Loader reads a city's trip log, parses it into scratch storage and
// returns the trips matching the month and day filters.
type Loader struct {
	Catalog Catalog
	Source  datasource.Source
	Logger  *slog.Logger

	storage storage.Storage
	prefix  string
	loads   int
}

// Creates a new Loader on top of the given storage. Data files are
// read from the current directory unless Source is replaced. Table IDs
// carry a per-loader UUID, so loaders sharing a database never touch
// each other's tables.
func NewLoader(s storage.Storage) *Loader {
	return &Loader{
		Catalog: DefaultCatalog,
		Source:  datasource.NewFilesystem("."),
		Logger:  slog.Default(),

		storage: s,
		prefix:  uuid.New().String(),
	}
}

// Loads the trip log for the criteria's city and filters it by month
// and day of week. Every call reads and parses the file anew. The
// caller owns the returned Table and should Release() it when done.
func (l *Loader) Load(ctx context.Context, criteria model.Criteria) (*Table, error) {
	file, err := l.Catalog.File(criteria.City)
	if err != nil {
		return nil, err
	}

	filter, err := tripFilter(criteria)
	if err != nil {
		return nil, err
	}

	t0 := time.Now()

	buf, err := l.Source.Read(ctx, file)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", file, err)
	}

	l.loads++
	tableID := fmt.Sprintf(
		"%s_%s_%d",
		strings.ReplaceAll(strings.ToLower(criteria.City), " ", "_"),
		l.prefix,
		l.loads,
	)

	writer, err := l.storage.GetWriter(tableID)
	if err != nil {
		return nil, fmt.Errorf("getting writer: %w", err)
	}

	_, err = parse.ParseTrips(writer, buf)
	if closeErr := writer.Close(); closeErr != nil {
		l.Logger.Warn("closing writer", slog.String("table", tableID), slog.String("error", closeErr.Error()))
	}
	if err != nil {
		l.storage.DeleteTable(tableID)
		return nil, fmt.Errorf("parsing %s: %w", file, err)
	}

	reader, err := l.storage.GetReader(tableID)
	if err != nil {
		l.storage.DeleteTable(tableID)
		return nil, fmt.Errorf("getting reader: %w", err)
	}

	schema, err := reader.Schema()
	if err != nil {
		l.storage.DeleteTable(tableID)
		return nil, fmt.Errorf("reading schema: %w", err)
	}

	trips, err := reader.Trips(filter)
	if err != nil {
		l.storage.DeleteTable(tableID)
		return nil, fmt.Errorf("reading trips: %w", err)
	}

	l.Logger.Debug(
		"loaded trip log",
		slog.String("file", file),
		slog.String("table", tableID),
		slog.String("month", criteria.Month),
		slog.String("day", criteria.Day),
		slog.Int("trips", len(trips)),
		slog.Duration("elapsed", time.Since(t0)),
	)

	return &Table{
		Criteria: criteria,
		Schema:   schema,
		Trips:    trips,
		release: func() error {
			return l.storage.DeleteTable(tableID)
		},
	}, nil
}

func tripFilter(criteria model.Criteria) (storage.TripFilter, error) {
	filter := storage.TripFilter{}

	month := strings.ToLower(criteria.Month)
	if month != "" && month != model.All {
		filter.Month = model.Criteria{Month: month}.MonthNumber()
		if filter.Month == 0 {
			return filter, fmt.Errorf("invalid month '%s'", criteria.Month)
		}
	}

	day := strings.ToLower(criteria.Day)
	if day != "" && day != model.All {
		if !Choices(model.Days).Contains(day) {
			return filter, fmt.Errorf("invalid day '%s'", criteria.Day)
		}
		filter.DayOfWeek = criteria.DayName()
	}

	return filter, nil
}
