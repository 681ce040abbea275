package bikeshare_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tidbyt.dev/bikeshare"
	"tidbyt.dev/bikeshare/datasource"
	"tidbyt.dev/bikeshare/model"
	"tidbyt.dev/bikeshare/storage"
	"tidbyt.dev/bikeshare/testutil"
)

func indexes(table *bikeshare.Table) []int {
	idx := []int{}
	for _, trip := range table.Trips {
		idx = append(idx, trip.Index)
	}
	return idx
}

func testLoaderFilters(t *testing.T, backend string) {
	loader, _ := testutil.BuildLoader(t, backend, testutil.CityFiles())
	ctx := context.Background()

	load := func(month, day string) *bikeshare.Table {
		table, err := loader.Load(ctx, model.Criteria{City: "chicago", Month: month, Day: day})
		require.NoError(t, err)
		t.Cleanup(func() { table.Release() })
		return table
	}

	// No filter returns every row, in file order
	all := load("all", "all")
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6}, indexes(all))
	assert.Equal(t, len(testutil.ChicagoTrips)-1, all.Len())

	// Month only
	january := load("january", "all")
	assert.Equal(t, []int{0, 1, 2}, indexes(january))
	for _, trip := range january.Trips {
		assert.Equal(t, 1, trip.Month)
	}
	assert.Equal(t, []int{6}, indexes(load("june", "all")))
	assert.Equal(t, []int{}, indexes(load("april", "all")))

	// Day only
	monday := load("all", "monday")
	assert.Equal(t, []int{0, 1, 3, 5}, indexes(monday))
	for _, trip := range monday.Trips {
		assert.Equal(t, "Monday", trip.DayOfWeek)
	}

	// Both is the intersection of the two
	both := load("january", "monday")
	assert.Equal(t, []int{0, 1}, indexes(both))
	intersection := []int{}
	for _, i := range indexes(january) {
		for _, j := range indexes(monday) {
			if i == j {
				intersection = append(intersection, i)
			}
		}
	}
	assert.Equal(t, intersection, indexes(both))

	// Filters that match nothing give an empty table
	assert.Equal(t, 0, load("june", "monday").Len())
}

func TestLoaderFilters(t *testing.T) {
	for _, backend := range testutil.Backends() {
		t.Run(backend, func(t *testing.T) {
			testLoaderFilters(t, backend)
		})
	}
}

func testLoaderDerivedColumns(t *testing.T, backend string) {
	loader, _ := testutil.BuildLoader(t, backend, testutil.CityFiles())

	table, err := loader.Load(context.Background(), model.Criteria{City: "Chicago", Month: "all", Day: "all"})
	require.NoError(t, err)
	defer table.Release()

	first := table.Trips[0]
	assert.Equal(t, 2017, first.StartTime.Year())
	assert.Equal(t, 9, first.StartTime.Hour())
	assert.Equal(t, 1, first.Month)
	assert.Equal(t, "Monday", first.DayOfWeek)
	assert.Equal(t, 776.0, first.Duration)
	assert.Equal(t, "Clark St", first.StartStation)
	assert.Equal(t, "Wells St", first.EndStation)
	assert.Equal(t, "Subscriber", first.UserType)
	assert.Equal(t, "Male", first.Gender)
	assert.True(t, first.HasBirthYear)
	assert.Equal(t, 1989.0, first.BirthYear)

	last := table.Trips[6]
	assert.Equal(t, 6, last.Month)
	assert.Equal(t, "Sunday", last.DayOfWeek)
	assert.Equal(t, "", last.UserType)
	assert.False(t, last.HasBirthYear)

	assert.True(t, table.Has(model.ColumnGender))
	assert.True(t, table.Has(model.ColumnBirthYear))
}

func TestLoaderDerivedColumns(t *testing.T) {
	for _, backend := range testutil.Backends() {
		t.Run(backend, func(t *testing.T) {
			testLoaderDerivedColumns(t, backend)
		})
	}
}

func testLoaderSchema(t *testing.T, backend string) {
	loader, _ := testutil.BuildLoader(t, backend, testutil.CityFiles())

	table, err := loader.Load(context.Background(), model.Criteria{City: "washington", Month: "all", Day: "all"})
	require.NoError(t, err)
	defer table.Release()

	assert.Equal(t, 3, table.Len())
	assert.True(t, table.Has(model.ColumnUserType))
	assert.False(t, table.Has(model.ColumnGender))
	assert.False(t, table.Has(model.ColumnBirthYear))
}

func TestLoaderSchema(t *testing.T) {
	for _, backend := range testutil.Backends() {
		t.Run(backend, func(t *testing.T) {
			testLoaderSchema(t, backend)
		})
	}
}

func TestLoaderReloadsEveryTime(t *testing.T) {
	loader, source := testutil.BuildLoader(t, "memory", testutil.CityFiles())
	criteria := model.Criteria{City: "chicago", Month: "all", Day: "all"}

	for i := 0; i < 3; i++ {
		table, err := loader.Load(context.Background(), criteria)
		require.NoError(t, err)
		require.NoError(t, table.Release())
	}

	assert.Equal(t, 3, source.Reads("chicago.csv"))
}

func TestLoaderRelease(t *testing.T) {
	loader, _ := testutil.BuildLoader(t, "sqlite", testutil.CityFiles())

	table, err := loader.Load(context.Background(), model.Criteria{City: "chicago", Month: "all", Day: "all"})
	require.NoError(t, err)

	assert.NoError(t, table.Release())
	assert.Equal(t, 0, table.Len())

	// Second release is a no-op
	assert.NoError(t, table.Release())
}

func TestLoaderErrors(t *testing.T) {
	files := testutil.CityFiles()
	files["washington.csv"] = []string{
		testutil.WashingtonHeader,
		"not a time,2017-03-06 08:15:00,900,A,B,Registered",
	}
	delete(files, "new_york_city.csv")

	loader, _ := testutil.BuildLoader(t, "memory", files)
	ctx := context.Background()

	_, err := loader.Load(ctx, model.Criteria{City: "boston", Month: "all", Day: "all"})
	assert.ErrorIs(t, err, bikeshare.ErrUnknownCity)

	_, err = loader.Load(ctx, model.Criteria{City: "new york city", Month: "all", Day: "all"})
	assert.ErrorIs(t, err, datasource.ErrNotFound)

	_, err = loader.Load(ctx, model.Criteria{City: "washington", Month: "all", Day: "all"})
	assert.Error(t, err)

	_, err = loader.Load(ctx, model.Criteria{City: "chicago", Month: "july", Day: "all"})
	assert.Error(t, err)

	_, err = loader.Load(ctx, model.Criteria{City: "chicago", Month: "all", Day: "funday"})
	assert.Error(t, err)
}

func TestLoaderDayFilterIgnoresCase(t *testing.T) {
	loader, _ := testutil.BuildLoader(t, "sqlite", testutil.CityFiles())

	table, err := loader.Load(context.Background(), model.Criteria{City: "Chicago", Month: "JANUARY", Day: "MONDAY"})
	require.NoError(t, err)
	defer table.Release()

	assert.Equal(t, []int{0, 1}, indexes(table))
}

func TestLoadersSharingStorage(t *testing.T) {
	s := storage.NewMemoryStorage()
	source := datasource.NewMemory(map[string]string{
		"chicago.csv": testutil.JoinLines(testutil.ChicagoTrips),
	})

	a := bikeshare.NewLoader(s)
	a.Source = source
	b := bikeshare.NewLoader(s)
	b.Source = source

	criteria := model.Criteria{City: "chicago", Month: "all", Day: "all"}

	ta, err := a.Load(context.Background(), criteria)
	require.NoError(t, err)
	tb, err := b.Load(context.Background(), criteria)
	require.NoError(t, err)

	// Same city, same load count, but separate tables
	assert.Equal(t, 2, len(s.Tables))

	require.NoError(t, ta.Release())
	assert.Equal(t, 1, len(s.Tables))

	require.NoError(t, tb.Release())
	assert.Equal(t, 0, len(s.Tables))
}

type closeFailingStorage struct {
	*storage.MemoryStorage
}

type closeFailingWriter struct {
	storage.TripWriter
}

func (s closeFailingStorage) GetWriter(table string) (storage.TripWriter, error) {
	w, err := s.MemoryStorage.GetWriter(table)
	if err != nil {
		return nil, err
	}
	return closeFailingWriter{w}, nil
}

func (w closeFailingWriter) Close() error {
	return errors.New("disk on fire")
}

func TestLoaderLogsWriterCloseError(t *testing.T) {
	logs := &bytes.Buffer{}

	loader := bikeshare.NewLoader(closeFailingStorage{storage.NewMemoryStorage()})
	loader.Source = datasource.NewMemory(map[string]string{
		"chicago.csv": testutil.JoinLines(testutil.ChicagoTrips),
	})
	loader.Logger = slog.New(slog.NewTextHandler(logs, nil))

	table, err := loader.Load(context.Background(), model.Criteria{City: "chicago", Month: "all", Day: "all"})
	require.NoError(t, err)
	defer table.Release()

	assert.Equal(t, 7, table.Len())
	assert.Contains(t, logs.String(), "closing writer")
	assert.Contains(t, logs.String(), "disk on fire")
}
