package parse

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
	"github.com/spkg/bom"

	"tidbyt.dev/bikeshare/model"
	"tidbyt.dev/bikeshare/storage"
)

type TripCSV struct {
	StartTime    string `csv:"Start Time"`
	EndTime      string `csv:"End Time"`
	Duration     string `csv:"Trip Duration"`
	StartStation string `csv:"Start Station"`
	EndStation   string `csv:"End Station"`
	UserType     string `csv:"User Type"`
	Gender       string `csv:"Gender"`
	BirthYear    string `csv:"Birth Year"`
}

// Layouts accepted for Start Time and End Time.
var timeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04",
}

// Columns every trip log must have.
var requiredColumns = []string{
	model.ColumnStartTime,
	model.ColumnTripDuration,
	model.ColumnStartStation,
	model.ColumnEndStation,
	model.ColumnUserType,
}

func init() {
	// LazyCSVReader required (at least) to survive sloppy use of
	// quotes. The BOM reader strips unicode BOMs if present.
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		return gocsv.LazyCSVReader(bom.NewReader(in))
	})
}

func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp '%s'", s)
}

// Reads the header row and returns the set of columns present.
func ParseSchema(data []byte) (model.Schema, error) {
	r := gocsv.LazyCSVReader(bom.NewReader(bytes.NewReader(data)))
	header, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("missing header")
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading header")
	}

	schema := model.NewSchema(header...)
	for _, col := range requiredColumns {
		if !schema.Has(col) {
			return nil, fmt.Errorf("missing column '%s'", col)
		}
	}

	return schema, nil
}

// Parses a city's trip log into the writer. Start Time is parsed and
// month and day of week are derived for every row. Returns the set of
// columns present in the file.
func ParseTrips(writer storage.TripWriter, data []byte) (model.Schema, error) {
	schema, err := ParseSchema(data)
	if err != nil {
		return nil, err
	}

	err = writer.WriteSchema(schema)
	if err != nil {
		return nil, errors.Wrap(err, "writing schema")
	}

	err = writer.BeginTrips()
	if err != nil {
		return nil, errors.Wrap(err, "beginning trips")
	}

	i := -1
	err = gocsv.UnmarshalToCallbackWithError(bytes.NewReader(data), func(tc *TripCSV) error {
		i += 1

		startTime, err := parseTimestamp(tc.StartTime)
		if err != nil {
			return errors.Wrapf(err, "parsing Start Time (row %d)", i+1)
		}

		var endTime time.Time
		if schema.Has(model.ColumnEndTime) && strings.TrimSpace(tc.EndTime) != "" {
			endTime, err = parseTimestamp(tc.EndTime)
			if err != nil {
				return errors.Wrapf(err, "parsing End Time (row %d)", i+1)
			}
		}

		duration, err := strconv.ParseFloat(strings.TrimSpace(tc.Duration), 64)
		if err != nil {
			return errors.Wrapf(err, "parsing Trip Duration (row %d)", i+1)
		}

		trip := model.Trip{
			Index:        i,
			StartTime:    startTime,
			EndTime:      endTime,
			Duration:     duration,
			StartStation: tc.StartStation,
			EndStation:   tc.EndStation,
			UserType:     strings.TrimSpace(tc.UserType),
			Gender:       strings.TrimSpace(tc.Gender),
		}

		// Birth years are floats in some logs ("1989.0").
		if by := strings.TrimSpace(tc.BirthYear); by != "" {
			trip.BirthYear, err = strconv.ParseFloat(by, 64)
			if err != nil {
				return errors.Wrapf(err, "parsing Birth Year (row %d)", i+1)
			}
			trip.HasBirthYear = true
		}

		trip.Derive()

		err = writer.WriteTrip(&trip)
		if err != nil {
			return errors.Wrapf(err, "writing trip (row %d)", i+1)
		}

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "unmarshaling trips csv")
	}

	err = writer.EndTrips()
	if err != nil {
		return nil, errors.Wrap(err, "ending trips")
	}

	return schema, nil
}
