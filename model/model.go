package model

import (
	"sort"
	"strings"
	"time"
)

// Holds all external facing types and constants.

// Column names as they appear in the header of a city's trip log.
const (
	ColumnStartTime    = "Start Time"
	ColumnEndTime      = "End Time"
	ColumnTripDuration = "Trip Duration"
	ColumnStartStation = "Start Station"
	ColumnEndStation   = "End Station"
	ColumnUserType     = "User Type"
	ColumnGender       = "Gender"
	ColumnBirthYear    = "Birth Year"
)

// Value used by the month and day filters to disable filtering on
// that axis.
const All = "all"

// Months covered by the trip logs, in calendar order.
var Months = []string{"january", "february", "march", "april", "may", "june"}

// Days of week, Monday first.
var Days = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// A single trip, i.e. one row of a city's trip log.
type Trip struct {
	// Position of the row in the source file, starting at 0.
	Index int

	StartTime    time.Time
	EndTime      time.Time
	Duration     float64
	StartStation string
	EndStation   string
	UserType     string
	Gender       string
	BirthYear    float64
	HasBirthYear bool

	// Derived from StartTime.
	Month     int
	DayOfWeek string
}

// Fills in the columns derived from StartTime.
func (t *Trip) Derive() {
	t.Month = int(t.StartTime.Month())
	t.DayOfWeek = t.StartTime.Weekday().String()
}

// The set of columns available in a loaded trip log. Cities differ in
// which optional columns (gender, birth year) they carry.
type Schema map[string]bool

func NewSchema(columns ...string) Schema {
	s := Schema{}
	for _, c := range columns {
		c = strings.TrimSpace(c)
		if c != "" {
			s[c] = true
		}
	}
	return s
}

func (s Schema) Has(column string) bool {
	return s[column]
}

// Sorted column names.
func (s Schema) Columns() []string {
	cols := make([]string, 0, len(s))
	for c := range s {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

// Filter criteria chosen by the user. All values are lower case;
// Month and Day may be All.
type Criteria struct {
	City  string
	Month string
	Day   string
}

// 1-based index of the criteria's month, or 0 if not filtering on
// month.
func (c Criteria) MonthNumber() int {
	for i, m := range Months {
		if m == c.Month {
			return i + 1
		}
	}
	return 0
}

// Title cased day name ("Monday"), or "" if not filtering on day.
func (c Criteria) DayName() string {
	if c.Day == "" || strings.EqualFold(c.Day, All) {
		return ""
	}
	return Title(c.Day)
}

// Upper cases the first letter of each space separated word, lower
// cases the rest.
func Title(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
