package bikeshare

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"tidbyt.dev/bikeshare/model"
)

var ErrNoTrips = errors.New("no matching trips")

// Most frequent times of travel.
type TimeStats struct {
	Month     string
	DayOfWeek string
	Hour      int
}

// Most popular stations and trip.
type StationStats struct {
	StartStation string
	EndStation   string
	Trip         string
}

// Total and mean trip duration.
type DurationStats struct {
	TotalSeconds float64
	MeanSeconds  float64
	Total        Span
	Mean         Span
}

// Demographics of riders. Genders is nil if the trip log has no
// gender column, BirthYears is nil if it has no birth year column.
type UserStats struct {
	UserTypes  []Count[string]
	Genders    []Count[string]
	BirthYears *BirthYearStats
}

// Earliest, most recent and most common year of birth. Valid is false
// when the column exists but holds no values.
type BirthYearStats struct {
	Valid      bool
	Earliest   int
	MostRecent int
	MostCommon int
}

func dayIndex(day string) int {
	for i, d := range model.Days {
		if strings.EqualFold(d, day) {
			return i
		}
	}
	return len(model.Days)
}

func ComputeTimeStats(t *Table) (*TimeStats, error) {
	if t.Len() == 0 {
		return nil, ErrNoTrips
	}

	months := make([]int, 0, t.Len())
	days := make([]string, 0, t.Len())
	hours := make([]int, 0, t.Len())
	for _, trip := range t.Trips {
		months = append(months, trip.Month)
		days = append(days, trip.DayOfWeek)
		hours = append(hours, trip.StartTime.Hour())
	}

	month, _ := Mode(months)
	day, _ := ModeFunc(days, func(a, b string) bool {
		return dayIndex(a) < dayIndex(b)
	})
	hour, _ := Mode(hours)

	return &TimeStats{
		Month:     time.Month(month).String(),
		DayOfWeek: day,
		Hour:      hour,
	}, nil
}

// Label for a trip between two stations, as reported as the most
// frequent trip.
func TripLabel(start, end string) string {
	return fmt.Sprintf("Start: %s, End: %s", start, end)
}

func ComputeStationStats(t *Table) (*StationStats, error) {
	if t.Len() == 0 {
		return nil, ErrNoTrips
	}

	starts := make([]string, 0, t.Len())
	ends := make([]string, 0, t.Len())
	combos := make([]string, 0, t.Len())
	for _, trip := range t.Trips {
		starts = append(starts, trip.StartStation)
		ends = append(ends, trip.EndStation)
		combos = append(combos, TripLabel(trip.StartStation, trip.EndStation))
	}

	stats := &StationStats{}
	stats.StartStation, _ = Mode(starts)
	stats.EndStation, _ = Mode(ends)
	stats.Trip, _ = Mode(combos)

	return stats, nil
}

func ComputeDurationStats(t *Table) (*DurationStats, error) {
	if t.Len() == 0 {
		return nil, ErrNoTrips
	}

	durations := make([]float64, 0, t.Len())
	for _, trip := range t.Trips {
		durations = append(durations, trip.Duration)
	}

	total := Sum(durations)
	mean, _ := Mean(durations)

	return &DurationStats{
		TotalSeconds: total,
		MeanSeconds:  mean,
		Total:        DecomposeTotal(total),
		Mean:         DecomposeMean(mean),
	}, nil
}

func ComputeUserStats(t *Table) (*UserStats, error) {
	if t.Len() == 0 {
		return nil, ErrNoTrips
	}

	userTypes := []string{}
	genders := []string{}
	birthYears := []float64{}
	for _, trip := range t.Trips {
		if trip.UserType != "" {
			userTypes = append(userTypes, trip.UserType)
		}
		if trip.Gender != "" {
			genders = append(genders, trip.Gender)
		}
		if trip.HasBirthYear {
			birthYears = append(birthYears, trip.BirthYear)
		}
	}

	stats := &UserStats{
		UserTypes: ValueCounts(userTypes),
	}

	if t.Has(model.ColumnGender) {
		stats.Genders = ValueCounts(genders)
	}

	if t.Has(model.ColumnBirthYear) {
		stats.BirthYears = &BirthYearStats{}
		if earliest, mostRecent, ok := MinMax(birthYears); ok {
			mostCommon, _ := Mode(birthYears)
			stats.BirthYears = &BirthYearStats{
				Valid:      true,
				Earliest:   int(earliest),
				MostRecent: int(mostRecent),
				MostCommon: int(mostCommon),
			}
		}
	}

	return stats, nil
}

// Reporter prints the four report sections for a table.
type Reporter struct {
	Out io.Writer
	Now func() time.Time
}

func NewReporter(out io.Writer) *Reporter {
	return &Reporter{
		Out: out,
		Now: time.Now,
	}
}

// Prints all report sections, in order.
func (r *Reporter) All(t *Table) {
	r.Time(t)
	r.Stations(t)
	r.Durations(t)
	r.Users(t)
}

func (r *Reporter) begin(title string) time.Time {
	fmt.Fprintf(r.Out, "\n%s...\n\n", title)
	return r.Now()
}

func (r *Reporter) end(start time.Time) {
	elapsed := r.Now().Sub(start)
	if elapsed < 0 {
		elapsed = 0
	}
	fmt.Fprintf(r.Out, "\nThis took %f seconds.\n", elapsed.Seconds())
	fmt.Fprintln(r.Out, strings.Repeat("-", 40))
}

func (r *Reporter) noTrips() {
	fmt.Fprintln(r.Out, "No matching trips.")
}

func (r *Reporter) Time(t *Table) {
	start := r.begin("Calculating The Most Frequent Times of Travel")
	defer r.end(start)

	stats, err := ComputeTimeStats(t)
	if err != nil {
		r.noTrips()
		return
	}

	fmt.Fprintln(r.Out, "The month most frequently traveled during:", stats.Month)
	fmt.Fprintln(r.Out, "The day of week most frequently traveled during:", stats.DayOfWeek)
	fmt.Fprintln(r.Out, "The starting hour most frequently traveled during:", stats.Hour)
}

func (r *Reporter) Stations(t *Table) {
	start := r.begin("Calculating The Most Popular Stations and Trip")
	defer r.end(start)

	stats, err := ComputeStationStats(t)
	if err != nil {
		r.noTrips()
		return
	}

	fmt.Fprintln(r.Out, "The most commonly used start station:", stats.StartStation)
	fmt.Fprintln(r.Out, "The most commonly used end station:", stats.EndStation)
	fmt.Fprintf(r.Out, "The most frequent trip (combination of start station and end station):\n%s\n", stats.Trip)
}

func (r *Reporter) Durations(t *Table) {
	start := r.begin("Calculating Trip Duration")
	defer r.end(start)

	stats, err := ComputeDurationStats(t)
	if err != nil {
		r.noTrips()
		return
	}

	fmt.Fprintf(
		r.Out,
		"Total Travel Time : %d days %d hours, %d minutes %d seconds\n",
		stats.Total.Days, stats.Total.Hours, stats.Total.Minutes, stats.Total.Seconds,
	)
	fmt.Fprintf(
		r.Out,
		"Mean Travel Time : %d hours, %d minutes %d seconds\n",
		stats.Mean.Hours, stats.Mean.Minutes, stats.Mean.Seconds,
	)
}

func (r *Reporter) Users(t *Table) {
	start := r.begin("Calculating User Stats")
	defer r.end(start)

	stats, err := ComputeUserStats(t)
	if err != nil {
		r.noTrips()
		return
	}

	fmt.Fprintln(r.Out, "Counts for user types:")
	printCounts(r.Out, stats.UserTypes)
	fmt.Fprintln(r.Out)

	if stats.Genders != nil {
		fmt.Fprintln(r.Out, "Counts of users by gender:")
		printCounts(r.Out, stats.Genders)
		fmt.Fprintln(r.Out)
	}

	if by := stats.BirthYears; by != nil {
		if !by.Valid {
			fmt.Fprintln(r.Out, "No year of birth data.")
			return
		}
		fmt.Fprintln(r.Out, "The earliest year of birth for all users:", by.Earliest)
		fmt.Fprintln(r.Out, "The most recent year of birth for all users:", by.MostRecent)
		fmt.Fprintln(r.Out, "The most common year of birth for all users:", by.MostCommon)
	}
}

func printCounts(out io.Writer, counts []Count[string]) {
	if len(counts) == 0 {
		fmt.Fprintln(out, "No data.")
		return
	}

	width := 0
	for _, c := range counts {
		if len(c.Value) > width {
			width = len(c.Value)
		}
	}
	for _, c := range counts {
		fmt.Fprintf(out, "%-*s  %d\n", width, c.Value, c.N)
	}
}
