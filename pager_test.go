package bikeshare_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tidbyt.dev/bikeshare"
	"tidbyt.dev/bikeshare/model"
)

const pagerQuestion = "Would you like to display 5 lines of raw data?"

// Builds a table of n trips with distinct start stations.
func buildTable(n int) *bikeshare.Table {
	table := &bikeshare.Table{Schema: model.NewSchema(model.ColumnStartTime, model.ColumnStartStation)}
	start := time.Date(2017, 1, 2, 9, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		trip := &model.Trip{
			Index:        i,
			StartTime:    start.Add(time.Duration(i) * time.Hour),
			StartStation: "Station " + string(rune('A'+i)),
		}
		trip.Derive()
		table.Trips = append(table.Trips, trip)
	}
	return table
}

func runPager(t *testing.T, table *bikeshare.Table, answers ...string) (int, string) {
	out := &bytes.Buffer{}
	pager := bikeshare.NewPager(bikeshare.NewPrompter(scripted(answers...), out))
	shown, err := pager.Run(table)
	require.NoError(t, err)
	return shown, out.String()
}

func TestPagerYesThenNo(t *testing.T) {
	shown, text := runPager(t, buildTable(7), "yes", "no")

	assert.Equal(t, 5, shown)
	assert.Equal(t, 2, strings.Count(text, pagerQuestion))
	for _, station := range []string{"Station A", "Station B", "Station C", "Station D", "Station E"} {
		assert.Contains(t, text, station)
	}
	assert.NotContains(t, text, "Station F")
	assert.NotContains(t, text, "Station G")
}

func TestPagerExhaustsRows(t *testing.T) {
	shown, text := runPager(t, buildTable(7), "yes", "YES")

	// Second page holds the remaining two rows, and no third
	// question is asked.
	assert.Equal(t, 7, shown)
	assert.Equal(t, 2, strings.Count(text, pagerQuestion))
	assert.Contains(t, text, "Station G")
}

func TestPagerExactMultiple(t *testing.T) {
	shown, text := runPager(t, buildTable(10), "yes", "yes")
	assert.Equal(t, 10, shown)
	assert.Equal(t, 2, strings.Count(text, pagerQuestion))
}

func TestPagerNo(t *testing.T) {
	shown, text := runPager(t, buildTable(7), "nah", "no")
	assert.Equal(t, 0, shown)
	assert.Equal(t, 2, strings.Count(text, pagerQuestion))
	assert.Contains(t, text, "Not a valid input.")
	assert.NotContains(t, text, "Station A")
}

func TestPagerEmptyTable(t *testing.T) {
	shown, text := runPager(t, buildTable(0))
	assert.Equal(t, 0, shown)
	assert.NotContains(t, text, pagerQuestion)
}

func TestPrintTrips(t *testing.T) {
	out := &bytes.Buffer{}
	trip := &model.Trip{
		Index:        3,
		StartTime:    time.Date(2017, 1, 2, 9, 7, 57, 0, time.UTC),
		Duration:     776,
		StartStation: "Clark St",
		EndStation:   "Wells St",
		UserType:     "Subscriber",
		Gender:       "Male",
		BirthYear:    1989,
		HasBirthYear: true,
	}
	trip.Derive()

	bikeshare.PrintTrips(out, model.NewSchema(model.ColumnGender, model.ColumnBirthYear), []*model.Trip{trip})
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Equal(t, 2, len(lines))
	assert.Contains(t, lines[0], "Birth Year")
	assert.Equal(t, []string{
		"3", "2017-01-02", "09:07:57", "776", "Clark", "St", "Wells", "St", "Subscriber", "Male", "1989", "1", "Monday",
	}, strings.Fields(lines[1]))

	out.Reset()
	bikeshare.PrintTrips(out, model.NewSchema(), []*model.Trip{trip})
	assert.NotContains(t, out.String(), "Gender")
	assert.NotContains(t, out.String(), "1989")
}
