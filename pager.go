package bikeshare

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"tidbyt.dev/bikeshare/model"
)

const DefaultPageSize = 5

// Pager shows raw trips a page at a time for as long as the user
// keeps asking for more.
type Pager struct {
	Prompter *Prompter
	Out      io.Writer
	PageSize int
}

func NewPager(p *Prompter) *Pager {
	return &Pager{
		Prompter: p,
		Out:      p.Out,
		PageSize: DefaultPageSize,
	}
}

// Asks before each page. Stops on "no" or once all rows have been
// shown. Returns the number of rows printed.
func (p *Pager) Run(t *Table) (int, error) {
	size := p.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}

	shown := 0
	for offset := 0; offset < t.Len(); offset += size {
		more, err := p.Prompter.YesNo(
			fmt.Sprintf("\nWould you like to display %d lines of raw data? Enter yes or no.\n", size),
		)
		if err != nil {
			return shown, err
		}
		if !more {
			break
		}

		rows := t.Rows(offset, size)
		PrintTrips(p.Out, t.Schema, rows)
		shown += len(rows)
	}

	return shown, nil
}

// Prints trips as an aligned table. Optional columns are included
// only if the schema has them.
func PrintTrips(out io.Writer, schema model.Schema, trips []*model.Trip) {
	columns := []string{
		"",
		model.ColumnStartTime,
		model.ColumnEndTime,
		model.ColumnTripDuration,
		model.ColumnStartStation,
		model.ColumnEndStation,
		model.ColumnUserType,
	}
	hasGender := schema.Has(model.ColumnGender)
	hasBirthYear := schema.Has(model.ColumnBirthYear)
	if hasGender {
		columns = append(columns, model.ColumnGender)
	}
	if hasBirthYear {
		columns = append(columns, model.ColumnBirthYear)
	}
	columns = append(columns, "month", "day_of_week")

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(columns, "\t"))

	for _, t := range trips {
		endTime := ""
		if !t.EndTime.IsZero() {
			endTime = t.EndTime.Format("2006-01-02 15:04:05")
		}

		fields := []string{
			strconv.Itoa(t.Index),
			t.StartTime.Format("2006-01-02 15:04:05"),
			endTime,
			strconv.FormatFloat(t.Duration, 'f', -1, 64),
			t.StartStation,
			t.EndStation,
			t.UserType,
		}
		if hasGender {
			fields = append(fields, t.Gender)
		}
		if hasBirthYear {
			birthYear := ""
			if t.HasBirthYear {
				birthYear = strconv.FormatFloat(t.BirthYear, 'f', -1, 64)
			}
			fields = append(fields, birthYear)
		}
		fields = append(fields, strconv.Itoa(t.Month), t.DayOfWeek)

		fmt.Fprintln(w, strings.Join(fields, "\t"))
	}

	w.Flush()
}
