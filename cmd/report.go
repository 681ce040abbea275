package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"tidbyt.dev/bikeshare"
	"tidbyt.dev/bikeshare/model"
)

var reportCmd = &cobra.Command{
	Use:   "report <city> [month] [day]",
	Short: "Prints statistics for a city without prompting",
	Args:  cobra.RangeArgs(1, 3),
	RunE:  report,
}

func report(cmd *cobra.Command, args []string) error {
	criteria := model.Criteria{Month: model.All, Day: model.All}

	city := bikeshare.CityChoices.Validate(args[0])
	if !city.OK {
		return fmt.Errorf("invalid city '%s'", args[0])
	}
	criteria.City = city.Value

	if len(args) >= 2 {
		month := bikeshare.MonthChoices.Validate(args[1])
		if !month.OK {
			return fmt.Errorf("invalid month '%s'", args[1])
		}
		criteria.Month = month.Value
	}

	if len(args) == 3 {
		day := bikeshare.DayChoices.Validate(args[2])
		if !day.OK {
			return fmt.Errorf("invalid day '%s'", args[2])
		}
		criteria.Day = day.Value
	}

	loader, closeStorage, err := buildLoader()
	if err != nil {
		return err
	}
	defer closeStorage()

	table, err := loader.Load(context.Background(), criteria)
	if err != nil {
		return err
	}
	defer func() {
		if err := table.Release(); err != nil {
			slog.Warn("releasing table", slog.String("error", err.Error()))
		}
	}()

	fmt.Fprintf(
		cmd.OutOrStdout(),
		"%s, month: %s, day: %s, %d trips\n",
		model.Title(criteria.City), model.Title(criteria.Month), model.Title(criteria.Day), table.Len(),
	)

	bikeshare.NewReporter(cmd.OutOrStdout()).All(table)

	return nil
}
