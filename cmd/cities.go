package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tidbyt.dev/bikeshare"
	"tidbyt.dev/bikeshare/model"
)

var citiesCmd = &cobra.Command{
	Use:   "cities",
	Short: "Lists the cities with trip data and their files",
	Args:  cobra.NoArgs,
	RunE:  cities,
}

func cities(cmd *cobra.Command, args []string) error {
	for _, city := range bikeshare.DefaultCatalog.Cities() {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", model.Title(city), bikeshare.DefaultCatalog[city])
	}
	return nil
}
