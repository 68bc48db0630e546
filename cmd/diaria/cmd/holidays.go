// Package cmd - CLI command: diaria seed-holidays
package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/camara-itapoa/diaria-engine/diaria"
	"github.com/camara-itapoa/diaria-engine/logging"
	"github.com/camara-itapoa/diaria-engine/store/sqlite"
)

var seedHolidaysCmd = &cobra.Command{
	Use:   "seed-holidays",
	Short: "Seed the national holidays for a year",
	Long: `Writes the Brazilian national holidays for the given year into the
holiday table. Existing entries for the same dates are renamed, never
duplicated. Municipal holidays are added through the API.`,
	RunE: runSeedHolidays,
}

var seedYear int

func init() {
	rootCmd.AddCommand(seedHolidaysCmd)

	seedHolidaysCmd.Flags().IntVar(&seedYear, "year", time.Now().Year(), "Year to seed")
}

func runSeedHolidays(command *cobra.Command, args []string) error {
	defer logging.Sync()

	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := command.Context()
	count := 0
	for _, holiday := range diaria.NationalHolidays(seedYear) {
		entry := sqlite.Holiday{Date: holiday.Date, Name: holiday.Name}
		if err := store.SaveHoliday(ctx, entry); err != nil {
			return err
		}
		count++
	}

	logging.Info("seeded national holidays", zap.Int("year", seedYear), zap.Int("count", count))
	return nil
}
