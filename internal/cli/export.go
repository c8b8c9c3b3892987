package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AndrewHUNGNguyen/devx-events/internal/calendar"
	"github.com/AndrewHUNGNguyen/devx-events/internal/service"
)

func newExportCmd() *cobra.Command {
	var flagOut string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the dataset as an iCalendar (.ics) feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}

			events, err := service.NewStatic(store).ListEvents()
			if err != nil {
				return err
			}

			cal := calendar.Build(events)
			if err := os.WriteFile(flagOut, []byte(cal.Serialize()), 0644); err != nil {
				return fmt.Errorf("writing calendar: %w", err)
			}
			fmt.Printf("Wrote %d event(s) to %s\n", len(events), flagOut)
			return nil
		},
	}

	cmd.Flags().StringVar(&flagOut, "out", "events.ics", "Output path for the .ics file")
	return cmd
}
