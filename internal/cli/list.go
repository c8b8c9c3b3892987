package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/AndrewHUNGNguyen/devx-events/internal/filter"
	"github.com/AndrewHUNGNguyen/devx-events/internal/service"
)

func newListCmd() *cobra.Command {
	var (
		flagFilter string
		flagFormat string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List events from the persisted dataset",
		Long: `Lists events from the maintained dataset. The filter accepts "upcoming"
or "past", a two-letter state code, and free-text terms, in any
combination: devx-events list --filter "upcoming CA hackathon"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			format := OutputFormat(flagFormat)
			if format != FormatText && format != FormatJSON {
				return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
			}

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
			matched := filter.Parse(flagFilter).Apply(events, time.Now())
			return writeEvents(os.Stdout, matched, format)
		},
	}

	cmd.Flags().StringVar(&flagFilter, "filter", "", "Filter query (upcoming/past, state code, free text)")
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	return cmd
}
