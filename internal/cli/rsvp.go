package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AndrewHUNGNguyen/devx-events/internal/service"
)

func newRSVPCmd() *cobra.Command {
	var (
		flagEmail string
		flagCheck bool
	)

	cmd := &cobra.Command{
		Use:   "rsvp <event-id>",
		Short: "Record or check a registration for an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eventID := args[0]
			if flagEmail == "" {
				return fmt.Errorf("--email is required")
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			svc := service.NewStatic(store)

			if flagCheck {
				registered, err := svc.CheckRegistration(eventID, flagEmail)
				if err != nil {
					return err
				}
				if registered {
					fmt.Printf("%s is registered for %s\n", flagEmail, eventID)
				} else {
					fmt.Printf("%s is not registered for %s\n", flagEmail, eventID)
				}
				return nil
			}

			if err := svc.RegisterForEvent(eventID, flagEmail); err != nil {
				return err
			}
			fmt.Printf("Registered %s for %s\n", flagEmail, eventID)
			return nil
		},
	}

	cmd.Flags().StringVar(&flagEmail, "email", "", "Email address to register or check")
	cmd.Flags().BoolVar(&flagCheck, "check", false, "Check registration instead of registering")
	return cmd
}
