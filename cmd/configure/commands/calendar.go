package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ymatsui/aical/internal/config"
)

// NewTestCalendarCmd creates the test-calendar command
func NewTestCalendarCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "test-calendar",
		Short: "List upcoming calendar events",
		Long:  "Reads upcoming events from the configured calendar to verify credentials and token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			gateway, err := newGateway(ctx, cfg)
			if err != nil {
				return err
			}
			if !gateway.IsAuthenticated() {
				return fmt.Errorf("not authenticated; run auth-url and complete the OAuth flow first")
			}

			now := time.Now()
			events, err := gateway.ListEvents(ctx, now, now.AddDate(0, 0, days))
			if err != nil {
				return fmt.Errorf("failed to list events: %w", err)
			}

			fmt.Printf("✓ Calendar is reachable; %d event(s) in the next %d day(s)\n", len(events), days)
			for _, event := range events {
				fmt.Printf("  %s  %s\n", event.Start.Local().Format("2006-01-02 15:04"), event.Summary)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 7, "How many days ahead to list")

	return cmd
}
