package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ymatsui/aical/internal/config"
	"github.com/ymatsui/aical/internal/database"
)

// NewDecisionsCmd creates the decisions command
func NewDecisionsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "decisions",
		Short: "List recent scheduling decisions",
		Long:  "Reads the scheduling decision audit log from the database, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL is not configured; the audit log is disabled")
			}

			db, err := database.New(cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer func() {
				if err := db.Close(); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: failed to close database: %v\n", err)
				}
			}()

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			decisions, err := database.NewDecisionRepository(db).ListRecent(ctx, limit)
			if err != nil {
				return fmt.Errorf("failed to list decisions: %w", err)
			}

			if len(decisions) == 0 {
				fmt.Println("No scheduling decisions recorded yet")
				return nil
			}

			for _, d := range decisions {
				eventID := d.EventID
				if eventID == "" {
					eventID = "-"
				}
				fmt.Printf("%s  %-17s %-8s %-12s %s\n",
					d.CreatedAt.Local().Format("2006-01-02 15:04"),
					d.Status,
					d.DecisionSource,
					eventID,
					d.Reason,
				)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of decisions to list")

	return cmd
}
