package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ymatsui/aical/internal/config"
	"github.com/ymatsui/aical/internal/models"
	"github.com/ymatsui/aical/internal/services/notify"
)

// NewTestSMTPCmd creates the test-smtp command
func NewTestSMTPCmd() *cobra.Command {
	var recipient string

	cmd := &cobra.Command{
		Use:   "test-smtp",
		Short: "Send a test meeting notification email",
		Long:  "Sends a notification for a fictional meeting to verify the SMTP configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if recipient == "" {
				return fmt.Errorf("--to is required")
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			mailer := notify.NewMailer(notify.Config{
				Host:     cfg.SMTPHost,
				Port:     cfg.SMTPPort,
				Username: cfg.SMTPUsername,
				Password: cfg.SMTPPassword,
				From:     cfg.SMTPFrom,
				UseTLS:   cfg.SMTPUseTLS,
			}, zap.NewNop())
			if !mailer.Enabled() {
				return fmt.Errorf("SMTP is not configured; set SMTP_HOST and SMTP_FROM (or SMTP_USERNAME)")
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			err = mailer.Send(ctx, models.MeetingNotification{
				EventID:         "smtp-test",
				Topic:           "SMTP Configuration Test",
				StartTime:       time.Now().Add(24 * time.Hour),
				DurationMinutes: 30,
				Recipients:      []string{recipient},
			})
			if err != nil {
				return fmt.Errorf("failed to send test email: %w", err)
			}

			fmt.Printf("✓ Test email sent to %s\n", recipient)
			return nil
		},
	}

	cmd.Flags().StringVar(&recipient, "to", "", "Recipient email address (required)")

	return cmd
}
