package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ymatsui/aical/internal/config"
	"github.com/ymatsui/aical/internal/services/calendar"
)

// NewAuthURLCmd creates the auth-url command
func NewAuthURLCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth-url",
		Short: "Print the Google OAuth authorization URL",
		Long:  "Builds the authorization URL from the configured credentials; visit it in a browser to complete the OAuth flow",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			gateway, err := newGateway(context.Background(), cfg)
			if err != nil {
				return err
			}

			url, err := gateway.AuthURL()
			if err != nil {
				return fmt.Errorf("failed to build auth URL: %w", err)
			}

			fmt.Println(url)
			return nil
		},
	}

	return cmd
}

// newGateway builds a calendar gateway from the loaded configuration.
func newGateway(ctx context.Context, cfg *config.Config) (*calendar.Gateway, error) {
	gateway, err := calendar.NewGateway(ctx, calendar.Config{
		CredentialsFile:    cfg.GoogleCredentialsFile,
		CredentialsJSONB64: cfg.GoogleCredentialsJSONB64,
		TokenFile:          cfg.GoogleTokenFile,
		TokenJSONB64:       cfg.GoogleTokenJSONB64,
		RedirectURI:        cfg.GoogleRedirectURI,
		CalendarID:         cfg.CalendarID,
	}, zap.NewNop())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize calendar gateway: %w", err)
	}
	return gateway, nil
}
