package commands

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewEncodeCredentialsCmd creates the encode-credentials command
func NewEncodeCredentialsCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "encode-credentials",
		Short: "Base64-encode a Google credentials or token JSON file",
		Long:  "Encodes a JSON file for use in GOOGLE_CREDENTIALS_JSON_B64 or GOOGLE_TOKEN_JSON_B64 on hosts without a persistent filesystem",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return fmt.Errorf("--file is required")
			}

			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", file, err)
			}

			fmt.Println(base64.StdEncoding.EncodeToString(data))
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Path to the JSON file to encode (required)")

	return cmd
}
