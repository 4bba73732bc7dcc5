package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/ymatsui/aical/cmd/configure/commands"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "aical-configure",
		Short: "Configuration tool for the AI calendar scheduler",
		Long:  "CLI tool for preparing Google credentials, testing SMTP, and inspecting the scheduler",
	}

	rootCmd.AddCommand(commands.NewEncodeCredentialsCmd())
	rootCmd.AddCommand(commands.NewAuthURLCmd())
	rootCmd.AddCommand(commands.NewTestSMTPCmd())
	rootCmd.AddCommand(commands.NewTestCalendarCmd())
	rootCmd.AddCommand(commands.NewDecisionsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
