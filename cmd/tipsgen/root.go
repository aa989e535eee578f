package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for tipsgen.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tipsgen",
		Short: "Static site generator for TherapyTips",
		Long: `tipsgen fetches articles, interviews, advice and personality tests from the
TherapyTips content API, renders them into static HTML pages and uploads the
result to the web host.

Builds are written to ./builds/{env} for the dev, stage and prod environments.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewBuildCmd())
	cmd.AddCommand(NewUploadCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
