package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/helmcode/inr-assistant/cmd"
)

var (
	version = "v0.1.0" // Overwritten at build time
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "inr-assistant",
		Short: "INR tracking and AI diet analysis for warfarin therapy",
		Long: `inr-assistant records INR measurements and warfarin doses, and uses AI to
estimate how your diet may affect your INR. Without an OpenAI key it falls back
to a neutral local analysis.

Analyses are informational only. Never change your dose without consulting
your physician.`,
		SilenceUsage: true,
	}

	// Disable automatic 'completion' command added by cobra
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	cmd.AddGlobalFlags(rootCmd)
	rootCmd.AddCommand(
		cmd.NewAnalyzeCmd(),
		cmd.NewMeasureCmd(),
		cmd.NewAdminCmd(),
		cmd.NewConfigCmd(),
		cmd.NewServeCmd(version),
		newVersionCmd(),
	)

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("inr-assistant version %s\n", version)
		},
	}
}
