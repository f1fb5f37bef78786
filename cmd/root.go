package cmd

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "vinylbot",
		Short: "Vinyl record cataloging and sales automation",
		Long: `Vinylbot automates selling a vinyl collection on Instagram.

It scans record cover photos from a Google Drive folder, extracts metadata
and sales copy with Gemini, keeps the catalog in a Google Sheet, and
publishes pending records to an Instagram account.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")

	// Add subcommands
	cmd.AddCommand(newSetupCmd())
	cmd.AddCommand(newScanCmd())
	cmd.AddCommand(newPublishCmd())
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newPriceCmd())
	cmd.AddCommand(newStatsCmd())
	cmd.AddCommand(newExportCmd())

	return cmd
}
