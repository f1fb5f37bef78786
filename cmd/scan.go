package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/discolog/vinylbot/internal/catalog"
	"github.com/discolog/vinylbot/internal/config"
	"github.com/discolog/vinylbot/internal/gemini"
)

func newScanCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan Drive images and catalog records",
		Long: `Downloads cover photo pairs from the configured Drive folder, analyzes
each pair with Gemini, generates listing text, and adds or updates the
record in the catalog sheet.`,
		Example: `  # Catalog everything in the Drive folder
  vinylbot scan

  # Catalog at most 5 records
  vinylbot scan --limit 5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.RequireGemini(); err != nil {
				return err
			}

			store, err := newStore(ctx, cfg)
			if err != nil {
				return err
			}
			source, err := newImageSource(ctx, cfg)
			if err != nil {
				return err
			}
			analyzer, err := gemini.New(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
			if err != nil {
				return err
			}
			defer analyzer.Close()

			svc := catalog.NewService(store, source, analyzer, nil)
			count, err := svc.ScanAndCatalog(ctx, limit)
			if err != nil {
				return err
			}

			if count > 0 {
				fmt.Printf("%d records cataloged\n", count)
			} else {
				fmt.Println("No records were cataloged")
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "Maximum number of records to process (0 for all)")

	return cmd
}
