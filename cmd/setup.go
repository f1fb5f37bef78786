package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/discolog/vinylbot/internal/config"
	"github.com/discolog/vinylbot/internal/googleauth"
)

func newSetupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Configure Google authentication and check connections",
		Long: `Runs the OAuth consent flow against the Google APIs (caching the token
for later runs), verifies the configured spreadsheet is reachable, and
reports which optional credentials are configured.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.RequireGoogle(); err != nil {
				return err
			}

			if err := googleauth.TestConnection(ctx, cfg); err != nil {
				return fmt.Errorf("google API check failed: %w", err)
			}
			fmt.Println("Google APIs configured successfully")

			fmt.Println("\nCurrent configuration:")
			fmt.Printf("  Gemini API: %s\n", configured(cfg.RequireGemini() == nil))
			fmt.Printf("  Instagram:  %s\n", configured(cfg.RequireInstagram() == nil))

			if cfg.RequireGemini() != nil {
				fmt.Println("\nSet GEMINI_API_KEY in .env to enable image analysis")
			}
			if cfg.RequireInstagram() != nil {
				fmt.Println("Set INSTAGRAM_ACCESS_TOKEN and INSTAGRAM_USER_ID in .env to enable publishing")
			}
			return nil
		},
	}

	return cmd
}

func configured(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}
