package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/discolog/vinylbot/internal/catalog"
	"github.com/discolog/vinylbot/internal/config"
	"github.com/discolog/vinylbot/internal/instagram"
)

func newPublishCmd() *cobra.Command {
	var limit int
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish pending records to Instagram",
		Long: `Finds catalog rows that are pending and complete enough to publish,
re-downloads their images from Drive, and posts them with the stored
listing text. Successfully posted rows are marked published; failed rows
stay pending and are retried on the next run.`,
		Example: `  # Publish all eligible pending records
  vinylbot publish

  # Publish at most 3 posts
  vinylbot publish --limit 3

  # Show what would be published without posting
  vinylbot publish --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			store, err := newStore(ctx, cfg)
			if err != nil {
				return err
			}

			if dryRun {
				pending, err := store.PendingForPublish(ctx)
				if err != nil {
					return err
				}
				if len(pending) == 0 {
					fmt.Println("No records pending publication")
					return nil
				}
				if limit > 0 && len(pending) > limit {
					pending = pending[:limit]
				}
				fmt.Printf("%d records would be published:\n", len(pending))
				for i, view := range pending {
					fmt.Printf("%d. %s - %s\n", i+1, view.Name, view.Artist)
				}
				return nil
			}

			if err := cfg.RequireInstagram(); err != nil {
				return err
			}

			source, err := newImageSource(ctx, cfg)
			if err != nil {
				return err
			}
			publisher := instagram.New(cfg.InstagramAPIURL, cfg.InstagramToken, cfg.InstagramUserID)

			svc := catalog.NewService(store, source, nil, publisher)
			count, err := svc.PublishPending(ctx, limit)
			if err != nil {
				return err
			}

			if count > 0 {
				fmt.Printf("%d posts published\n", count)
			} else {
				fmt.Println("No posts were published")
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "Maximum number of posts to publish (0 for all)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "List what would be published without posting")

	return cmd
}
