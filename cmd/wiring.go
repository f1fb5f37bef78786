package cmd

import (
	"context"
	"fmt"

	"github.com/discolog/vinylbot/internal/catalog"
	"github.com/discolog/vinylbot/internal/config"
	"github.com/discolog/vinylbot/internal/drive"
	"github.com/discolog/vinylbot/internal/googleauth"
	"github.com/discolog/vinylbot/internal/sheets"
)

// newStore wires an initialized catalog store against the configured sheet.
func newStore(ctx context.Context, cfg *config.Config) (*catalog.Store, error) {
	if err := cfg.RequireGoogle(); err != nil {
		return nil, err
	}

	httpClient, err := googleauth.Client(ctx, cfg)
	if err != nil {
		return nil, err
	}

	gw, err := sheets.New(ctx, httpClient, cfg.SpreadsheetID, cfg.SheetName)
	if err != nil {
		return nil, err
	}

	store := catalog.NewStore(gw)
	if err := store.Init(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize catalog sheet: %w", err)
	}
	return store, nil
}

// newImageSource wires the Drive image source.
func newImageSource(ctx context.Context, cfg *config.Config) (*drive.Client, error) {
	httpClient, err := googleauth.Client(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return drive.New(ctx, httpClient, cfg.DriveFolderID, cfg.DownloadsDir)
}
