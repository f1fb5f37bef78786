// Package googleauth handles the installed-app OAuth flow shared by the
// Drive and Sheets clients. Client secrets live in credentials.json; the
// granted token is cached in token.json and refreshed automatically by the
// oauth2 token source.
package googleauth

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/discolog/vinylbot/internal/config"
)

var scopes = []string{
	"https://www.googleapis.com/auth/drive.readonly",
	"https://www.googleapis.com/auth/spreadsheets",
}

// Client returns an authenticated HTTP client for the Google APIs,
// running the interactive consent flow on first use.
func Client(ctx context.Context, cfg *config.Config) (*http.Client, error) {
	b, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf(
			"failed to read %s (download OAuth client credentials from the Google Cloud Console and save them there): %w",
			cfg.CredentialsFile, err,
		)
	}

	oauthCfg, err := google.ConfigFromJSON(b, scopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse client credentials: %w", err)
	}

	tok, err := tokenFromFile(cfg.TokenFile)
	if err != nil {
		slog.Info("No cached token, starting OAuth consent flow")
		tok, err = tokenFromWeb(ctx, oauthCfg)
		if err != nil {
			return nil, err
		}
		if err := saveToken(cfg.TokenFile, tok); err != nil {
			slog.Warn("Failed to cache token", "err", err)
		}
	}

	return oauthCfg.Client(ctx, tok), nil
}

// TestConnection verifies the credentials work against the configured
// spreadsheet.
func TestConnection(ctx context.Context, cfg *config.Config) error {
	httpClient, err := Client(ctx, cfg)
	if err != nil {
		return err
	}

	svc, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return fmt.Errorf("failed to create sheets service: %w", err)
	}

	if _, err := svc.Spreadsheets.Get(cfg.SpreadsheetID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to reach spreadsheet %s: %w", cfg.SpreadsheetID, err)
	}

	slog.Info("Google APIs connection established")
	return nil
}

func tokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, fmt.Errorf("failed to decode token file %s: %w", path, err)
	}
	return tok, nil
}

func tokenFromWeb(ctx context.Context, oauthCfg *oauth2.Config) (*oauth2.Token, error) {
	authURL := oauthCfg.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Printf("Open the following link in your browser, then paste the authorization code:\n%v\n\ncode: ", authURL)

	var code string
	if _, err := fmt.Scan(&code); err != nil {
		return nil, fmt.Errorf("failed to read authorization code: %w", err)
	}

	tok, err := oauthCfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	return tok, nil
}

func saveToken(path string, tok *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create token file %s: %w", path, err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(tok); err != nil {
		return fmt.Errorf("failed to write token file %s: %w", path, err)
	}
	slog.Info("Token saved", "path", path)
	return nil
}
