package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Config carries every setting the bot reads from the environment. It is
// built once at startup and passed into each component constructor; nothing
// reads the environment after Load returns.
type Config struct {
	// Google APIs
	DriveFolderID   string
	SpreadsheetID   string
	SheetName       string
	CredentialsFile string
	TokenFile       string

	// Gemini
	GeminiAPIKey string
	GeminiModel  string

	// Instagram Graph API
	InstagramToken  string
	InstagramUserID string
	InstagramAPIURL string

	// Local directories
	DownloadsDir   string
	CredentialsDir string
}

// Load reads the environment into a Config and creates the local working
// directories. Validation of required values happens per feature via the
// Require* helpers, since each command needs a different subset.
func Load() (*Config, error) {
	cfg := &Config{
		DriveFolderID:   os.Getenv("GOOGLE_DRIVE_FOLDER_ID"),
		SpreadsheetID:   os.Getenv("GOOGLE_SHEETS_ID"),
		SheetName:       getenvDefault("SHEET_NAME", "Página1"),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		GeminiModel:     getenvDefault("GEMINI_MODEL", "gemini-2.5-flash"),
		InstagramToken:  os.Getenv("INSTAGRAM_ACCESS_TOKEN"),
		InstagramUserID: os.Getenv("INSTAGRAM_USER_ID"),
		InstagramAPIURL: getenvDefault("INSTAGRAM_API_URL", "https://graph.instagram.com"),
		DownloadsDir:    getenvDefault("DOWNLOADS_DIR", "downloads"),
		CredentialsDir:  getenvDefault("CREDENTIALS_DIR", "credentials"),
	}
	cfg.CredentialsFile = filepath.Join(cfg.CredentialsDir, "credentials.json")
	cfg.TokenFile = filepath.Join(cfg.CredentialsDir, "token.json")

	for _, dir := range []string{cfg.DownloadsDir, cfg.CredentialsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return cfg, nil
}

// RequireGoogle fails when the Drive/Sheets settings are missing.
func (c *Config) RequireGoogle() error {
	if c.DriveFolderID == "" {
		return fmt.Errorf("GOOGLE_DRIVE_FOLDER_ID environment variable not set")
	}
	if c.SpreadsheetID == "" {
		return fmt.Errorf("GOOGLE_SHEETS_ID environment variable not set")
	}
	return nil
}

// RequireGemini fails when no Gemini API key is configured.
func (c *Config) RequireGemini() error {
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}
	return nil
}

// RequireInstagram fails when the Instagram credentials are missing.
func (c *Config) RequireInstagram() error {
	if c.InstagramToken == "" {
		return fmt.Errorf("INSTAGRAM_ACCESS_TOKEN environment variable not set")
	}
	if c.InstagramUserID == "" {
		return fmt.Errorf("INSTAGRAM_USER_ID environment variable not set")
	}
	return nil
}

func getenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
