package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/discolog/vinylbot/internal/config"
	"github.com/discolog/vinylbot/internal/models"
)

// exportEntry is the flat shape written by both export formats.
type exportEntry struct {
	Row         int    `yaml:"row" parquet:"row"`
	Identifier  string `yaml:"identifier" parquet:"identifier"`
	Name        string `yaml:"name" parquet:"name"`
	Artist      string `yaml:"artist" parquet:"artist"`
	Year        string `yaml:"year,omitempty" parquet:"year"`
	Description string `yaml:"description,omitempty" parquet:"description"`
	Condition   string `yaml:"condition,omitempty" parquet:"condition"`
	Price       string `yaml:"price,omitempty" parquet:"price"`
	Listing     string `yaml:"listing,omitempty" parquet:"listing"`
	Status      string `yaml:"status" parquet:"status"`
	FrontURL    string `yaml:"front_url,omitempty" parquet:"front_url"`
	BackURL     string `yaml:"back_url,omitempty" parquet:"back_url"`
	PublishedAt string `yaml:"published_at,omitempty" parquet:"published_at"`
}

// exportDoc is the YAML document layout.
type exportDoc struct {
	ExportedAt string        `yaml:"exported_at"`
	Total      int           `yaml:"total"`
	Records    []exportEntry `yaml:"records"`
}

func newExportCmd() *cobra.Command {
	var format string
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the catalog to a file",
		Long:  `Dumps every catalog row to YAML or Parquet for offline analysis or backup.`,
		Example: `  # YAML export
  vinylbot export --output catalog.yaml

  # Parquet export
  vinylbot export --format parquet --output catalog.parquet`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if format != "yaml" && format != "parquet" {
				return fmt.Errorf("unsupported format %q (use yaml or parquet)", format)
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			store, err := newStore(ctx, cfg)
			if err != nil {
				return err
			}

			views, err := store.ListAll(ctx, "")
			if err != nil {
				return err
			}

			entries := make([]exportEntry, 0, len(views))
			for _, v := range views {
				entries = append(entries, viewToEntry(v))
			}

			switch format {
			case "yaml":
				err = writeYAML(output, entries)
			case "parquet":
				err = writeParquet(output, entries)
			}
			if err != nil {
				return err
			}

			fmt.Printf("Exported %d records to %s\n", len(entries), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "Output format (yaml or parquet)")
	cmd.Flags().StringVarP(&output, "output", "o", "catalog.yaml", "Output file path")

	return cmd
}

func viewToEntry(v models.RowView) exportEntry {
	return exportEntry{
		Row:         v.Index,
		Identifier:  v.Identifier,
		Name:        v.Name,
		Artist:      v.Artist,
		Year:        v.Year,
		Description: v.Description,
		Condition:   v.Condition,
		Price:       v.Price,
		Listing:     v.Listing,
		Status:      v.Status,
		FrontURL:    v.FrontURL,
		BackURL:     v.BackURL,
		PublishedAt: v.PublishedAt,
	}
}

func writeYAML(path string, entries []exportEntry) error {
	doc := exportDoc{
		ExportedAt: time.Now().Format("2006-01-02_15-04-05"),
		Total:      len(entries),
		Records:    entries,
	}

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("failed to marshal export: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func writeParquet(path string, entries []exportEntry) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	writer := parquet.NewGenericWriter[exportEntry](f)
	if _, err := writer.Write(entries); err != nil {
		return fmt.Errorf("failed to write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}
