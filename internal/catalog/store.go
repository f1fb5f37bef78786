package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/discolog/vinylbot/internal/models"
)

// Gateway is the narrow surface the store needs from the spreadsheet
// backend. Row numbers are 1-based sheet rows; row 1 is the header.
type Gateway interface {
	// Init makes sure the sheet tab exists with a formatted header row.
	Init(ctx context.Context) error
	// ReadAll returns every data row (row 2 onward) as raw string cells.
	ReadAll(ctx context.Context) ([][]string, error)
	// WriteRow replaces the full canonical range of one sheet row.
	WriteRow(ctx context.Context, row int, values []string) error
	// WriteCell updates a single cell, addressed by sheet row and
	// zero-based column index.
	WriteCell(ctx context.Context, row int, col int, value string) error
}

// dataStartRow is the first sheet row holding catalog data (after header).
const dataStartRow = 2

// Store provides catalog operations over a Gateway.
type Store struct {
	gw Gateway
}

func NewStore(gw Gateway) *Store {
	return &Store{gw: gw}
}

// Init prepares the backing sheet for use.
func (s *Store) Init(ctx context.Context) error {
	return s.gw.Init(ctx)
}

// FindByIdentifier scans all rows for a matching identifier column and
// returns the sheet row number. Linear scan; the catalog is a personal
// collection, not a high-volume table.
func (s *Store) FindByIdentifier(ctx context.Context, id string) (int, bool, error) {
	rows, err := s.gw.ReadAll(ctx)
	if err != nil {
		return 0, false, fmt.Errorf("failed to read catalog rows: %w", err)
	}
	for i, row := range rows {
		if len(row) > ColIdentifier && row[ColIdentifier] == id {
			return i + dataStartRow, true, nil
		}
	}
	return 0, false, nil
}

// Upsert inserts a record as a new row, or fully overwrites the existing row
// with the same identifier. The identifier is derived on first use and must
// not change afterward.
func (s *Store) Upsert(ctx context.Context, rec *models.Record) error {
	if rec.Identifier == "" {
		rec.Identifier = Identifier(rec.Name, rec.Artist)
	}

	row, found, err := s.FindByIdentifier(ctx, rec.Identifier)
	if err != nil {
		return err
	}

	if found {
		slog.Info("Record already cataloged, overwriting", "id", rec.Identifier, "row", row)
		if err := s.gw.WriteRow(ctx, row, RecordToRow(rec)); err != nil {
			return fmt.Errorf("failed to update row %d: %w", row, err)
		}
		return nil
	}

	rows, err := s.gw.ReadAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to read catalog rows: %w", err)
	}
	next := dataStartRow + len(rows)
	slog.Info("Cataloging new record", "id", rec.Identifier, "row", next)
	if err := s.gw.WriteRow(ctx, next, RecordToRow(rec)); err != nil {
		return fmt.Errorf("failed to append row %d: %w", next, err)
	}
	return nil
}

// UpdateStatus writes only the status cell of a row and, when publishedAt is
// non-zero, the published-timestamp cell. Every other column is untouched.
func (s *Store) UpdateStatus(ctx context.Context, row int, status models.Status, publishedAt time.Time) error {
	if err := s.gw.WriteCell(ctx, row, ColStatus, string(status)); err != nil {
		return fmt.Errorf("failed to update status on row %d: %w", row, err)
	}
	if !publishedAt.IsZero() {
		if err := s.gw.WriteCell(ctx, row, ColPublishedAt, publishedAt.Format(TimeLayout)); err != nil {
			return fmt.Errorf("failed to update published date on row %d: %w", row, err)
		}
	}
	return nil
}

// UpdatePrice writes only the price cell of a row.
func (s *Store) UpdatePrice(ctx context.Context, row int, price float64) error {
	if err := s.gw.WriteCell(ctx, row, ColPrice, FormatPrice(price)); err != nil {
		return fmt.Errorf("failed to update price on row %d: %w", row, err)
	}
	return nil
}

// ListAll returns every data row as a padded view carrying its sheet row
// number. statusFilter, when non-empty, keeps only rows whose status matches
// case-insensitively.
func (s *Store) ListAll(ctx context.Context, statusFilter string) ([]models.RowView, error) {
	rows, err := s.gw.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog rows: %w", err)
	}

	views := make([]models.RowView, 0, len(rows))
	for i, row := range rows {
		view := RowToView(row, i+dataStartRow)
		if statusFilter != "" && !strings.EqualFold(view.Status, statusFilter) {
			continue
		}
		views = append(views, view)
	}
	return views, nil
}

// PendingForPublish returns pending rows that clear the minimal-completeness
// gate: a name and generated listing text must both be present before a row
// is eligible to publish.
func (s *Store) PendingForPublish(ctx context.Context) ([]models.RowView, error) {
	pending, err := s.ListAll(ctx, string(models.StatusPending))
	if err != nil {
		return nil, err
	}

	eligible := pending[:0]
	for _, view := range pending {
		if view.Name == "" || view.Listing == "" {
			continue
		}
		eligible = append(eligible, view)
	}
	slog.Info("Found records pending publication", "count", len(eligible))
	return eligible, nil
}
