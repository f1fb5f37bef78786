// Package sheets implements the catalog.Gateway interface on top of the
// Google Sheets v4 API. All reads and writes use RAW value input so cells
// hold exactly what the codec produced.
package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/discolog/vinylbot/internal/catalog"
)

// lastColumn is the A1 letter of the final canonical column.
const lastColumn = "L"

// Client is a catalog gateway bound to one sheet tab of one spreadsheet.
type Client struct {
	svc           *sheets.Service
	spreadsheetID string
	sheetName     string
}

// New builds a sheets gateway from an authenticated HTTP client.
func New(ctx context.Context, httpClient *http.Client, spreadsheetID, sheetName string) (*Client, error) {
	svc, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return &Client{svc: svc, spreadsheetID: spreadsheetID, sheetName: sheetName}, nil
}

// Init creates the sheet tab if it is missing and writes and formats the
// canonical header row when the sheet is empty.
func (c *Client) Init(ctx context.Context) error {
	meta, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to get spreadsheet %s: %w", c.spreadsheetID, err)
	}

	sheetID := int64(-1)
	for _, sh := range meta.Sheets {
		if sh.Properties.Title == c.sheetName {
			sheetID = sh.Properties.SheetId
			break
		}
	}

	if sheetID < 0 {
		resp, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
			Requests: []*sheets.Request{{
				AddSheet: &sheets.AddSheetRequest{
					Properties: &sheets.SheetProperties{Title: c.sheetName},
				},
			}},
		}).Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("failed to create sheet %q: %w", c.sheetName, err)
		}
		sheetID = resp.Replies[0].AddSheet.Properties.SheetId
		slog.Info("Sheet created", "name", c.sheetName)
	}

	headerRange := fmt.Sprintf("%s!A1:%s1", c.sheetName, lastColumn)
	existing, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, headerRange).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to read header row: %w", err)
	}
	if len(existing.Values) > 0 {
		return nil
	}

	headers := catalog.Headers()
	row := make([]interface{}, len(headers))
	for i, h := range headers {
		row[i] = h
	}
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, headerRange, &sheets.ValueRange{
		Values: [][]interface{}{row},
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}
	slog.Info("Header row written", "sheet", c.sheetName)

	if err := c.formatHeader(ctx, sheetID); err != nil {
		// Cosmetic only, the catalog works with an unformatted header.
		slog.Warn("Failed to format header row", "err", err)
	}
	return nil
}

func (c *Client) formatHeader(ctx context.Context, sheetID int64) error {
	_, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:       sheetID,
					StartRowIndex: 0,
					EndRowIndex:   1,
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						BackgroundColor: &sheets.Color{Red: 0.2, Green: 0.2, Blue: 0.2},
						TextFormat: &sheets.TextFormat{
							ForegroundColor: &sheets.Color{Red: 1, Green: 1, Blue: 1},
							Bold:            true,
						},
					},
				},
				Fields: "userEnteredFormat(backgroundColor,textFormat)",
			},
		}},
	}).Context(ctx).Do()
	return err
}

// ReadAll returns every data row below the header as strings.
func (c *Client) ReadAll(ctx context.Context) ([][]string, error) {
	readRange := fmt.Sprintf("%s!A2:%s", c.sheetName, lastColumn)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read range %s: %w", readRange, err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, len(raw))
		for i, cell := range raw {
			row[i] = fmt.Sprint(cell)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// WriteRow replaces one sheet row across the full canonical column range.
func (c *Client) WriteRow(ctx context.Context, row int, values []string) error {
	writeRange := fmt.Sprintf("%s!A%d:%s%d", c.sheetName, row, lastColumn, row)
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}

	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, writeRange, &sheets.ValueRange{
		Values: [][]interface{}{cells},
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to write range %s: %w", writeRange, err)
	}
	return nil
}

// WriteCell updates a single cell addressed by sheet row and zero-based
// column index.
func (c *Client) WriteCell(ctx context.Context, row int, col int, value string) error {
	cellRange := fmt.Sprintf("%s!%s%d", c.sheetName, columnLetter(col), row)
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, cellRange, &sheets.ValueRange{
		Values: [][]interface{}{{value}},
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to write cell %s: %w", cellRange, err)
	}
	return nil
}

// columnLetter converts a zero-based column index to its A1 letter. The
// canonical row never goes past column L.
func columnLetter(col int) string {
	return string(rune('A' + col))
}
