package catalog

import (
	"fmt"

	"github.com/discolog/vinylbot/internal/models"
)

// TimeLayout is the timestamp format used in the published-at column.
const TimeLayout = "02/01/2006 15:04"

// Column positions in the canonical row. Writes always emit the full set in
// this order; never reorder without migrating the sheet.
const (
	ColIdentifier = iota
	ColName
	ColArtist
	ColYear
	ColDescription
	ColCondition
	ColPrice
	ColListing
	ColStatus
	ColFrontURL
	ColBackURL
	ColPublishedAt
	columnCount
)

// Headers returns the canonical header row of the catalog sheet.
func Headers() []string {
	return []string{
		"#", "Nome", "Artista", "Ano", "Descrição", "Condição",
		"Preço", "Post Venda", "Status", "imagem1", "imagem2",
		"Data Publicação",
	}
}

// FormatPrice renders a price as the localized currency string stored in the
// sheet. Zero means unset and renders empty.
func FormatPrice(price float64) string {
	if price == 0 {
		return ""
	}
	return fmt.Sprintf("R$ %.2f", price)
}

// RecordToRow serializes a Record into the canonical column order. Unset
// optional fields become empty strings so row width stays constant.
func RecordToRow(r *models.Record) []string {
	row := make([]string, columnCount)
	row[ColIdentifier] = r.Identifier
	row[ColName] = r.Name
	row[ColArtist] = r.Artist
	row[ColYear] = r.Year
	row[ColDescription] = r.Description
	row[ColCondition] = r.Condition
	row[ColPrice] = FormatPrice(r.Price)
	row[ColListing] = r.Listing
	row[ColStatus] = string(r.Status)
	row[ColFrontURL] = r.FrontURL
	row[ColBackURL] = r.BackURL
	if !r.PublishedAt.IsZero() {
		row[ColPublishedAt] = r.PublishedAt.Format(TimeLayout)
	}
	return row
}

// RowToView maps a raw sheet row onto a typed view. Rows shorter than the
// canonical column count are padded with empty strings first, so lookups
// never index out of range. All values stay strings; callers re-parse
// numeric fields when they need them.
func RowToView(row []string, rowIndex int) models.RowView {
	if len(row) < columnCount {
		padded := make([]string, columnCount)
		copy(padded, row)
		row = padded
	}
	return models.RowView{
		Index:       rowIndex,
		Identifier:  row[ColIdentifier],
		Name:        row[ColName],
		Artist:      row[ColArtist],
		Year:        row[ColYear],
		Description: row[ColDescription],
		Condition:   row[ColCondition],
		Price:       row[ColPrice],
		Listing:     row[ColListing],
		Status:      row[ColStatus],
		FrontURL:    row[ColFrontURL],
		BackURL:     row[ColBackURL],
		PublishedAt: row[ColPublishedAt],
	}
}
