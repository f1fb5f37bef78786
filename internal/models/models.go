package models

import "time"

// Status is the lifecycle state of a catalog record. Values are stored
// verbatim in the spreadsheet, so they stay in Portuguese.
type Status string

const (
	StatusPending   Status = "pendente"
	StatusPublished Status = "publicado"
	StatusSold      Status = "vendido"
)

// Record represents one vinyl record in the catalog.
type Record struct {
	Identifier  string // short content-derived key, stable once assigned
	Name        string
	Artist      string
	Year        string
	Description string
	Condition   string
	Price       float64 // 0 means unset
	Listing     string  // generated Instagram sales copy
	Status      Status
	PublishedAt time.Time // zero means never published

	// Local paths of the downloaded cover images, set during scanning.
	FrontImagePath string
	BackImagePath  string

	// Public Drive URLs for the cover images.
	FrontURL string
	BackURL  string
}

// NewRecord returns a Record in the default pending state.
func NewRecord(name, artist string) *Record {
	return &Record{
		Name:   name,
		Artist: artist,
		Status: StatusPending,
	}
}

// PlaceholderRecord is what gets cataloged when image analysis fails, so the
// item still lands in the sheet flagged for manual review instead of being
// dropped from the batch.
func PlaceholderRecord(frontPath, backPath string, cause error) *Record {
	r := NewRecord("[Erro na análise]", "[Verificar manualmente]")
	if cause != nil {
		r.Description = "Erro ao analisar: " + cause.Error()
	}
	r.FrontImagePath = frontPath
	r.BackImagePath = backPath
	return r
}

// RowView is the loosely-typed, all-strings view of one spreadsheet row.
// Index is the store-assigned sheet row number, distinct from Identifier.
type RowView struct {
	Index       int
	Identifier  string
	Name        string
	Artist      string
	Year        string
	Description string
	Condition   string
	Price       string
	Listing     string
	Status      string
	FrontURL    string
	BackURL     string
	PublishedAt string
}
