package catalog

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/discolog/vinylbot/internal/drive"
	"github.com/discolog/vinylbot/internal/models"
)

type fakeSource struct {
	pairs       []drive.Pair
	downloadErr map[string]error
	downloaded  []string
}

func (s *fakeSource) DownloadAll(ctx context.Context) ([]drive.Pair, error) {
	return s.pairs, nil
}

func (s *fakeSource) Download(ctx context.Context, fileID, fileName string) (string, error) {
	if err := s.downloadErr[fileID]; err != nil {
		return "", err
	}
	s.downloaded = append(s.downloaded, fileID)
	return "/tmp/" + fileName, nil
}

func (s *fakeSource) PublicURL(fileID string) string {
	return "https://drive.google.com/file/d/" + fileID + "/view"
}

type fakeAnalyzer struct {
	failOn map[string]bool // keyed by front image path
}

func (a *fakeAnalyzer) AnalyzeImages(ctx context.Context, frontPath, backPath string) (*models.Record, error) {
	if a.failOn[frontPath] {
		return nil, fmt.Errorf("model returned garbage")
	}
	name := strings.TrimSuffix(frontPath, ".jpg")
	rec := models.NewRecord(name, "Artist "+name)
	rec.FrontImagePath = frontPath
	rec.BackImagePath = backPath
	return rec, nil
}

func (a *fakeAnalyzer) GenerateListing(ctx context.Context, rec *models.Record) (string, error) {
	return "listing for " + rec.Name, nil
}

type fakePublisher struct {
	err   error
	posts [][]string
}

func (p *fakePublisher) PostAlbum(ctx context.Context, imagePaths []string, caption string) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	p.posts = append(p.posts, imagePaths)
	return fmt.Sprintf("post-%d", len(p.posts)), nil
}

func threePairs() []drive.Pair {
	pairs := make([]drive.Pair, 0, 3)
	for _, n := range []string{"a", "b", "c"} {
		back := drive.ImageFile{ID: n + "-back", Name: n + "-back.jpg", Path: n + "-back.jpg"}
		pairs = append(pairs, drive.Pair{
			Front: drive.ImageFile{ID: n + "-front", Name: n + "-front.jpg", Path: n + "-front.jpg"},
			Back:  &back,
		})
	}
	return pairs
}

func TestScanAndCatalog(t *testing.T) {
	gw := &fakeGateway{}
	svc := NewService(NewStore(gw), &fakeSource{pairs: threePairs()}, &fakeAnalyzer{}, nil)

	count, err := svc.ScanAndCatalog(context.Background(), 0)
	if err != nil {
		t.Fatalf("ScanAndCatalog failed: %v", err)
	}
	if count != 3 {
		t.Errorf("Expected 3 cataloged records, got %d", count)
	}
	if len(gw.rows) != 3 {
		t.Fatalf("Expected 3 rows in the sheet, got %d", len(gw.rows))
	}

	first := RowToView(gw.rows[0], 2)
	if first.FrontURL != "https://drive.google.com/file/d/a-front/view" {
		t.Errorf("Expected front URL attached, got %q", first.FrontURL)
	}
	if first.BackURL != "https://drive.google.com/file/d/a-back/view" {
		t.Errorf("Expected back URL attached, got %q", first.BackURL)
	}
	if first.Listing == "" {
		t.Error("Expected listing text attached")
	}
	if first.Status != "pendente" {
		t.Errorf("Expected new records pending, got %q", first.Status)
	}
}

func TestScanAndCatalogLimit(t *testing.T) {
	gw := &fakeGateway{}
	svc := NewService(NewStore(gw), &fakeSource{pairs: threePairs()}, &fakeAnalyzer{}, nil)

	count, err := svc.ScanAndCatalog(context.Background(), 2)
	if err != nil {
		t.Fatalf("ScanAndCatalog failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 cataloged records, got %d", count)
	}
}

func TestScanAnalysisFailureCatalogsPlaceholder(t *testing.T) {
	gw := &fakeGateway{}
	analyzer := &fakeAnalyzer{failOn: map[string]bool{"b-front.jpg": true}}
	svc := NewService(NewStore(gw), &fakeSource{pairs: threePairs()}, analyzer, nil)

	count, err := svc.ScanAndCatalog(context.Background(), 0)
	if err != nil {
		t.Fatalf("ScanAndCatalog failed: %v", err)
	}
	// The placeholder was upserted, so it counts as a success.
	if count != 3 {
		t.Errorf("Expected 3 cataloged records, got %d", count)
	}
	if len(gw.rows) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(gw.rows))
	}

	placeholder := RowToView(gw.rows[1], 3)
	if placeholder.Name != "[Erro na análise]" {
		t.Errorf("Expected placeholder name, got %q", placeholder.Name)
	}
	if placeholder.Artist != "[Verificar manualmente]" {
		t.Errorf("Expected manual-review marker, got %q", placeholder.Artist)
	}
}

func TestScanStoreFailureSkipsItemOnly(t *testing.T) {
	gw := &fakeGateway{failOnName: "b-front"}
	svc := NewService(NewStore(gw), &fakeSource{pairs: threePairs()}, &fakeAnalyzer{}, nil)

	count, err := svc.ScanAndCatalog(context.Background(), 0)
	if err != nil {
		t.Fatalf("ScanAndCatalog failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 successes when item 2's upsert fails, got %d", count)
	}

	names := make([]string, 0, len(gw.rows))
	for _, row := range gw.rows {
		if len(row) > ColName && row[ColName] != "" {
			names = append(names, row[ColName])
		}
	}
	if len(names) != 2 || names[0] != "a-front" || names[1] != "c-front" {
		t.Errorf("Expected items 1 and 3 cataloged, got %v", names)
	}
}

func seedEligibleRow(t *testing.T, gw *fakeGateway, name, frontID, backID string) {
	t.Helper()
	rec := models.NewRecord(name, "Artist")
	rec.Listing = "caption for " + name
	if frontID != "" {
		rec.FrontURL = "https://drive.google.com/file/d/" + frontID + "/view"
	}
	if backID != "" {
		rec.BackURL = "https://drive.google.com/file/d/" + backID + "/view"
	}
	if err := NewStore(gw).Upsert(context.Background(), rec); err != nil {
		t.Fatalf("Seeding row failed: %v", err)
	}
}

func TestPublishPending(t *testing.T) {
	gw := &fakeGateway{}
	seedEligibleRow(t, gw, "Harvest", "front1", "back1")

	source := &fakeSource{}
	publisher := &fakePublisher{}
	svc := NewService(NewStore(gw), source, nil, publisher)
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC) }

	count, err := svc.PublishPending(context.Background(), 0)
	if err != nil {
		t.Fatalf("PublishPending failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 published record, got %d", count)
	}

	if len(publisher.posts) != 1 || len(publisher.posts[0]) != 2 {
		t.Fatalf("Expected one post with both images, got %v", publisher.posts)
	}

	view := RowToView(gw.rows[0], 2)
	if view.Status != "publicado" {
		t.Errorf("Expected status publicado, got %q", view.Status)
	}
	if view.PublishedAt != "01/06/2024 10:00" {
		t.Errorf("Expected publish timestamp, got %q", view.PublishedAt)
	}
}

func TestPublishFailureLeavesRowPending(t *testing.T) {
	gw := &fakeGateway{}
	seedEligibleRow(t, gw, "Harvest", "front1", "back1")

	publisher := &fakePublisher{err: fmt.Errorf("rate limited")}
	svc := NewService(NewStore(gw), &fakeSource{}, nil, publisher)

	count, err := svc.PublishPending(context.Background(), 0)
	if err != nil {
		t.Fatalf("PublishPending failed: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected 0 published records, got %d", count)
	}

	view := RowToView(gw.rows[0], 2)
	if view.Status != "pendente" {
		t.Errorf("Expected row to stay pendente for a retry run, got %q", view.Status)
	}
	if view.PublishedAt != "" {
		t.Errorf("Expected no publish timestamp, got %q", view.PublishedAt)
	}
}

func TestPublishSkipsRowWithoutResolvableImages(t *testing.T) {
	gw := &fakeGateway{}
	seedEligibleRow(t, gw, "Harvest", "", "")

	publisher := &fakePublisher{}
	svc := NewService(NewStore(gw), &fakeSource{}, nil, publisher)

	count, err := svc.PublishPending(context.Background(), 0)
	if err != nil {
		t.Fatalf("PublishPending failed: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected 0 published records, got %d", count)
	}
	if len(publisher.posts) != 0 {
		t.Errorf("Expected no posts, got %v", publisher.posts)
	}
}

func TestPublishFallsBackToSingleImage(t *testing.T) {
	gw := &fakeGateway{}
	seedEligibleRow(t, gw, "Harvest", "front1", "back1")

	source := &fakeSource{downloadErr: map[string]error{"back1": fmt.Errorf("gone")}}
	publisher := &fakePublisher{}
	svc := NewService(NewStore(gw), source, nil, publisher)

	count, err := svc.PublishPending(context.Background(), 0)
	if err != nil {
		t.Fatalf("PublishPending failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 published record, got %d", count)
	}
	if len(publisher.posts) != 1 || len(publisher.posts[0]) != 1 {
		t.Errorf("Expected a single-image post, got %v", publisher.posts)
	}
}

func TestExtractDriveFileID(t *testing.T) {
	tests := []struct {
		name string
		url  string
		id   string
		ok   bool
	}{
		{"view url", "https://drive.google.com/file/d/ABC123xyz/view", "ABC123xyz", true},
		{"url with underscores and dashes", "https://drive.google.com/file/d/a_b-c1/view?usp=sharing", "a_b-c1", true},
		{"empty", "", "", false},
		{"malformed", "https://example.com/file/d/ABC123", "", false},
		{"bare host", "https://drive.google.com/", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := ExtractDriveFileID(tt.url)
			if ok != tt.ok || id != tt.id {
				t.Errorf("Expected (%q, %v), got (%q, %v)", tt.id, tt.ok, id, ok)
			}
		})
	}
}
