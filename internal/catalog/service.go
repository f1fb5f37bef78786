package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/discolog/vinylbot/internal/drive"
	"github.com/discolog/vinylbot/internal/models"
)

// ImageSource lists and downloads paired cover images.
type ImageSource interface {
	DownloadAll(ctx context.Context) ([]drive.Pair, error)
	Download(ctx context.Context, fileID, fileName string) (string, error)
	PublicURL(fileID string) string
}

// Analyzer turns cover images into a draft Record and generates the sales
// listing text for it.
type Analyzer interface {
	AnalyzeImages(ctx context.Context, frontPath, backPath string) (*models.Record, error)
	GenerateListing(ctx context.Context, rec *models.Record) (string, error)
}

// Publisher posts a set of local images with a caption and returns the
// remote post handle.
type Publisher interface {
	PostAlbum(ctx context.Context, imagePaths []string, caption string) (string, error)
}

// Service sequences the cataloging and publishing flows. Each item is
// processed independently: a failure is logged and the batch moves on.
type Service struct {
	store     *Store
	source    ImageSource
	analyzer  Analyzer
	publisher Publisher
	now       func() time.Time
}

func NewService(store *Store, source ImageSource, analyzer Analyzer, publisher Publisher) *Service {
	return &Service{
		store:     store,
		source:    source,
		analyzer:  analyzer,
		publisher: publisher,
		now:       time.Now,
	}
}

// ScanAndCatalog downloads image pairs, analyzes each into a Record,
// attaches public URLs and listing text, and upserts it into the catalog.
// limit bounds the batch when positive. Returns the number of records that
// made it into the sheet.
func (s *Service) ScanAndCatalog(ctx context.Context, limit int) (int, error) {
	run := uuid.NewString()[:8]
	slog.Info("Starting scan and catalog", "run", run)

	pairs, err := s.source.DownloadAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch images: %w", err)
	}
	if len(pairs) == 0 {
		slog.Warn("No images to process", "run", run)
		return 0, nil
	}
	if limit > 0 && len(pairs) > limit {
		pairs = pairs[:limit]
	}

	cataloged := 0
	for i, pair := range pairs {
		slog.Info("Processing record", "run", run, "index", i+1, "total", len(pairs))

		backPath := ""
		if pair.Back != nil {
			backPath = pair.Back.Path
		}

		rec, err := s.analyzer.AnalyzeImages(ctx, pair.Front.Path, backPath)
		if err != nil {
			// Keep the item in the sheet flagged for manual review
			// instead of dropping it from the batch.
			slog.Error("Analysis failed, cataloging placeholder", "run", run, "index", i+1, "err", err)
			rec = models.PlaceholderRecord(pair.Front.Path, backPath, err)
		}

		rec.FrontURL = s.source.PublicURL(pair.Front.ID)
		if pair.Back != nil {
			rec.BackURL = s.source.PublicURL(pair.Back.ID)
		}

		listing, err := s.analyzer.GenerateListing(ctx, rec)
		if err != nil {
			slog.Error("Failed to generate listing text", "run", run, "record", rec.Name, "err", err)
		} else {
			rec.Listing = listing
		}

		if err := s.store.Upsert(ctx, rec); err != nil {
			slog.Error("Failed to catalog record", "run", run, "record", rec.Name, "err", err)
			continue
		}
		cataloged++
		slog.Info("Record cataloged", "run", run, "record", rec.Name, "artist", rec.Artist)
	}

	slog.Info("Scan complete", "run", run, "cataloged", cataloged)
	return cataloged, nil
}

// PublishPending posts eligible pending rows to the social account and marks
// them published. A failed post leaves the row pending, so re-running the
// flow retries it.
func (s *Service) PublishPending(ctx context.Context, limit int) (int, error) {
	run := uuid.NewString()[:8]
	slog.Info("Starting publication of pending records", "run", run)

	pending, err := s.store.PendingForPublish(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load pending records: %w", err)
	}
	if len(pending) == 0 {
		slog.Info("No pending records to publish", "run", run)
		return 0, nil
	}
	if limit > 0 && len(pending) > limit {
		pending = pending[:limit]
	}

	published := 0
	for _, view := range pending {
		slog.Info("Publishing record", "run", run, "record", view.Name, "artist", view.Artist)

		images := s.resolveImages(ctx, view)
		if len(images) == 0 {
			slog.Error("No images could be resolved for post", "run", run, "record", view.Name)
			continue
		}

		postID, err := s.publisher.PostAlbum(ctx, images, view.Listing)
		if err != nil {
			slog.Error("Failed to publish post", "run", run, "record", view.Name, "err", err)
			continue
		}

		if err := s.store.UpdateStatus(ctx, view.Index, models.StatusPublished, s.now()); err != nil {
			// The post exists remotely but the row stays pending; a
			// retry run will repost it. Accepted gap.
			slog.Error("Post published but status update failed", "run", run, "record", view.Name, "post", postID, "err", err)
			continue
		}

		published++
		slog.Info("Published", "run", run, "record", view.Name, "post", postID)
	}

	slog.Info("Publication complete", "run", run, "published", published)
	return published, nil
}

// resolveImages re-downloads the row's images through the file IDs embedded
// in its stored Drive URLs. Rows are published from URLs, never from the
// local paths recorded at scan time.
func (s *Service) resolveImages(ctx context.Context, view models.RowView) []string {
	var images []string

	if id, ok := ExtractDriveFileID(view.FrontURL); ok {
		path, err := s.source.Download(ctx, id, "temp_front_"+id+".jpg")
		if err != nil {
			slog.Error("Failed to download front image", "record", view.Name, "err", err)
		} else {
			images = append(images, path)
		}
	}

	if id, ok := ExtractDriveFileID(view.BackURL); ok {
		path, err := s.source.Download(ctx, id, "temp_back_"+id+".jpg")
		if err != nil {
			slog.Error("Failed to download back image", "record", view.Name, "err", err)
		} else {
			images = append(images, path)
		}
	}

	return images
}

var driveURLPattern = regexp.MustCompile(`https://drive\.google\.com/file/d/([a-zA-Z0-9_-]+)`)

// ExtractDriveFileID pulls the file ID out of a Drive view URL. A malformed
// or empty URL yields false rather than an error.
func ExtractDriveFileID(driveURL string) (string, bool) {
	if driveURL == "" {
		return "", false
	}
	m := driveURLPattern.FindStringSubmatch(driveURL)
	if m == nil {
		slog.Warn("Could not extract file ID from URL", "url", driveURL)
		return "", false
	}
	return m[1], true
}
