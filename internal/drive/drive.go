package drive

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"time"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// ImageFile describes one image found in the Drive folder.
type ImageFile struct {
	ID       string
	Name     string
	Path     string // local path once downloaded
	Modified time.Time
}

// Pair groups a front cover with its optional back cover.
type Pair struct {
	Front ImageFile
	Back  *ImageFile
}

// Client retrieves vinyl cover images from a Google Drive folder.
type Client struct {
	svc          *drive.Service
	folderID     string
	downloadsDir string
}

// New builds a Drive client from an authenticated HTTP client.
func New(ctx context.Context, httpClient *http.Client, folderID, downloadsDir string) (*Client, error) {
	svc, err := drive.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}
	return &Client{svc: svc, folderID: folderID, downloadsDir: downloadsDir}, nil
}

// ListImages returns all JPEG/PNG files in the folder, newest first.
func (c *Client) ListImages(ctx context.Context) ([]ImageFile, error) {
	query := fmt.Sprintf(
		"'%s' in parents and (mimeType='image/jpeg' or mimeType='image/jpg' or mimeType='image/png') and trashed=false",
		c.folderID,
	)

	var files []ImageFile
	pageToken := ""
	for {
		call := c.svc.Files.List().
			Context(ctx).
			Q(query).
			Spaces("drive").
			Fields("nextPageToken, files(id, name, mimeType, modifiedTime)").
			OrderBy("modifiedTime desc")
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list drive folder %s: %w", c.folderID, err)
		}

		for _, f := range resp.Files {
			modified, err := time.Parse(time.RFC3339, f.ModifiedTime)
			if err != nil {
				slog.Warn("Unparseable modifiedTime, using zero time", "file", f.Name, "value", f.ModifiedTime)
			}
			files = append(files, ImageFile{ID: f.Id, Name: f.Name, Modified: modified})
		}

		pageToken = resp.NextPageToken
		if pageToken == "" {
			break
		}
	}

	slog.Info("Found images in drive folder", "count", len(files))
	return files, nil
}

// Download fetches a file's bytes into the downloads directory and returns
// the local path. An already-downloaded file is reused as-is; downloaded
// files are never cleaned up.
func (c *Client) Download(ctx context.Context, fileID, fileName string) (string, error) {
	path := filepath.Join(c.downloadsDir, fileName)
	if _, err := os.Stat(path); err == nil {
		slog.Debug("File already downloaded", "name", fileName)
		return path, nil
	}

	resp, err := c.svc.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		if apiErr, ok := err.(*googleapi.Error); ok && apiErr.Code == http.StatusNotFound {
			return "", fmt.Errorf("drive file %s not found: %w", fileID, err)
		}
		return "", fmt.Errorf("failed to download drive file %s: %w", fileID, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read drive file %s: %w", fileID, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	slog.Info("Downloaded image", "name", fileName, "bytes", len(data))
	return path, nil
}

// DownloadAll downloads every image in the folder and groups them into
// front/back pairs. Files that fail to download are skipped.
func (c *Client) DownloadAll(ctx context.Context) ([]Pair, error) {
	files, err := c.ListImages(ctx)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		slog.Warn("No images found in drive folder")
		return nil, nil
	}

	downloaded := make([]ImageFile, 0, len(files))
	for _, f := range files {
		path, err := c.Download(ctx, f.ID, f.Name)
		if err != nil {
			slog.Error("Failed to download image", "name", f.Name, "err", err)
			continue
		}
		f.Path = path
		downloaded = append(downloaded, f)
	}

	pairs := PairFiles(downloaded)
	slog.Info("Identified records from images", "count", len(pairs))
	return pairs, nil
}

// PublicURL returns the shareable view URL for a Drive file.
func (c *Client) PublicURL(fileID string) string {
	return fmt.Sprintf("https://drive.google.com/file/d/%s/view", fileID)
}

// PairFiles sorts images by modification time descending and groups
// consecutive pairs of two as (front, back). An odd item out becomes a
// front-only pair. Photographing front then back means the back upload is
// older, so sort order, not file name, decides which is which.
func PairFiles(files []ImageFile) []Pair {
	sorted := make([]ImageFile, len(files))
	copy(sorted, files)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Modified.After(sorted[j].Modified)
	})

	var pairs []Pair
	for i := 0; i < len(sorted); i += 2 {
		if i+1 < len(sorted) {
			back := sorted[i+1]
			pairs = append(pairs, Pair{Front: sorted[i], Back: &back})
		} else {
			slog.Warn("Image without a pair", "name", sorted[i].Name)
			pairs = append(pairs, Pair{Front: sorted[i]})
		}
	}
	return pairs
}
