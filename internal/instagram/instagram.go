// Package instagram publishes photo posts through the Instagram Graph API.
package instagram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// maxAlbumImages is the Graph API carousel limit.
const maxAlbumImages = 10

// Client posts to one Instagram account.
type Client struct {
	baseURL     string
	accessToken string
	userID      string
	httpClient  *http.Client
}

// New creates a publisher client for the given account.
func New(baseURL, accessToken, userID string) *Client {
	return &Client{
		baseURL:     baseURL,
		accessToken: accessToken,
		userID:      userID,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// PostAlbum publishes the given local images with a caption and returns the
// post ID. One image becomes a single-photo post, two or more a carousel.
// More than ten images are truncated to the first ten.
func (c *Client) PostAlbum(ctx context.Context, imagePaths []string, caption string) (string, error) {
	if len(imagePaths) == 0 {
		return "", fmt.Errorf("no images provided")
	}
	if len(imagePaths) > maxAlbumImages {
		slog.Warn("Too many images for one post, truncating", "given", len(imagePaths), "max", maxAlbumImages)
		imagePaths = imagePaths[:maxAlbumImages]
	}

	valid := make([]string, 0, len(imagePaths))
	for _, path := range imagePaths {
		if _, err := os.Stat(path); err != nil {
			slog.Warn("Image not found, skipping", "path", path)
			continue
		}
		valid = append(valid, path)
	}
	if len(valid) == 0 {
		return "", fmt.Errorf("no valid images found")
	}

	containerIDs := make([]string, 0, len(valid))
	for _, path := range valid {
		id, err := c.uploadPhoto(ctx, path)
		if err != nil {
			return "", fmt.Errorf("failed to upload %s: %w", path, err)
		}
		containerIDs = append(containerIDs, id)
	}

	if len(containerIDs) == 1 {
		slog.Info("Publishing single photo post")
		return c.publish(ctx, containerIDs[0], caption, false)
	}

	slog.Info("Publishing carousel post", "images", len(containerIDs))
	carouselID, err := c.createCarousel(ctx, containerIDs)
	if err != nil {
		return "", err
	}
	return c.publish(ctx, carouselID, caption, true)
}

// uploadPhoto pushes image bytes into a media container and returns its ID.
func (c *Client) uploadPhoto(ctx context.Context, path string) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("image", filepath.Base(path))
	if err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("failed to copy image data: %w", err)
	}
	if err := writer.WriteField("media_type", "IMAGE"); err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize upload form: %w", err)
	}

	url := fmt.Sprintf("%s/%s/media", c.baseURL, c.userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	var result struct {
		ID string `json:"id"`
	}
	if err := c.do(req, &result); err != nil {
		return "", err
	}
	if result.ID == "" {
		return "", fmt.Errorf("upload response carried no container ID")
	}

	slog.Debug("Uploaded image", "path", path, "container", result.ID)
	return result.ID, nil
}

// createCarousel groups uploaded containers into one carousel container.
func (c *Client) createCarousel(ctx context.Context, containerIDs []string) (string, error) {
	payload := map[string]interface{}{
		"media_type": "CAROUSEL",
		"children":   containerIDs,
	}
	var result struct {
		ID string `json:"id"`
	}
	if err := c.postJSON(ctx, fmt.Sprintf("%s/%s/media", c.baseURL, c.userID), payload, &result); err != nil {
		return "", fmt.Errorf("failed to create carousel container: %w", err)
	}
	if result.ID == "" {
		return "", fmt.Errorf("carousel response carried no container ID")
	}
	return result.ID, nil
}

// publish turns a finished container into a live post.
func (c *Client) publish(ctx context.Context, containerID, caption string, carousel bool) (string, error) {
	payload := map[string]interface{}{
		"creation_id": containerID,
		"caption":     caption,
	}
	if carousel {
		payload["media_type"] = "CAROUSEL"
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := c.postJSON(ctx, fmt.Sprintf("%s/%s/media_publish", c.baseURL, c.userID), payload, &result); err != nil {
		return "", fmt.Errorf("failed to publish post: %w", err)
	}
	if result.ID == "" {
		return "", fmt.Errorf("publish response carried no post ID")
	}

	slog.Info("Post published", "post", result.ID)
	return result.ID, nil
}

func (c *Client) postJSON(ctx context.Context, url string, payload, result interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	return c.do(req, result)
}

func (c *Client) do(req *http.Request, result interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call Instagram API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("instagram API returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode Instagram response: %w", err)
	}
	return nil
}
