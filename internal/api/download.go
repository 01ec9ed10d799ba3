package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	http "github.com/bogdanfinn/fhttp"
	"github.com/google/uuid"

	apierrors "github.com/diogo/promptdeck/internal/errors"
)

// maxAssetSize bounds a downloaded track
const maxAssetSize = 64 << 20

// DownloadOptions configures asset download behavior
type DownloadOptions struct {
	// Directory is the destination directory
	Directory string
	// Filename is the output filename (derived from the URL if empty)
	Filename string
}

var unsafeFilenameChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)

// DownloadAsset saves a generated asset to disk and returns its absolute path
func (c *Client) DownloadAsset(ctx context.Context, assetURL string, opts DownloadOptions) (string, error) {
	if assetURL == "" {
		return "", apierrors.NewDownloadError(assetURL, 0, errors.New("empty asset URL"))
	}
	if opts.Directory == "" {
		return "", apierrors.NewDownloadError(assetURL, 0, errors.New("no download directory"))
	}

	if err := os.MkdirAll(opts.Directory, 0o755); err != nil {
		return "", apierrors.NewDownloadError(assetURL, 0, fmt.Errorf("failed to create directory: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, assetURL, nil)
	if err != nil {
		return "", apierrors.NewDownloadError(assetURL, 0, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Accept", "audio/*,*/*;q=0.8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apierrors.NewDownloadError(assetURL, 0, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", apierrors.NewDownloadError(assetURL, resp.StatusCode, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	filename := opts.Filename
	if filename == "" {
		filename = generateFilename(assetURL, resp.Header.Get("Content-Type"))
	}
	destPath := filepath.Join(opts.Directory, filename)

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxAssetSize))
	if err != nil {
		return "", apierrors.NewDownloadError(assetURL, 0, fmt.Errorf("failed to read response: %w", err))
	}

	if err := os.WriteFile(destPath, body, 0o644); err != nil {
		return "", apierrors.NewDownloadError(assetURL, 0, fmt.Errorf("failed to save file: %w", err))
	}

	absPath, err := filepath.Abs(destPath)
	if err != nil {
		return destPath, nil
	}
	return absPath, nil
}

// generateFilename derives a filename from the URL path, falling back to a
// random name with an extension guessed from the content type
func generateFilename(assetURL, contentType string) string {
	if u, err := url.Parse(assetURL); err == nil {
		base := path.Base(u.Path)
		if base != "." && base != "/" && path.Ext(base) != "" {
			return sanitizeFilename(base)
		}
	}

	ext := ".mp3"
	if contentType != "" {
		mediaType, _, _ := mime.ParseMediaType(contentType)
		switch mediaType {
		case "audio/wav", "audio/x-wav", "audio/wave":
			ext = ".wav"
		case "audio/ogg":
			ext = ".ogg"
		case "audio/flac":
			ext = ".flac"
		}
	}

	return "track_" + uuid.NewString()[:8] + ext
}

// sanitizeFilename removes invalid characters from filenames
func sanitizeFilename(name string) string {
	return strings.TrimSpace(unsafeFilenameChars.ReplaceAllString(name, "_"))
}
