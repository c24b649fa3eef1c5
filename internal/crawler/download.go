package crawler

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"golang.org/x/crypto/sha3"
)

// DefaultMaxDownloadSize is the largest resource that is downloaded.
const DefaultMaxDownloadSize = 50 * 1024 * 1024

// Downloader stores a remote resource in a local file.
type Downloader interface {
	// Download writes the resource at rawURL to dest and returns the
	// hex-encoded SHA3-256 digest of its content.
	Download(ctx context.Context, rawURL, dest string) (string, error)
}

// HTTPDownloader downloads resources over HTTP.
type HTTPDownloader struct {
	client    *http.Client
	userAgent string
	maxSize   int64
}

// NewHTTPDownloader creates a downloader. A non-positive maxSize selects
// DefaultMaxDownloadSize.
func NewHTTPDownloader(client *http.Client, userAgent string, maxSize int64) *HTTPDownloader {
	if maxSize <= 0 {
		maxSize = DefaultMaxDownloadSize
	}
	return &HTTPDownloader{
		client:    client,
		userAgent: userAgent,
		maxSize:   maxSize,
	}
}

// Download fetches rawURL into dest. A failed download leaves no file behind.
// Errors wrap ErrDownload.
func (d *HTTPDownloader) Download(ctx context.Context, rawURL, dest string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDownload, err)
	}
	if d.userAgent != "" {
		req.Header.Set("User-Agent", d.userAgent)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDownload, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: %s returned HTTP %d", ErrDownload, rawURL, resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0750); err != nil {
		return "", fmt.Errorf("%w: failed to create download directory: %w", ErrDownload, err)
	}
	f, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // dest is built by the interceptor
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDownload, err)
	}

	h := sha3.New256()
	_, copyErr := io.Copy(io.MultiWriter(f, h), io.LimitReader(resp.Body, d.maxSize))
	closeErr := f.Close()
	if copyErr != nil || closeErr != nil {
		_ = os.Remove(dest)
		if copyErr == nil {
			copyErr = closeErr
		}
		return "", fmt.Errorf("%w: %w", ErrDownload, copyErr)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
