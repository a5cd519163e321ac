// ABOUTME: Resolves audio resource locators to local files
// ABOUTME: Downloads remote tracks once into a hashed cache directory
package fetch

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// DefaultCacheDir is used when no cache directory is configured
var DefaultCacheDir = filepath.Join(os.TempDir(), "bgmusic-cache")

// Fetcher turns locators (paths, file:// and http(s):// URLs) into local paths
type Fetcher struct {
	cacheDir string
	client   *http.Client
	log      *zap.SugaredLogger
}

// New creates a fetcher caching remote resources in cacheDir
func New(cacheDir string, logger *zap.Logger) *Fetcher {
	if cacheDir == "" {
		cacheDir = DefaultCacheDir
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Fetcher{
		cacheDir: cacheDir,
		client:   &http.Client{},
		log:      logger.Named("fetch").Sugar(),
	}
}

// Resolve returns a readable local path for the locator
func (f *Fetcher) Resolve(ctx context.Context, locator string) (string, error) {
	if locator == "" {
		return "", fmt.Errorf("empty audio locator")
	}

	u, err := url.Parse(locator)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		// Plain path (single-letter schemes are windows drive letters)
		return statLocal(locator)
	}

	switch strings.ToLower(u.Scheme) {
	case "file":
		return statLocal(u.Path)
	case "http", "https":
		return f.download(ctx, locator)
	default:
		return "", fmt.Errorf("unsupported locator scheme: %s", u.Scheme)
	}
}

// CachePath returns where a remote locator is stored
func (f *Fetcher) CachePath(locator string) string {
	hash := sha256.Sum256([]byte(locator))
	return filepath.Join(f.cacheDir, fmt.Sprintf("%x%s", hash[:8], getExtension(locator)))
}

// download fetches a remote resource into the cache
func (f *Fetcher) download(ctx context.Context, locator string) (string, error) {
	cachePath := f.CachePath(locator)

	if _, err := os.Stat(cachePath); err == nil {
		f.log.Infof("Track cache hit: %s", cachePath)
		return cachePath, nil
	}

	if err := os.MkdirAll(f.cacheDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}

	f.log.Infof("Downloading track: %s", locator)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, locator, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download track: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("track download failed: HTTP %d", resp.StatusCode)
	}

	// Write to a temp file first so a failed download never poisons the cache
	tmp, err := os.CreateTemp(f.cacheDir, "download-*")
	if err != nil {
		return "", fmt.Errorf("failed to create cache file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to save track: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to save track: %w", err)
	}

	if err := os.Rename(tmpPath, cachePath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to move track into cache: %w", err)
	}

	f.log.Infof("Track saved: %s", cachePath)
	return cachePath, nil
}

func statLocal(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("audio resource unavailable: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("audio resource is a directory: %s", path)
	}
	return path, nil
}

// getExtension extracts file extension from URL
func getExtension(locator string) string {
	// Remove query string
	locator = strings.Split(locator, "?")[0]
	return filepath.Ext(locator)
}
