// Package download fetches addon archives into a staging directory.
package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/glorpus-work/wam/internal/logger"
	pkgerrors "github.com/glorpus-work/wam/pkg/errors"
	"github.com/glorpus-work/wam/pkg/fsutil"
)

// DefaultUserAgent is sent when none is configured.
const DefaultUserAgent = "wam/1.0"

// ManagerImpl is a plain HTTP archive downloader.
type ManagerImpl struct {
	client    *http.Client
	userAgent string
}

// NewManager creates a new download manager with the given timeout and user agent.
func NewManager(timeout time.Duration, userAgent string) *ManagerImpl {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &ManagerImpl{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// Fetch downloads rawURL into a new file under dir and returns its path. The
// file keeps the URL's base name as suffix so its archive format can be
// identified. The caller owns and removes the file. Failures are APIErrors.
func (m *ManagerImpl) Fetch(ctx context.Context, rawURL, dir string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", pkgerrors.NewAPIError("download", "", fmt.Errorf("invalid archive URL %q: %w", rawURL, pkgerrors.ErrDownloadFailed))
	}
	if err := os.MkdirAll(dir, fsutil.DirModeSecure); err != nil {
		return "", pkgerrors.NewStorageError("download", "", pkgerrors.Wrap(err, "could not create download dir"))
	}

	resp, err := m.doRequest(ctx, u)
	if err != nil {
		return "", pkgerrors.NewAPIError("download", "", err)
	}
	defer func() { _ = resp.Body.Close() }()

	tmpPath, err := writeBodyToTemp(resp.Body, dir, archiveName(u))
	if err != nil {
		return "", pkgerrors.NewAPIError("download", "", err)
	}
	logger.Debug("Archive downloaded", logger.Fields{"url": rawURL, "path": tmpPath})
	return tmpPath, nil
}

func (m *ManagerImpl) doRequest(ctx context.Context, u *url.URL) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to create request")
	}
	req.Header.Set("User-Agent", m.userAgent)
	resp, err := m.client.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "download failed")
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code: %d: %w", resp.StatusCode, pkgerrors.ErrDownloadFailed)
	}
	return resp, nil
}

// archiveName is the last URL path segment, or a fallback when there is none.
func archiveName(u *url.URL) string {
	base := path.Base(u.Path)
	if base == "." || base == "/" || base == "" {
		return "archive.zip"
	}
	return base
}

func writeBodyToTemp(body io.Reader, dir, name string) (string, error) {
	tmp, err := os.CreateTemp(dir, "dl-*-"+filepath.Base(name))
	if err != nil {
		return "", pkgerrors.Wrap(err, "could not create temp file")
	}
	tmpPath := tmp.Name()

	if _, err := io.Copy(tmp, body); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return "", pkgerrors.Wrap(err, "could not write file")
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return "", pkgerrors.Wrap(err, "could not sync file")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", pkgerrors.Wrap(err, "could not close file")
	}
	return tmpPath, nil
}
