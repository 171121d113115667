package download

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glorpus-work/wam/pkg/errors"
)

func TestNewManager(t *testing.T) {
	tests := []struct {
		name       string
		timeout    time.Duration
		userAgent  string
		expectedUA string
	}{
		{
			name:       "default user agent",
			timeout:    time.Second,
			expectedUA: "wam/1.0",
		},
		{
			name:       "custom user agent",
			timeout:    2 * time.Second,
			userAgent:  "test-agent/1.0",
			expectedUA: "test-agent/1.0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager(tt.timeout, tt.userAgent)
			require.NotNil(t, m)
			assert.Equal(t, tt.timeout, m.client.Timeout)
			assert.Equal(t, tt.expectedUA, m.userAgent)
		})
	}
}

func TestFetch(t *testing.T) {
	tests := []struct {
		name           string
		handler        http.HandlerFunc
		path           string
		expectError    bool
		expectErrorMsg string
	}{
		{
			name: "successful download",
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte("archive content"))
			},
			path: "/files/DBM-8.3.17.zip",
		},
		{
			name: "not found",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
			path:           "/files/missing.zip",
			expectError:    true,
			expectErrorMsg: "unexpected status code: 404",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			dir := t.TempDir()
			m := NewManager(time.Second, "test-agent")

			path, err := m.Fetch(context.Background(), server.URL+tt.path, dir)
			if tt.expectError {
				require.Error(t, err)
				assert.True(t, errors.IsAPI(err))
				assert.ErrorIs(t, err, errors.ErrDownloadFailed)
				assert.Contains(t, err.Error(), tt.expectErrorMsg)
				entries, readErr := os.ReadDir(dir)
				require.NoError(t, readErr)
				assert.Empty(t, entries, "failed downloads leave nothing behind")
				return
			}

			require.NoError(t, err)
			assert.Equal(t, dir, filepath.Dir(path))
			assert.True(t, strings.HasSuffix(path, "DBM-8.3.17.zip"))
			content, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, "archive content", string(content))
		})
	}
}

func TestFetch_CreatesDirectory(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("x"))
	}))
	defer server.Close()

	dir := filepath.Join(t.TempDir(), "cache", "downloads")
	path, err := NewManager(time.Second, "").Fetch(context.Background(), server.URL, dir)
	require.NoError(t, err)
	assert.FileExists(t, path)
	assert.True(t, strings.HasSuffix(path, "archive.zip"))
}

func TestFetch_InvalidURL(t *testing.T) {
	for _, raw := range []string{"", "not a url", "/relative/path.zip"} {
		_, err := NewManager(time.Second, "").Fetch(context.Background(), raw, t.TempDir())
		require.Error(t, err, raw)
		assert.True(t, errors.IsAPI(err), raw)
	}
}

func TestFetch_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(300 * time.Millisecond)
		_, _ = w.Write([]byte("late"))
	}))
	defer server.Close()

	_, err := NewManager(50*time.Millisecond, "").Fetch(context.Background(), server.URL+"/slow.zip", t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.IsAPI(err))
}
