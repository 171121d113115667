// Package testutil provides a fake addon catalog and archive builders for tests.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
)

// CatalogFile mirrors one entry of latestFiles as the catalog serves it.
type CatalogFile struct {
	ID                int             `json:"id"`
	FileDate          string          `json:"fileDate"`
	DisplayName       string          `json:"displayName"`
	GameVersion       []string        `json:"gameVersion"`
	DownloadURL       string          `json:"downloadUrl"`
	ReleaseType       int             `json:"releaseType"`
	GameVersionFlavor string          `json:"gameVersionFlavor"`
	Modules           []CatalogModule `json:"modules"`
}

// CatalogModule is a top-level folder of a file.
type CatalogModule struct {
	FolderName string `json:"foldername"`
}

// CatalogEntry is one addon as the catalog serves it.
type CatalogEntry struct {
	ID            int           `json:"id"`
	Name          string        `json:"name"`
	DownloadCount float64       `json:"downloadCount"`
	LatestFiles   []CatalogFile `json:"latestFiles"`
}

// FakeCatalog is an httptest server speaking the catalog's search and batch endpoints
// and serving archives under /files/.
type FakeCatalog struct {
	Server *httptest.Server

	mu       sync.Mutex
	entries  []CatalogEntry
	archives map[string][]byte
	status   int
	rawBody  string
	requests []*http.Request
	batches  [][]int
}

// NewFakeCatalog starts a fake catalog that is closed when the test ends.
func NewFakeCatalog(t *testing.T) *FakeCatalog {
	t.Helper()
	fc := &FakeCatalog{archives: map[string][]byte{}}
	mux := http.NewServeMux()
	mux.HandleFunc("/addon/search", fc.handleSearch)
	mux.HandleFunc("/addon", fc.handleBatch)
	mux.HandleFunc("/files/", fc.handleFile)
	fc.Server = httptest.NewServer(fc.record(mux))
	t.Cleanup(fc.Server.Close)
	return fc
}

// URL is the API base URL.
func (fc *FakeCatalog) URL() string { return fc.Server.URL }

// AddEntry registers a catalog entry.
func (fc *FakeCatalog) AddEntry(e CatalogEntry) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.entries = append(fc.entries, e)
}

// AddArchive serves data under /files/name and returns its URL.
func (fc *FakeCatalog) AddArchive(name string, data []byte) string {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.archives[name] = data
	return fc.Server.URL + "/files/" + name
}

// FailWith makes every API endpoint answer with status.
func (fc *FakeCatalog) FailWith(status int) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.status = status
}

// RespondRaw makes every API endpoint answer 200 with body.
func (fc *FakeCatalog) RespondRaw(body string) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.rawBody = body
}

// Requests returns the requests seen so far.
func (fc *FakeCatalog) Requests() []*http.Request {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return append([]*http.Request(nil), fc.requests...)
}

// Batches returns the id lists posted to the batch endpoint.
func (fc *FakeCatalog) Batches() [][]int {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return append([][]int(nil), fc.batches...)
}

func (fc *FakeCatalog) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fc.mu.Lock()
		fc.requests = append(fc.requests, r.Clone(r.Context()))
		fc.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

// override answers with the configured failure or raw body. It reports whether it wrote a response.
func (fc *FakeCatalog) override(w http.ResponseWriter) bool {
	fc.mu.Lock()
	status, raw := fc.status, fc.rawBody
	fc.mu.Unlock()
	if status != 0 {
		w.WriteHeader(status)
		return true
	}
	if raw != "" {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(raw))
		return true
	}
	return false
}

func (fc *FakeCatalog) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if fc.override(w) {
		return
	}
	filter := strings.ToLower(r.URL.Query().Get("searchFilter"))
	fc.mu.Lock()
	out := make([]CatalogEntry, 0)
	for _, e := range fc.entries {
		if strings.Contains(strings.ToLower(e.Name), filter) {
			out = append(out, e)
		}
	}
	fc.mu.Unlock()
	writeJSON(w, out)
}

func (fc *FakeCatalog) handleBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var ids []int
	if err := json.NewDecoder(r.Body).Decode(&ids); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	fc.mu.Lock()
	fc.batches = append(fc.batches, ids)
	fc.mu.Unlock()
	if fc.override(w) {
		return
	}

	wanted := make(map[int]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	fc.mu.Lock()
	out := make([]CatalogEntry, 0, len(ids))
	for _, e := range fc.entries {
		if wanted[e.ID] {
			out = append(out, e)
		}
	}
	fc.mu.Unlock()
	writeJSON(w, out)
}

func (fc *FakeCatalog) handleFile(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/files/")
	fc.mu.Lock()
	data, ok := fc.archives[name]
	fc.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// StableFile builds a stable release file for flavorTag with one module per folder.
func StableFile(id int, flavorTag, downloadURL string, folders ...string) CatalogFile {
	modules := make([]CatalogModule, 0, len(folders))
	for _, f := range folders {
		modules = append(modules, CatalogModule{FolderName: f})
	}
	return CatalogFile{
		ID:                id,
		FileDate:          "2020-04-01T12:34:56.789Z",
		DisplayName:       "v" + strconv.Itoa(id),
		GameVersion:       []string{"8.3.0"},
		DownloadURL:       downloadURL,
		ReleaseType:       1,
		GameVersionFlavor: flavorTag,
		Modules:           modules,
	}
}
