package testutil

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

// BuildZip returns a zip archive holding files (slash-separated name to content).
// Names ending in "/" become directory entries. Entries are written in sorted order.
func BuildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	for _, name := range names {
		if strings.HasSuffix(name, "/") {
			if _, err := zw.Create(name); err != nil {
				t.Fatalf("create dir entry %s: %v", name, err)
			}
			continue
		}
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create entry %s: %v", name, err)
		}
		if _, err := w.Write([]byte(files[name])); err != nil {
			t.Fatalf("write entry %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

// WriteZip writes BuildZip's output to dir/name and returns the path.
func WriteZip(t *testing.T, dir, name string, files map[string]string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, BuildZip(t, files), 0o644); err != nil {
		t.Fatalf("write zip: %v", err)
	}
	return path
}

// AddonZip builds an archive with a .toc and a lua file for each module folder.
func AddonZip(t *testing.T, version string, folders ...string) []byte {
	t.Helper()
	files := map[string]string{}
	for _, f := range folders {
		files[f+"/"] = ""
		files[f+"/"+f+".toc"] = "## Title: " + f + "\n## Version: " + version + "\n"
		files[f+"/core.lua"] = "-- " + f + " " + version + "\n"
	}
	return BuildZip(t, files)
}
