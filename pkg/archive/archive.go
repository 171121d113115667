// Package archive extracts downloaded addon archives into an addon root.
package archive

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mholt/archives"

	"github.com/glorpus-work/wam/internal/logger"
	"github.com/glorpus-work/wam/pkg/errors"
	"github.com/glorpus-work/wam/pkg/fsutil"
)

// Manager handles archive extraction.
type Manager struct{}

// NewManager creates a new Manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// ExtractAll extracts every entry of the archive at archivePath under destDir,
// recreating relative directories. Entries that are absolute or would escape
// destDir fail the extraction with ErrInvalidFilePath; symlinks are skipped.
// It returns the sorted top-level names written. Output written before a
// failure is left in place. Failures are StorageErrors.
func (am *Manager) ExtractAll(ctx context.Context, archivePath, destDir string) ([]string, error) {
	top, err := am.extract(ctx, archivePath, destDir)
	if err != nil {
		return nil, errors.NewStorageError("extract", "", err)
	}
	return top, nil
}

func (am *Manager) extract(ctx context.Context, archivePath, destDir string) ([]string, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive file: %w", err)
	}
	defer func() { _ = f.Close() }()

	format, _, err := archives.Identify(ctx, archivePath, f)
	if err != nil {
		if stderrors.Is(err, archives.NoMatch) {
			return nil, errors.Wrapf(errors.ErrUnsupportedArchive, "%s", filepath.Base(archivePath))
		}
		return nil, fmt.Errorf("failed to identify archive: %w", err)
	}
	extractor, ok := format.(archives.Extractor)
	if !ok {
		return nil, errors.Wrapf(errors.ErrUnsupportedArchive, "%s cannot be extracted", filepath.Base(archivePath))
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind archive: %w", err)
	}

	if err := os.MkdirAll(destDir, fsutil.DirModeDefault); err != nil {
		return nil, fmt.Errorf("failed to create destination directory: %w", err)
	}

	top := map[string]struct{}{}
	handler := func(ctx context.Context, info archives.FileInfo) error {
		name, err := am.extractEntry(destDir, info)
		if err != nil {
			return err
		}
		if name != "" {
			top[name] = struct{}{}
		}
		return nil
	}
	if err := extractor.Extract(ctx, f, handler); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(top))
	for name := range top {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// extractEntry writes one entry and returns the top-level name it belongs to.
func (am *Manager) extractEntry(destDir string, info archives.FileInfo) (string, error) {
	name := info.NameInArchive
	if path.Clean("/"+filepath.ToSlash(name)) == "/" && !strings.Contains(name, "..") {
		// the archive root itself, e.g. "./"
		return "", nil
	}

	targetPath, err := fsutil.SafeJoin(destDir, name)
	if err != nil {
		return "", err
	}

	if info.Mode()&fs.ModeSymlink != 0 || info.LinkTarget != "" {
		logger.Debug("Skipping link entry", logger.Fields{"entry": name, "target": info.LinkTarget})
		return "", nil
	}

	if info.IsDir() {
		if err := os.MkdirAll(targetPath, fsutil.DirModeDefault); err != nil {
			return "", fmt.Errorf("failed to create directory %s: %w", targetPath, err)
		}
		return topLevel(name), nil
	}

	if !info.Mode().IsRegular() {
		logger.Debug("Skipping special entry", logger.Fields{"entry": name, "mode": info.Mode().String()})
		return "", nil
	}

	if err := am.writeRegularFile(info, targetPath); err != nil {
		return "", err
	}
	return topLevel(name), nil
}

// writeRegularFile writes a regular file from the archive entry to targetPath.
func (am *Manager) writeRegularFile(info archives.FileInfo, targetPath string) error {
	src, err := info.Open()
	if err != nil {
		return fmt.Errorf("failed to open entry %s: %w", info.NameInArchive, err)
	}
	defer func() { _ = src.Close() }()

	if err := os.MkdirAll(filepath.Dir(targetPath), fsutil.DirModeDefault); err != nil {
		return fmt.Errorf("failed to create parent directory for %s: %w", info.NameInArchive, err)
	}

	dst, err := fsutil.CreateFilePerm(targetPath, fsutil.FileModeDefault)
	if err != nil {
		return fmt.Errorf("failed to create destination file %s: %w", targetPath, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return fmt.Errorf("failed to copy entry %s: %w", info.NameInArchive, err)
	}
	if err := dst.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", targetPath, err)
	}
	if !info.ModTime().IsZero() {
		_ = os.Chtimes(targetPath, info.ModTime(), info.ModTime())
	}
	return nil
}

// topLevel returns the first path segment of an archive entry name.
func topLevel(name string) string {
	clean := strings.TrimPrefix(path.Clean("/"+filepath.ToSlash(name)), "/")
	if i := strings.IndexByte(clean, '/'); i >= 0 {
		return clean[:i]
	}
	return clean
}
