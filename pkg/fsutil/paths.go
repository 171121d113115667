package fsutil

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/mitchellh/go-homedir"

	"github.com/glorpus-work/wam/pkg/errors"
)

// AppName is the name of the application used in paths
const AppName = "wam"

// GetCacheDir returns the per-user cache directory, e.g. ~/.cache/wam on Linux.
func GetCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// GetDownloadDir returns where archives are staged before extraction.
func GetDownloadDir() string {
	return filepath.Join(GetCacheDir(), "downloads")
}

// ExpandPath expands a leading ~ and cleans the result. Empty stays empty.
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("failed to expand %s: %w", path, err)
	}
	return filepath.Clean(expanded), nil
}

// SafeJoin joins a relative, slash-separated name onto root.
// Empty names, absolute names and any ".." segment are rejected with ErrInvalidFilePath.
func SafeJoin(root, name string) (string, error) {
	slashed := filepath.ToSlash(name)
	if strings.Trim(slashed, "/") == "" {
		return "", errors.Wrapf(errors.ErrInvalidFilePath, "empty path %q", name)
	}
	if strings.HasPrefix(slashed, "/") || filepath.IsAbs(name) || filepath.VolumeName(name) != "" {
		return "", errors.Wrapf(errors.ErrInvalidFilePath, "absolute path %q", name)
	}
	for _, seg := range strings.Split(slashed, "/") {
		if seg == ".." {
			return "", errors.Wrapf(errors.ErrInvalidFilePath, "path traversal in %q", name)
		}
	}

	cleanRoot := filepath.Clean(root)
	joined := filepath.Join(cleanRoot, filepath.FromSlash(slashed))
	rel, err := filepath.Rel(cleanRoot, joined)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.Wrapf(errors.ErrInvalidFilePath, "path %q escapes %s", name, root)
	}
	return joined, nil
}

// ValidateModuleName checks that name is a single directory name directly under a root.
func ValidateModuleName(name string) error {
	if name == "" || name == "." || name == ".." {
		return errors.Wrapf(errors.ErrInvalidModule, "%q", name)
	}
	if strings.ContainsAny(name, `/\`) || filepath.IsAbs(name) || filepath.VolumeName(name) != "" {
		return errors.Wrapf(errors.ErrInvalidModule, "%q is not a top-level directory name", name)
	}
	return nil
}
