// Package manifest owns the per-root record of installed addons (<root>/.addons.json).
package manifest

import (
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/glorpus-work/wam/internal/logger"
	"github.com/glorpus-work/wam/pkg/errors"
	"github.com/glorpus-work/wam/pkg/fsutil"
	"github.com/glorpus-work/wam/pkg/model"
)

const (
	// FileName is the manifest file kept in every tracked root.
	FileName = ".addons.json"
	// LockSuffix names the advisory lock file next to the manifest.
	LockSuffix = ".lock"
)

// Store reads and writes manifests. It keeps no state between calls; every
// method takes the root explicitly.
type Store struct{}

// NewStore creates a manifest store.
func NewStore() *Store {
	return &Store{}
}

// Path returns the manifest location for root.
func (s *Store) Path(root string) string {
	return filepath.Join(root, FileName)
}

// Initialize writes an empty manifest if root has none. The root itself must exist.
func (s *Store) Initialize(root string) error {
	ok, err := fsutil.IsDir(root)
	if err != nil {
		return errors.NewStorageError("initialize", "", err)
	}
	if !ok {
		return errors.NewStorageError("initialize", "", errors.Wrapf(errors.ErrRootNotFound, "%s", root))
	}

	return s.withLock(root, "initialize", "", func() error {
		if _, err := os.Stat(s.Path(root)); err == nil {
			return nil
		} else if !os.IsNotExist(err) {
			return errors.NewStorageError("initialize", "", err)
		}
		logger.Debug("Creating empty manifest", logger.Fields{"root": root})
		return s.Save(root, model.NewManifest())
	})
}

// Load reads and parses the manifest of root.
func (s *Store) Load(root string) (*model.Manifest, error) {
	path := s.Path(root)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewStorageError("load", "", errors.Wrapf(errors.ErrManifestNotFound, "%s", path))
		}
		return nil, errors.NewStorageError("load", "", err)
	}

	m := model.NewManifest()
	if err := json.Unmarshal(data, m); err != nil {
		return nil, errors.NewStorageError("load", "", errors.Wrapf(errors.ErrManifestInvalid, "%s: %v", path, err))
	}
	if m.Addons == nil {
		m.Addons = []model.Addon{}
	}
	return m, nil
}

// Save overwrites the manifest of root in full. On failure the previous file stays in place.
func (s *Store) Save(root string, m *model.Manifest) error {
	if m.Addons == nil {
		m = &model.Manifest{Addons: []model.Addon{}}
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return errors.NewStorageError("save", "", errors.Wrap(err, "failed to marshal manifest"))
	}
	if err := fsutil.WriteFileAtomic(s.Path(root), data, fsutil.FileModeDefault); err != nil {
		return errors.NewStorageError("save", "", err)
	}
	logger.Debug("Manifest saved", logger.Fields{"root": root, "addons": len(m.Addons)})
	return nil
}

// Update runs fn against the current manifest and saves the result, all under
// the root's lock. If fn or the save fails the file on disk is left untouched.
func (s *Store) Update(root string, fn func(*model.Manifest) error) error {
	return s.withLock(root, "update", "", func() error {
		m, err := s.Load(root)
		if err != nil {
			return err
		}
		if err := fn(m); err != nil {
			return err
		}
		return s.Save(root, m)
	})
}

// Append records addon. The store does not deduplicate; callers remove any prior entry first.
func (s *Store) Append(root string, addon model.Addon) error {
	return s.Update(root, func(m *model.Manifest) error {
		m.Addons = append(m.Addons, addon)
		return nil
	})
}

// Remove drops the entry with addon's id and deletes the module directories
// recorded for it. If any directory cannot be deleted the manifest is not
// rewritten, so the entry remains for a retry. An unknown id still rewrites the
// unchanged manifest.
func (s *Store) Remove(root string, addon model.Addon) error {
	return s.Update(root, func(m *model.Manifest) error {
		idx := m.IndexOf(addon.ID)
		if idx < 0 {
			logger.Debug("Addon not in manifest, nothing to remove", logger.Fields{"id": addon.ID, "root": root})
			return nil
		}
		recorded := m.Addons[idx]

		for _, module := range recorded.Modules {
			if err := fsutil.ValidateModuleName(module); err != nil {
				return errors.NewStorageError("remove", addon.ID, err)
			}
		}

		var failed []error
		for _, module := range recorded.Modules {
			dir := filepath.Join(root, module)
			if err := os.RemoveAll(dir); err != nil {
				failed = append(failed, errors.Wrapf(err, "failed to remove module %s", module))
				continue
			}
			logger.Debug("Removed module directory", logger.Fields{"id": addon.ID, "module": module})
		}
		if len(failed) > 0 {
			return errors.NewStorageError("remove", addon.ID, stderrors.Join(failed...))
		}

		m.Addons = append(m.Addons[:idx], m.Addons[idx+1:]...)
		return nil
	})
}

// Find returns the recorded entry for id.
func (s *Store) Find(root, id string) (model.Addon, bool, error) {
	m, err := s.Load(root)
	if err != nil {
		return model.Addon{}, false, err
	}
	a, ok := m.Find(id)
	return a, ok, nil
}

func (s *Store) withLock(root, op, id string, fn func() error) error {
	lock := flock.New(s.Path(root) + LockSuffix)
	if err := lock.Lock(); err != nil {
		return errors.NewStorageError(op, id, errors.Wrap(err, "failed to lock manifest"))
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("Failed to release manifest lock", logger.Fields{"root": root, "error": err})
		}
	}()
	return fn()
}
