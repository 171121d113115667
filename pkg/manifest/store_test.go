package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glorpus-work/wam/pkg/errors"
	"github.com/glorpus-work/wam/pkg/model"
)

func sampleAddon(id, fileID string, modules ...string) model.Addon {
	return model.Addon{
		ID:            id,
		Name:          "Addon " + id,
		FileID:        fileID,
		FileDate:      "2020-01-02",
		Modules:       modules,
		DownloadURL:   "https://example.invalid/" + id + "/" + fileID + ".zip",
		Version:       "v" + fileID,
		GameVersion:   "8.3.0",
		DownloadCount: "1,000",
	}
}

func initializedRoot(t *testing.T) (*Store, string) {
	t.Helper()
	s := NewStore()
	root := t.TempDir()
	require.NoError(t, s.Initialize(root))
	return s, root
}

func makeModules(t *testing.T, root string, modules ...string) {
	t.Helper()
	for _, m := range modules {
		require.NoError(t, os.MkdirAll(filepath.Join(root, m, "sub"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(root, m, m+".toc"), []byte("## Title: "+m), 0o644))
	}
}

func TestInitialize(t *testing.T) {
	s, root := initializedRoot(t)

	data, err := os.ReadFile(filepath.Join(root, FileName))
	require.NoError(t, err)
	assert.JSONEq(t, `{"addons":[]}`, string(data))

	// idempotent: an existing manifest is kept
	require.NoError(t, s.Append(root, sampleAddon("1", "5")))
	require.NoError(t, s.Initialize(root))
	m, err := s.Load(root)
	require.NoError(t, err)
	assert.Len(t, m.Addons, 1)
}

func TestInitialize_MissingRoot(t *testing.T) {
	s := NewStore()
	root := filepath.Join(t.TempDir(), "does-not-exist")

	err := s.Initialize(root)
	require.Error(t, err)
	assert.True(t, errors.IsStorage(err))
	assert.ErrorIs(t, err, errors.ErrRootNotFound)
	assert.NoDirExists(t, root)
}

func TestLoad_Errors(t *testing.T) {
	s := NewStore()

	t.Run("missing file", func(t *testing.T) {
		_, err := s.Load(t.TempDir())
		assert.True(t, errors.IsStorage(err))
		assert.ErrorIs(t, err, errors.ErrManifestNotFound)
	})

	t.Run("invalid json", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(root, FileName), []byte("{not json"), 0o644))
		_, err := s.Load(root)
		assert.True(t, errors.IsStorage(err))
		assert.ErrorIs(t, err, errors.ErrManifestInvalid)
	})

	t.Run("null addons", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(root, FileName), []byte(`{"addons":null}`), 0o644))
		m, err := s.Load(root)
		require.NoError(t, err)
		assert.NotNil(t, m.Addons)
		assert.Empty(t, m.Addons)
	})
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	s, root := initializedRoot(t)
	want := &model.Manifest{Addons: []model.Addon{
		sampleAddon("3358", "2901234", "DBM-Core", "DBM-GUI"),
		sampleAddon("1", "5", "AddonFolder"),
		{ID: "77", Name: "Sparse"},
	}}

	require.NoError(t, s.Save(root, want))
	got, err := s.Load(root)
	require.NoError(t, err)
	assert.Equal(t, want.Addons, got.Addons)
}

func TestSave_KeepsPreviousOnFailure(t *testing.T) {
	s, root := initializedRoot(t)
	require.NoError(t, s.Append(root, sampleAddon("1", "5")))

	err := s.Save(filepath.Join(root, "missing-dir"), model.NewManifest())
	require.Error(t, err)
	assert.True(t, errors.IsStorage(err))

	m, err := s.Load(root)
	require.NoError(t, err)
	assert.Len(t, m.Addons, 1)
}

func TestAppendRemove_Uniqueness(t *testing.T) {
	s, root := initializedRoot(t)

	steps := []struct {
		op    string
		addon model.Addon
	}{
		{"append", sampleAddon("1", "5")},
		{"append", sampleAddon("2", "8")},
		{"remove", sampleAddon("1", "5")},
		{"append", sampleAddon("1", "6")},
		{"remove", sampleAddon("3", "1")},
		{"remove", sampleAddon("2", "8")},
		{"append", sampleAddon("2", "9")},
	}
	for _, step := range steps {
		if step.op == "append" {
			require.NoError(t, s.Append(root, step.addon))
		} else {
			require.NoError(t, s.Remove(root, step.addon))
		}

		m, err := s.Load(root)
		require.NoError(t, err)
		seen := map[string]bool{}
		for _, a := range m.Addons {
			assert.False(t, seen[a.ID], "duplicate id %s after %s", a.ID, step.op)
			seen[a.ID] = true
		}
	}

	m, err := s.Load(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, m.IDs())
	assert.Equal(t, "6", m.Addons[0].FileID)
	assert.Equal(t, "9", m.Addons[1].FileID)
}

func TestRemove_DeletesRecordedModules(t *testing.T) {
	s, root := initializedRoot(t)
	makeModules(t, root, "DBM-Core", "DBM-GUI", "Unrelated")
	require.NoError(t, s.Append(root, sampleAddon("3358", "10", "DBM-Core", "DBM-GUI")))

	// the recorded module list wins over the one passed in
	require.NoError(t, s.Remove(root, model.Addon{ID: "3358"}))

	assert.NoDirExists(t, filepath.Join(root, "DBM-Core"))
	assert.NoDirExists(t, filepath.Join(root, "DBM-GUI"))
	assert.DirExists(t, filepath.Join(root, "Unrelated"))

	_, found, err := s.Find(root, "3358")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRemove_UnknownIDRewritesUnchanged(t *testing.T) {
	s, root := initializedRoot(t)
	require.NoError(t, s.Append(root, sampleAddon("1", "5", "AddonFolder")))
	before, err := s.Load(root)
	require.NoError(t, err)

	require.NoError(t, s.Remove(root, sampleAddon("42", "1", "AddonFolder")))

	after, err := s.Load(root)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestRemove_MissingModuleDirCountsAsRemoved(t *testing.T) {
	s, root := initializedRoot(t)
	require.NoError(t, s.Append(root, sampleAddon("1", "5", "NeverExtracted")))

	require.NoError(t, s.Remove(root, sampleAddon("1", "5")))

	m, err := s.Load(root)
	require.NoError(t, err)
	assert.Empty(t, m.Addons)
}

func TestRemove_RejectsUnsafeModuleNames(t *testing.T) {
	for _, bad := range []string{"", "..", "../outside", "/etc", "a/b"} {
		t.Run(fmt.Sprintf("%q", bad), func(t *testing.T) {
			s, root := initializedRoot(t)
			makeModules(t, root, "Good")
			require.NoError(t, s.Append(root, sampleAddon("1", "5", "Good", bad)))

			err := s.Remove(root, sampleAddon("1", "5"))
			require.Error(t, err)
			assert.True(t, errors.IsStorage(err))
			assert.ErrorIs(t, err, errors.ErrInvalidModule)

			// nothing deleted, entry kept
			assert.DirExists(t, filepath.Join(root, "Good"))
			_, found, err := s.Find(root, "1")
			require.NoError(t, err)
			assert.True(t, found)
		})
	}
}

func TestUpdate_FailingFnLeavesFileUntouched(t *testing.T) {
	s, root := initializedRoot(t)
	require.NoError(t, s.Append(root, sampleAddon("1", "5")))
	before, err := os.ReadFile(s.Path(root))
	require.NoError(t, err)

	sentinel := fmt.Errorf("boom")
	err = s.Update(root, func(m *model.Manifest) error {
		m.Addons = nil
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)

	after, err := os.ReadFile(s.Path(root))
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestUpdate_WithoutManifest(t *testing.T) {
	s := NewStore()
	root := t.TempDir()

	err := s.Append(root, sampleAddon("1", "5"))
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrManifestNotFound)
	assert.NoFileExists(t, s.Path(root))
}

func TestAppend_ConcurrentCallersDoNotLoseUpdates(t *testing.T) {
	s, root := initializedRoot(t)

	const n = 12
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- NewStore().Append(root, sampleAddon(fmt.Sprint(i), "1"))
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	m, err := s.Load(root)
	require.NoError(t, err)
	assert.Len(t, m.Addons, n)
}
