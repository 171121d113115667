package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glorpus-work/wam/pkg/model"
)

func addon(id, fileID, version string) model.Addon {
	return model.Addon{
		ID:          id,
		Name:        "Addon " + id,
		FileID:      fileID,
		Version:     version,
		DownloadURL: "https://example.invalid/" + id + "/" + fileID + ".zip",
	}
}

func TestReconcile(t *testing.T) {
	tests := []struct {
		name           string
		installed      model.Addon
		update         *model.Addon
		wantStatus     model.Status
		wantVersion    string
		wantCandidate  bool
		wantDivergence bool
	}{
		{
			name:          "newer file is outdated",
			installed:     addon("1", "10", "1.0"),
			update:        ptr(addon("1", "12", "1.1")),
			wantStatus:    model.StatusOutdated,
			wantVersion:   "1.1",
			wantCandidate: true,
		},
		{
			name:        "older file is up to date",
			installed:   addon("1", "10", "1.0"),
			update:      ptr(addon("1", "9", "0.9")),
			wantStatus:  model.StatusUpToDate,
			wantVersion: "1.0",
		},
		{
			name:        "same file is up to date",
			installed:   addon("1", "10", "1.0"),
			update:      ptr(addon("1", "10", "1.0")),
			wantStatus:  model.StatusUpToDate,
			wantVersion: "1.0",
		},
		{
			name:        "absent from updates is up to date",
			installed:   addon("1", "10", "1.0"),
			wantStatus:  model.StatusUpToDate,
			wantVersion: "1.0",
		},
		{
			name:           "newer file with unchanged label is divergent",
			installed:      addon("1", "10", "1.0"),
			update:         ptr(addon("1", "11", "1.0")),
			wantStatus:     model.StatusOutdated,
			wantVersion:    "1.0",
			wantCandidate:  true,
			wantDivergence: true,
		},
		{
			name:          "numeric not lexical comparison",
			installed:     addon("1", "9", "1.0"),
			update:        ptr(addon("1", "10", "1.1")),
			wantStatus:    model.StatusOutdated,
			wantVersion:   "1.1",
			wantCandidate: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updates := map[string]model.Addon{}
			if tt.update != nil {
				updates[tt.update.ID] = *tt.update
			}

			report := Reconcile([]model.Addon{tt.installed}, updates)

			require.Len(t, report.Statuses, 1)
			row := report.Statuses[0]
			assert.Equal(t, tt.wantStatus, row.Status)
			assert.Equal(t, tt.wantVersion, row.DisplayVersion)
			assert.Equal(t, tt.wantDivergence, row.Divergent)
			if tt.wantCandidate {
				require.Len(t, report.Candidates, 1)
				assert.Equal(t, tt.installed, report.Candidates[0].Installed)
				assert.Equal(t, *tt.update, report.Candidates[0].Update)
				assert.Equal(t, tt.update.DownloadURL, row.DisplayURL)
			} else {
				assert.Empty(t, report.Candidates)
				assert.Equal(t, tt.installed.DownloadURL, row.DisplayURL)
			}
		})
	}
}

func TestReconcile_PreservesManifestOrder(t *testing.T) {
	installed := []model.Addon{
		addon("30", "1", "a"),
		addon("10", "5", "b"),
		addon("20", "7", "c"),
	}
	updates := map[string]model.Addon{
		"20": addon("20", "8", "c2"),
		"30": addon("30", "2", "a2"),
	}

	report := Reconcile(installed, updates)

	require.Len(t, report.Statuses, 3)
	assert.Equal(t, "30", report.Statuses[0].Addon.ID)
	assert.Equal(t, "10", report.Statuses[1].Addon.ID)
	assert.Equal(t, "20", report.Statuses[2].Addon.ID)
	assert.Equal(t, 2, report.Outdated())

	ids := []string{}
	for _, c := range report.Candidates {
		ids = append(ids, c.Installed.ID)
	}
	assert.ElementsMatch(t, []string{"30", "20"}, ids)
}

func TestReconcile_Empty(t *testing.T) {
	report := Reconcile(nil, nil)
	assert.Empty(t, report.Statuses)
	assert.Empty(t, report.Candidates)
	assert.Zero(t, report.Outdated())
}

func ptr(a model.Addon) *model.Addon { return &a }
