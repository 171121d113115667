package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glorpus-work/wam/pkg/model"
)

func TestLatestFile(t *testing.T) {
	retail := model.FlavorRetail.Tag()
	classic := model.FlavorClassic.Tag()

	tests := []struct {
		name   string
		files  []file
		flavor model.Flavor
		wantID string
		found  bool
	}{
		{
			name: "greatest stable id of the requested flavor",
			files: []file{
				{ID: "5", ReleaseType: ReleaseStable, GameVersionFlavor: retail},
				{ID: "7", ReleaseType: ReleaseStable, GameVersionFlavor: retail},
				{ID: "9", ReleaseType: ReleaseStable, GameVersionFlavor: classic},
			},
			flavor: model.FlavorRetail,
			wantID: "7",
			found:  true,
		},
		{
			name: "other flavor",
			files: []file{
				{ID: "5", ReleaseType: ReleaseStable, GameVersionFlavor: retail},
				{ID: "9", ReleaseType: ReleaseStable, GameVersionFlavor: classic},
			},
			flavor: model.FlavorClassic,
			wantID: "9",
			found:  true,
		},
		{
			name: "beta and alpha are ignored",
			files: []file{
				{ID: "5", ReleaseType: ReleaseStable, GameVersionFlavor: retail},
				{ID: "11", ReleaseType: ReleaseBeta, GameVersionFlavor: retail},
				{ID: "12", ReleaseType: ReleaseAlpha, GameVersionFlavor: retail},
			},
			flavor: model.FlavorRetail,
			wantID: "5",
			found:  true,
		},
		{
			name: "numeric not lexical order",
			files: []file{
				{ID: "10", ReleaseType: ReleaseStable, GameVersionFlavor: retail},
				{ID: "9", ReleaseType: ReleaseStable, GameVersionFlavor: retail},
			},
			flavor: model.FlavorRetail,
			wantID: "10",
			found:  true,
		},
		{
			name: "no survivor",
			files: []file{
				{ID: "5", ReleaseType: ReleaseBeta, GameVersionFlavor: retail},
				{ID: "9", ReleaseType: ReleaseStable, GameVersionFlavor: classic},
			},
			flavor: model.FlavorRetail,
		},
		{
			name:   "empty list",
			flavor: model.FlavorRetail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := latestFile(tt.files, tt.flavor)
			assert.Equal(t, tt.found, ok)
			if tt.found {
				assert.Equal(t, tt.wantID, string(got.ID))
			}
		})
	}
}

func TestCompareFileIDs(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"12", "10", 1},
		{"9", "10", -1},
		{"2901234", "2901234", 0},
		{"100", "99", 1},
		{"abc", "abd", -1},
		{"12", "abc", -1},
	}
	for _, tt := range tests {
		t.Run(tt.a+"_vs_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, CompareFileIDs(tt.a, tt.b))
			assert.Equal(t, -tt.want, CompareFileIDs(tt.b, tt.a))
		})
	}
}

func TestFlexString(t *testing.T) {
	var got struct {
		A flexString `json:"a"`
		B flexString `json:"b"`
		C flexString `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": 3358, "b": "3358", "c": null}`), &got))
	assert.Equal(t, flexString("3358"), got.A)
	assert.Equal(t, flexString("3358"), got.B)
	assert.Equal(t, flexString(""), got.C)

	var bad struct {
		A flexString `json:"a"`
	}
	assert.Error(t, json.Unmarshal([]byte(`{"a": true}`), &bad))
}

func TestToAddon(t *testing.T) {
	e := entry{ID: "3358", Name: "Deadly Boss Mods", DownloadCount: 1234567.8}
	f := file{
		ID:          "2901234",
		FileDate:    "2020-03-01T10:20:30.123Z",
		DisplayName: "8.3.17",
		GameVersion: []string{"8.3.0", "8.2.5"},
		DownloadURL: "https://example.invalid/dbm.zip",
		Modules:     []module{{FolderName: "DBM-Core"}, {FolderName: "DBM-GUI"}},
	}

	got := toAddon(e, f)
	assert.Equal(t, model.Addon{
		ID:            "3358",
		Name:          "Deadly Boss Mods",
		FileID:        "2901234",
		FileDate:      "2020-03-01",
		Modules:       []string{"DBM-Core", "DBM-GUI"},
		DownloadURL:   "https://example.invalid/dbm.zip",
		Version:       "8.3.17",
		GameVersion:   "8.3.0",
		DownloadCount: "1,234,567",
	}, got)

	assert.Empty(t, toAddon(e, file{}).GameVersion)
	assert.NotNil(t, toAddon(e, file{}).Modules)
}
