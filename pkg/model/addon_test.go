package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glorpus-work/wam/pkg/errors"
)

func TestAddon_JSONFieldNames(t *testing.T) {
	a := Addon{
		ID:            "3358",
		Name:          "Deadly Boss Mods",
		FileID:        "2901234",
		FileDate:      "2020-03-01",
		Modules:       []string{"DBM-Core", "DBM-GUI"},
		DownloadURL:   "https://example.invalid/dbm.zip",
		Version:       "8.3.17",
		GameVersion:   "8.3.0",
		DownloadCount: "1,234,567",
	}

	raw, err := json.Marshal(a)
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &fields))
	for _, key := range []string{"id", "name", "fileId", "fileDate", "modules", "downloadUrl", "version", "gameVersion", "downloadCount"} {
		assert.Contains(t, fields, key)
	}
	assert.Len(t, fields, 9)
	assert.Equal(t, "2901234", fields["fileId"], "identifiers stay strings")
}

func TestManifest_Lookup(t *testing.T) {
	m := NewManifest()
	assert.Equal(t, -1, m.IndexOf("1"))
	assert.Empty(t, m.IDs())

	m.Addons = append(m.Addons, Addon{ID: "1", Name: "One"}, Addon{ID: "2", Name: "Two"})

	assert.Equal(t, 1, m.IndexOf("2"))
	got, ok := m.Find("1")
	assert.True(t, ok)
	assert.Equal(t, "One", got.Name)
	_, ok = m.Find("3")
	assert.False(t, ok)
	assert.Equal(t, []string{"1", "2"}, m.IDs())
}

func TestNewManifest_EncodesEmptyList(t *testing.T) {
	raw, err := json.Marshal(NewManifest())
	require.NoError(t, err)
	assert.JSONEq(t, `{"addons":[]}`, string(raw))
}

func TestParseFlavor(t *testing.T) {
	tests := []struct {
		in      string
		want    Flavor
		wantErr bool
	}{
		{in: "retail", want: FlavorRetail},
		{in: "Classic", want: FlavorClassic},
		{in: "wow_retail", want: FlavorRetail},
		{in: " wow_classic ", want: FlavorClassic},
		{in: "", wantErr: true},
		{in: "burning_crusade", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFlavor(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, errors.ErrInvalidFlavor)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFlavor_Tag(t *testing.T) {
	assert.Equal(t, "wow_retail", FlavorRetail.Tag())
	assert.Equal(t, "wow_classic", FlavorClassic.Tag())
}
