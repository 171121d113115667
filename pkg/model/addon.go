// Package model provides the addon records shared by the manifest store, the catalog client and the engine.
package model

// Addon is one installed or catalog-listed addon version. All scalars are strings
// so identifiers keep their exact catalog form.
type Addon struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	FileID        string   `json:"fileId"`
	FileDate      string   `json:"fileDate"`
	Modules       []string `json:"modules"`
	DownloadURL   string   `json:"downloadUrl"`
	Version       string   `json:"version"`
	GameVersion   string   `json:"gameVersion"`
	DownloadCount string   `json:"downloadCount"`
}

// Manifest is the persisted record of installed addons for one root.
type Manifest struct {
	Addons []Addon `json:"addons"`
}

// NewManifest returns an empty manifest.
func NewManifest() *Manifest {
	return &Manifest{Addons: []Addon{}}
}

// IndexOf returns the position of the addon with id, or -1.
func (m *Manifest) IndexOf(id string) int {
	for i := range m.Addons {
		if m.Addons[i].ID == id {
			return i
		}
	}
	return -1
}

// Find returns the addon with id.
func (m *Manifest) Find(id string) (Addon, bool) {
	if i := m.IndexOf(id); i >= 0 {
		return m.Addons[i], true
	}
	return Addon{}, false
}

// IDs returns the recorded ids in manifest order.
func (m *Manifest) IDs() []string {
	ids := make([]string, 0, len(m.Addons))
	for _, a := range m.Addons {
		ids = append(ids, a.ID)
	}
	return ids
}

// SearchResult is a catalog hit with its display cells: name, game version, file date, download count.
type SearchResult struct {
	Addon Addon
	Cells []string
}

// Status is the reconciliation label of an installed addon.
type Status string

const (
	StatusUpToDate Status = "up-to-date"
	StatusOutdated Status = "outdated"
)
