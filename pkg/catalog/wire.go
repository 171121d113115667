package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Release types reported in a file's releaseType.
const (
	ReleaseStable = 1
	ReleaseBeta   = 2
	ReleaseAlpha  = 3
)

// flexString accepts a JSON string or number and keeps its literal text.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("identifier is neither string nor number: %s", data)
	}
	*f = flexString(n.String())
	return nil
}

type entry struct {
	ID            flexString `json:"id"`
	Name          string     `json:"name"`
	DownloadCount float64    `json:"downloadCount"`
	LatestFiles   []file     `json:"latestFiles"`
}

type file struct {
	ID                flexString `json:"id"`
	FileDate          string     `json:"fileDate"`
	DisplayName       string     `json:"displayName"`
	GameVersion       []string   `json:"gameVersion"`
	DownloadURL       string     `json:"downloadUrl"`
	ReleaseType       int        `json:"releaseType"`
	GameVersionFlavor string     `json:"gameVersionFlavor"`
	Modules           []module   `json:"modules"`
}

type module struct {
	FolderName string `json:"foldername"`
}
