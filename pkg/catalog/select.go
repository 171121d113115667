package catalog

import (
	"strings"

	"github.com/hashicorp/go-version"

	"github.com/glorpus-work/wam/pkg/model"
)

// CompareFileIDs orders file identifiers. Identifiers that both parse as
// versions (plain integers do) compare numerically; anything else, and numeric
// ties such as "010" and "10", falls back to string comparison.
func CompareFileIDs(a, b string) int {
	va, errA := version.NewVersion(a)
	vb, errB := version.NewVersion(b)
	if errA == nil && errB == nil {
		if c := va.Compare(vb); c != 0 {
			return c
		}
	}
	return strings.Compare(a, b)
}

// latestFile picks the stable file for flavor with the greatest identifier.
func latestFile(files []file, flavor model.Flavor) (file, bool) {
	var (
		best  file
		found bool
	)
	tag := flavor.Tag()
	for _, f := range files {
		if f.ReleaseType != ReleaseStable || f.GameVersionFlavor != tag {
			continue
		}
		if !found || CompareFileIDs(string(f.ID), string(best.ID)) > 0 {
			best = f
			found = true
		}
	}
	return best, found
}

// toAddon maps a catalog entry and its selected file onto an Addon.
func toAddon(e entry, f file) model.Addon {
	modules := make([]string, 0, len(f.Modules))
	for _, m := range f.Modules {
		modules = append(modules, m.FolderName)
	}
	var gameVersion string
	if len(f.GameVersion) > 0 {
		gameVersion = f.GameVersion[0]
	}
	return model.Addon{
		ID:            string(e.ID),
		Name:          e.Name,
		FileID:        string(f.ID),
		FileDate:      FormatFileDate(f.FileDate),
		Modules:       modules,
		DownloadURL:   f.DownloadURL,
		Version:       f.DisplayName,
		GameVersion:   gameVersion,
		DownloadCount: FormatDownloadCount(e.DownloadCount),
	}
}

// resolve applies the selection rule to every entry, skipping entries without an applicable file.
func resolve(entries []entry, flavor model.Flavor) []model.Addon {
	out := make([]model.Addon, 0, len(entries))
	for _, e := range entries {
		f, ok := latestFile(e.LatestFiles, flavor)
		if !ok {
			continue
		}
		out = append(out, toAddon(e, f))
	}
	return out
}
