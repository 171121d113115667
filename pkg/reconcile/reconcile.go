// Package reconcile compares installed addons with catalog lookups.
package reconcile

import (
	"github.com/glorpus-work/wam/pkg/catalog"
	"github.com/glorpus-work/wam/pkg/model"
)

// Row is the status of one installed addon.
type Row struct {
	Addon          model.Addon
	Status         model.Status
	DisplayVersion string
	DisplayURL     string
	// Divergent is set when the version labels disagree with the file id
	// comparison, e.g. a newer file that kept the old display name.
	Divergent bool
}

// Candidate pairs an installed addon with the newer catalog version replacing it.
type Candidate struct {
	Installed model.Addon
	Update    model.Addon
}

// Report is the outcome of Reconcile. Statuses follow manifest order.
type Report struct {
	Statuses   []Row
	Candidates []Candidate
}

// Outdated counts rows with StatusOutdated.
func (r Report) Outdated() int {
	n := 0
	for _, row := range r.Statuses {
		if row.Status == model.StatusOutdated {
			n++
		}
	}
	return n
}

// Reconcile derives per-addon status from the installed list and an update
// mapping keyed by id. The file id comparison decides the status; an addon
// missing from updates counts as up to date.
func Reconcile(installed []model.Addon, updates map[string]model.Addon) Report {
	report := Report{
		Statuses:   make([]Row, 0, len(installed)),
		Candidates: make([]Candidate, 0),
	}

	for _, p := range installed {
		row := Row{
			Addon:          p,
			Status:         model.StatusUpToDate,
			DisplayVersion: p.Version,
			DisplayURL:     p.DownloadURL,
		}

		update, ok := updates[p.ID]
		if ok && catalog.CompareFileIDs(update.FileID, p.FileID) > 0 {
			row.Status = model.StatusOutdated
			row.DisplayVersion = update.Version
			row.DisplayURL = update.DownloadURL
			report.Candidates = append(report.Candidates, Candidate{Installed: p, Update: update})
		}

		labelSaysOutdated := row.DisplayVersion != p.Version
		row.Divergent = labelSaysOutdated != (row.Status == model.StatusOutdated)

		report.Statuses = append(report.Statuses, row)
	}
	return report
}
