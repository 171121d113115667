// Package engine runs install, update and remove for one addon root, keeping
// the manifest and the module directories on disk in step.
package engine

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"slices"

	"github.com/glorpus-work/wam/internal/logger"
	"github.com/glorpus-work/wam/pkg/errors"
	"github.com/glorpus-work/wam/pkg/hook"
	"github.com/glorpus-work/wam/pkg/model"
	"github.com/glorpus-work/wam/pkg/reconcile"
)

// Engine ties the catalog, download, extraction and manifest store together.
// It holds no state of its own; every operation names its root.
type Engine struct {
	Catalog     Catalog
	DL          Downloader
	Extractor   Extractor
	Store       Store
	Scripts     HookRunner // optional
	DownloadDir string
	Hooks       Hooks // Hooks for progress and event notifications
}

// New constructs an Engine from existing managers. Scripts may be nil.
func New(cat Catalog, dl Downloader, ex Extractor, store Store, scripts HookRunner, downloadDir string, hooks Hooks) *Engine {
	return &Engine{
		Catalog:     cat,
		DL:          dl,
		Extractor:   ex,
		Store:       store,
		Scripts:     scripts,
		DownloadDir: downloadDir,
		Hooks:       hooks,
	}
}

func emit(h Hooks, e Event) {
	if h.OnEvent != nil {
		h.OnEvent(e)
	}
}

// Initialize creates an empty manifest under root if there is none.
func (e *Engine) Initialize(root string) error {
	return e.Store.Initialize(root)
}

// Search queries the catalog.
func (e *Engine) Search(ctx context.Context, term string, flavor model.Flavor) ([]model.SearchResult, error) {
	return e.Catalog.Search(ctx, term, flavor)
}

// CheckForUpdates looks up the latest stable file for each id.
func (e *Engine) CheckForUpdates(ctx context.Context, ids []string, flavor model.Flavor) (map[string]model.Addon, error) {
	return e.Catalog.CheckForUpdates(ctx, ids, flavor)
}

// Resolve looks up a single id and returns the installable version.
func (e *Engine) Resolve(ctx context.Context, id string, flavor model.Flavor) (model.Addon, error) {
	found, err := e.Catalog.CheckForUpdates(ctx, []string{id}, flavor)
	if err != nil {
		return model.Addon{}, err
	}
	addon, ok := found[id]
	if !ok {
		return model.Addon{}, errors.Wrapf(errors.ErrAddonNotFound, "no stable %s file for addon %s", flavor, id)
	}
	return addon, nil
}

// Status reconciles the manifest under root with the catalog. An unreadable
// manifest is logged and treated as empty; the catalog is not contacted when
// nothing is installed.
func (e *Engine) Status(ctx context.Context, root string, flavor model.Flavor) (reconcile.Report, error) {
	m, err := e.Store.Load(root)
	if err != nil {
		logger.Warn("Could not load manifest, treating as empty", logger.Fields{"root": root, "error": err.Error()})
		m = model.NewManifest()
	}
	if len(m.Addons) == 0 {
		return reconcile.Reconcile(nil, nil), nil
	}

	updates, err := e.Catalog.CheckForUpdates(ctx, m.IDs(), flavor)
	if err != nil {
		return reconcile.Report{}, &StepError{Op: OpStatus, Step: StepLookup, Err: err}
	}

	report := reconcile.Reconcile(m.Addons, updates)
	for _, row := range report.Statuses {
		if row.Divergent {
			logger.Warn("Version label disagrees with file id", logger.Fields{
				"id":        row.Addon.ID,
				"installed": row.Addon.Version,
				"displayed": row.DisplayVersion,
				"status":    string(row.Status),
			})
		}
	}
	return report, nil
}

// Install downloads addon, unpacks it into root and records it. An id that is
// already recorded is refused with ErrAlreadyInstalled.
func (e *Engine) Install(ctx context.Context, root string, flavor model.Flavor, addon model.Addon) (Result, error) {
	_, found, err := e.Store.Find(root, addon.ID)
	if err != nil {
		return Result{}, &StepError{Op: OpInstall, Step: StepLookup, Addon: addon.ID, Err: err}
	}
	if found {
		return Result{}, &StepError{
			Op:    OpInstall,
			Step:  StepLookup,
			Addon: addon.ID,
			Err:   errors.Wrapf(errors.ErrAlreadyInstalled, "%s (use update instead)", addon.Name),
		}
	}

	emit(e.Hooks, Event{Phase: "downloading", ID: addon.ID, Msg: addon.Name + " " + addon.Version})
	archivePath, err := e.DL.Fetch(ctx, addon.DownloadURL, e.DownloadDir)
	if err != nil {
		return Result{}, &StepError{Op: OpInstall, Step: StepDownload, Addon: addon.ID, Err: err}
	}
	defer discard(archivePath)

	emit(e.Hooks, Event{Phase: "extracting", ID: addon.ID, Msg: root})
	extracted, err := e.Extractor.ExtractAll(ctx, archivePath, root)
	if err != nil {
		return Result{}, &StepError{Op: OpInstall, Step: StepExtract, Addon: addon.ID, Err: err}
	}
	addon = withModules(addon, extracted)

	emit(e.Hooks, Event{Phase: "recording", ID: addon.ID})
	if err := e.Store.Append(root, addon); err != nil {
		return Result{}, &StepError{
			Op:     OpInstall,
			Step:   StepRecord,
			Addon:  addon.ID,
			Detail: "files are on disk but the addon is not recorded in the manifest",
			Err:    err,
		}
	}

	e.runScript(ctx, hook.PostInstall, hook.Context{Operation: OpInstall, Root: root, Flavor: string(flavor), Addon: addon})
	emit(e.Hooks, Event{Phase: "done", ID: addon.ID})
	logger.Success("Addon installed", logger.Fields{"id": addon.ID, "name": addon.Name, "version": addon.Version})

	return Result{Op: OpInstall, Addon: addon, Message: fmt.Sprintf("installed %s %s", addon.Name, addon.Version)}, nil
}

// Update replaces old with next. The archive is downloaded before anything is
// removed, so a network failure leaves the installed version alone.
func (e *Engine) Update(ctx context.Context, root string, flavor model.Flavor, old, next model.Addon) (Result, error) {
	emit(e.Hooks, Event{Phase: "downloading", ID: next.ID, Msg: next.Name + " " + next.Version})
	archivePath, err := e.DL.Fetch(ctx, next.DownloadURL, e.DownloadDir)
	if err != nil {
		return Result{}, &StepError{Op: OpUpdate, Step: StepDownload, Addon: old.ID, Err: err}
	}
	defer discard(archivePath)

	emit(e.Hooks, Event{Phase: "removing", ID: old.ID, Msg: old.Name + " " + old.Version})
	if err := e.Store.Remove(root, old); err != nil {
		return Result{}, &StepError{Op: OpUpdate, Step: StepRemove, Addon: old.ID, Err: err}
	}

	emit(e.Hooks, Event{Phase: "extracting", ID: next.ID, Msg: root})
	extracted, err := e.Extractor.ExtractAll(ctx, archivePath, root)
	if err != nil {
		return Result{}, &StepError{
			Op:     OpUpdate,
			Step:   StepExtract,
			Addon:  old.ID,
			Detail: "the previous version was removed; the addon is no longer installed",
			Err:    err,
		}
	}
	next = withModules(next, extracted)

	emit(e.Hooks, Event{Phase: "recording", ID: next.ID})
	if err := e.Store.Append(root, next); err != nil {
		return Result{}, &StepError{
			Op:     OpUpdate,
			Step:   StepRecord,
			Addon:  old.ID,
			Detail: "files are on disk but the addon is not recorded in the manifest",
			Err:    err,
		}
	}

	e.runScript(ctx, hook.PostUpdate, hook.Context{
		Operation:  OpUpdate,
		Root:       root,
		Flavor:     string(flavor),
		Addon:      next,
		OldVersion: old.Version,
	})
	emit(e.Hooks, Event{Phase: "done", ID: next.ID})
	logger.Success("Addon updated", logger.Fields{"id": next.ID, "from": old.Version, "to": next.Version})

	return Result{
		Op:      OpUpdate,
		Addon:   next,
		Message: fmt.Sprintf("updated %s %s -> %s", next.Name, old.Version, next.Version),
	}, nil
}

// UpdateAll updates every candidate in order. A failure does not stop the
// remaining updates; all failures are joined in the returned error.
func (e *Engine) UpdateAll(ctx context.Context, root string, flavor model.Flavor, candidates []reconcile.Candidate) ([]Result, error) {
	results := make([]Result, 0, len(candidates))
	var failed []error
	for _, c := range candidates {
		res, err := e.Update(ctx, root, flavor, c.Installed, c.Update)
		if err != nil {
			emit(e.Hooks, Event{Phase: "error", ID: c.Installed.ID, Msg: err.Error()})
			logger.Error("Update failed", logger.Fields{"id": c.Installed.ID, "error": err.Error()})
			failed = append(failed, err)
			res = Result{Op: OpUpdate, Addon: c.Installed, Message: "failed: " + err.Error()}
		}
		results = append(results, res)
	}
	return results, stderrors.Join(failed...)
}

// Remove deletes addon's recorded module directories and its manifest entry.
func (e *Engine) Remove(ctx context.Context, root string, flavor model.Flavor, addon model.Addon) (Result, error) {
	hc := hook.Context{Operation: OpRemove, Root: root, Flavor: string(flavor), Addon: addon}
	e.runScript(ctx, hook.PreRemove, hc)

	emit(e.Hooks, Event{Phase: "removing", ID: addon.ID, Msg: addon.Name})
	if err := e.Store.Remove(root, addon); err != nil {
		return Result{}, &StepError{Op: OpRemove, Step: StepRemove, Addon: addon.ID, Err: err}
	}

	e.runScript(ctx, hook.PostRemove, hc)
	emit(e.Hooks, Event{Phase: "done", ID: addon.ID})
	logger.Success("Addon removed", logger.Fields{"id": addon.ID, "name": addon.Name})

	return Result{Op: OpRemove, Addon: addon, Message: "removed " + addon.Name}, nil
}

// runScript never fails the operation; script errors are warnings.
func (e *Engine) runScript(ctx context.Context, t hook.Type, hc hook.Context) {
	if e.Scripts == nil {
		return
	}
	if err := e.Scripts.Run(ctx, t, hc); err != nil {
		logger.Warn("Hook script failed", logger.Fields{"hook": t.String(), "id": hc.Addon.ID, "error": err.Error()})
	}
}

// withModules fills in the module list from the archive when the catalog gave none.
func withModules(addon model.Addon, extracted []string) model.Addon {
	if len(addon.Modules) > 0 {
		for _, name := range extracted {
			if !slices.Contains(addon.Modules, name) {
				logger.Debug("Archive contains a directory the catalog does not list", logger.Fields{"id": addon.ID, "entry": name})
			}
		}
		return addon
	}
	addon.Modules = slices.Clone(extracted)
	if addon.Modules == nil {
		addon.Modules = []string{}
	}
	return addon
}

func discard(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Debug("Failed to remove downloaded archive", logger.Fields{"path": path, "error": err.Error()})
	}
}
