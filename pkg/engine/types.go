//go:generate mockgen -destination=./mocks/engine.go . Catalog,Downloader,Extractor,Store,HookRunner

package engine

import (
	"context"
	"fmt"

	"github.com/glorpus-work/wam/pkg/hook"
	"github.com/glorpus-work/wam/pkg/model"
)

// Catalog is the subset of the catalog client used by the engine.
type Catalog interface {
	Search(ctx context.Context, query string, flavor model.Flavor) ([]model.SearchResult, error)
	CheckForUpdates(ctx context.Context, ids []string, flavor model.Flavor) (map[string]model.Addon, error)
}

// Downloader fetches an archive into dir and returns the local file path.
type Downloader interface {
	Fetch(ctx context.Context, rawURL, dir string) (string, error)
}

// Extractor unpacks an archive under destDir and returns its top-level names.
type Extractor interface {
	ExtractAll(ctx context.Context, archivePath, destDir string) ([]string, error)
}

// Store is the manifest store for a root.
type Store interface {
	Initialize(root string) error
	Load(root string) (*model.Manifest, error)
	Append(root string, addon model.Addon) error
	Remove(root string, addon model.Addon) error
	Find(root, id string) (model.Addon, bool, error)
}

// HookRunner runs user scripts around operations.
type HookRunner interface {
	Run(ctx context.Context, t hook.Type, hc hook.Context) error
}

// Operation names.
const (
	OpInstall = "install"
	OpUpdate  = "update"
	OpRemove  = "remove"
	OpStatus  = "status"
)

// Step names reported by StepError.
const (
	StepLookup   = "lookup"
	StepDownload = "download"
	StepExtract  = "extract"
	StepRemove   = "remove"
	StepRecord   = "record"
)

// Event represents a simple progress notification.
type Event struct {
	Phase string // downloading|extracting|removing|recording|done|error
	ID    string // addon id
	Msg   string
}

// Hooks carries callbacks for progress events.
type Hooks struct {
	OnEvent func(Event)
}

// Result describes one finished operation.
type Result struct {
	Op      string
	Addon   model.Addon
	Message string
}

// StepError names the step at which an operation stopped.
type StepError struct {
	Op    string
	Step  string
	Addon string
	// Detail describes the state left behind, if it is not obvious from the step.
	Detail string
	Err    error
}

func (e *StepError) Error() string {
	msg := fmt.Sprintf("%s %s failed at %s step: %v", e.Op, e.Addon, e.Step, e.Err)
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

func (e *StepError) Unwrap() error { return e.Err }
