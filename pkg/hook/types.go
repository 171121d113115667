package hook

import "github.com/glorpus-work/wam/pkg/model"

// Type names the point in an operation at which a script runs.
type Type string

const (
	PostInstall Type = "post-install"
	PostUpdate  Type = "post-update"
	PreRemove   Type = "pre-remove"
	PostRemove  Type = "post-remove"
)

// Context is what a script sees through the builtin "context" module.
type Context struct {
	Operation  string
	Root       string
	Flavor     string
	Addon      model.Addon
	OldVersion string // updates only
}

func (t Type) String() string { return string(t) }
