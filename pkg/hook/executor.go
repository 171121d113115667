// Package hook runs optional user tengo scripts around addon operations.
package hook

import (
	"context"
	"os"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/glorpus-work/wam/internal/logger"
	"github.com/glorpus-work/wam/pkg/errors"
)

// Executor runs the script configured for a hook point. A script fails the
// hook either by a compile/runtime error or by leaving a non-empty global err.
type Executor struct {
	scripts map[Type]string
}

// NewExecutor creates an executor from hook point to script path. Empty paths are ignored.
func NewExecutor(scripts map[Type]string) *Executor {
	e := &Executor{scripts: make(map[Type]string, len(scripts))}
	for t, p := range scripts {
		if p != "" {
			e.scripts[t] = p
		}
	}
	return e
}

// HasScript reports whether a script is configured for t.
func (e *Executor) HasScript(t Type) bool {
	_, ok := e.scripts[t]
	return ok
}

// Run executes the script for t, if any.
func (e *Executor) Run(ctx context.Context, t Type, hc Context) error {
	path, ok := e.scripts[t]
	if !ok {
		return nil
	}

	logger.Debug("Executing hook script", logger.Fields{
		"hook":      string(t),
		"hook_path": path,
		"operation": hc.Operation,
		"addon":     hc.Addon.ID,
	})

	src, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(errors.ErrHookExecution, "%s: failed to read %s: %v", t, path, err)
	}

	moduleMap := stdlib.GetModuleMap(stdlib.AllModuleNames()...)
	moduleMap.AddBuiltinModule("context", contextModule(t, hc))

	script := tengo.NewScript(src)
	script.SetImports(moduleMap)

	compiled, err := script.RunContext(ctx)
	if err != nil {
		return errors.Wrapf(errors.ErrHookExecution, "%s: hook script execution failed for %s: %v", t, path, err)
	}

	if v := compiled.Get("err"); v != nil {
		switch val := v.Value().(type) {
		case string:
			if val != "" {
				return errors.Wrapf(errors.ErrHookScript, "%s: %s", t, val)
			}
		case error:
			return errors.Wrapf(errors.ErrHookScript, "%s: %v", t, val)
		}
	}

	logger.Debug("Hook script executed successfully", logger.Fields{"hook": string(t), "addon": hc.Addon.ID})
	return nil
}

func contextModule(t Type, hc Context) map[string]tengo.Object {
	modules := make([]tengo.Object, 0, len(hc.Addon.Modules))
	for _, m := range hc.Addon.Modules {
		modules = append(modules, &tengo.String{Value: m})
	}
	return map[string]tengo.Object{
		"hook":         &tengo.String{Value: string(t)},
		"operation":    &tengo.String{Value: hc.Operation},
		"root":         &tengo.String{Value: hc.Root},
		"flavor":       &tengo.String{Value: hc.Flavor},
		"addon_id":     &tengo.String{Value: hc.Addon.ID},
		"addon_name":   &tengo.String{Value: hc.Addon.Name},
		"file_id":      &tengo.String{Value: hc.Addon.FileID},
		"version":      &tengo.String{Value: hc.Addon.Version},
		"old_version":  &tengo.String{Value: hc.OldVersion},
		"game_version": &tengo.String{Value: hc.Addon.GameVersion},
		"modules":      &tengo.ImmutableArray{Value: modules},
	}
}
