package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/glorpus-work/wam/internal/logger"
	"github.com/glorpus-work/wam/pkg/archive"
	"github.com/glorpus-work/wam/pkg/catalog"
	"github.com/glorpus-work/wam/pkg/config"
	"github.com/glorpus-work/wam/pkg/download"
	"github.com/glorpus-work/wam/pkg/engine"
	"github.com/glorpus-work/wam/pkg/hook"
	"github.com/glorpus-work/wam/pkg/manifest"
	"github.com/glorpus-work/wam/pkg/model"
)

// These variables will be set by the main package
var (
	ConfigPath *string
	Verbose    *bool
	NoColor    *bool
	FlavorFlag *string
	RootFlag   *string
)

// target is the addon root and flavor a command operates on.
type target struct {
	Root   string
	Flavor model.Flavor
}

func getConfigPath() string {
	if ConfigPath != nil && *ConfigPath != "" {
		return *ConfigPath
	}
	return config.GetDefaultConfigPath()
}

// loadConfig loads the configuration, applies the global flags and sets up
// logging and colors to match.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(getConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if Verbose != nil && *Verbose {
		cfg.Settings.LogLevel = "debug"
	}
	if NoColor != nil && *NoColor {
		cfg.Settings.Color = config.ColorNever
	}

	logger.InitLogger(cfg.Settings.LogLevel, logger.FormatText)
	switch cfg.Settings.Color {
	case config.ColorNever:
		color.NoColor = true
	case config.ColorAlways:
		color.NoColor = false
	}
	return cfg, nil
}

// resolveTarget picks the flavor from --flavor or the config, and the root
// from --root or the flavor's configured path.
func resolveTarget(cfg *config.Config) (target, error) {
	flavor := cfg.DefaultFlavor()
	if FlavorFlag != nil && *FlavorFlag != "" {
		f, err := parseFlavorFlag()
		if err != nil {
			return target{}, err
		}
		flavor = f
	}

	if RootFlag != nil && *RootFlag != "" {
		cfg.Paths.Retail, cfg.Paths.Classic = *RootFlag, *RootFlag
	}
	root, err := cfg.Root(flavor)
	if err != nil {
		return target{}, err
	}
	return target{Root: root, Flavor: flavor}, nil
}

func parseFlavorFlag() (model.Flavor, error) {
	f, err := model.ParseFlavor(*FlavorFlag)
	if err != nil {
		return "", fmt.Errorf("invalid --flavor: %w", err)
	}
	return f, nil
}

// loadEngine wires the engine from the configuration. Progress events go to out.
func loadEngine(cfg *config.Config, out io.Writer) *engine.Engine {
	cat := catalog.NewClient(catalog.Options{
		BaseURL:   cfg.Settings.CatalogURL,
		GameID:    cfg.Settings.GameID,
		Timeout:   cfg.Settings.HTTPTimeout,
		UserAgent: cfg.Settings.UserAgent,
	})
	dl := download.NewManager(cfg.Settings.HTTPTimeout, cfg.Settings.UserAgent)
	hooks := engine.Hooks{OnEvent: func(e engine.Event) { printEvent(out, e) }}

	return engine.New(
		cat,
		dl,
		archive.NewManager(),
		manifest.NewStore(),
		hook.NewExecutor(cfg.HookScripts()),
		cfg.Settings.DownloadDir,
		hooks,
	)
}

// setup is the common prologue of commands that touch an addon root.
func setup(out io.Writer) (*engine.Engine, target, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, target{}, err
	}
	tgt, err := resolveTarget(cfg)
	if err != nil {
		return nil, target{}, err
	}
	logger.Debug("Using addon root", logger.Fields{"root": tgt.Root, "flavor": tgt.Flavor.String()})
	return loadEngine(cfg, out), tgt, nil
}
