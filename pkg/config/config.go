// Package config loads, validates and saves the wam configuration file.
// Files ending in .toml are read with go-toml so an existing Config.toml with a
// [paths] table keeps working; everything else is YAML.
package config

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/glorpus-work/wam/pkg/catalog"
	"github.com/glorpus-work/wam/pkg/errors"
	"github.com/glorpus-work/wam/pkg/fsutil"
	"github.com/glorpus-work/wam/pkg/hook"
	"github.com/glorpus-work/wam/pkg/model"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	// Addon directories per flavor.
	Paths Paths `yaml:"paths"`

	// General settings
	Settings Settings `yaml:"settings"`

	// Optional tengo scripts run around install, update and remove.
	Hooks Hooks `yaml:"hooks,omitempty"`
}

// Paths holds the AddOns directory of each game flavor.
type Paths struct {
	Retail  string `yaml:"retail,omitempty"`
	Classic string `yaml:"classic,omitempty"`
}

// Settings represents general application settings.
type Settings struct {
	Flavor string `yaml:"flavor"`

	// Catalog settings
	CatalogURL  string        `yaml:"catalog_url"`
	GameID      string        `yaml:"game_id"`
	HTTPTimeout time.Duration `yaml:"http_timeout"`
	UserAgent   string        `yaml:"user_agent"`

	// Where archives are staged before extraction.
	DownloadDir string `yaml:"download_dir,omitempty"`

	// Output settings
	LogLevel string `yaml:"log_level"` // debug, info, warn, error
	Color    string `yaml:"color"`     // auto, always, never
}

// Hooks maps hook points to script paths.
type Hooks struct {
	PostInstall string `yaml:"post_install,omitempty"`
	PostUpdate  string `yaml:"post_update,omitempty"`
	PreRemove   string `yaml:"pre_remove,omitempty"`
	PostRemove  string `yaml:"post_remove,omitempty"`
}

// Default configuration values.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// YAMLIndent is the number of spaces to use for YAML indentation.
	YAMLIndent = 2

	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"

	configDirName  = "wam"
	configFileName = "config.yaml"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Settings: Settings{
			Flavor:      string(model.FlavorRetail),
			CatalogURL:  catalog.DefaultBaseURL,
			GameID:      catalog.DefaultGameID,
			HTTPTimeout: DefaultHTTPTimeout,
			UserAgent:   catalog.DefaultUserAgent,
			DownloadDir: fsutil.GetDownloadDir(),
			LogLevel:    "info",
			Color:       ColorAuto,
		},
	}
}

// LoadConfig loads configuration from a file. A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.ErrEmptyConfigPath
	}

	absPath, err := absConfigPath(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, errors.Wrapf(err, "failed to open config file: %s", path)
	}
	defer func() { _ = file.Close() }()

	if isTOML(absPath) {
		return LoadTOMLConfigFromReader(file)
	}
	return LoadConfigFromReader(file)
}

// LoadConfigFromReader loads a YAML configuration from an io.Reader.
func LoadConfigFromReader(reader io.Reader) (*Config, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config data")
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.Wrap(errors.ErrConfigParse, err.Error())
	}
	return finish(&config)
}

// LoadTOMLConfigFromReader loads a TOML configuration from an io.Reader.
func LoadTOMLConfigFromReader(reader io.Reader) (*Config, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config data")
	}

	var doc tomlConfig
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrConfigParse, err.Error())
	}
	config, err := doc.config()
	if err != nil {
		return nil, errors.Wrap(errors.ErrConfigParse, err.Error())
	}
	return finish(config)
}

func finish(config *Config) (*Config, error) {
	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrConfigValidation, err.Error())
	}
	return config, nil
}

// SaveConfig writes the configuration atomically, as TOML when path ends in .toml.
func (c *Config) SaveConfig(path string) error {
	if path == "" {
		return errors.ErrEmptyConfigPath
	}

	absPath, err := absConfigPath(path)
	if err != nil {
		return err
	}

	if err := EnsureConfigDir(absPath); err != nil {
		return err
	}

	var data []byte
	if isTOML(absPath) {
		data, err = c.ToTOML()
	} else {
		data, err = c.ToYAML()
	}
	if err != nil {
		return err
	}

	if err := fsutil.WriteFileAtomic(absPath, data, fsutil.FileModeDefault); err != nil {
		return errors.Wrap(errors.ErrConfigFileCreate, err.Error())
	}
	return nil
}

// ToYAML converts the config to YAML bytes.
func (c *Config) ToYAML() ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(YAMLIndent)
	if err := encoder.Encode(c); err != nil {
		return nil, errors.Wrap(errors.ErrConfigEncode, err.Error())
	}
	if err := encoder.Close(); err != nil {
		return nil, errors.Wrap(errors.ErrConfigEncode, err.Error())
	}
	return buf.Bytes(), nil
}

// ToTOML converts the config to TOML bytes.
func (c *Config) ToTOML() ([]byte, error) {
	data, err := toml.Marshal(newTOMLConfig(c))
	if err != nil {
		return nil, errors.Wrap(errors.ErrConfigEncode, err.Error())
	}
	return data, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c == nil {
		return errors.ErrConfigValidation
	}
	return validateSettings(c.Settings)
}

func validateSettings(s Settings) error {
	if _, err := model.ParseFlavor(s.Flavor); err != nil {
		return err
	}
	if s.HTTPTimeout < 0 {
		return fmt.Errorf("http_timeout must not be negative: %s", s.HTTPTimeout)
	}
	u, err := url.Parse(s.CatalogURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("catalog_url must be an absolute http(s) URL: %q", s.CatalogURL)
	}
	if _, err := strconv.ParseUint(s.GameID, 10, 64); err != nil {
		return fmt.Errorf("game_id must be numeric: %q", s.GameID)
	}
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(s.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", s.LogLevel)
	}
	switch s.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("invalid color mode: %s (must be one of: auto, always, never)", s.Color)
	}
	return nil
}

// applyDefaults fills in missing values with defaults.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.Settings.Flavor == "" {
		c.Settings.Flavor = defaults.Settings.Flavor
	}
	if c.Settings.CatalogURL == "" {
		c.Settings.CatalogURL = defaults.Settings.CatalogURL
	}
	if c.Settings.GameID == "" {
		c.Settings.GameID = defaults.Settings.GameID
	}
	if c.Settings.HTTPTimeout == 0 {
		c.Settings.HTTPTimeout = defaults.Settings.HTTPTimeout
	}
	if c.Settings.UserAgent == "" {
		c.Settings.UserAgent = defaults.Settings.UserAgent
	}
	if c.Settings.DownloadDir == "" {
		c.Settings.DownloadDir = defaults.Settings.DownloadDir
	}
	if c.Settings.LogLevel == "" {
		c.Settings.LogLevel = defaults.Settings.LogLevel
	}
	if c.Settings.Color == "" {
		c.Settings.Color = defaults.Settings.Color
	}
}

// GetDefaultConfigPath returns $XDG_CONFIG_HOME/wam/config.yaml.
func GetDefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, configDirName, configFileName)
}

// EnsureConfigDir creates the directory holding the config file.
func EnsureConfigDir(path string) error {
	if err := fsutil.EnsureFileDir(path); err != nil {
		return errors.Wrap(errors.ErrConfigDirectory, err.Error())
	}
	return nil
}

// DefaultFlavor returns the configured flavor.
func (c *Config) DefaultFlavor() model.Flavor {
	f, err := model.ParseFlavor(c.Settings.Flavor)
	if err != nil {
		return model.FlavorRetail
	}
	return f
}

// Root returns the expanded addon directory for a flavor.
func (c *Config) Root(flavor model.Flavor) (string, error) {
	var dir string
	switch flavor {
	case model.FlavorRetail:
		dir = c.Paths.Retail
	case model.FlavorClassic:
		dir = c.Paths.Classic
	default:
		return "", errors.Wrapf(errors.ErrInvalidFlavor, "%q", flavor)
	}
	if dir == "" {
		return "", errors.Wrapf(errors.ErrRootNotConfigured, "%s (set paths.%s)", flavor, flavor)
	}
	return fsutil.ExpandPath(dir)
}

// HookScripts returns the configured scripts keyed by hook point, with ~ expanded.
func (c *Config) HookScripts() map[hook.Type]string {
	scripts := map[hook.Type]string{}
	for t, p := range map[hook.Type]string{
		hook.PostInstall: c.Hooks.PostInstall,
		hook.PostUpdate:  c.Hooks.PostUpdate,
		hook.PreRemove:   c.Hooks.PreRemove,
		hook.PostRemove:  c.Hooks.PostRemove,
	} {
		if p == "" {
			continue
		}
		if expanded, err := fsutil.ExpandPath(p); err == nil {
			scripts[t] = expanded
		} else {
			scripts[t] = p
		}
	}
	return scripts
}

func absConfigPath(path string) (string, error) {
	expanded, err := fsutil.ExpandPath(path)
	if err != nil {
		return "", errors.Wrap(errors.ErrInvalidConfigPath, err.Error())
	}
	absPath, err := filepath.Abs(expanded)
	if err != nil {
		return "", errors.Wrap(errors.ErrInvalidConfigPath, err.Error())
	}
	return absPath, nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}
