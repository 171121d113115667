package config

import (
	"fmt"
	"time"
)

// tomlConfig mirrors Config for go-toml, which has no duration support.
type tomlConfig struct {
	Paths    tomlPaths    `toml:"paths"`
	Settings tomlSettings `toml:"settings"`
	Hooks    tomlHooks    `toml:"hooks"`
}

type tomlPaths struct {
	Retail  string `toml:"retail,omitempty"`
	Classic string `toml:"classic,omitempty"`
}

type tomlSettings struct {
	Flavor      string `toml:"flavor,omitempty"`
	CatalogURL  string `toml:"catalog_url,omitempty"`
	GameID      string `toml:"game_id,omitempty"`
	HTTPTimeout string `toml:"http_timeout,omitempty"`
	UserAgent   string `toml:"user_agent,omitempty"`
	DownloadDir string `toml:"download_dir,omitempty"`
	LogLevel    string `toml:"log_level,omitempty"`
	Color       string `toml:"color,omitempty"`
}

type tomlHooks struct {
	PostInstall string `toml:"post_install,omitempty"`
	PostUpdate  string `toml:"post_update,omitempty"`
	PreRemove   string `toml:"pre_remove,omitempty"`
	PostRemove  string `toml:"post_remove,omitempty"`
}

func newTOMLConfig(c *Config) tomlConfig {
	doc := tomlConfig{
		Paths: tomlPaths(c.Paths),
		Settings: tomlSettings{
			Flavor:      c.Settings.Flavor,
			CatalogURL:  c.Settings.CatalogURL,
			GameID:      c.Settings.GameID,
			UserAgent:   c.Settings.UserAgent,
			DownloadDir: c.Settings.DownloadDir,
			LogLevel:    c.Settings.LogLevel,
			Color:       c.Settings.Color,
		},
		Hooks: tomlHooks(c.Hooks),
	}
	if c.Settings.HTTPTimeout != 0 {
		doc.Settings.HTTPTimeout = c.Settings.HTTPTimeout.String()
	}
	return doc
}

func (d tomlConfig) config() (*Config, error) {
	c := &Config{
		Paths: Paths(d.Paths),
		Settings: Settings{
			Flavor:      d.Settings.Flavor,
			CatalogURL:  d.Settings.CatalogURL,
			GameID:      d.Settings.GameID,
			UserAgent:   d.Settings.UserAgent,
			DownloadDir: d.Settings.DownloadDir,
			LogLevel:    d.Settings.LogLevel,
			Color:       d.Settings.Color,
		},
		Hooks: Hooks(d.Hooks),
	}
	if d.Settings.HTTPTimeout != "" {
		timeout, err := time.ParseDuration(d.Settings.HTTPTimeout)
		if err != nil {
			return nil, fmt.Errorf("http_timeout: %w", err)
		}
		c.Settings.HTTPTimeout = timeout
	}
	return c, nil
}
