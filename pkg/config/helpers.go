package config

import (
	"fmt"
	"time"

	"github.com/glorpus-work/wam/pkg/errors"
)

// Keys lists every key accepted by SetValue and GetValue, in display order.
var Keys = []string{
	"paths.retail",
	"paths.classic",
	"settings.flavor",
	"settings.catalog_url",
	"settings.game_id",
	"settings.http_timeout",
	"settings.user_agent",
	"settings.download_dir",
	"settings.log_level",
	"settings.color",
	"hooks.post_install",
	"hooks.post_update",
	"hooks.pre_remove",
	"hooks.post_remove",
}

// SetValue sets a configuration value by key and re-validates the settings.
// The config is left unchanged when the new value is invalid.
func (c *Config) SetValue(key, value string) error {
	next := *c
	if key == "settings.http_timeout" {
		timeout, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration value for %s: %s", key, value)
		}
		next.Settings.HTTPTimeout = timeout
	} else {
		field := next.field(key)
		if field == nil {
			return errors.Wrapf(errors.ErrUnknownConfigKey, "%s", key)
		}
		*field = value
	}

	if err := next.Validate(); err != nil {
		return errors.Wrap(errors.ErrConfigValidation, err.Error())
	}
	*c = next
	return nil
}

// GetValue returns the value of a configuration key as a string.
func (c *Config) GetValue(key string) (string, error) {
	if key == "settings.http_timeout" {
		return c.Settings.HTTPTimeout.String(), nil
	}
	field := c.field(key)
	if field == nil {
		return "", errors.Wrapf(errors.ErrUnknownConfigKey, "%s", key)
	}
	return *field, nil
}

// ToMap returns every key with its current value. This is useful for displaying the configuration.
func (c *Config) ToMap() map[string]string {
	result := make(map[string]string, len(Keys))
	for _, key := range Keys {
		value, _ := c.GetValue(key)
		result[key] = value
	}
	return result
}

func (c *Config) field(key string) *string {
	switch key {
	case "paths.retail":
		return &c.Paths.Retail
	case "paths.classic":
		return &c.Paths.Classic
	case "settings.flavor":
		return &c.Settings.Flavor
	case "settings.catalog_url":
		return &c.Settings.CatalogURL
	case "settings.game_id":
		return &c.Settings.GameID
	case "settings.user_agent":
		return &c.Settings.UserAgent
	case "settings.download_dir":
		return &c.Settings.DownloadDir
	case "settings.log_level":
		return &c.Settings.LogLevel
	case "settings.color":
		return &c.Settings.Color
	case "hooks.post_install":
		return &c.Hooks.PostInstall
	case "hooks.post_update":
		return &c.Hooks.PostUpdate
	case "hooks.pre_remove":
		return &c.Hooks.PreRemove
	case "hooks.post_remove":
		return &c.Hooks.PostRemove
	default:
		return nil
	}
}
