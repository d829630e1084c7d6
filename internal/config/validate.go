package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePcloud(); err != nil {
		return err
	}
	if err := c.validateFolders(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePcloud() error {
	if c.Pcloud.Username == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/arbor/config.toml"
		}
		return fmt.Errorf("pcloud.username is required. Set ARBOR_PCLOUD_USERNAME or edit %s (create with 'arbor config init')", defaultPath)
	}
	if c.Pcloud.Password == "" {
		return errors.New("pcloud.password is required. Set ARBOR_PCLOUD_PASSWORD or edit the config file")
	}
	return nil
}

func (c *Config) validateFolders() error {
	names := map[string]string{
		"folders.original": c.Folders.Original,
		"folders.medium":   c.Folders.Medium,
		"folders.small":    c.Folders.Small,
	}
	seen := make(map[string]string, len(names))
	for key, name := range names {
		if name == "" {
			return fmt.Errorf("%s must be set", key)
		}
		if prev, ok := seen[name]; ok {
			return fmt.Errorf("%s and %s both resolve to folder %q", prev, key, name)
		}
		seen[name] = key
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.RequestTimeout < 0 {
		return errors.New("notifications.request_timeout must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
