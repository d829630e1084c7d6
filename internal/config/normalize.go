package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizePcloud(); err != nil {
		return err
	}
	c.normalizeFolders()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = ExpandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ScratchDir) == "" {
		c.Paths.ScratchDir = defaultScratchDir
	}
	if c.Paths.ScratchDir, err = ExpandPath(c.Paths.ScratchDir); err != nil {
		return fmt.Errorf("paths.scratch_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = ExpandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizePcloud() error {
	c.Pcloud.BaseURL = strings.TrimSpace(c.Pcloud.BaseURL)
	if c.Pcloud.BaseURL == "" {
		c.Pcloud.BaseURL = defaultPcloudBaseURL
	}
	if !strings.HasSuffix(c.Pcloud.BaseURL, "/") {
		c.Pcloud.BaseURL += "/"
	}
	if c.Pcloud.Username == "" {
		c.Pcloud.Username = strings.TrimSpace(os.Getenv("ARBOR_PCLOUD_USERNAME"))
	}
	if c.Pcloud.Password == "" {
		c.Pcloud.Password = os.Getenv("ARBOR_PCLOUD_PASSWORD")
	}
	c.Pcloud.PublicFolder = strings.TrimSpace(c.Pcloud.PublicFolder)
	if c.Pcloud.PublicFolder == "" {
		c.Pcloud.PublicFolder = defaultPublicFolder
	}
	c.Pcloud.Timezone = strings.TrimSpace(c.Pcloud.Timezone)
	if c.Pcloud.Timezone == "" {
		c.Pcloud.Timezone = defaultTimezone
	}
	if _, err := time.LoadLocation(c.Pcloud.Timezone); err != nil {
		return fmt.Errorf("pcloud.timezone: %w", err)
	}
	return nil
}

// normalizeFolders strips trailing path separators so folder names match the
// listing entries returned by the storage account.
func (c *Config) normalizeFolders() {
	trim := func(name string) string {
		return strings.TrimRight(strings.TrimSpace(name), "/\\")
	}
	c.Folders.Source = trim(c.Folders.Source)
	c.Folders.Original = trim(c.Folders.Original)
	c.Folders.Medium = trim(c.Folders.Medium)
	c.Folders.Small = trim(c.Folders.Small)
	if c.Folders.Original == "" {
		c.Folders.Original = defaultOriginalFolder
	}
	if c.Folders.Medium == "" {
		c.Folders.Medium = defaultMediumFolder
	}
	if c.Folders.Small == "" {
		c.Folders.Small = defaultSmallFolder
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
