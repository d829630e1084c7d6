package testsupport

import (
	"path/filepath"
	"testing"

	"arbor/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.ScratchDir = filepath.Join(base, "scratch")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Pcloud.Username = "test@example.com"
	cfg.Pcloud.Password = "secret"

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithNtfyTopic sets the notification topic on the test config.
func WithNtfyTopic(topic string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Notifications.NtfyTopic = topic
	}
}

// WithSourceFolder sets the remote source folder on the test config.
func WithSourceFolder(name string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Folders.Source = name
	}
}

// WithTimezone overrides the capture timestamp timezone on the test config.
func WithTimezone(name string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Pcloud.Timezone = name
	}
}
