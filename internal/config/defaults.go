package config

const (
	defaultDataDir              = "~/.local/share/arbor"
	defaultScratchDir           = "~/.local/share/arbor/scratch"
	defaultLogDir               = "~/.local/share/arbor/logs"
	defaultPcloudBaseURL        = "https://eapi.pcloud.com/"
	defaultPublicFolder         = "Public Folder"
	defaultTimezone             = "Europe/Brussels"
	defaultOriginalFolder       = "original"
	defaultMediumFolder         = "medium"
	defaultSmallFolder          = "small"
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
	defaultNotifyRequestTimeout = 10
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:    defaultDataDir,
			ScratchDir: defaultScratchDir,
			LogDir:     defaultLogDir,
		},
		Pcloud: Pcloud{
			BaseURL:      defaultPcloudBaseURL,
			PublicFolder: defaultPublicFolder,
			Timezone:     defaultTimezone,
		},
		Folders: Folders{
			Original: defaultOriginalFolder,
			Medium:   defaultMediumFolder,
			Small:    defaultSmallFolder,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
			Ingest:         true,
			Errors:         true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
