package config

const (
	defaultOutputDir            = "~/.local/share/sleuth/reports"
	defaultLogDir               = "~/.local/share/sleuth/logs"
	defaultDataDir              = "~/.local/share/sleuth"
	defaultSearchInput          = "#QueryString"
	defaultConsentButtonText    = "Accept all"
	defaultNavigationTimeout    = 60
	defaultInputTimeout         = 10
	defaultResultTimeout        = 10
	defaultPollIntervalMS       = 250
	defaultBatchSize            = 5
	defaultMaxConcurrent        = 2
	defaultBatchPause           = 3
	defaultExtractWorkers       = 4
	defaultNotifyRequestTimeout = 10
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
	defaultLogRetentionDays     = 60
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
			DataDir:   defaultDataDir,
		},
		Portal: Portal{
			SearchInput:       defaultSearchInput,
			ConsentButtonText: defaultConsentButtonText,
		},
		Session: Session{
			NavigationTimeout: defaultNavigationTimeout,
			InputTimeout:      defaultInputTimeout,
			ResultTimeout:     defaultResultTimeout,
			PollIntervalMS:    defaultPollIntervalMS,
		},
		Batch: Batch{
			BatchSize:      defaultBatchSize,
			MaxConcurrent:  defaultMaxConcurrent,
			BatchPause:     defaultBatchPause,
			ExtractWorkers: defaultExtractWorkers,
		},
		Storage: Storage{
			JournalEnabled: true,
		},
		Artifacts: Artifacts{
			Dir: defaultArtifactsDir(),
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
			RunEvents:      true,
			Errors:         true,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
