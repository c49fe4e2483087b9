package config

import "readq/internal/schedule"

const (
	defaultConfigPath        = "~/.config/readq/config.toml"
	defaultDataDir           = "~/.local/share/readq"
	defaultLogDir            = "~/.local/share/readq/logs"
	defaultAPIBind           = "127.0.0.1:7620"
	defaultPolicy            = schedule.End
	defaultConsumePolicy     = schedule.RandomThirdThird
	defaultLowestLimit       = 20
	defaultReviewKind        = "review"
	defaultServerMode        = "release"
	defaultRequestsPerSecond = 10
	defaultBurst             = 20
	defaultShutdownTimeout   = 10
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			APIBind: defaultAPIBind,
		},
		Queue: Queue{
			DefaultPolicy: defaultPolicy,
			ConsumePolicy: defaultConsumePolicy,
		},
		Scoring: Scoring{
			LowestLimit: defaultLowestLimit,
			ReviewKinds: []string{defaultReviewKind},
		},
		Server: Server{
			Mode:              defaultServerMode,
			RequestsPerSecond: defaultRequestsPerSecond,
			Burst:             defaultBurst,
			ShutdownTimeout:   defaultShutdownTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
