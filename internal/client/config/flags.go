package config

import (
	"github.com/spf13/pflag"
)

// BindFlags registers the configuration flags on fs, using the current
// values of cfg as defaults so that flags override JSON and defaults.
//
// The --config flag is registered only so that the command framework accepts
// it; its value was already consumed by LoadConfig.
func BindFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringP("config", "c", "", "path to a JSON config file")
	fs.StringVar(&cfg.APIBaseURL, "api-url", cfg.APIBaseURL, "sbxcloud API base URL")
	fs.DurationVar(&cfg.RequestTimeout, "timeout", cfg.RequestTimeout, "timeout for a single remote call")
	fs.IntVar(&cfg.Concurrency, "concurrency", cfg.Concurrency, "maximum concurrent uploads per folder")
	fs.StringSliceVar(&cfg.Ignore, "ignore", cfg.Ignore, "base-name patterns excluded from the deployment")
	fs.BoolVar(&cfg.SkipExisting, "skip-existing", cfg.SkipExisting, "do not re-upload files already present remotely")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
}
