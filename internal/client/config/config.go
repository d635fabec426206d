package config

import (
	"time"

	"github.com/dmitrijs2005/sbxcloud/internal/flagx"
	"github.com/dmitrijs2005/sbxcloud/internal/scanner"
)

const (
	DefaultAPIBaseURL     = "https://sbxcloud.com"
	DefaultRequestTimeout = 60 * time.Second
	DefaultConcurrency    = 3
)

// Config holds runtime settings for the deploy client.
//
// Fields:
//   - APIBaseURL: scheme and host of the sbxcloud REST API.
//   - RequestTimeout: upper bound for a single remote call, uploads included.
//   - Concurrency: maximum number of uploads in flight per directory.
//   - Ignore: base-name glob patterns excluded from the local scan.
//   - SkipExisting: do not re-upload files whose name already exists remotely.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration
	Concurrency    int
	Ignore         []string
	SkipExisting   bool
	LogLevel       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = DefaultAPIBaseURL
	c.RequestTimeout = DefaultRequestTimeout
	c.Concurrency = DefaultConcurrency
	c.Ignore = append([]string(nil), scanner.DefaultIgnore...)
	c.SkipExisting = false
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays the JSON
// file named by -c/--config in args (if any). Flags are applied later, when
// cobra parses the command line into the FlagSet returned by BindFlags.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, flagx.JsonConfigFlags(args)); err != nil {
		return nil, err
	}
	return cfg, nil
}
