// Package config loads runtime configuration for the sbxcloud deploy CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c / --config (see parseJson).
//  3. Command-line flags bound by BindFlags, which override earlier values.
//
// # JSON schema
//
// Durations use timex.Duration, so they can be strings like "45s" or integer
// nanoseconds:
//
//	{
//	  "api_base_url": "https://sbxcloud.com",
//	  "request_timeout": "60s",
//	  "concurrency": 3,
//	  "ignore": [".DS_Store", "*.log"],
//	  "skip_existing": false,
//	  "log_level": "info"
//	}
package config
