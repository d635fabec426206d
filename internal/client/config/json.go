package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/sbxcloud/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer and
// zero-able fields let parseJson tell "absent" from "set to zero".
type JsonConfig struct {
	APIBaseURL     string          `json:"api_base_url"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	Concurrency    int             `json:"concurrency"`
	Ignore         []string        `json:"ignore"`
	SkipExisting   *bool           `json:"skip_existing"`
	LogLevel       string          `json:"log_level"`
}

// parseJson overlays cfg with the values present in the JSON file at path.
// An empty path is a no-op.
func parseJson(cfg *Config, path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.Concurrency > 0 {
		cfg.Concurrency = jc.Concurrency
	}
	if jc.Ignore != nil {
		cfg.Ignore = jc.Ignore
	}
	if jc.SkipExisting != nil {
		cfg.SkipExisting = *jc.SkipExisting
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
	return nil
}
