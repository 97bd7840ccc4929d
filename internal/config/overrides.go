package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// RuntimeOverrides holds configuration values that can be overridden at runtime
// via CLI flags or other means
type RuntimeOverrides struct {
	BaseURL      *string
	DefaultModel *string
	Timeout      *time.Duration
	LogLevel     *string
	LogFile      *string
}

func (cfg *ConfigSchema) applyOverrides(overrides *RuntimeOverrides) {
	if overrides == nil {
		return
	}
	if overrides.BaseURL != nil {
		cfg.Ollama.BaseURL = *overrides.BaseURL
		cfg.track("ollama.baseurl", *overrides.BaseURL, "--ollama-url flag")
	}
	if overrides.DefaultModel != nil {
		cfg.Ollama.DefaultModel = *overrides.DefaultModel
		cfg.track("ollama.defaultmodel", *overrides.DefaultModel, "--model flag")
	}
	if overrides.Timeout != nil {
		cfg.Ollama.Timeout = *overrides.Timeout
		// Keep the probe inside the new budget
		if cfg.Ollama.ProbeTimeout > cfg.Ollama.Timeout {
			cfg.Ollama.ProbeTimeout = cfg.Ollama.Timeout
		}
		cfg.track("ollama.timeout", overrides.Timeout.String(), "--timeout flag")
	}
	if overrides.LogLevel != nil {
		cfg.Log.LogLevel = *overrides.LogLevel
		cfg.track("log.level", *overrides.LogLevel, "--log-level flag")
	}
	if overrides.LogFile != nil {
		cfg.Log.LogFile = *overrides.LogFile
		cfg.track("log.file", *overrides.LogFile, "--log-file flag")
	}
}

// ParseTimeout accepts a bare number of seconds ("30", "2.5") or a Go duration ("90s")
func ParseTimeout(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if secs, err := strconv.ParseFloat(raw, 64); err == nil {
		if secs <= 0 {
			return 0, fmt.Errorf("timeout must be positive, got %s", raw)
		}
		return time.Duration(secs * float64(time.Second)), nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", raw, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("timeout must be positive, got %s", raw)
	}
	return d, nil
}
