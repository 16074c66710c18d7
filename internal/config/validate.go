package config

import (
	"fmt"
	"strings"

	"github.com/justinpbarnett/logtree/internal/display"
)

// ValidationError collects multiple validation failures.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// validate checks every field and reports all failures at once.
func validate(cfg *Config) error {
	var errs []string

	if _, err := display.ParseFormat(cfg.View.Format); err != nil {
		errs = append(errs, fmt.Sprintf("view.format %q must be \"auto\", \"raw\", or \"pretty\"", cfg.View.Format))
	}
	if cfg.View.ScrollSpeed <= 0 {
		errs = append(errs, "view.scroll_speed must be positive")
	}
	if cfg.Source.PollIntervalMs <= 0 {
		errs = append(errs, "source.poll_interval_ms must be positive")
	}
	if cfg.Source.BatchSize <= 0 {
		errs = append(errs, "source.batch_size must be positive")
	}
	if cfg.Update.Repo != "" && strings.Count(cfg.Update.Repo, "/") != 1 {
		errs = append(errs, fmt.Sprintf("update.repo %q must look like \"owner/name\"", cfg.Update.Repo))
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

// DisplayFormat returns the configured view format. Load has already
// validated it, so unknown values fall back to auto.
func (c *Config) DisplayFormat() display.Format {
	f, _ := display.ParseFormat(c.View.Format)
	return f
}
