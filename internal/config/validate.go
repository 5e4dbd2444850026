package config

import (
	"fmt"
	"strings"
)

// Validate checks the configuration for values that cannot drive a run.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Paths.SearchDir) == "" {
		problems = append(problems, "paths.search_dir must not be empty")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		problems = append(problems, "paths.log_dir must not be empty")
	}
	if c.Scan.MaxItems < 1 {
		problems = append(problems, "scan.max_items must be at least 1")
	}
	if c.Exiftool.Binary == "" {
		problems = append(problems, "exiftool.binary must not be empty")
	}
	if c.Exiftool.TimeoutSeconds < 0 {
		problems = append(problems, "exiftool.timeout_seconds must not be negative")
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("logging.format %q is not one of console, json", c.Logging.Format))
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}
