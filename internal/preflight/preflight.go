package preflight

import (
	"context"

	"golang.org/x/sys/unix"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// RunAll executes every check the doctor command reports. It takes the
// config path rather than a loaded config so a broken file becomes a failed
// check instead of killing the diagnosis.
func RunAll(ctx context.Context, configPath string) []Result {
	cfg, cfgResult := CheckConfig(configPath)
	results := []Result{cfgResult}

	results = append(results, CheckExiftool(ctx, cfg))
	results = append(results, CheckDirectoryAccess("Search directory", cfg.Paths.SearchDir, unix.R_OK|unix.X_OK))
	results = append(results, checkLogDirectory(cfg))

	return results
}
