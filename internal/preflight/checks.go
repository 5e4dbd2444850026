package preflight

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"github.com/brodkewitz/brphoto-metadata-tools/internal/config"
	"github.com/brodkewitz/brphoto-metadata-tools/internal/deps"
	"github.com/brodkewitz/brphoto-metadata-tools/internal/services/exiftool"
)

// CheckConfig loads and validates the configuration file. It always returns
// a usable config; when loading fails the remaining checks run against
// expanded defaults.
func CheckConfig(path string) (*config.Config, Result) {
	const name = "Configuration"

	cfg, resolvedPath, exists, err := config.Load(path)
	if err != nil {
		return fallbackConfig(), Result{Name: name, Detail: err.Error()}
	}

	present := "no"
	if exists {
		present = "yes"
	}
	return cfg, Result{
		Name:   name,
		Passed: true,
		Detail: fmt.Sprintf("%s (file present: %s)", resolvedPath, present),
	}
}

// CheckExiftool verifies the configured binary resolves and answers a
// version probe.
func CheckExiftool(ctx context.Context, cfg *config.Config) Result {
	const name = "ExifTool"

	status := deps.CheckBinaries([]deps.Requirement{deps.Exiftool(cfg.Exiftool.Binary)})[0]
	if !status.Available {
		return Result{Name: name, Detail: status.Detail}
	}

	client, err := exiftool.New(cfg.Exiftool.Binary, cfg.Exiftool.TimeoutSeconds)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	version, err := client.Version(ctx)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (version probe: %v)", status.Path, err)}
	}

	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("version %s at %s", version, status.Path)}
}

// CheckDirectoryAccess verifies that the directory exists and grants the
// requested access bits.
func CheckDirectoryAccess(name, path string, mode uint32) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s does not exist", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s is not a directory", path)}
	}
	if err := unix.Access(path, mode); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: path}
}

// checkLogDirectory creates the log directory if needed before probing it;
// a first run on a fresh machine should still pass.
func checkLogDirectory(cfg *config.Config) Result {
	if err := cfg.EnsureDirectories(); err != nil {
		return Result{Name: "Log directory", Detail: err.Error()}
	}
	return CheckDirectoryAccess("Log directory", cfg.Paths.LogDir, unix.R_OK|unix.W_OK|unix.X_OK)
}

// fallbackConfig expands the built-in defaults the way Load would have.
func fallbackConfig() *config.Config {
	cfg := config.Default()
	if dir, err := config.ExpandPath(cfg.Paths.SearchDir); err == nil {
		cfg.Paths.SearchDir = dir
	}
	if dir, err := config.ExpandPath(cfg.Paths.LogDir); err == nil {
		cfg.Paths.LogDir = dir
	}
	return &cfg
}
