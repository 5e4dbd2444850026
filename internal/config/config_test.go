package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"github.com/brodkewitz/brphoto-metadata-tools/internal/config"
)

func TestLoadMissingFileUsesDefaultsAndExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantLogDir := filepath.Join(tempHome, ".local", "share", "descwrite", "logs")
	if cfg.Paths.LogDir != wantLogDir {
		t.Fatalf("unexpected log dir: got %q want %q", cfg.Paths.LogDir, wantLogDir)
	}
	if !filepath.IsAbs(cfg.Paths.SearchDir) {
		t.Fatalf("expected search dir expanded to absolute path, got %q", cfg.Paths.SearchDir)
	}
	if cfg.Scan.MaxItems != 30000 {
		t.Fatalf("unexpected scan ceiling: %d", cfg.Scan.MaxItems)
	}
	if len(cfg.Scan.ExcludeDirs) != 1 || cfg.Scan.ExcludeDirs[0] != "CaptureOne" {
		t.Fatalf("unexpected exclude dirs: %v", cfg.Scan.ExcludeDirs)
	}
	if cfg.Scan.IgnoreWritableImages {
		t.Fatal("expected writable images honored by default")
	}
	if cfg.Exiftool.Binary != "exiftool" {
		t.Fatalf("unexpected exiftool binary: %q", cfg.Exiftool.Binary)
	}
	if cfg.Exiftool.TimeoutSeconds != 120 {
		t.Fatalf("unexpected exiftool timeout: %d", cfg.Exiftool.TimeoutSeconds)
	}
	if cfg.Write.OverwriteDescriptions {
		t.Fatal("expected overwrite_descriptions disabled by default")
	}
	if cfg.Write.OverwriteOriginals {
		t.Fatal("expected overwrite_originals disabled by default")
	}
	if cfg.Write.ContinueOnError {
		t.Fatal("expected continue_on_error disabled by default")
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: format=%q level=%q", cfg.Logging.Format, cfg.Logging.Level)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	info, err := os.Stat(cfg.Paths.LogDir)
	if err != nil {
		t.Fatalf("expected log dir to exist: %v", err)
	}
	if !info.IsDir() {
		t.Fatalf("expected %q to be directory", cfg.Paths.LogDir)
	}
	if filepath.Dir(cfg.LockPath()) != cfg.Paths.LogDir {
		t.Fatalf("expected lock file under log dir, got %q", cfg.LockPath())
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "descwrite.toml")

	type payload struct {
		Paths struct {
			SearchDir string `toml:"search_dir"`
		} `toml:"paths"`
		Scan struct {
			MaxItems    int      `toml:"max_items"`
			ExcludeDirs []string `toml:"exclude_dirs"`
		} `toml:"scan"`
		Exiftool struct {
			TimeoutSeconds int `toml:"timeout_seconds"`
		} `toml:"exiftool"`
		Write struct {
			OverwriteDescriptions bool `toml:"overwrite_descriptions"`
		} `toml:"write"`
	}
	custom := payload{}
	custom.Paths.SearchDir = filepath.Join(tempDir, "photos")
	custom.Scan.MaxItems = 500
	custom.Scan.ExcludeDirs = []string{"CaptureOne", " Trash ", "CaptureOne"}
	custom.Exiftool.TimeoutSeconds = 15
	custom.Write.OverwriteDescriptions = true

	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Paths.SearchDir != filepath.Join(tempDir, "photos") {
		t.Fatalf("unexpected search dir: %q", cfg.Paths.SearchDir)
	}
	if cfg.Scan.MaxItems != 500 {
		t.Fatalf("expected scan ceiling 500, got %d", cfg.Scan.MaxItems)
	}
	wantExcludes := []string{"CaptureOne", "Trash"}
	if len(cfg.Scan.ExcludeDirs) != len(wantExcludes) {
		t.Fatalf("unexpected exclude dirs: %v", cfg.Scan.ExcludeDirs)
	}
	for i, name := range wantExcludes {
		if cfg.Scan.ExcludeDirs[i] != name {
			t.Fatalf("unexpected exclude dirs: %v", cfg.Scan.ExcludeDirs)
		}
	}
	if cfg.Exiftool.TimeoutSeconds != 15 {
		t.Fatalf("expected timeout 15, got %d", cfg.Exiftool.TimeoutSeconds)
	}
	if !cfg.Write.OverwriteDescriptions {
		t.Fatal("expected overwrite_descriptions enabled")
	}
	if cfg.Exiftool.Binary != "exiftool" {
		t.Fatalf("expected default binary preserved, got %q", cfg.Exiftool.Binary)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "zero scan ceiling",
			content: "[scan]\nmax_items = 0\n",
			want:    "scan.max_items",
		},
		{
			name:    "blank binary",
			content: "[exiftool]\nbinary = \"  \"\n",
			want:    "exiftool.binary",
		},
		{
			name:    "negative timeout",
			content: "[exiftool]\ntimeout_seconds = -1\n",
			want:    "exiftool.timeout_seconds",
		},
		{
			name:    "unknown log format",
			content: "[logging]\nformat = \"table\"\n",
			want:    "logging.format",
		},
		{
			name:    "unknown log level",
			content: "[logging]\nlevel = \"verbose\"\n",
			want:    "logging.level",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "descwrite.toml")
			if err := os.WriteFile(configPath, []byte(tc.content), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, _, _, err := config.Load(configPath)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestLoadNormalizesLoggingCase(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "descwrite.toml")
	content := "[logging]\nformat = \"JSON\"\nlevel = \" Debug \"\n"
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected lowercased format, got %q", cfg.Logging.Format)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected trimmed lowercased level, got %q", cfg.Logging.Level)
	}
}

func TestCreateSampleProducesLoadableConfig(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	samplePath := filepath.Join(tempHome, "nested", "config.toml")

	if err := config.CreateSample(samplePath); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	cfg, _, exists, err := config.Load(samplePath)
	if err != nil {
		t.Fatalf("Load of sample failed: %v", err)
	}
	if !exists {
		t.Fatal("expected sample file to exist")
	}

	defaults := config.Default()
	if cfg.Scan.MaxItems != defaults.Scan.MaxItems {
		t.Fatalf("sample scan ceiling diverged from defaults: %d", cfg.Scan.MaxItems)
	}
	if cfg.Exiftool.Binary != defaults.Exiftool.Binary {
		t.Fatalf("sample binary diverged from defaults: %q", cfg.Exiftool.Binary)
	}
	if cfg.Logging.Format != defaults.Logging.Format {
		t.Fatalf("sample log format diverged from defaults: %q", cfg.Logging.Format)
	}
}

func TestExpandPathTilde(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	expanded, err := config.ExpandPath("~/photos")
	if err != nil {
		t.Fatalf("ExpandPath failed: %v", err)
	}
	if expanded != filepath.Join(tempHome, "photos") {
		t.Fatalf("unexpected expansion: %q", expanded)
	}
}
