package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type cliTestEnv struct {
	baseDir    string
	searchDir  string
	logDir     string
	configPath string
}

// setupCLITestEnv builds an isolated config file plus an empty photo tree
// under a per-test temp directory. The exiftool binary defaults to a path
// that does not exist; tests that exercise the write phase install a fake
// with installFakeExiftool and rewrite the config.
func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	env := &cliTestEnv{
		baseDir:    base,
		searchDir:  filepath.Join(base, "photos"),
		logDir:     filepath.Join(base, "logs"),
		configPath: filepath.Join(base, "config.toml"),
	}
	if err := os.MkdirAll(env.searchDir, 0o755); err != nil {
		t.Fatalf("mkdir search dir: %v", err)
	}
	env.writeConfig(t, filepath.Join(base, "missing-exiftool"))
	return env
}

func (env *cliTestEnv) writeConfig(t *testing.T, exiftoolBinary string) {
	t.Helper()
	env.writeConfigRaw(t, fmt.Sprintf(
		"[paths]\nsearch_dir = %q\nlog_dir = %q\n\n[exiftool]\nbinary = %q\n",
		env.searchDir, env.logDir, exiftoolBinary,
	))
}

func (env *cliTestEnv) writeConfigRaw(t *testing.T, content string) {
	t.Helper()
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

// installFakeExiftool writes a shell script that mimics the exiftool
// invocations descwrite issues: version probe, description probe (always
// reporting no existing description), in-place writes, and sidecar creation.
func installFakeExiftool(t *testing.T, env *cliTestEnv) string {
	t.Helper()
	script := `#!/bin/sh
case " $* " in
  *" -ver "*) echo "13.10" ;;
  *" -j -Description "*) echo '[{"SourceFile":"fake"}]' ;;
  *" -o "*) echo "1 output files created" ;;
  *) echo "1 image files updated" ;;
esac
exit 0
`
	path := filepath.Join(env.baseDir, "fake-exiftool")
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write fake exiftool: %v", err)
	}
	env.writeConfig(t, path)
	return path
}

func runCLI(t *testing.T, configPath string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeManifest(t *testing.T, dir string, lines ...string) string {
	t.Helper()
	path := filepath.Join(dir, "input.tsv")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func writeImageFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte("fixture"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
