package main

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/brodkewitz/brphoto-metadata-tools/internal/preflight"
)

func TestDoctorReportsMissingExiftool(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env.configPath, "doctor")
	if err == nil {
		t.Fatal("expected doctor to fail when exiftool is missing")
	}
	requireContains(t, err.Error(), "checks failed")
	requireContains(t, out, "ExifTool")
	requireContains(t, out, "error")
}

func TestDoctorPassesWithWorkingSetup(t *testing.T) {
	env := setupCLITestEnv(t)
	installFakeExiftool(t, env)

	out, _, err := runCLI(t, env.configPath, "doctor")
	if err != nil {
		t.Fatalf("doctor: %v\noutput: %s", err, out)
	}
	requireContains(t, out, "version 13.10")
	requireContains(t, out, "Search directory")
	requireContains(t, out, "Log directory")
	if strings.Contains(out, "error") {
		t.Fatalf("expected every check to pass:\n%s", out)
	}
}

func TestDoctorJSONOutput(t *testing.T) {
	env := setupCLITestEnv(t)
	installFakeExiftool(t, env)

	out, _, err := runCLI(t, env.configPath, "doctor", "--json")
	if err != nil {
		t.Fatalf("doctor --json: %v", err)
	}

	var payload struct {
		Checks []preflight.Result `json:"checks"`
	}
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("parse doctor JSON: %v\noutput: %s", err, out)
	}
	if len(payload.Checks) != 4 {
		t.Fatalf("expected 4 checks, got %d: %+v", len(payload.Checks), payload.Checks)
	}
	for _, check := range payload.Checks {
		if !check.Passed {
			t.Fatalf("expected %s to pass: %s", check.Name, check.Detail)
		}
	}
}

func TestDoctorSurvivesBrokenConfig(t *testing.T) {
	env := setupCLITestEnv(t)
	env.writeConfigRaw(t, "[scan]\nmax_items = -5\n")

	out, _, err := runCLI(t, env.configPath, "doctor")
	if err == nil {
		t.Fatal("expected doctor to report the broken config")
	}
	requireContains(t, out, "Configuration")
	requireContains(t, out, "max_items")
}
