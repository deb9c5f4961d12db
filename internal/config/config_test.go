// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	configPath := filepath.Join(dir, "pdfimages.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return configPath
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Defaults.Prefix != "image_" {
		t.Errorf("expected default prefix=image_, got %q", cfg.Defaults.Prefix)
	}
	if cfg.Defaults.Manifest != ManifestNone {
		t.Errorf("expected no manifest by default, got %q", cfg.Defaults.Manifest)
	}
	if cfg.Defaults.ContinueOnError {
		t.Error("expected continue_on_error=false by default")
	}
	if _, ok := cfg.Profiles["archive"]; !ok {
		t.Error("expected built-in 'archive' profile")
	}
}

func TestLoadConfigOrDefault_NonexistentFile(t *testing.T) {
	cfg, err := LoadConfigOrDefault("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected an error for a missing explicit config file")
	}
	if cfg == nil {
		t.Fatal("expected non-nil config (fallback to defaults)")
	}
	if cfg.Defaults.Prefix != "image_" {
		t.Errorf("expected default prefix after fallback, got %q", cfg.Defaults.Prefix)
	}
}

func TestLoadConfig_ValidFile(t *testing.T) {
	configPath := writeConfig(t, `
defaults:
  output_dir: out/pics
  manifest: json
  quiet: true
profiles:
  ci:
    description: quiet run for pipelines
    no_color: true
    prefix: img-
`)

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Defaults.Manifest != ManifestJSON {
		t.Errorf("expected manifest=json, got %q", cfg.Defaults.Manifest)
	}
	if !cfg.Defaults.Quiet {
		t.Error("expected quiet=true")
	}
	// unset keys keep their built-in values
	if cfg.Defaults.Prefix != "image_" {
		t.Errorf("expected prefix to keep default, got %q", cfg.Defaults.Prefix)
	}
	if cfg.Defaults.FileMode != "0644" {
		t.Errorf("expected file_mode to keep default, got %q", cfg.Defaults.FileMode)
	}
	if cfg.GetProfile("ci") == nil {
		t.Fatal("expected profile 'ci'")
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	configPath := writeConfig(t, ":::invalid yaml:::")

	if _, err := LoadConfig(configPath); err == nil {
		t.Fatal("expected parse error")
	}

	cfg, err := LoadConfigOrDefault(configPath)
	if err == nil {
		t.Error("expected LoadConfigOrDefault to report the parse error")
	}
	if cfg == nil {
		t.Fatal("expected non-nil config (fallback to defaults on parse error)")
	}
}

func TestLoadConfig_ValidationErrors(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"unknown manifest", "defaults:\n  manifest: xml\n"},
		{"prefix with separator", "defaults:\n  prefix: a/b\n"},
		{"bad dir mode", "defaults:\n  dir_mode: rwx\n"},
		{"mode out of range", "defaults:\n  file_mode: \"01777\"\n"},
		{"bad profile manifest", "profiles:\n  x:\n    manifest: csv\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := LoadConfig(writeConfig(t, tc.content)); err == nil {
				t.Errorf("expected validation error for %q", tc.content)
			}
		})
	}
}

func TestResolve_ProfileOverridesDefaults(t *testing.T) {
	configPath := writeConfig(t, `
defaults:
  verbose: true
profiles:
  terse:
    verbose: false
    manifest: yaml
`)
	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	settings, err := cfg.Resolve("terse")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.Verbose {
		t.Error("profile should switch verbose off")
	}
	if settings.Manifest != ManifestYAML {
		t.Errorf("expected manifest=yaml, got %q", settings.Manifest)
	}
	if settings.Prefix != "image_" {
		t.Errorf("expected default prefix to survive, got %q", settings.Prefix)
	}

	base, err := cfg.Resolve("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !base.Verbose {
		t.Error("empty profile name should return defaults")
	}
}

func TestResolve_ArchiveProfile(t *testing.T) {
	cfg, _ := LoadConfig("")
	settings, err := cfg.Resolve("archive")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !settings.ContinueOnError {
		t.Error("archive profile should enable continue_on_error")
	}
	if settings.Manifest != ManifestYAML {
		t.Errorf("archive profile should write a yaml manifest, got %q", settings.Manifest)
	}
}

func TestResolve_UnknownProfile(t *testing.T) {
	cfg, _ := LoadConfig("")
	if _, err := cfg.Resolve("missing"); err == nil {
		t.Error("expected error for unknown profile")
	}
}

func TestSettingsModes(t *testing.T) {
	dir, file, err := DefaultSettings().Modes()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dir != 0o755 {
		t.Errorf("expected dir mode 0755, got %o", dir)
	}
	if file != 0o644 {
		t.Errorf("expected file mode 0644, got %o", file)
	}
}

func TestListProfilesSorted(t *testing.T) {
	cfg := &Config{Profiles: map[string]Profile{"b": {}, "a": {}, "c": {}}}
	got := cfg.ListProfiles()
	want := []string{"a", "b", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestFindConfigFile_PlatformDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PDFIMAGES_CONFIG_DIR", dir)
	t.Chdir(t.TempDir())

	if got := FindConfigFile(); got != "" {
		t.Fatalf("expected no config file, got %q", got)
	}

	configPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("defaults:\n  quiet: true\n"), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	if got := FindConfigFile(); got != configPath {
		t.Errorf("expected %q, got %q", configPath, got)
	}
}
