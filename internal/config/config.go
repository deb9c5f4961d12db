// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"pdfimages/internal/paths"

	"gopkg.in/yaml.v3"
)

// Manifest formats accepted in configuration and on the command line
const (
	ManifestNone = ""
	ManifestJSON = "json"
	ManifestYAML = "yaml"
)

// Settings holds the resolved values that drive an extraction run
type Settings struct {
	OutputDir       string `yaml:"output_dir"`
	Prefix          string `yaml:"prefix"`
	Manifest        string `yaml:"manifest"`
	ContinueOnError bool   `yaml:"continue_on_error"`
	Quiet           bool   `yaml:"quiet"`
	NoColor         bool   `yaml:"no_color"`
	Verbose         bool   `yaml:"verbose"`
	Debug           bool   `yaml:"debug"`
	DirMode         string `yaml:"dir_mode"`
	FileMode        string `yaml:"file_mode"`
}

// Config represents the application configuration
type Config struct {
	Defaults Settings           `yaml:"defaults"`
	Profiles map[string]Profile `yaml:"profiles"`
}

// Profile represents a named set of overrides applied on top of Defaults.
// Nil booleans and empty strings leave the default untouched.
type Profile struct {
	Description     string `yaml:"description"`
	OutputDir       string `yaml:"output_dir"`
	Prefix          string `yaml:"prefix"`
	Manifest        string `yaml:"manifest"`
	ContinueOnError *bool  `yaml:"continue_on_error"`
	Quiet           *bool  `yaml:"quiet"`
	NoColor         *bool  `yaml:"no_color"`
	Verbose         *bool  `yaml:"verbose"`
	Debug           *bool  `yaml:"debug"`
	DirMode         string `yaml:"dir_mode"`
	FileMode        string `yaml:"file_mode"`
}

// DefaultSettings returns the built-in defaults, matching the behaviour of a
// plain extraction run with no configuration file.
func DefaultSettings() Settings {
	return Settings{
		OutputDir: normalizePlatformPath("./images"),
		Prefix:    "image_",
		Manifest:  ManifestNone,
		DirMode:   "0755",
		FileMode:  "0644",
	}
}

// LoadConfig loads configuration from the specified file path
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{
		Defaults: DefaultSettings(),
		Profiles: make(map[string]Profile),
	}

	skip := true
	config.Profiles["archive"] = Profile{
		Description:     "Extract everything, skip undecodable images and write a YAML manifest",
		Manifest:        ManifestYAML,
		ContinueOnError: &skip,
	}

	// If no config file specified, return default config
	if configPath == "" {
		return config, nil
	}

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	// yaml leaves unset strings empty; fall back to the built-in defaults
	defaults := DefaultSettings()
	if config.Defaults.OutputDir == "" {
		config.Defaults.OutputDir = defaults.OutputDir
	}
	if config.Defaults.Prefix == "" {
		config.Defaults.Prefix = defaults.Prefix
	}
	if config.Defaults.DirMode == "" {
		config.Defaults.DirMode = defaults.DirMode
	}
	if config.Defaults.FileMode == "" {
		config.Defaults.FileMode = defaults.FileMode
	}
	if config.Profiles == nil {
		config.Profiles = make(map[string]Profile)
	}

	ApplyPlatformDefaults(config)

	if err := ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// LoadConfigOrDefault loads configuration from configFile (or searches standard
// locations when configFile is empty). If loading fails, the error is returned
// alongside a default configuration so callers can warn and carry on.
func LoadConfigOrDefault(configFile string) (*Config, error) {
	configPath := configFile
	if configPath == "" {
		configPath = FindConfigFile()
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		cfg, _ = LoadConfig("")
		return cfg, err
	}
	return cfg, nil
}

// FindConfigFile looks for a configuration file in the working directory and
// then in the platform configuration directory
func FindConfigFile() string {
	candidates := []string{
		"pdfimages.yaml",
		"pdfimages.yml",
		".pdfimages.yaml",
		".pdfimages.yml",
	}
	for _, name := range candidates {
		if fileExists(name) {
			return name
		}
	}

	if standardConfig := paths.GetConfigFile(); fileExists(standardConfig) {
		return standardConfig
	}

	return ""
}

// fileExists checks if a file exists and is not a directory
func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// ListProfiles returns the sorted names of available profiles
func (c *Config) ListProfiles() []string {
	profiles := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		profiles = append(profiles, name)
	}
	sort.Strings(profiles)
	return profiles
}

// GetProfile returns a profile by name, or nil if not found
func (c *Config) GetProfile(name string) *Profile {
	if profile, exists := c.Profiles[name]; exists {
		return &profile
	}
	return nil
}

// Resolve returns Defaults with the named profile applied. An empty name
// returns Defaults unchanged.
func (c *Config) Resolve(profileName string) (Settings, error) {
	final := c.Defaults
	if profileName == "" {
		return final, nil
	}

	profile := c.GetProfile(profileName)
	if profile == nil {
		return final, fmt.Errorf("profile %q not found (available: %s)", profileName, strings.Join(c.ListProfiles(), ", "))
	}

	if profile.OutputDir != "" {
		final.OutputDir = normalizePlatformPath(profile.OutputDir)
	}
	if profile.Prefix != "" {
		final.Prefix = profile.Prefix
	}
	if profile.Manifest != "" {
		final.Manifest = profile.Manifest
	}
	if profile.DirMode != "" {
		final.DirMode = profile.DirMode
	}
	if profile.FileMode != "" {
		final.FileMode = profile.FileMode
	}
	applyBool(&final.ContinueOnError, profile.ContinueOnError)
	applyBool(&final.Quiet, profile.Quiet)
	applyBool(&final.NoColor, profile.NoColor)
	applyBool(&final.Verbose, profile.Verbose)
	applyBool(&final.Debug, profile.Debug)

	return final, nil
}

func applyBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

// Modes parses DirMode and FileMode as octal permission bits
func (s Settings) Modes() (dir os.FileMode, file os.FileMode, err error) {
	d, err := parseMode(s.DirMode)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid dir_mode: %w", err)
	}
	f, err := parseMode(s.FileMode)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid file_mode: %w", err)
	}
	return d, f, nil
}

func parseMode(s string) (os.FileMode, error) {
	v, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return 0, err
	}
	if v > 0o777 {
		return 0, fmt.Errorf("%s exceeds 0777", s)
	}
	return os.FileMode(v), nil
}

// Validate checks a single settings block
func (s Settings) Validate() error {
	if err := validateManifest(s.Manifest); err != nil {
		return err
	}
	if err := validatePrefix(s.Prefix); err != nil {
		return err
	}
	if err := paths.ValidatePath(s.OutputDir); err != nil {
		return fmt.Errorf("invalid output directory: %w", err)
	}
	if _, _, err := s.Modes(); err != nil {
		return err
	}
	return nil
}

// ValidateConfig validates the defaults and every profile
func ValidateConfig(config *Config) error {
	if config == nil {
		return fmt.Errorf("configuration cannot be nil")
	}

	if err := config.Defaults.Validate(); err != nil {
		return fmt.Errorf("defaults: %w", err)
	}

	for name, profile := range config.Profiles {
		if err := validateManifest(profile.Manifest); err != nil {
			return fmt.Errorf("profile '%s': %w", name, err)
		}
		if profile.Prefix != "" {
			if err := validatePrefix(profile.Prefix); err != nil {
				return fmt.Errorf("profile '%s': %w", name, err)
			}
		}
		if err := paths.ValidatePath(profile.OutputDir); err != nil {
			return fmt.Errorf("invalid output directory in profile '%s': %w", name, err)
		}
		for _, mode := range []string{profile.DirMode, profile.FileMode} {
			if mode == "" {
				continue
			}
			if _, err := parseMode(mode); err != nil {
				return fmt.Errorf("profile '%s': invalid mode: %w", name, err)
			}
		}
	}

	return nil
}

func validateManifest(format string) error {
	switch format {
	case ManifestNone, ManifestJSON, ManifestYAML:
		return nil
	default:
		return fmt.Errorf("unknown manifest format %q (want json or yaml)", format)
	}
}

func validatePrefix(prefix string) error {
	if prefix == "" {
		return fmt.Errorf("prefix cannot be empty")
	}
	if strings.ContainsAny(prefix, `/\`) {
		return fmt.Errorf("prefix %q must not contain path separators", prefix)
	}
	return nil
}

// ApplyPlatformDefaults normalizes output directories for the current platform
func ApplyPlatformDefaults(config *Config) {
	if config == nil {
		return
	}

	config.Defaults.OutputDir = normalizePlatformPath(config.Defaults.OutputDir)

	for name, profile := range config.Profiles {
		if profile.OutputDir != "" {
			profile.OutputDir = normalizePlatformPath(profile.OutputDir)
		}
		config.Profiles[name] = profile
	}
}

// normalizePlatformPath normalizes a path for the current platform
func normalizePlatformPath(path string) string {
	if path == "" {
		return ""
	}
	return paths.NormalizePath(path)
}
