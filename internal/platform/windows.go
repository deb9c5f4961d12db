// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package platform

import (
	"os"
	"path/filepath"
	"strings"
)

// WindowsPlatform implements Platform for Windows systems
type WindowsPlatform struct{}

// GetConfigDir returns the Windows configuration directory
func (w *WindowsPlatform) GetConfigDir() string {
	if dir := os.Getenv(ConfigDirEnv); dir != "" {
		return dir
	}

	// APPDATA is the recommended location for per-user application data
	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, AppDirName)
	}

	if userProfile := os.Getenv("USERPROFILE"); userProfile != "" {
		return filepath.Join(userProfile, "."+AppDirName)
	}

	return "." + AppDirName
}

// NormalizePath converts forward slashes and cleans the path
func (w *WindowsPlatform) NormalizePath(path string) string {
	return filepath.Clean(strings.ReplaceAll(path, "/", `\`))
}
