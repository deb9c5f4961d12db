// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package platform

import (
	"runtime"
)

// ConfigDirEnv overrides the configuration directory on every platform
const ConfigDirEnv = "PDFIMAGES_CONFIG_DIR"

// AppDirName is the per-user directory name used for configuration
const AppDirName = "pdfimages"

// Platform defines the platform-specific operations pdfimages needs
type Platform interface {
	GetConfigDir() string
	NormalizePath(path string) string
}

// GetPlatform returns the appropriate platform implementation for the current OS
func GetPlatform() Platform {
	switch runtime.GOOS {
	case "windows":
		return &WindowsPlatform{}
	default:
		return &UnixPlatform{}
	}
}

// IsWindows returns true if running on Windows
func IsWindows() bool {
	return runtime.GOOS == "windows"
}
