// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package util

import (
	"os"
	"path/filepath"
	"strings"
)

// ParseBaseDir turns a base directory spec into a clean absolute path. A
// leading "~" is replaced with the user's home directory and relative paths
// are resolved against the working directory. The directory need not exist
// yet, but if something exists at the path it must be a directory.
func ParseBaseDir(baseDir string) (string, error) {
	if strings.TrimSpace(baseDir) == "" {
		return "", os.ErrInvalid
	}

	dir := baseDir
	if dir == "~" || strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, strings.TrimPrefix(dir, "~"))
	}

	if !filepath.IsAbs(dir) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(cwd, dir)
	}
	dir = filepath.Clean(dir)

	if r, err := os.Stat(dir); err == nil && !r.IsDir() {
		return "", os.ErrInvalid
	}

	return dir, nil
}
