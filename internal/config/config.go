// Copyright © 2026 prettyjson authors
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config reads and writes the client files kept under ConfigPath:
//
//	targets  label<TAB>url per line
//	target   url of the current target
//	token    default bearer token
//	token.d/ per-label bearer tokens
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var ConfigPath string

func init() {
	// Find home directory.
	home, err := os.UserHomeDir()
	cobra.CheckErr(err)
	ConfigPath = filepath.Join(home, ".prettyjson")
}
