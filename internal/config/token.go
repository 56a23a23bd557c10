// Copyright © 2026 prettyjson authors
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// GetTokenFromFs returns the token saved for targetLabel, falling back to
// the default token. A missing token is not an error.
func GetTokenFromFs(fsys afero.Fs, targetLabel string) (string, error) {
	tokenPaths := []string{filepath.Join(ConfigPath, "token")}
	if targetLabel != "" {
		tokenPaths = append([]string{filepath.Join(ConfigPath, "token.d", targetLabel)}, tokenPaths...)
	}
	return readFirstToken(fsys, tokenPaths)
}

// GetLabelTokenFromFs returns the token saved for targetLabel only, without
// falling back to the default token of the current target.
func GetLabelTokenFromFs(fsys afero.Fs, targetLabel string) (string, error) {
	if targetLabel == "" {
		return "", nil
	}
	return readFirstToken(fsys, []string{filepath.Join(ConfigPath, "token.d", targetLabel)})
}

func readFirstToken(fsys afero.Fs, tokenPaths []string) (string, error) {
	var err error
	for _, tokenPath := range tokenPaths {
		var tkFile afero.File
		if tkFile, err = fsys.Open(tokenPath); err == nil {
			defer tkFile.Close()
			token, err1 := io.ReadAll(tkFile)
			if err1 != nil {
				return "", err1
			}
			return strings.TrimSpace(string(token)), nil
		}
	}
	if os.IsNotExist(err) {
		return "", nil
	}
	return "", err
}

// SaveTokenToFs saves the token for targetLabel, or the default token when
// targetLabel is empty.
func SaveTokenToFs(fsys afero.Fs, targetLabel, token string) error {
	tokenPath := filepath.Join(ConfigPath, "token")
	if targetLabel != "" {
		if err := fsys.MkdirAll(filepath.Join(ConfigPath, "token.d"), 0700); err != nil {
			return err
		}
		tokenPath = filepath.Join(ConfigPath, "token.d", targetLabel)
	} else if err := fsys.MkdirAll(ConfigPath, 0700); err != nil {
		return err
	}
	return writeFile(fsys, tokenPath, token)
}
