// Copyright © 2026 prettyjson authors
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

var (
	errUndefinedTarget = fmt.Errorf(`no target defined. Please use "target add" and "target set" to define a target, or use the --target flag`)

	protocolPattern = regexp.MustCompile("^https?://")
)

// Target is a labeled base URL.
type Target struct {
	Label   string `json:"label"`
	URL     string `json:"url"`
	Current bool   `json:"current"`
}

func normalizeTargetURL(target string) string {
	target = strings.TrimSpace(target)
	if target == "" {
		return ""
	}
	if !protocolPattern.MatchString(target) {
		target = "https://" + target
	}
	return target
}

// getSavedTargets returns a map of label->target
func getSavedTargets(fsys afero.Fs) (map[string]string, error) {
	var targets = map[string]string{} // label->target

	targetsPath := filepath.Join(ConfigPath, "targets")
	err := fsys.MkdirAll(ConfigPath, 0700)
	if err != nil {
		return nil, err
	}

	f, err := fsys.Open(targetsPath)
	if err == nil {
		defer f.Close()
		if b, err := io.ReadAll(f); err == nil {
			var targetLines = strings.Split(strings.TrimSpace(string(b)), "\n")
			for i := range targetLines {
				var targetSplit = strings.Fields(targetLines[i])

				if len(targetSplit) == 2 {
					targets[targetSplit[0]] = targetSplit[1]
				}
			}
		}
	}
	return targets, nil
}

func sortedLabels(targets map[string]string) []string {
	labels := make([]string, 0, len(targets))
	for k := range targets {
		labels = append(labels, k)
	}
	sort.Strings(labels)
	return labels
}

// GetTargetLabel returns the label of the current target.
func GetTargetLabel(fsys afero.Fs) (string, error) {
	target, err := GetCurrentTargetFromFs(fsys)
	if err != nil {
		return "", err
	}
	return GetLabelForTargetURL(fsys, target)
}

// GetLabelForTargetURL returns the label saved for targetURL.
func GetLabelForTargetURL(fsys afero.Fs, targetURL string) (string, error) {
	targets, err := getSavedTargets(fsys)
	if err != nil {
		return "", err
	}
	targetURL = normalizeTargetURL(targetURL)
	for _, k := range sortedLabels(targets) {
		if normalizeTargetURL(targets[k]) == targetURL {
			return k, nil
		}
	}
	return "", fmt.Errorf("label for target %q not found", targetURL)
}

// GetCurrentTargetFromFs returns the current target (from filesystem .prettyjson/target)
func GetCurrentTargetFromFs(fsys afero.Fs) (target string, err error) {
	targetPath := filepath.Join(ConfigPath, "target")
	if f, err := fsys.Open(targetPath); err == nil {
		defer f.Close()
		if b, err := io.ReadAll(f); err == nil {
			target = strings.TrimSpace(string(b))
		}
	}

	if target == "" {
		return "", errUndefinedTarget
	}
	return normalizeTargetURL(target), nil
}

// GetTargetURL returns the target URL from a given alias. If the alias is not
// found, it returns the alias itself (as it may already be the correct URL).
func GetTargetURL(fsys afero.Fs, target string) (string, error) {
	targetURL := target
	targets, err := getSavedTargets(fsys)
	if err != nil {
		return "", err
	}
	if val, ok := targets[target]; ok {
		targetURL = val
	}
	return normalizeTargetURL(targetURL), nil
}

// ListTargets returns every saved target sorted by label.
func ListTargets(fsys afero.Fs) ([]Target, error) {
	targets, err := getSavedTargets(fsys)
	if err != nil {
		return nil, err
	}
	current, _ := GetCurrentTargetFromFs(fsys)
	result := make([]Target, 0, len(targets))
	for _, label := range sortedLabels(targets) {
		result = append(result, Target{
			Label:   label,
			URL:     targets[label],
			Current: targets[label] == current,
		})
	}
	return result, nil
}

// SaveTarget adds or replaces the target with the given label.
func SaveTarget(fsys afero.Fs, label, target string) error {
	label = strings.TrimSpace(label)
	if label == "" || strings.ContainsAny(label, " \t\n") {
		return fmt.Errorf("invalid target label %q", label)
	}
	targets, err := getSavedTargets(fsys)
	if err != nil {
		return err
	}
	targets[label] = normalizeTargetURL(target)

	var b strings.Builder
	for _, k := range sortedLabels(targets) {
		fmt.Fprintf(&b, "%s\t%s\n", k, targets[k])
	}
	return writeFile(fsys, filepath.Join(ConfigPath, "targets"), b.String())
}

// SaveTargetAsCurrent sets target as the current target.
func SaveTargetAsCurrent(fsys afero.Fs, target string) error {
	if err := fsys.MkdirAll(ConfigPath, 0700); err != nil {
		return err
	}
	return writeFile(fsys, filepath.Join(ConfigPath, "target"), normalizeTargetURL(target)+"\n")
}

func writeFile(fsys afero.Fs, path, content string) error {
	file, err := fsys.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	n, err := file.WriteString(content)
	if err != nil {
		return err
	}
	if n != len(content) {
		return fmt.Errorf("failed to write file %q", path)
	}
	return nil
}
