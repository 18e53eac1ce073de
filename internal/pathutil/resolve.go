// Package pathutil canonicalizes the raw paths handed to waypoint.
package pathutil

import (
	"os"
	"path/filepath"
	"strings"
)

// Resolver turns raw user paths into canonical absolute paths.
type Resolver struct {
	// HomeDir resolves "~". Defaults to os.UserHomeDir.
	HomeDir func() (string, error)
}

// Default is a Resolver backed by the real user home directory.
var Default = Resolver{}

// Resolve expands a leading "~", makes raw absolute against the working
// directory and follows symlinks. The target must exist. Any failure
// reports false; callers treat that as "ignore this path".
//
// ".." is applied to the symlink target, not to the link's own parent, so
// "link/.." names the directory containing what link points at.
func (r Resolver) Resolve(raw string) (string, bool) {
	if raw == "" {
		return "", false
	}
	expanded, ok := r.ExpandHome(raw)
	if !ok {
		return "", false
	}
	abs, err := absolute(expanded)
	if err != nil {
		return "", false
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", false
	}
	if _, err := os.Stat(resolved); err != nil {
		return "", false
	}
	return filepath.Clean(resolved), true
}

// absolute joins a relative path to the working directory without cleaning
// it. filepath.Abs would fold "x/.." lexically before symlinks are seen.
func absolute(p string) (string, error) {
	if filepath.IsAbs(p) {
		return p, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return wd + string(filepath.Separator) + p, nil
}

// ExpandHome replaces a leading "~" (alone or followed by a separator) with
// the home directory. "~user" forms are left untouched.
func (r Resolver) ExpandHome(raw string) (string, bool) {
	if raw != "~" && !strings.HasPrefix(raw, "~/") && !strings.HasPrefix(raw, "~"+string(filepath.Separator)) {
		return raw, true
	}
	homeDir := r.HomeDir
	if homeDir == nil {
		homeDir = os.UserHomeDir
	}
	home, err := homeDir()
	if err != nil || home == "" {
		return "", false
	}
	return home + raw[1:], true
}
