// Package workdir finds the ordr project root for a working directory,
// supporting redirection via .ordr-root files.
package workdir

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	stateDir = ".ordr"
	rootFile = ".ordr-root"
)

// ResolveBaseDir walks up from start to the nearest directory holding either
// a .ordr-root file or a .ordr directory. A .ordr-root file names the real
// project root (relative paths resolve against the file's directory).
// Without any marker, start is returned unchanged.
func ResolveBaseDir(start string) string {
	dir := filepath.Clean(start)
	for {
		if target, ok := readRootFile(dir); ok {
			return target
		}
		if info, err := os.Stat(filepath.Join(dir, stateDir)); err == nil && info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return start
		}
		dir = parent
	}
}

func readRootFile(dir string) (string, bool) {
	content, err := os.ReadFile(filepath.Join(dir, rootFile))
	if err != nil {
		return "", false
	}
	target := strings.TrimSpace(string(content))
	if target == "" {
		return "", false
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(dir, target)
	}
	return filepath.Clean(target), true
}
