// Package filex holds small filename and directory helpers shared by the
// server (object key building) and the CLI (proof downloads).
package filex

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const maxNameLen = 200

// EnsureSubDir creates dirName under the current working directory if needed
// and returns its absolute path.
func EnsureSubDir(dirName string) (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getwd: %w", err)
	}

	dir := filepath.Join(cwd, dirName)

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// SanitizeName replaces every byte outside [A-Za-z0-9._-] with '_' so the
// result is safe inside an object key or a local path. Empty input becomes "file".
func SanitizeName(name string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '_', r == '-':
			return r
		default:
			return '_'
		}
	}, name)

	if len(safe) > maxNameLen {
		safe = safe[len(safe)-maxNameLen:]
	}
	if safe == "" || strings.Trim(safe, ".") == "" {
		return "file"
	}
	return safe
}

// LastSegment returns the part of an object key after the final '/'.
func LastSegment(key string) string {
	if i := strings.LastIndexByte(key, '/'); i >= 0 {
		return key[i+1:]
	}
	return key
}
