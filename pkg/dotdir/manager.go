// Package dotdir manages the .lectern/ and ~/.lectern directories.
//
// The directory holds the persistent configuration file (config.toml) and,
// by default, the on-disk vector index artifact produced by "lectern index".
package dotdir

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// dirName is the name of the lectern directory.
	dirName = ".lectern"

	// IndexFileName is the default file name for the sqlite-vec index
	// artifact inside the lectern directory.
	IndexFileName = "index.db"
)

type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

// Target returns the target absolute path to a .lectern/ directory.
// Order of precedence is as follows:
//  1. Provided override
//  2. Local ./.lectern/ dir
//  3. Home ~/.lectern/ dir
//  4. If none found, attempt to create ~/.lectern/ dir
func (m *Manager) Target(overrideDir string) (string, error) {
	var dir string

	switch {
	case overrideDir != "":
		dir = overrideDir

	case m.localDirExists():
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getting current directory: %w", err)
		}
		dir = filepath.Join(cwd, dirName)

	default:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, dirName)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating lectern directory %s: %w", dir, err)
	}

	return filepath.Abs(dir)
}

// IndexPath returns the default path to the sqlite-vec index artifact.
func (m *Manager) IndexPath(overrideDir string) (string, error) {
	target, err := m.Target(overrideDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(target, IndexFileName), nil
}

// localDirExists checks whether a .lectern/ directory exists in the current
// working directory.
func (m *Manager) localDirExists() bool {
	cwd, err := os.Getwd()
	if err != nil {
		return false
	}

	info, err := os.Stat(filepath.Join(cwd, dirName))
	return err == nil && info.IsDir()
}
