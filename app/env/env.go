// Package env reads environment variables and loads an optional .env file.
package env

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// ReadEnv returns the trimmed value of the first key that is set and non-blank.
func ReadEnv(keys ...string) string {
	for _, key := range keys {
		if val, ok := os.LookupEnv(key); ok && strings.TrimSpace(val) != "" {
			return strings.TrimSpace(val)
		}
	}
	return ""
}

// LoadDotEnv loads <repo root>/.env. Variables already present in the process
// environment win; a missing file is not an error.
func LoadDotEnv() error {
	return LoadDotEnvFrom(FindRepoRoot())
}

// LoadDotEnvFrom loads dir/.env with the same rules as LoadDotEnv.
func LoadDotEnvFrom(dir string) error {
	err := godotenv.Load(filepath.Join(dir, ".env"))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// FindRepoRoot walks up from the working directory to the first directory
// holding a go.mod. It falls back to the working directory.
func FindRepoRoot() string {
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	dir := wd
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return wd
		}
		dir = parent
	}
}
