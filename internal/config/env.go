package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables overriding config file values.
const (
	EnvDataFile    = "WORDCRAM_DATA_FILE"
	EnvHistoryFile = "WORDCRAM_HISTORY_DB"
)

// LoadDotEnv loads variables from the given .env files into the process
// environment without overriding variables that are already set. Missing
// files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
	}
	return nil
}

// EnvString returns the trimmed value of an environment variable, or nil
// when it is unset or blank.
func EnvString(name string) *string {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return nil
	}
	return &v
}
