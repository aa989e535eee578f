package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default site file name.
const DefaultConfigFile = ".tipsgen.yaml"

// ErrConfigNotFound is returned when the site file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// LoadSiteFile loads a site file and fills unset fields with the defaults.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadSiteFile(path string) (*SiteFile, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var f SiteFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	f.mergeOver(DefaultSiteFile())

	return &f, nil
}

// FindConfigFile searches for the site file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .tipsgen.yaml in the current directory
// 3. Look for .tipsgen.yaml in the user's home directory
//
// Returns the path to the site file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	if cwd, err := os.Getwd(); err == nil {
		candidate := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		candidate := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return ""
}
