package config

import (
	"errors"
	"fmt"
	"strings"
)

// Configuration errors. Callers match them with errors.Is.
var (
	// ErrInvalidEnvironment is returned for an environment other than dev, stage or prod.
	ErrInvalidEnvironment = errors.New("invalid environment: must be one of dev, stage, prod")

	// ErrNoEnvironment is returned when no build target was resolved.
	ErrNoEnvironment = errors.New("no environment to build")

	// ErrEmptyOutputRoot is returned when the output root is blank.
	ErrEmptyOutputRoot = errors.New("invalid output root: must not be empty")

	// ErrEmptyHistoryDir is returned when history is enabled without a directory.
	ErrEmptyHistoryDir = errors.New("invalid history directory: must not be empty when history is enabled")

	// ErrMissingFTPConfig is returned when required FTP variables are unset.
	ErrMissingFTPConfig = errors.New("missing FTP configuration")

	// ErrBuildDirNotFound is returned when uploading an environment that was never built.
	ErrBuildDirNotFound = errors.New("build directory not found")

	// ErrUnknownTrendingSource is returned for a trending source other than analytics, legacy or none.
	ErrUnknownTrendingSource = errors.New("unknown trending source: must be one of analytics, legacy, none")

	// ErrInvalidPort is returned for an FTP port outside 1-65535.
	ErrInvalidPort = errors.New("invalid FTP port: must be between 1 and 65535")
)

// InvalidEnvironmentError reports the rejected environment value.
type InvalidEnvironmentError struct {
	Value string
}

func (e *InvalidEnvironmentError) Error() string {
	return fmt.Sprintf("invalid environment %q: must be one of dev, stage, prod", e.Value)
}

// Is makes the error match ErrInvalidEnvironment.
func (e *InvalidEnvironmentError) Is(target error) bool {
	return target == ErrInvalidEnvironment
}

// MissingConfigError lists the required variables that are unset.
type MissingConfigError struct {
	Names []string
}

func (e *MissingConfigError) Error() string {
	return "missing required FTP configuration: " + strings.Join(e.Names, ", ")
}

// Is makes the error match ErrMissingFTPConfig.
func (e *MissingConfigError) Is(target error) bool {
	return target == ErrMissingFTPConfig
}
