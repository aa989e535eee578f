package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Environment variable names read by tipsgen.
const (
	EnvNodeEnv        = "NODE_ENV"
	EnvBuildEnv       = "BUILD_ENV"
	EnvAPIBaseURL     = "API_BASE_URL"
	EnvCopyPhotos     = "COPY_PHOTOS"
	EnvIncludePhotos  = "INCLUDE_PHOTOS"
	EnvYouTubeAPIKey  = "YT_API_KEY"
	EnvGAPropertyID   = "GA_PROPERTY_ID"
	EnvGAKeyFile      = "GA_KEY_FILE"
	EnvTrendingSource = "TRENDING_SOURCE"
	EnvTemplatesDir   = "TIPSGEN_TEMPLATES_DIR"

	EnvFTPHost       = "FTP_HOST"
	EnvFTPPort       = "FTP_PORT"
	EnvFTPUser       = "FTP_USER"
	EnvFTPPassword   = "FTP_PASSWORD"
	EnvFTPRemotePath = "FTP_REMOTE_PATH"
	EnvFTPSecure     = "FTP_SECURE"
)

// NewViper returns a viper instance backed by the process environment.
func NewViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault(EnvFTPPort, DefaultFTPPort)
	return v
}

// ReadDotEnv merges a dotenv file beneath the process environment.
// A missing file is not an error.
func ReadDotEnv(v *viper.Viper, path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	v.SetConfigFile(path)
	v.SetConfigType("env")
	if err := v.MergeInConfig(); err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	return nil
}

// ParseEnvironment accepts the short names and the NODE_ENV style long names.
func ParseEnvironment(s string) (Environment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dev", "development":
		return EnvDev, nil
	case "stage", "staging":
		return EnvStage, nil
	case "prod", "production":
		return EnvProd, nil
	default:
		return "", &InvalidEnvironmentError{Value: s}
	}
}

// ResolveEnvironments decides which environments to build.
//
// The --env flag wins, then NODE_ENV or BUILD_ENV, then the shape of
// API_BASE_URL. When nothing identifies an environment every environment
// is built in order.
func ResolveEnvironments(flagValue string, v *viper.Viper) ([]Environment, error) {
	if flagValue != "" {
		switch Environment(flagValue) {
		case EnvDev, EnvStage, EnvProd:
			return []Environment{Environment(flagValue)}, nil
		default:
			return nil, &InvalidEnvironmentError{Value: flagValue}
		}
	}

	for _, key := range []string{EnvNodeEnv, EnvBuildEnv} {
		if raw := v.GetString(key); raw != "" {
			if env, err := ParseEnvironment(raw); err == nil {
				return []Environment{env}, nil
			}
		}
	}

	if env, ok := environmentFromAPIURL(v.GetString(EnvAPIBaseURL)); ok {
		return []Environment{env}, nil
	}

	return append([]Environment(nil), Environments...), nil
}

// environmentFromAPIURL guesses the environment from a base URL.
func environmentFromAPIURL(api string) (Environment, bool) {
	switch {
	case api == "":
		return "", false
	case strings.Contains(api, "localhost") || strings.Contains(api, "3000"):
		return EnvDev, true
	case strings.Contains(api, "staging"):
		return EnvStage, true
	case strings.Contains(api, "api.therapytips.org"):
		return EnvProd, true
	default:
		return "", false
	}
}

// CopyPhotosFromEnv reports whether COPY_PHOTOS or INCLUDE_PHOTOS is "true".
func CopyPhotosFromEnv(v *viper.Viper) bool {
	return v.GetString(EnvCopyPhotos) == "true" || v.GetString(EnvIncludePhotos) == "true"
}

// ApplyEnv copies environment-provided settings into cfg.
func ApplyEnv(cfg *Config, v *viper.Viper) {
	cfg.APIBaseURL = strings.TrimSpace(v.GetString(EnvAPIBaseURL))
	cfg.YouTubeAPIKey = v.GetString(EnvYouTubeAPIKey)
	if dir := v.GetString(EnvTemplatesDir); dir != "" {
		cfg.TemplatesDir = dir
	}
	if src := v.GetString(EnvTrendingSource); src != "" {
		cfg.Trending.Source = TrendingSource(strings.ToLower(src))
	}
	if id := v.GetString(EnvGAPropertyID); id != "" {
		cfg.Trending.PropertyID = id
	}
	if key := v.GetString(EnvGAKeyFile); key != "" {
		cfg.Trending.KeyFile = key
	}
	if CopyPhotosFromEnv(v) {
		cfg.CopyPhotos = true
	}
}
