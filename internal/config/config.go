package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "tipsgen"

	// DefaultOutputRoot is the directory holding one subdirectory per environment.
	DefaultOutputRoot = "builds"

	// DefaultAssetsDir holds css/style.css and images/.
	DefaultAssetsDir = "assets"

	// DefaultPhotosDir is copied into the build only when photos are opted in.
	DefaultPhotosDir = "photos"

	// DefaultSiteURL prefixes trending links.
	DefaultSiteURL = "https://therapytips.org"

	// DefaultUserAgent identifies the generator to the content API.
	DefaultUserAgent = "tipsgen/1.0 (+https://therapytips.org)"
)

// Environment is a named deployment target.
type Environment string

const (
	// EnvDev builds against a local API without minification.
	EnvDev Environment = "dev"
	// EnvStage builds against the staging API.
	EnvStage Environment = "stage"
	// EnvProd builds against the production API without debug output.
	EnvProd Environment = "prod"
)

// Environments lists every environment in the order a full build runs them.
var Environments = []Environment{EnvDev, EnvStage, EnvProd}

// String returns the short environment name.
func (e Environment) String() string {
	return string(e)
}

// Valid reports whether e is a known environment.
func (e Environment) Valid() bool {
	switch e {
	case EnvDev, EnvStage, EnvProd:
		return true
	default:
		return false
	}
}

// DefaultAPIBaseURL is the content API used when API_BASE_URL is unset.
func (e Environment) DefaultAPIBaseURL() string {
	switch e {
	case EnvStage:
		return "https://staging-api.therapytips.org"
	case EnvProd:
		return "https://api.therapytips.org"
	default:
		return "http://localhost:3000"
	}
}

// MinifyAssets reports whether output for e is minified.
func (e Environment) MinifyAssets() bool {
	return e != EnvDev
}

// IncludeDebugInfo reports whether pages for e carry build information.
func (e Environment) IncludeDebugInfo() bool {
	return e != EnvProd
}

// DotEnvFile is the dotenv file read by the upload command for e.
func (e Environment) DotEnvFile() string {
	switch e {
	case EnvStage:
		return ".env.staging"
	case EnvProd:
		return ".env.production"
	default:
		return ".env.development"
	}
}

// DefaultRemotePath is the FTP destination used when FTP_REMOTE_PATH is unset.
func (e Environment) DefaultRemotePath() string {
	if e == EnvProd {
		return "/"
	}
	return "/" + string(e)
}

// BuildConfig is the immutable configuration of one environment's build.
type BuildConfig struct {
	Environment      Environment
	APIBaseURL       string
	MinifyAssets     bool
	IncludeDebugInfo bool
	CopyPhotos       bool
}

// Config holds the options of one tipsgen invocation. It is populated from
// flags, the process environment and the site file, then passed down
// explicitly.
type Config struct {
	// Environments are the build targets, built one after another.
	Environments []Environment

	// APIBaseURL overrides every environment's default API when set.
	APIBaseURL string

	// CopyPhotos copies the photos directory into each build.
	CopyPhotos bool

	OutputRoot   string
	AssetsDir    string
	PhotosDir    string
	TemplatesDir string

	// YouTubeAPIKey authenticates video metadata requests.
	// Without it every video renders as unavailable.
	YouTubeAPIKey string

	// Trending selects and configures the trending source.
	Trending TrendingConfig

	// Site holds featured lists and video URLs from the site file.
	Site *SiteFile

	// ConfigFilePath is the explicit site file path, if any.
	ConfigFilePath string

	// ReportFile receives a Markdown build report when set.
	ReportFile string

	// HistoryDir is where the build history database lives.
	HistoryDir string

	// SaveHistory records builds and uploads in the history database.
	SaveHistory bool

	UserAgent string
	Verbose   bool
}

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	return &Config{
		OutputRoot:  DefaultOutputRoot,
		AssetsDir:   DefaultAssetsDir,
		PhotosDir:   DefaultPhotosDir,
		Site:        DefaultSiteFile(),
		Trending:    DefaultTrendingConfig(),
		HistoryDir:  XDGDataDir(),
		SaveHistory: true,
		UserAgent:   DefaultUserAgent,
	}
}

// BuildConfig derives the per-environment build configuration.
func (c *Config) BuildConfig(env Environment) BuildConfig {
	api := c.APIBaseURL
	if api == "" {
		api = env.DefaultAPIBaseURL()
	}
	return BuildConfig{
		Environment:      env,
		APIBaseURL:       api,
		MinifyAssets:     env.MinifyAssets(),
		IncludeDebugInfo: env.IncludeDebugInfo(),
		CopyPhotos:       c.CopyPhotos,
	}
}

// OutputDir returns the build directory of env.
func (c *Config) OutputDir(env Environment) string {
	return filepath.Join(c.OutputRoot, string(env))
}

// Validate checks the configuration before any filesystem write.
func (c *Config) Validate() error {
	if len(c.Environments) == 0 {
		return ErrNoEnvironment
	}
	for _, env := range c.Environments {
		if !env.Valid() {
			return &InvalidEnvironmentError{Value: string(env)}
		}
	}
	if c.OutputRoot == "" {
		return ErrEmptyOutputRoot
	}
	if c.SaveHistory && c.HistoryDir == "" {
		return ErrEmptyHistoryDir
	}
	return c.Trending.Validate()
}

// XDGDataDir returns the XDG data directory for tipsgen.
// On Linux: ~/.local/share/tipsgen
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}
