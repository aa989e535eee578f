package config

import "strings"

// TrendingSource selects where the "trending now" list comes from.
// Sources are never merged.
type TrendingSource string

const (
	// TrendingAnalytics queries the GA4 Data API.
	TrendingAnalytics TrendingSource = "analytics"
	// TrendingLegacy scrapes the old PHP top-articles page.
	TrendingLegacy TrendingSource = "legacy"
	// TrendingNone renders an empty list.
	TrendingNone TrendingSource = "none"
)

// Trending defaults.
const (
	DefaultAnalyticsPropertyID = "272582946"
	DefaultAnalyticsKeyFile    = "./secrets/top-articles-analytics-17fb31d93929.json"
	DefaultLegacyTrendingURL   = "https://therapytips.org/analytics/fetch-top-articles.php"
)

// TrendingConfig configures the trending source.
type TrendingConfig struct {
	Source     TrendingSource `yaml:"source,omitempty"`
	PropertyID string         `yaml:"propertyID,omitempty"`
	KeyFile    string         `yaml:"keyFile,omitempty"`
	LegacyURL  string         `yaml:"legacyURL,omitempty"`
}

// DefaultTrendingConfig uses the analytics source.
func DefaultTrendingConfig() TrendingConfig {
	return TrendingConfig{
		Source:     TrendingAnalytics,
		PropertyID: DefaultAnalyticsPropertyID,
		KeyFile:    DefaultAnalyticsKeyFile,
		LegacyURL:  DefaultLegacyTrendingURL,
	}
}

// Validate checks the source name.
func (t TrendingConfig) Validate() error {
	switch t.Source {
	case TrendingAnalytics, TrendingLegacy, TrendingNone:
		return nil
	default:
		return ErrUnknownTrendingSource
	}
}

// VideoURLs are the YouTube watch URLs embedded on listing pages.
type VideoURLs struct {
	Landing          string   `yaml:"landing,omitempty"`
	Articles         string   `yaml:"articles,omitempty"`
	Interviews       string   `yaml:"interviews,omitempty"`
	Advice           string   `yaml:"advice,omitempty"`
	PersonalityTests string   `yaml:"personalityTests,omitempty"`
	Extra            []string `yaml:"extra,omitempty"`
}

// FeaturedSlugs are the hand-picked articles on the landing page.
type FeaturedSlugs struct {
	Articles         []string `yaml:"articles,omitempty"`
	Interviews       []string `yaml:"interviews,omitempty"`
	Advice           []string `yaml:"advice,omitempty"`
	PersonalityTests []string `yaml:"personalityTests,omitempty"`
}

// Paths overrides the working directories of a build.
type Paths struct {
	Output    string `yaml:"output,omitempty"`
	Assets    string `yaml:"assets,omitempty"`
	Photos    string `yaml:"photos,omitempty"`
	Templates string `yaml:"templates,omitempty"`
}

// SiteFile represents the .tipsgen.yaml site file.
type SiteFile struct {
	SiteURL  string         `yaml:"siteURL,omitempty"`
	Featured FeaturedSlugs  `yaml:"featured,omitempty"`
	Videos   VideoURLs      `yaml:"videos,omitempty"`
	Trending TrendingConfig `yaml:"trending,omitempty"`
	Paths    Paths          `yaml:"paths,omitempty"`
}

// DefaultSiteFile returns the lists the production site ships with.
func DefaultSiteFile() *SiteFile {
	return &SiteFile{
		SiteURL: DefaultSiteURL,
		Featured: FeaturedSlugs{
			Articles: []string{
				"a-psychologist-explains-the-surprising-link-between-skipping-breakfast-and-depression",
				"3-reasons-why-you-cant-stop-thinking-about-your-ex",
				"3-ways-your-beliefs-about-sex-affect-your-relationships",
				"4-types-of-teen-anger-and-what-they-actually-mean",
			},
			Interviews: []string{
				"university-of-cologne-research-explores-how-parenthood-contributes-to-more-meaning-in-life",
				"new-research-explains-the-role-of-future-anxiety-in-delayed-parenthood",
				"a-successful-entrepreneur-explains-what-it-takes-to-reinvent-yourself",
				"azusa-pacific-university-researchers-reveal-the-psychological-driving-forces-behind-the-ick",
			},
			Advice: []string{
				"3-surprising-benefits-of-a-reverse-bucket-list",
				"3-emotionally-nourishing-shifts-to-make-your-day-more-fulfilling",
			},
			PersonalityTests: []string{
				"codependency-scale",
				"beck-depression-inventory",
			},
		},
		Videos: VideoURLs{
			Landing:          "https://www.youtube.com/watch?v=-4u-egrCw1A",
			Articles:         "https://www.youtube.com/watch?v=XrcXYrU_ETg",
			Interviews:       "https://www.youtube.com/watch?v=s2TUkAnUXt0",
			Advice:           "https://www.youtube.com/watch?v=bqHVTUFGQao",
			PersonalityTests: "https://www.youtube.com/watch?v=mu2tbABwVcA",
			Extra: []string{
				"https://www.youtube.com/watch?v=IaJmyY1rjs8",
				"https://www.youtube.com/watch?v=EFC_IolRbh0",
			},
		},
		Trending: DefaultTrendingConfig(),
	}
}

// mergeOver fills every unset field of f from defaults.
func (f *SiteFile) mergeOver(defaults *SiteFile) {
	if strings.TrimSpace(f.SiteURL) == "" {
		f.SiteURL = defaults.SiteURL
	}
	f.SiteURL = strings.TrimRight(f.SiteURL, "/")

	fillList(&f.Featured.Articles, defaults.Featured.Articles)
	fillList(&f.Featured.Interviews, defaults.Featured.Interviews)
	fillList(&f.Featured.Advice, defaults.Featured.Advice)
	fillList(&f.Featured.PersonalityTests, defaults.Featured.PersonalityTests)

	fillString(&f.Videos.Landing, defaults.Videos.Landing)
	fillString(&f.Videos.Articles, defaults.Videos.Articles)
	fillString(&f.Videos.Interviews, defaults.Videos.Interviews)
	fillString(&f.Videos.Advice, defaults.Videos.Advice)
	fillString(&f.Videos.PersonalityTests, defaults.Videos.PersonalityTests)
	fillList(&f.Videos.Extra, defaults.Videos.Extra)

	if f.Trending.Source == "" {
		f.Trending.Source = defaults.Trending.Source
	}
	f.Trending.Source = TrendingSource(strings.ToLower(string(f.Trending.Source)))
	fillString(&f.Trending.PropertyID, defaults.Trending.PropertyID)
	fillString(&f.Trending.KeyFile, defaults.Trending.KeyFile)
	fillString(&f.Trending.LegacyURL, defaults.Trending.LegacyURL)
}

func fillString(dst *string, def string) {
	if strings.TrimSpace(*dst) == "" {
		*dst = def
	}
}

func fillList(dst *[]string, def []string) {
	if len(*dst) == 0 {
		*dst = append([]string(nil), def...)
	}
}

// Apply copies the site file's settings into cfg.
func (f *SiteFile) Apply(cfg *Config) {
	cfg.Site = f
	cfg.Trending = f.Trending
	if f.Paths.Output != "" {
		cfg.OutputRoot = f.Paths.Output
	}
	if f.Paths.Assets != "" {
		cfg.AssetsDir = f.Paths.Assets
	}
	if f.Paths.Photos != "" {
		cfg.PhotosDir = f.Paths.Photos
	}
	if f.Paths.Templates != "" {
		cfg.TemplatesDir = f.Paths.Templates
	}
}
