package aggregate

import (
	"time"

	"github.com/therapytips/tipsgen/internal/config"
	"github.com/therapytips/tipsgen/internal/model"
)

// List sizes and windows used by the site.
const (
	DefaultLatestLimit      = 12
	DefaultLatestTestsLimit = 16
	DefaultDetailLimit      = 10
	// DefaultAuthorConcurrency bounds the author lookups in flight.
	DefaultAuthorConcurrency = 8
	// DefaultRecentWindow bounds the "latest" articles and advice lists.
	DefaultRecentWindow = 60 * 24 * time.Hour
)

// dateLayout is the API's date_from / date_to format.
const dateLayout = "2006-01-02"

// Plan describes what one build fetches.
type Plan struct {
	Featured map[model.ContentType][]string
	Videos   config.VideoURLs

	LatestLimit      int
	LatestTestsLimit int
	DetailLimit      int
	RecentWindow     time.Duration

	// AuthorConcurrency bounds author lookups; <= 0 means unbounded.
	AuthorConcurrency int
}

// DefaultPlan returns the plan of the production site.
func DefaultPlan() Plan {
	return PlanFromSite(config.DefaultSiteFile())
}

// PlanFromSite builds a plan from a site file.
func PlanFromSite(f *config.SiteFile) Plan {
	if f == nil {
		f = config.DefaultSiteFile()
	}
	return Plan{
		Featured: map[model.ContentType][]string{
			model.ContentArticles:         f.Featured.Articles,
			model.ContentInterviews:       f.Featured.Interviews,
			model.ContentAdvice:           f.Featured.Advice,
			model.ContentPersonalityTests: f.Featured.PersonalityTests,
		},
		Videos:            f.Videos,
		LatestLimit:       DefaultLatestLimit,
		LatestTestsLimit:  DefaultLatestTestsLimit,
		DetailLimit:       DefaultDetailLimit,
		RecentWindow:      DefaultRecentWindow,
		AuthorConcurrency: DefaultAuthorConcurrency,
	}
}

// latestQueries returns the "latest" list query of each content type.
func (p Plan) latestQueries(now time.Time) map[model.ContentType]model.SearchParams {
	dateTo := now.Format(dateLayout)
	dateFrom := now.Add(-p.RecentWindow).Format(dateLayout)

	return map[model.ContentType]model.SearchParams{
		model.ContentArticles: {
			Limit:       p.LatestLimit,
			ArticleType: model.ContentArticles,
			DateFrom:    dateFrom,
			DateTo:      dateTo,
		},
		model.ContentInterviews: {
			Limit:       p.LatestLimit,
			ArticleType: model.ContentInterviews,
			Sort:        model.SortPublicationDateDesc,
		},
		model.ContentAdvice: {
			Limit:       p.LatestLimit,
			ArticleType: model.ContentAdvice,
			DateFrom:    dateFrom,
			DateTo:      dateTo,
		},
		model.ContentPersonalityTests: {
			Limit:       p.LatestTestsLimit,
			ArticleType: model.ContentPersonalityTests,
		},
	}
}

// detailQuery returns the query for the articles that get their own page.
func (p Plan) detailQuery(t model.ContentType) model.SearchParams {
	return model.SearchParams{
		Limit:       p.DetailLimit,
		ArticleType: t,
		Sort:        model.SortPublicationDateDesc,
	}
}
