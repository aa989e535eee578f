package aggregate

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/therapytips/tipsgen/internal/fanout"
	"github.com/therapytips/tipsgen/internal/model"
	"github.com/therapytips/tipsgen/internal/trending"
)

// ArticleAPI is the part of the content API the aggregator reads.
type ArticleAPI interface {
	Articles(ctx context.Context, params model.SearchParams) ([]model.Article, error)
	ArticleBySlug(ctx context.Context, slug string) (model.Article, error)
	Author(ctx context.Context, id int) (model.Author, error)
	PersonalityTestQuestions(ctx context.Context, articleID int) (model.PersonalityTestQuestions, error)
}

// VideoSource resolves a watch URL to metadata, or nil.
type VideoSource interface {
	Video(ctx context.Context, watchURL string) *model.Video
}

// Aggregator gathers everything one build renders.
type Aggregator struct {
	api      ArticleAPI
	videos   VideoSource
	trending trending.Source
	plan     Plan
	now      func() time.Time
	logger   *slog.Logger
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithClock replaces time.Now for the date windows.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		a.now = now
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Aggregator) {
		a.logger = logger
	}
}

// New creates an Aggregator. A nil trending source yields an empty list.
func New(api ArticleAPI, videos VideoSource, src trending.Source, plan Plan, opts ...Option) *Aggregator {
	if src == nil {
		src = trending.NoopSource{}
	}
	a := &Aggregator{
		api:      api,
		videos:   videos,
		trending: src,
		plan:     plan,
		now:      time.Now,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Aggregate fetches the whole site. Phases run in order and the fetches
// inside a phase run concurrently. Video and author failures degrade the
// page; every other failure aborts.
func (a *Aggregator) Aggregate(ctx context.Context) (*model.Site, error) {
	site := model.NewSite()

	phases := []struct {
		name string
		run  func(context.Context, *model.Site) error
	}{
		{"videos", a.fetchVideos},
		{"featured", a.fetchFeatured},
		{"trending", a.fetchTrending},
		{"latest", a.fetchLatest},
		{"details", a.fetchDetails},
		{"questions", a.fetchQuestions},
		{"authors", a.fetchAuthors},
	}

	for _, phase := range phases {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start := time.Now()
		if err := phase.run(ctx, site); err != nil {
			return nil, fmt.Errorf("%s: %w", phase.name, err)
		}
		a.logger.Debug("aggregation phase done", "phase", phase.name, "elapsed", time.Since(start))
	}

	site.FetchedAt = a.now()
	return site, nil
}

func (a *Aggregator) fetchVideos(ctx context.Context, site *model.Site) error {
	v := a.plan.Videos
	urls := append([]string{v.Landing, v.Articles, v.Interviews, v.Advice, v.PersonalityTests}, v.Extra...)

	videos, err := fanout.Each(ctx, urls, func(ctx context.Context, u string) (*model.Video, error) {
		if a.videos == nil {
			return nil, nil
		}
		return a.videos.Video(ctx, u), nil
	})
	if err != nil {
		return err
	}

	site.Videos = model.PageVideos{
		Landing:          videos[0],
		Articles:         videos[1],
		Interviews:       videos[2],
		Advice:           videos[3],
		PersonalityTests: videos[4],
		Extra:            videos[5:],
	}
	if n := site.Videos.Unavailable(); n > 0 {
		a.logger.Warn("some videos are unavailable", "count", n)
	}
	return nil
}

func (a *Aggregator) fetchFeatured(ctx context.Context, site *model.Site) error {
	types := model.ContentTypes
	lists, err := fanout.Each(ctx, types, func(ctx context.Context, t model.ContentType) ([]model.Article, error) {
		return fanout.Each(ctx, a.plan.Featured[t], a.api.ArticleBySlug)
	})
	if err != nil {
		return err
	}
	for i, t := range types {
		site.Featured[t] = lists[i]
	}
	return nil
}

func (a *Aggregator) fetchTrending(ctx context.Context, site *model.Site) error {
	items, err := a.trending.Top(ctx)
	if err != nil {
		return err
	}
	if items == nil {
		items = []model.TrendingItem{}
	}
	site.Trending = items
	return nil
}

func (a *Aggregator) fetchLatest(ctx context.Context, site *model.Site) error {
	queries := a.plan.latestQueries(a.now())
	types := model.ContentTypes
	tasks := make([]fanout.Task[[]model.Article], len(types))
	for i, t := range types {
		query := queries[t]
		tasks[i] = func(ctx context.Context) ([]model.Article, error) {
			return a.api.Articles(ctx, query)
		}
	}
	lists, err := fanout.All(ctx, tasks...)
	if err != nil {
		return err
	}
	for i, t := range types {
		site.Latest[t] = lists[i]
	}
	return nil
}

// fetchDetails keeps at most DetailLimit articles per type even when the
// server ignores the limit parameter.
func (a *Aggregator) fetchDetails(ctx context.Context, site *model.Site) error {
	types := model.ContentTypes
	lists, err := fanout.Each(ctx, types, func(ctx context.Context, t model.ContentType) ([]model.Article, error) {
		return a.api.Articles(ctx, a.plan.detailQuery(t))
	})
	if err != nil {
		return err
	}
	for i, t := range types {
		list := lists[i]
		if limit := a.plan.DetailLimit; limit > 0 && len(list) > limit {
			a.logger.Debug("dropping detail articles over the limit", "type", t, "got", len(list), "limit", limit)
			list = list[:limit]
		}
		pages := make([]model.DetailPage, len(list))
		for j, article := range list {
			pages[j] = model.DetailPage{Article: article}
		}
		site.Details[t] = pages
	}
	return nil
}

func (a *Aggregator) fetchQuestions(ctx context.Context, site *model.Site) error {
	pages := site.Details[model.ContentPersonalityTests]
	sets, err := fanout.Each(ctx, pages, func(ctx context.Context, p model.DetailPage) (model.QuestionSet, error) {
		q, err := a.api.PersonalityTestQuestions(ctx, p.Article.ID)
		if err != nil {
			return nil, err
		}
		return q.Questions, nil
	})
	if err != nil {
		return err
	}
	for i := range pages {
		pages[i].Questions = sets[i]
	}
	return nil
}

type authorResult struct {
	author   model.Author
	resolved bool
}

// fetchAuthors never fails: an unresolved author becomes the placeholder.
// At most AuthorConcurrency lookups run at once.
func (a *Aggregator) fetchAuthors(ctx context.Context, site *model.Site) error {
	for _, t := range model.ContentTypes {
		pages := site.Details[t]
		tasks := make([]fanout.Task[authorResult], len(pages))
		for i := range pages {
			article := pages[i].Article
			tasks[i] = func(ctx context.Context) (authorResult, error) {
				return a.resolveAuthor(ctx, article), nil
			}
		}
		results, err := fanout.Limit(ctx, a.plan.AuthorConcurrency, tasks...)
		if err != nil {
			return err
		}
		for i := range pages {
			pages[i].Author = results[i].author
			pages[i].AuthorResolved = results[i].resolved
		}
	}
	return nil
}

func (a *Aggregator) resolveAuthor(ctx context.Context, article model.Article) authorResult {
	if !article.HasAuthor() {
		return authorResult{author: model.PlaceholderAuthor(article)}
	}
	author, err := a.api.Author(ctx, *article.AuthorID)
	if err != nil {
		a.logger.Warn("failed to fetch author, using placeholder",
			"author_id", *article.AuthorID, "slug", article.Slug, "error", err)
		return authorResult{author: model.PlaceholderAuthor(article)}
	}
	return authorResult{author: author, resolved: true}
}
