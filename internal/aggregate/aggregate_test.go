package aggregate

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/therapytips/tipsgen/internal/config"
	"github.com/therapytips/tipsgen/internal/model"
)

type fakeAPI struct {
	mu       sync.Mutex
	queries  []model.SearchParams
	authors  []int
	slugErr  error
	listErr  error
	authErr  map[int]error
	qErr     error
	perType  int
	noAuthor bool

	authorDelay time.Duration
	inFlight    int
	maxInFlight int
}

func (f *fakeAPI) Articles(_ context.Context, p model.SearchParams) ([]model.Article, error) {
	f.mu.Lock()
	f.queries = append(f.queries, p)
	f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}

	n := f.perType
	if n == 0 {
		n = 2
	}
	out := make([]model.Article, n)
	for i := range out {
		id := i + 1
		a := model.Article{
			ID:          id,
			Slug:        fmt.Sprintf("%s-%d", p.ArticleType, id),
			ArticleType: p.ArticleType,
			AuthorName:  "Inline Name",
		}
		if !f.noAuthor {
			a.AuthorID = &id
		}
		out[i] = a
	}
	return out, nil
}

func (f *fakeAPI) ArticleBySlug(_ context.Context, slug string) (model.Article, error) {
	if f.slugErr != nil {
		return model.Article{}, f.slugErr
	}
	return model.Article{Slug: slug}, nil
}

func (f *fakeAPI) Author(_ context.Context, id int) (model.Author, error) {
	f.mu.Lock()
	f.authors = append(f.authors, id)
	f.inFlight++
	f.maxInFlight = max(f.maxInFlight, f.inFlight)
	f.mu.Unlock()

	time.Sleep(f.authorDelay)

	f.mu.Lock()
	f.inFlight--
	f.mu.Unlock()
	if err := f.authErr[id]; err != nil {
		return model.Author{}, err
	}
	return model.Author{ID: id, Name: fmt.Sprintf("Author %d", id)}, nil
}

func (f *fakeAPI) PersonalityTestQuestions(_ context.Context, id int) (model.PersonalityTestQuestions, error) {
	if f.qErr != nil {
		return model.PersonalityTestQuestions{}, f.qErr
	}
	return model.PersonalityTestQuestions{
		ArticleID: id,
		Questions: model.QuestionSet{{Key: "1", Text: fmt.Sprintf("q for %d", id)}},
	}, nil
}

type fakeVideos struct {
	missing map[string]bool
}

func (f fakeVideos) Video(_ context.Context, u string) *model.Video {
	if f.missing[u] {
		return nil
	}
	return &model.Video{URL: u}
}

type fakeTrending struct {
	items []model.TrendingItem
	err   error
}

func (f fakeTrending) Name() string { return "fake" }

func (f fakeTrending) Top(context.Context) ([]model.TrendingItem, error) {
	return f.items, f.err
}

var fixedNow = time.Date(2025, time.March, 15, 10, 0, 0, 0, time.UTC)

func newTestAggregator(api *fakeAPI, videos fakeVideos, tr fakeTrending) *Aggregator {
	return New(api, videos, tr, DefaultPlan(), WithClock(func() time.Time { return fixedNow }))
}

// TestAggregate tests the full aggregation.
func TestAggregate(t *testing.T) {
	t.Parallel()

	t.Run("builds every list", func(t *testing.T) {
		t.Parallel()

		api := &fakeAPI{}
		tr := fakeTrending{items: []model.TrendingItem{{Title: "Top", Views: 10}}}
		site, err := newTestAggregator(api, fakeVideos{}, tr).Aggregate(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		plan := DefaultPlan()
		for _, ct := range model.ContentTypes {
			if got, want := len(site.Featured[ct]), len(plan.Featured[ct]); got != want {
				t.Errorf("%s: expected %d featured, got %d", ct, want, got)
			}
			if len(site.Latest[ct]) != 2 {
				t.Errorf("%s: expected 2 latest, got %d", ct, len(site.Latest[ct]))
			}
			if len(site.Details[ct]) != 2 {
				t.Errorf("%s: expected 2 details, got %d", ct, len(site.Details[ct]))
			}
		}
		if site.Featured[model.ContentArticles][0].Slug != plan.Featured[model.ContentArticles][0] {
			t.Error("featured articles must keep slug order")
		}
		if len(site.Trending) != 1 {
			t.Errorf("expected trending items, got %v", site.Trending)
		}
		if site.Videos.Unavailable() != 0 || len(site.Videos.Extra) != 2 {
			t.Errorf("unexpected videos %+v", site.Videos)
		}
		if !site.FetchedAt.Equal(fixedNow) {
			t.Errorf("unexpected fetch time %v", site.FetchedAt)
		}

		tests := site.Details[model.ContentPersonalityTests]
		if len(tests[0].Questions) != 1 || tests[0].Questions[0].Text != "q for 1" {
			t.Errorf("unexpected questions %+v", tests[0].Questions)
		}
		if site.Details[model.ContentArticles][0].Questions != nil {
			t.Error("only personality tests carry questions")
		}
		if a := site.Details[model.ContentAdvice][1]; !a.AuthorResolved || a.Author.Name != "Author 2" {
			t.Errorf("unexpected author %+v", a.Author)
		}
	})

	t.Run("latest queries use the date window and limits", func(t *testing.T) {
		t.Parallel()

		api := &fakeAPI{}
		if _, err := newTestAggregator(api, fakeVideos{}, fakeTrending{}).Aggregate(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var sawArticles, sawTests, sawInterviews bool
		for _, q := range api.queries {
			switch {
			case q.ArticleType == model.ContentArticles && q.DateFrom != "":
				sawArticles = true
				if q.DateTo != "2025-03-15" || q.DateFrom != "2025-01-14" || q.Limit != 12 {
					t.Errorf("unexpected articles query %+v", q)
				}
			case q.ArticleType == model.ContentPersonalityTests && q.Limit == 16:
				sawTests = true
			case q.ArticleType == model.ContentInterviews && q.Limit == 12:
				sawInterviews = true
				if q.Sort != model.SortPublicationDateDesc {
					t.Errorf("unexpected interviews query %+v", q)
				}
			case q.Limit == 10 && q.Sort != model.SortPublicationDateDesc:
				t.Errorf("detail query must sort newest first: %+v", q)
			}
		}
		if !sawArticles || !sawTests || !sawInterviews {
			t.Errorf("missing latest queries: %+v", api.queries)
		}
	})

	t.Run("author failure falls back to the placeholder", func(t *testing.T) {
		t.Parallel()

		api := &fakeAPI{authErr: map[int]error{1: errors.New("author gone")}}
		site, err := newTestAggregator(api, fakeVideos{}, fakeTrending{}).Aggregate(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		page := site.Details[model.ContentArticles][0]
		if page.AuthorResolved || page.Author.Name != "Inline Name" {
			t.Errorf("expected placeholder author, got %+v", page)
		}
	})

	t.Run("articles without an author id are not looked up", func(t *testing.T) {
		t.Parallel()

		api := &fakeAPI{noAuthor: true}
		site, err := newTestAggregator(api, fakeVideos{}, fakeTrending{}).Aggregate(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(api.authors) != 0 {
			t.Errorf("expected no author requests, got %v", api.authors)
		}
		if site.Details[model.ContentInterviews][0].Author.Name != "Inline Name" {
			t.Error("expected inline author name")
		}
	})

	t.Run("missing videos stay nil", func(t *testing.T) {
		t.Parallel()

		plan := DefaultPlan()
		videos := fakeVideos{missing: map[string]bool{plan.Videos.Landing: true, plan.Videos.Extra[1]: true}}
		site, err := newTestAggregator(&fakeAPI{}, videos, fakeTrending{}).Aggregate(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if site.Videos.Landing != nil || site.Videos.Extra[1] != nil || site.Videos.Extra[0] == nil {
			t.Errorf("unexpected videos %+v", site.Videos)
		}
	})

	t.Run("nil trending list becomes empty", func(t *testing.T) {
		t.Parallel()

		site, err := newTestAggregator(&fakeAPI{}, fakeVideos{}, fakeTrending{}).Aggregate(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if site.Trending == nil {
			t.Error("expected empty non-nil trending list")
		}
	})
}

// TestAggregateLimits tests the caps applied to server responses.
func TestAggregateLimits(t *testing.T) {
	t.Parallel()

	t.Run("detail lists are capped at the plan limit", func(t *testing.T) {
		t.Parallel()

		api := &fakeAPI{perType: DefaultDetailLimit + 5}
		site, err := newTestAggregator(api, fakeVideos{}, fakeTrending{}).Aggregate(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, ct := range model.ContentTypes {
			if got := len(site.Details[ct]); got != DefaultDetailLimit {
				t.Errorf("%s: expected %d detail pages, got %d", ct, DefaultDetailLimit, got)
			}
			if got := len(site.Latest[ct]); got != DefaultDetailLimit+5 {
				t.Errorf("%s: latest lists are not capped, got %d", ct, got)
			}
		}
		if got := len(api.authors); got != len(model.ContentTypes)*DefaultDetailLimit {
			t.Errorf("expected authors only for kept articles, got %d lookups", got)
		}
	})

	t.Run("author lookups respect the concurrency bound", func(t *testing.T) {
		t.Parallel()

		api := &fakeAPI{perType: 6, authorDelay: 5 * time.Millisecond}
		plan := DefaultPlan()
		plan.AuthorConcurrency = 2

		agg := New(api, fakeVideos{}, fakeTrending{}, plan, WithClock(func() time.Time { return fixedNow }))
		site, err := agg.Aggregate(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if api.maxInFlight > 2 {
			t.Errorf("expected at most 2 author lookups in flight, saw %d", api.maxInFlight)
		}
		for _, ct := range model.ContentTypes {
			for _, p := range site.Details[ct] {
				if !p.AuthorResolved {
					t.Errorf("%s/%s: expected resolved author", ct, p.Article.Slug)
				}
			}
		}
	})
}

// TestAggregateFailures tests the fatal phases.
func TestAggregateFailures(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	tests := []struct {
		name string
		api  *fakeAPI
		tr   fakeTrending
	}{
		{"featured lookup failure", &fakeAPI{slugErr: boom}, fakeTrending{}},
		{"list failure", &fakeAPI{listErr: boom}, fakeTrending{}},
		{"question failure", &fakeAPI{qErr: boom}, fakeTrending{}},
		{"trending failure", &fakeAPI{}, fakeTrending{err: boom}},
	}

	for _, tt := range tests {
		t.Run(tt.name+" aborts the build", func(t *testing.T) {
			t.Parallel()

			site, err := newTestAggregator(tt.api, fakeVideos{}, tt.tr).Aggregate(context.Background())
			if !errors.Is(err, boom) {
				t.Errorf("expected boom, got %v", err)
			}
			if site != nil {
				t.Error("expected no site")
			}
		})
	}

	t.Run("cancelled context stops before fetching", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		api := &fakeAPI{}
		if _, err := newTestAggregator(api, fakeVideos{}, fakeTrending{}).Aggregate(ctx); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if len(api.queries) != 0 {
			t.Error("expected no requests")
		}
	})
}

// TestPlanFromSite tests plan construction from a site file.
func TestPlanFromSite(t *testing.T) {
	t.Parallel()

	f := config.DefaultSiteFile()
	f.Featured.Advice = []string{"only-one"}

	plan := PlanFromSite(f)
	if got := plan.Featured[model.ContentAdvice]; len(got) != 1 || got[0] != "only-one" {
		t.Errorf("unexpected advice slugs %v", got)
	}
	if plan.DetailLimit != DefaultDetailLimit || plan.LatestTestsLimit != DefaultLatestTestsLimit {
		t.Errorf("unexpected limits %+v", plan)
	}
}
