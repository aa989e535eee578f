package model

import (
	"testing"
	"time"
)

// TestPlaceholderAuthor tests the fallback author.
func TestPlaceholderAuthor(t *testing.T) {
	t.Parallel()

	t.Run("uses the inline author name", func(t *testing.T) {
		t.Parallel()

		a := PlaceholderAuthor(Article{AuthorName: "Dr. Rivera"})
		if a.Name != "Dr. Rivera" {
			t.Errorf("expected inline name, got %q", a.Name)
		}
		if a.Bio != "" || a.ImageURL != "" {
			t.Error("expected empty bio and image")
		}
	})

	t.Run("falls back to Unknown Author", func(t *testing.T) {
		t.Parallel()

		a := PlaceholderAuthor(Article{AuthorName: "  "})
		if a.Name != UnknownAuthorName {
			t.Errorf("expected %q, got %q", UnknownAuthorName, a.Name)
		}
	})
}

// TestSearchParamsValues tests query encoding of search params.
func TestSearchParamsValues(t *testing.T) {
	t.Parallel()

	t.Run("zero params encode to nothing", func(t *testing.T) {
		t.Parallel()

		if got := (SearchParams{}).Values().Encode(); got != "" {
			t.Errorf("expected empty query, got %q", got)
		}
	})

	t.Run("set params are encoded by wire name", func(t *testing.T) {
		t.Parallel()

		p := SearchParams{
			Limit:       12,
			ArticleType: ContentInterviews,
			Sort:        SortPublicationDateDesc,
			DateFrom:    "2024-01-01",
		}
		got := p.Values().Encode()
		want := "article_type=interviews&date_from=2024-01-01&limit=12&sort=publication_date_desc"
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("text and calendar filters use the API names and formats", func(t *testing.T) {
		t.Parallel()

		p := SearchParams{
			Query:    "anxiety",
			Year:     "2024",
			Month:    "2024-03",
			AuthorID: 7,
		}
		v := p.Values()
		for key, want := range map[string]string{
			"query":     "anxiety",
			"year":      "2024",
			"month":     "2024-03",
			"author_id": "7",
		} {
			if got := v.Get(key); got != want {
				t.Errorf("%s: got %q, want %q", key, got, want)
			}
		}
		if v.Has("q") {
			t.Error("expected no q parameter")
		}
	})
}

// TestContentTypeValid tests content type validation.
func TestContentTypeValid(t *testing.T) {
	t.Parallel()

	for _, ct := range ContentTypes {
		if !ct.Valid() {
			t.Errorf("expected %q to be valid", ct)
		}
	}
	if ContentType("podcasts").Valid() {
		t.Error("expected unknown content type to be invalid")
	}
}

// TestBuild tests build bookkeeping helpers.
func TestBuild(t *testing.T) {
	t.Parallel()

	b := NewBuild("dev", "builds/dev")
	if b.ID == "" {
		t.Fatal("expected build id")
	}
	b.Pages = []RenderedPage{
		{Kind: PageListing, Path: "index.html"},
		{Kind: PageListing, ContentType: ContentAdvice, Path: "advice.html"},
		{Kind: PageDetail, ContentType: ContentAdvice, Path: "advice/a.html"},
		{Kind: PageDetail, ContentType: ContentAdvice, Path: "advice/b.html"},
	}
	b.Files = []OutputFile{{Size: 10}, {Size: 32}}
	b.FinishedAt = b.StartedAt.Add(2 * time.Second)

	t.Run("counts pages per kind", func(t *testing.T) {
		t.Parallel()

		counts := b.PageCounts()
		if counts["pages"] != 2 || counts["advice"] != 2 {
			t.Errorf("unexpected counts %v", counts)
		}
	})

	t.Run("sums output size", func(t *testing.T) {
		t.Parallel()

		if b.TotalSize() != 42 {
			t.Errorf("expected 42, got %d", b.TotalSize())
		}
	})

	t.Run("reports duration", func(t *testing.T) {
		t.Parallel()

		if b.Duration() != 2*time.Second {
			t.Errorf("expected 2s, got %v", b.Duration())
		}
	})

	t.Run("succeeds without error", func(t *testing.T) {
		t.Parallel()

		if !b.Succeeded() {
			t.Error("expected success")
		}
	})
}

// TestPageVideos tests listing-page video lookup.
func TestPageVideos(t *testing.T) {
	t.Parallel()

	v := PageVideos{
		Advice: &Video{ID: "bqHVTUFGQao"},
		Extra:  []*Video{nil, {ID: "x"}},
	}
	if v.ForType(ContentAdvice) == nil {
		t.Error("expected advice video")
	}
	if v.ForType(ContentArticles) != nil {
		t.Error("expected no articles video")
	}
	if got := v.Unavailable(); got != 5 {
		t.Errorf("expected 5 unavailable videos, got %d", got)
	}
}
