package trending

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"google.golang.org/api/option"

	"github.com/therapytips/tipsgen/internal/config"
	"github.com/therapytips/tipsgen/internal/model"
)

const legacyPage = `<html><body>
<p><a href="https://therapytips.org/articles/ex">3 Reasons Why You Can't Stop Thinking About Your Ex</a> <small><em>4329 views this month</em></small></p>
<p><a href="https://therapytips.org/advice/list">A Reverse Bucket List</a> <small><em>no data yet</em></small></p>
<p><a href="https://therapytips.org/missing-caption">Missing caption</a></p>
<p><a>No link</a> <small><em>12 views</em></small></p>
<p><a href="https://therapytips.org/empty"> </a> <small><em>12 views</em></small></p>
</body></html>`

// TestParseLegacyHTML tests scraping of the PHP top-articles page.
func TestParseLegacyHTML(t *testing.T) {
	t.Parallel()

	got, err := ParseLegacyHTML(strings.NewReader(legacyPage))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []model.TrendingItem{
		{Title: "3 Reasons Why You Can't Stop Thinking About Your Ex", Views: 4329, Link: "https://therapytips.org/articles/ex"},
		{Title: "A Reverse Bucket List", Views: 0, Link: "https://therapytips.org/advice/list"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

// TestLegacySource tests fetching the legacy page.
func TestLegacySource(t *testing.T) {
	t.Parallel()

	t.Run("fetches and parses", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, legacyPage)
		}))
		t.Cleanup(srv.Close)

		items, err := NewLegacySource(srv.URL).WithHTTPClient(srv.Client()).Top(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(items) != 2 {
			t.Errorf("expected 2 items, got %d", len(items))
		}
	})

	t.Run("empty body renders an empty list", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		t.Cleanup(srv.Close)

		items, err := NewLegacySource(srv.URL).WithHTTPClient(srv.Client()).Top(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if items == nil || len(items) != 0 {
			t.Errorf("expected empty non-nil list, got %#v", items)
		}
	})

	t.Run("server error is reported", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		t.Cleanup(srv.Close)

		if _, err := NewLegacySource(srv.URL).WithHTTPClient(srv.Client()).Top(context.Background()); err == nil {
			t.Error("expected error")
		}
	})
}

type reportRow struct {
	path, title, views string
}

func analyticsServer(t *testing.T, status int, rows []reportRow) (*httptest.Server, <-chan string) {
	t.Helper()

	paths := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths <- r.URL.Path
		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = fmt.Fprintf(w, `{"error":{"code":%d,"message":"denied"}}`, status)
			return
		}

		type value struct {
			Value string `json:"value"`
		}
		type row struct {
			DimensionValues []value `json:"dimensionValues"`
			MetricValues    []value `json:"metricValues"`
		}
		out := struct {
			Rows []row `json:"rows"`
		}{}
		for _, rr := range rows {
			out.Rows = append(out.Rows, row{
				DimensionValues: []value{{rr.path}, {rr.title}},
				MetricValues:    []value{{rr.views}},
			})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out)
	}))
	t.Cleanup(srv.Close)
	return srv, paths
}

func newTestAnalytics(t *testing.T, srv *httptest.Server) *AnalyticsSource {
	t.Helper()

	s, err := NewAnalyticsSource(context.Background(), "272582946", "https://therapytips.org/",
		option.WithEndpoint(srv.URL+"/"), option.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("failed to create source: %v", err)
	}
	return s
}

// TestAnalyticsSource tests report filtering.
func TestAnalyticsSource(t *testing.T) {
	t.Parallel()

	t.Run("keeps the first six content pages", func(t *testing.T) {
		t.Parallel()

		rows := []reportRow{
			{"/", "Home", "9000"},
			{"/articles/a", "A", "800"},
			{"/interviews/b", "", "700"},
			{"/about", "About", "650"},
			{"/advice/c", "C", "600"},
			{"/personality-tests/d", "D", ""},
			{"/personality-tests/e", "E", "500"},
			{"/articles/f", "F", "400"},
			{"/articles/g", "G", "300"},
			{"/articles/h", "H", "200"},
		}
		srv, paths := analyticsServer(t, http.StatusOK, rows)

		items, err := newTestAnalytics(t, srv).Top(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := <-paths; got != "/v1beta/properties/272582946:runReport" {
			t.Errorf("unexpected request path %q", got)
		}
		if len(items) != MaxItems {
			t.Fatalf("expected %d items, got %d", MaxItems, len(items))
		}
		if items[0].Link != "https://therapytips.org/articles/a" || items[0].Views != 800 {
			t.Errorf("unexpected first item %+v", items[0])
		}
		if items[1].Title != untitledPage {
			t.Errorf("expected placeholder title, got %q", items[1].Title)
		}
		if items[5].Title != "G" {
			t.Errorf("expected list to stop at G, got %q", items[5].Title)
		}
	})

	t.Run("report failure is returned", func(t *testing.T) {
		t.Parallel()

		srv, _ := analyticsServer(t, http.StatusForbidden, nil)
		if _, err := newTestAnalytics(t, srv).Top(context.Background()); err == nil {
			t.Error("expected error")
		}
	})
}

// TestNew tests source selection.
func TestNew(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("legacy source is selected explicitly", func(t *testing.T) {
		t.Parallel()

		s, err := New(ctx, config.TrendingConfig{Source: config.TrendingLegacy, LegacyURL: "https://example.com"}, "", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s.Name() != "legacy" {
			t.Errorf("got %s", s.Name())
		}
	})

	t.Run("none renders an empty list", func(t *testing.T) {
		t.Parallel()

		s, err := New(ctx, config.TrendingConfig{Source: config.TrendingNone}, "", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		items, err := s.Top(ctx)
		if err != nil || len(items) != 0 {
			t.Errorf("got %v, %v", items, err)
		}
	})

	t.Run("missing key file falls back to none", func(t *testing.T) {
		t.Parallel()

		cfg := config.TrendingConfig{
			Source:     config.TrendingAnalytics,
			PropertyID: "1",
			KeyFile:    filepath.Join(t.TempDir(), "missing.json"),
		}
		s, err := New(ctx, cfg, "", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := s.(NoopSource); !ok {
			t.Errorf("expected NoopSource, got %T", s)
		}
	})

	t.Run("unknown source is rejected", func(t *testing.T) {
		t.Parallel()

		_, err := New(ctx, config.TrendingConfig{Source: "merged"}, "", nil)
		if !errors.Is(err, config.ErrUnknownTrendingSource) {
			t.Errorf("expected ErrUnknownTrendingSource, got %v", err)
		}
	})
}
