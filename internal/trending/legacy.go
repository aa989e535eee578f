package trending

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/therapytips/tipsgen/internal/model"
)

var viewsRE = regexp.MustCompile(`(\d+)\s+views`)

// LegacySource scrapes the PHP top-articles page.
type LegacySource struct {
	url        string
	httpClient *http.Client
}

// NewLegacySource creates a source reading from url.
func NewLegacySource(url string) *LegacySource {
	return &LegacySource{url: url, httpClient: http.DefaultClient}
}

// WithHTTPClient replaces the HTTP client.
func (s *LegacySource) WithHTTPClient(c *http.Client) *LegacySource {
	s.httpClient = c
	return s
}

// Name returns "legacy".
func (s *LegacySource) Name() string { return "legacy" }

// Top fetches and parses the page.
func (s *LegacySource) Top(ctx context.Context) ([]model.TrendingItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build trending request: %w", err)
	}
	req.Header.Set("Content-Type", "text/html")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch trending page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("trending page returned status %d", resp.StatusCode)
	}
	return ParseLegacyHTML(resp.Body)
}

// ParseLegacyHTML extracts items from paragraphs shaped like
// <p><a href="...">Title</a> <small><em>4329 views this month</em></small></p>.
func ParseLegacyHTML(r io.Reader) ([]model.TrendingItem, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse trending page: %w", err)
	}

	items := []model.TrendingItem{}
	doc.Find("p").Each(func(_ int, p *goquery.Selection) {
		anchor := p.Find("a").First()
		caption := p.Find("small em").First()
		if anchor.Length() == 0 || caption.Length() == 0 {
			return
		}

		title := strings.TrimSpace(anchor.Text())
		link, _ := anchor.Attr("href")
		if title == "" || link == "" {
			return
		}

		var views int64
		if m := viewsRE.FindStringSubmatch(caption.Text()); m != nil {
			views, _ = strconv.ParseInt(m[1], 10, 64)
		}
		items = append(items, model.TrendingItem{Title: title, Views: views, Link: link})
	})
	return items, nil
}
