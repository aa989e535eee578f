package trending

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	analyticsdata "google.golang.org/api/analyticsdata/v1beta"
	"google.golang.org/api/option"

	"github.com/therapytips/tipsgen/internal/model"
)

// Report parameters for the most read pages.
const (
	reportStartDate = "30daysAgo"
	reportEndDate   = "today"
	reportRowLimit  = 20
	untitledPage    = "No title found"
)

// allowedFolders are the site sections that count as content pages.
var allowedFolders = []string{"/articles/", "/interviews/", "/advice/", "/personality-tests/"}

// AnalyticsSource reads page views from a GA4 property.
type AnalyticsSource struct {
	svc        *analyticsdata.Service
	propertyID string
	siteURL    string
}

// AnalyticsOption configures the underlying API client.
type AnalyticsOption = option.ClientOption

// WithCredentialsFile authenticates with a service account key file.
func WithCredentialsFile(path string) AnalyticsOption {
	return option.WithCredentialsFile(path)
}

// NewAnalyticsSource creates a source for the given property.
func NewAnalyticsSource(ctx context.Context, propertyID, siteURL string, opts ...AnalyticsOption) (*AnalyticsSource, error) {
	opts = append([]option.ClientOption{option.WithScopes(analyticsdata.AnalyticsReadonlyScope)}, opts...)
	svc, err := analyticsdata.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create analytics client: %w", err)
	}
	return &AnalyticsSource{
		svc:        svc,
		propertyID: propertyID,
		siteURL:    strings.TrimRight(siteURL, "/"),
	}, nil
}

// Name returns "analytics".
func (s *AnalyticsSource) Name() string { return "analytics" }

// Top runs a 30 day page view report and keeps the first content pages.
func (s *AnalyticsSource) Top(ctx context.Context) ([]model.TrendingItem, error) {
	req := &analyticsdata.RunReportRequest{
		DateRanges: []*analyticsdata.DateRange{{StartDate: reportStartDate, EndDate: reportEndDate}},
		Dimensions: []*analyticsdata.Dimension{{Name: "pagePath"}, {Name: "pageTitle"}},
		Metrics:    []*analyticsdata.Metric{{Name: "screenPageViews"}},
		Limit:      reportRowLimit,
	}

	resp, err := s.svc.Properties.RunReport("properties/"+s.propertyID, req).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch top articles: %w", err)
	}
	return s.itemsFromRows(resp.Rows), nil
}

func (s *AnalyticsSource) itemsFromRows(rows []*analyticsdata.Row) []model.TrendingItem {
	items := make([]model.TrendingItem, 0, MaxItems)
	for _, row := range rows {
		if len(items) >= MaxItems {
			break
		}
		if row == nil {
			continue
		}

		path := dimension(row, 0)
		views := metric(row, 0)
		if path == "" || views == "" || !isContentPage(path) {
			continue
		}

		title := dimension(row, 1)
		if title == "" {
			title = untitledPage
		}
		n, _ := strconv.ParseInt(views, 10, 64)

		items = append(items, model.TrendingItem{
			Title: title,
			Views: n,
			Link:  s.siteURL + path,
		})
	}
	return items
}

func dimension(row *analyticsdata.Row, i int) string {
	if i >= len(row.DimensionValues) || row.DimensionValues[i] == nil {
		return ""
	}
	return row.DimensionValues[i].Value
}

func metric(row *analyticsdata.Row, i int) string {
	if i >= len(row.MetricValues) || row.MetricValues[i] == nil {
		return ""
	}
	return row.MetricValues[i].Value
}

func isContentPage(path string) bool {
	for _, folder := range allowedFolders {
		if strings.Contains(path, folder) {
			return true
		}
	}
	return false
}
