package api

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/therapytips/tipsgen/internal/model"
)

// Client is a typed client for the content API. It performs exactly one
// GET per call: no retries, no timeouts beyond the context, no caching.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient creates a client for the API rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, baseURL)
	}

	c := &Client{
		baseURL:    strings.TrimRight(u.String(), "/"),
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c, nil
}

// BaseURL returns the normalized API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ArticlePage is one page of an article listing.
type ArticlePage struct {
	Articles   []model.Article
	Pagination *model.Pagination
}

// Articles lists articles matching params.
func (c *Client) Articles(ctx context.Context, params model.SearchParams) ([]model.Article, error) {
	page, err := c.ArticlesPage(ctx, params)
	if err != nil {
		return nil, err
	}
	return page.Articles, nil
}

// ArticlesPage lists articles matching params with paging metadata.
func (c *Client) ArticlesPage(ctx context.Context, params model.SearchParams) (ArticlePage, error) {
	res, err := fetch[[]model.Article](ctx, c, "articles", "/articles", params.Values(), "Failed to fetch articles")
	if err != nil {
		return ArticlePage{}, err
	}
	return ArticlePage{Articles: res.Value(), Pagination: res.Pagination()}, nil
}

// ArticleBySlug fetches a single article.
func (c *Client) ArticleBySlug(ctx context.Context, slug string) (model.Article, error) {
	res, err := fetch[model.Article](ctx, c, "article", "/articles/slug/"+url.PathEscape(slug), nil, "Failed to fetch article")
	if err != nil {
		return model.Article{}, err
	}
	return res.Value(), nil
}

// Author fetches an author by id.
func (c *Client) Author(ctx context.Context, id int) (model.Author, error) {
	res, err := fetch[model.Author](ctx, c, "author", "/authors/"+strconv.Itoa(id), nil, "Failed to fetch author")
	if err != nil {
		return model.Author{}, err
	}
	return res.Value(), nil
}

// Categories lists every category.
func (c *Client) Categories(ctx context.Context) ([]model.Category, error) {
	res, err := fetch[[]model.Category](ctx, c, "categories", "/categories", nil, "Failed to fetch categories")
	if err != nil {
		return nil, err
	}
	return res.Value(), nil
}

// PersonalityTestQuestions fetches the questions of one personality test.
func (c *Client) PersonalityTestQuestions(ctx context.Context, articleID int) (model.PersonalityTestQuestions, error) {
	res, err := fetch[model.PersonalityTestQuestions](ctx, c, "personality test questions",
		"/personality-test-questions/"+strconv.Itoa(articleID), nil, "Failed to fetch personality test questions")
	if err != nil {
		return model.PersonalityTestQuestions{}, err
	}
	return res.Value(), nil
}

// AllPersonalityTestQuestions fetches every stored questionnaire.
func (c *Client) AllPersonalityTestQuestions(ctx context.Context) ([]model.PersonalityTestQuestions, error) {
	res, err := fetch[[]model.PersonalityTestQuestions](ctx, c, "personality test questions",
		"/personality-test-questions", nil, "Failed to fetch personality test questions")
	if err != nil {
		return nil, err
	}
	return res.Value(), nil
}

// fetch performs one GET and decodes the envelope into a Result.
func fetch[T any](ctx context.Context, c *Client, op, path string, query url.Values, defaultMsg string) (Result[T], error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	fail := func(status int, msg string, err error) (Result[T], error) {
		if msg == "" {
			msg = defaultMsg
		}
		return Result[T]{}, &RemoteFetchError{Op: op, URL: target, StatusCode: status, Message: msg, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fail(0, "", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	c.logger.Debug("api request", "op", op, "url", target)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fail(0, "", err)
	}
	defer resp.Body.Close()

	res, decodeErr := decodeResult[T](resp.Body)
	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body) //nolint:errcheck // Best effort

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fail(resp.StatusCode, res.Message(), decodeErr)
	}
	if decodeErr != nil {
		return fail(resp.StatusCode, res.Message(), decodeErr)
	}
	if !res.Ok() {
		return fail(resp.StatusCode, res.Message(), nil)
	}
	return res, nil
}
