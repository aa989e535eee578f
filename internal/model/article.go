package model

import (
	"net/url"
	"strconv"
	"strings"
)

// ContentType is the article_type discriminator used by the content API.
// Slugs are unique within one content type.
type ContentType string

const (
	// ContentArticles is the general article stream.
	ContentArticles ContentType = "articles"
	// ContentInterviews holds research and expert interviews.
	ContentInterviews ContentType = "interviews"
	// ContentAdvice holds short advice pieces.
	ContentAdvice ContentType = "advice"
	// ContentPersonalityTests holds self-assessment tests with questions.
	ContentPersonalityTests ContentType = "personality-tests"
)

// ContentTypes lists every content type in page-generation order.
var ContentTypes = []ContentType{
	ContentArticles,
	ContentAdvice,
	ContentInterviews,
	ContentPersonalityTests,
}

// String returns the wire value of the content type.
func (c ContentType) String() string {
	return string(c)
}

// Valid reports whether c is one of the known content types.
func (c ContentType) Valid() bool {
	for _, known := range ContentTypes {
		if c == known {
			return true
		}
	}
	return false
}

// Article is a single published piece of content as returned by the API.
type Article struct {
	ID              int         `json:"id"`
	Title           string      `json:"title"`
	Subtitle        string      `json:"subtitle,omitempty"`
	Slug            string      `json:"slug"`
	Content         string      `json:"content"`
	ArticleType     ContentType `json:"article_type"`
	AuthorID        *int        `json:"author_id,omitempty"`
	AuthorName      string      `json:"author_name,omitempty"`
	PublicationDate string      `json:"publication_date"`
	ModifiedDate    string      `json:"modified_date,omitempty"`
	CanonicalURL    string      `json:"canonical_url,omitempty"`
	HeroImageURL    string      `json:"hero_image_url,omitempty"`
	HeroImageAlt    string      `json:"hero_image_alt,omitempty"`
	MetaDescription string      `json:"meta_description,omitempty"`
	CreatedAt       string      `json:"created_at,omitempty"`
}

// HasAuthor reports whether the article references an author record.
func (a Article) HasAuthor() bool {
	return a.AuthorID != nil
}

// Author is a content author.
type Author struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Bio      string `json:"bio,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

// UnknownAuthorName is shown when neither an author record nor an inline
// author name is available.
const UnknownAuthorName = "Unknown Author"

// PlaceholderAuthor returns the author shown when the author record cannot
// be fetched. The article's inline author name is preferred.
func PlaceholderAuthor(a Article) Author {
	name := strings.TrimSpace(a.AuthorName)
	if name == "" {
		name = UnknownAuthorName
	}
	return Author{Name: name}
}

// Category is an article category.
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// SearchParams filters the article listing endpoint.
// Zero values are not sent.
type SearchParams struct {
	Page        int
	Limit       int
	Query       string
	ArticleType ContentType
	Category    string
	AuthorID    int
	DateFrom    string
	DateTo      string
	Year        string // YYYY
	Month       string // YYYY-MM
	Sort        string
}

// SortPublicationDateDesc orders articles newest first.
const SortPublicationDateDesc = "publication_date_desc"

// Values encodes the non-zero params as query parameters.
func (p SearchParams) Values() url.Values {
	v := url.Values{}
	setInt := func(key string, n int) {
		if n != 0 {
			v.Set(key, strconv.Itoa(n))
		}
	}
	setString := func(key, s string) {
		if s != "" {
			v.Set(key, s)
		}
	}

	setInt("page", p.Page)
	setInt("limit", p.Limit)
	setString("query", p.Query)
	setString("article_type", string(p.ArticleType))
	setString("category", p.Category)
	setInt("author_id", p.AuthorID)
	setString("date_from", p.DateFrom)
	setString("date_to", p.DateTo)
	setString("year", p.Year)
	setString("month", p.Month)
	setString("sort", p.Sort)

	return v
}

// Pagination is the paging metadata attached to list responses.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}
