package model

import "time"

// TrendingItem is one entry of the "trending now" list.
type TrendingItem struct {
	Title string `json:"title"`
	Views int64  `json:"views"`
	Link  string `json:"link"`
}

// Video is the subset of YouTube metadata the templates use.
// A nil *Video means the metadata could not be fetched.
type Video struct {
	ID           string `json:"id"`
	URL          string `json:"url"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	ChannelTitle string `json:"channel_title,omitempty"`
	PublishedAt  string `json:"published_at,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	EmbedHTML    string `json:"embed_html,omitempty"`
	// Duration is an ISO-8601 duration such as PT4M13S.
	Duration     string `json:"duration,omitempty"`
	ViewCount    uint64 `json:"view_count"`
	LikeCount    uint64 `json:"like_count"`
	CommentCount uint64 `json:"comment_count"`
}

// PageVideos are the videos embedded on the listing pages.
type PageVideos struct {
	Landing          *Video
	Articles         *Video
	Interviews       *Video
	Advice           *Video
	PersonalityTests *Video
	// Extra holds additional videos shown on every page. Unavailable
	// entries stay nil so positions remain stable.
	Extra []*Video
}

// ForType returns the listing-page video for a content type.
func (v PageVideos) ForType(t ContentType) *Video {
	switch t {
	case ContentArticles:
		return v.Articles
	case ContentInterviews:
		return v.Interviews
	case ContentAdvice:
		return v.Advice
	case ContentPersonalityTests:
		return v.PersonalityTests
	default:
		return nil
	}
}

// Unavailable counts the videos whose metadata is missing.
func (v PageVideos) Unavailable() int {
	n := 0
	for _, video := range append([]*Video{v.Landing, v.Articles, v.Interviews, v.Advice, v.PersonalityTests}, v.Extra...) {
		if video == nil {
			n++
		}
	}
	return n
}

// DetailPage is one article enriched for its own page.
type DetailPage struct {
	Article Article
	Author  Author
	// AuthorResolved is false when Author is a placeholder.
	AuthorResolved bool
	// Questions is set only for personality tests.
	Questions QuestionSet
}

// Site is the aggregated model for one build. It is read-only once the
// aggregator hands it over.
type Site struct {
	Videos   PageVideos
	Featured map[ContentType][]Article
	Latest   map[ContentType][]Article
	Details  map[ContentType][]DetailPage
	Trending []TrendingItem
	// FetchedAt is when aggregation completed.
	FetchedAt time.Time
}

// NewSite returns an empty Site with its maps allocated.
func NewSite() *Site {
	return &Site{
		Featured: make(map[ContentType][]Article),
		Latest:   make(map[ContentType][]Article),
		Details:  make(map[ContentType][]DetailPage),
		Trending: []TrendingItem{},
	}
}

// DetailCount returns the number of detail pages across all content types.
func (s *Site) DetailCount() int {
	n := 0
	for _, pages := range s.Details {
		n += len(pages)
	}
	return n
}
