package youtube

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"

	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"

	"github.com/therapytips/tipsgen/internal/model"
)

// Parts is the resource part list requested for every video.
var Parts = []string{
	"snippet",
	"statistics",
	"recordingDetails",
	"status",
	"liveStreamingDetails",
	"localizations",
	"contentDetails",
	"paidProductPlacementDetails",
	"player",
	"topicDetails",
}

// videoIDRE matches watch, short, embed and youtu.be URLs.
var videoIDRE = regexp.MustCompile(`(?:youtube\.com/(?:watch\?(?:.*&)?v=|embed/|shorts/)|youtu\.be/)([a-zA-Z0-9_-]{11})`)

// ErrNoVideoID is returned for URLs that do not identify a video.
var ErrNoVideoID = errors.New("no YouTube video id in URL")

// ErrVideoNotFound is returned when the API has no item for the id.
var ErrVideoNotFound = errors.New("video not found")

// VideoID extracts the 11 character video id from a YouTube URL.
func VideoID(rawURL string) (string, error) {
	m := videoIDRE.FindStringSubmatch(rawURL)
	if m == nil {
		return "", fmt.Errorf("%w: %s", ErrNoVideoID, rawURL)
	}
	return m[1], nil
}

// Fetcher looks up video metadata through the YouTube Data API v3.
type Fetcher struct {
	svc    *yt.Service
	logger *slog.Logger
}

// Option configures a Fetcher.
type Option func(*fetcherOptions)

type fetcherOptions struct {
	logger        *slog.Logger
	clientOptions []option.ClientOption
}

// WithLogger sets the logger used for fetch warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(o *fetcherOptions) {
		o.logger = logger
	}
}

// WithClientOptions passes extra options to the API client, such as a
// custom endpoint or HTTP client.
func WithClientOptions(opts ...option.ClientOption) Option {
	return func(o *fetcherOptions) {
		o.clientOptions = append(o.clientOptions, opts...)
	}
}

// NewFetcher creates a Fetcher authenticated with apiKey. Without a key the
// Fetcher is disabled and every lookup yields nil.
func NewFetcher(ctx context.Context, apiKey string, opts ...Option) (*Fetcher, error) {
	o := &fetcherOptions{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	f := &Fetcher{logger: o.logger}
	if apiKey == "" && len(o.clientOptions) == 0 {
		return f, nil
	}

	clientOpts := append([]option.ClientOption{option.WithAPIKey(apiKey)}, o.clientOptions...)
	svc, err := yt.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube client: %w", err)
	}
	f.svc = svc
	return f, nil
}

// Enabled reports whether the Fetcher can reach the API.
func (f *Fetcher) Enabled() bool {
	return f.svc != nil
}

// Video returns the metadata of the video at watchURL, or nil when it
// cannot be fetched. Failures are logged and never returned.
func (f *Fetcher) Video(ctx context.Context, watchURL string) *model.Video {
	if watchURL == "" {
		return nil
	}
	if f.svc == nil {
		f.logger.Debug("youtube lookup skipped: no API key", "url", watchURL)
		return nil
	}

	v, err := f.Lookup(ctx, watchURL)
	if err != nil {
		f.logger.Warn("youtube metadata unavailable", "url", watchURL, "error", err)
		return nil
	}
	return v
}

// Lookup is Video with the failure reported.
func (f *Fetcher) Lookup(ctx context.Context, watchURL string) (*model.Video, error) {
	if f.svc == nil {
		return nil, errors.New("youtube fetcher is disabled")
	}
	id, err := VideoID(watchURL)
	if err != nil {
		return nil, err
	}

	resp, err := f.svc.Videos.List(Parts).Id(id).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("videos.list %s: %w", id, err)
	}
	if len(resp.Items) == 0 || resp.Items[0] == nil {
		return nil, fmt.Errorf("%w: %s", ErrVideoNotFound, id)
	}

	v := toModel(resp.Items[0])
	v.URL = watchURL
	return v, nil
}

func toModel(item *yt.Video) *model.Video {
	v := &model.Video{ID: item.Id}
	if s := item.Snippet; s != nil {
		v.Title = s.Title
		v.Description = s.Description
		v.ChannelTitle = s.ChannelTitle
		v.PublishedAt = s.PublishedAt
		v.ThumbnailURL = thumbnailURL(s.Thumbnails)
	}
	if st := item.Statistics; st != nil {
		v.ViewCount = st.ViewCount
		v.LikeCount = st.LikeCount
		v.CommentCount = st.CommentCount
	}
	if cd := item.ContentDetails; cd != nil {
		v.Duration = cd.Duration
	}
	if p := item.Player; p != nil {
		v.EmbedHTML = p.EmbedHtml
	}
	return v
}

// thumbnailURL prefers the largest commonly available thumbnail.
func thumbnailURL(t *yt.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	for _, th := range []*yt.Thumbnail{t.Maxres, t.High, t.Medium, t.Default} {
		if th != nil && th.Url != "" {
			return th.Url
		}
	}
	return ""
}
