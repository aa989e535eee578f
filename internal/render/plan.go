package render

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/therapytips/tipsgen/internal/config"
	"github.com/therapytips/tipsgen/internal/model"
)

// Featured holds the landing page lists.
type Featured struct {
	Articles         []model.Article
	Interviews       []model.Article
	Advice           []model.Article
	PersonalityTests []model.Article
}

// PageData is the data every template executes with.
type PageData struct {
	Page        string
	Environment config.Environment
	Config      config.BuildConfig
	BuildTime   string
	// Root is the relative path back to the site root.
	Root        string
	Trending    []model.TrendingItem
	ExtraVideos []*model.Video
	Video       *model.Video

	// Listing pages.
	ContentType model.ContentType
	Articles    []model.Article

	// Landing page.
	Featured Featured

	// Detail pages.
	Detail *model.DetailPage
}

// Output paths of the listing pages.
const (
	PathIndex           = "index.html"
	PathBookPublication = "book-publication.html"
)

// listingOrder is the order listing pages are rendered in.
var listingOrder = []model.ContentType{
	model.ContentArticles,
	model.ContentInterviews,
	model.ContentAdvice,
	model.ContentPersonalityTests,
}

// Plan lists every page of a build. The result depends only on its inputs.
func Plan(site *model.Site, cfg config.BuildConfig) []model.RenderedPage {
	buildTime := site.FetchedAt.UTC().Format(time.RFC3339)
	common := func(page string) PageData {
		return PageData{
			Page:        page,
			Environment: cfg.Environment,
			Config:      cfg,
			BuildTime:   buildTime,
			Trending:    site.Trending,
			ExtraVideos: site.Videos.Extra,
		}
	}

	landing := common("landing")
	landing.Video = site.Videos.Landing
	landing.Featured = Featured{
		Articles:         site.Featured[model.ContentArticles],
		Interviews:       site.Featured[model.ContentInterviews],
		Advice:           site.Featured[model.ContentAdvice],
		PersonalityTests: site.Featured[model.ContentPersonalityTests],
	}

	pages := []model.RenderedPage{{
		Kind:     model.PageListing,
		Template: TemplateLanding,
		Path:     PathIndex,
		Data:     landing,
	}}

	for _, t := range listingOrder {
		data := common(string(t))
		data.ContentType = t
		data.Video = site.Videos.ForType(t)
		data.Articles = site.Latest[t]
		pages = append(pages, model.RenderedPage{
			Kind:        model.PageListing,
			ContentType: t,
			Template:    listingTemplate(t),
			Path:        string(t) + ".html",
			Data:        data,
		})
	}

	pages = append(pages, model.RenderedPage{
		Kind:     model.PageListing,
		Template: TemplateBookPublication,
		Path:     PathBookPublication,
		Data:     common("book-publication"),
	})

	for _, t := range model.ContentTypes {
		tmpl := TemplateArticleContent
		if t == model.ContentPersonalityTests {
			tmpl = TemplatePersonalityTestContent
		}
		for i := range site.Details[t] {
			detail := site.Details[t][i]
			data := common(string(t))
			data.Root = "../"
			data.ContentType = t
			data.Video = site.Videos.ForType(t)
			data.Detail = &detail
			pages = append(pages, model.RenderedPage{
				Kind:        model.PageDetail,
				ContentType: t,
				Template:    tmpl,
				Path:        DetailPath(t, detail.Article.Slug),
				Data:        data,
			})
		}
	}
	return pages
}

// DetailPath is the output path of an article's own page.
func DetailPath(t model.ContentType, slug string) string {
	return path.Join(string(t), slug+".html")
}

// CheckPath rejects a planned page whose path is not a plain file beneath
// the output directory. A detail page must sit directly in its content type
// directory, so slugs containing separators or ".." are refused.
func CheckPath(page model.RenderedPage) error {
	if strings.ContainsRune(page.Path, '\\') || !filepath.IsLocal(filepath.FromSlash(page.Path)) {
		return fmt.Errorf("%w: %q", ErrUnsafePath, page.Path)
	}
	if page.Kind == model.PageDetail && path.Dir(page.Path) != string(page.ContentType) {
		return fmt.Errorf("%w: %q", ErrUnsafePath, page.Path)
	}
	return nil
}
