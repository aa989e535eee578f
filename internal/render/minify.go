package render

import (
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
)

// Media types handled by the minifier.
const (
	MediaHTML = "text/html"
	MediaCSS  = "text/css"
)

// NewMinifier returns a minifier for HTML pages and the stylesheet.
func NewMinifier() *minify.M {
	m := minify.New()
	m.Add(MediaHTML, &html.Minifier{
		KeepDocumentTags: true,
		KeepEndTags:      true,
		KeepQuotes:       true,
	})
	m.AddFunc(MediaCSS, css.Minify)
	return m
}
