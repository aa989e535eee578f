package render

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"

	"github.com/therapytips/tipsgen/internal/content"
	"github.com/therapytips/tipsgen/internal/model"
)

//go:embed templates/*.gohtml
var embedded embed.FS

// Template file names.
const (
	TemplateLayout                 = "layout.gohtml"
	TemplatePartials               = "partials.gohtml"
	TemplateLanding                = "landing.gohtml"
	TemplateBookPublication        = "book-publication.gohtml"
	TemplateArticleContent         = "article-content.gohtml"
	TemplatePersonalityTestContent = "personalitytest-content.gohtml"
)

// listingTemplate returns the listing template of a content type.
func listingTemplate(t model.ContentType) string {
	return string(t) + ".gohtml"
}

// pageTemplates lists every page template that is parsed on its own.
func pageTemplates() []string {
	names := []string{TemplateLanding, TemplateBookPublication, TemplateArticleContent, TemplatePersonalityTestContent}
	for _, t := range model.ContentTypes {
		names = append(names, listingTemplate(t))
	}
	return names
}

// overlayFS serves files from dir first and falls back to base.
type overlayFS struct {
	dir  fs.FS
	base fs.FS
}

func (o overlayFS) Open(name string) (fs.File, error) {
	f, err := o.dir.Open(name)
	if err == nil {
		return f, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return o.base.Open(name)
}

// templateFS returns the template files, with overrideDir layered on top
// of the embedded set when it is non-empty.
func templateFS(overrideDir string) (fs.FS, error) {
	base, err := fs.Sub(embedded, "templates")
	if err != nil {
		return nil, err
	}
	if overrideDir == "" {
		return base, nil
	}
	info, err := os.Stat(overrideDir)
	if err != nil {
		return nil, fmt.Errorf("template directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("template directory %s is not a directory", overrideDir)
	}
	return overlayFS{dir: os.DirFS(overrideDir), base: base}, nil
}

// parseTemplates parses the layout once and clones it for every page.
func parseTemplates(fsys fs.FS, md *content.Renderer) (map[string]*template.Template, error) {
	base, err := template.New(TemplateLayout).Funcs(funcMap(md)).ParseFS(fsys, TemplateLayout, TemplatePartials)
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	set := make(map[string]*template.Template)
	for _, name := range pageTemplates() {
		t, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFS(fsys, name); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		set[name] = t
	}
	return set, nil
}

// funcMap holds the helpers available to every template.
func funcMap(md *content.Renderer) template.FuncMap {
	return template.FuncMap{
		"durationToMinutes": content.DurationToMinutes,
		"readMinutes": func(s string) int {
			return content.ReadMinutes(content.WordCount(s))
		},
		"markdown":  md.ToHTML,
		"viewsInK":  content.ViewsInK,
		"typeTitle": func(t model.ContentType) string { return content.DisplayTitle(string(t)) },
		"scale":     func() []int { return []int{1, 2, 3, 4, 5} },
	}
}
