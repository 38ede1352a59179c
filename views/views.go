// Package views renders the site's pages. Layouts are html/template files
// embedded in the binary; each page is exposed as a templ.Component so that
// handlers and the static build render them the same way.
package views

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/a-h/templ"

	"github.com/aurorascharff/aurorascharff.no/content"
	"github.com/aurorascharff/aurorascharff.no/markdown"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"markdown": markdown.HTML,
	"safeURL": func(raw string) template.URL {
		return template.URL(markdown.SafeURL(raw))
	},
	"excerpt": func(e content.Entry) string {
		if e.Description != "" {
			return e.Description
		}
		return markdown.Excerpt(e.Body, 160)
	},
	"humanDate": func(e content.Entry) string {
		if e.Date.IsZero() {
			return ""
		}
		return e.Date.Format("January 2, 2006")
	},
	"tagClass":    TagClass,
	"queryEscape": QueryEscape,
	"websiteLD":   WebsiteJSONLD,
	"postLD":      BlogPostingJSONLD,
}

var pages = map[string]*template.Template{}

func init() {
	for _, name := range []string{"home", "blog", "post", "speaking", "about", "preview", "notfound", "error"} {
		pages[name] = template.Must(template.New(name).Funcs(funcs).ParseFS(templateFS,
			"templates/base.html",
			"templates/"+name+".html",
		))
	}
}

func render(name string, cfg SiteConfig, meta PageMeta, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		t, ok := pages[name]
		if !ok {
			return fmt.Errorf("views: unknown page %q", name)
		}
		m := meta
		if m.Title == "" {
			m.Title = cfg.Name
		} else if m.Title != cfg.Name {
			m.Title = m.Title + " | " + cfg.Name
		}
		if m.Description == "" {
			m.Description = cfg.Description
		}
		if m.OGType == "" {
			m.OGType = "website"
		}
		return t.ExecuteTemplate(w, "base", page{Site: cfg, Meta: m, Data: data})
	})
}

// Home renders the landing page.
func Home(cfg SiteConfig, meta PageMeta, data HomeData) templ.Component {
	return render("home", cfg, meta, data)
}

// Blog renders the post listing.
func Blog(cfg SiteConfig, meta PageMeta, data BlogData) templ.Component {
	return render("blog", cfg, meta, data)
}

// Post renders a single post.
func Post(cfg SiteConfig, meta PageMeta, data PostData) templ.Component {
	meta.OGType = "article"
	return render("post", cfg, meta, data)
}

// Speaking renders upcoming and past talks.
func Speaking(cfg SiteConfig, meta PageMeta, data SpeakingData) templ.Component {
	return render("speaking", cfg, meta, data)
}

// About renders the About page.
func About(cfg SiteConfig, meta PageMeta, about content.Entry) templ.Component {
	return render("about", cfg, meta, about)
}

// Preview renders the draft preview login and status page.
func Preview(cfg SiteConfig, data PreviewData) templ.Component {
	return render("preview", cfg, PageMeta{Title: "Preview"}, data)
}

// NotFound renders the 404 page.
func NotFound(cfg SiteConfig) templ.Component {
	return render("notfound", cfg, PageMeta{Title: "Not found"}, nil)
}

// ServerError renders the 500 page.
func ServerError(cfg SiteConfig) templ.Component {
	return render("error", cfg, PageMeta{Title: "Something went wrong"}, nil)
}
