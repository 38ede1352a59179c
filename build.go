package portfolio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/a-h/templ"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/json"
	"github.com/tdewolff/minify/v2/xml"

	"github.com/aurorascharff/aurorascharff.no/content"
	"github.com/aurorascharff/aurorascharff.no/ogimage"
	"github.com/aurorascharff/aurorascharff.no/views"
)

// BuildStats summarizes a static build.
type BuildStats struct {
	Pages  int
	Images int
	Pruned int64
}

func newMinifier() *minify.M {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.Add("text/html", &html.Minifier{
		KeepDocumentTags: true,
		KeepEndTags:      true,
		KeepQuotes:       true,
	})
	m.AddFuncRegexp(regexp.MustCompile("[/+]json$"), json.Minify)
	m.AddFuncRegexp(regexp.MustCompile("[/+]xml$"), xml.Minify)
	return m
}

type builder struct {
	app   *App
	out   string
	min   *minify.M
	stats BuildStats
	keys  map[string]struct{}
}

// Build writes the whole site as static files to outDir, replacing whatever
// was there. Drafts are never written. Preview images no longer referenced
// by any page are pruned from the image cache.
func (a *App) Build(ctx context.Context, outDir string) (BuildStats, error) {
	out := filepath.Clean(outDir)
	if outDir == "" || out == "." || out == string(filepath.Separator) {
		return BuildStats{}, fmt.Errorf("build: refusing to use %q as output directory", outDir)
	}
	start := time.Now()

	a.Content.Invalidate()
	site, err := a.Content.Site()
	if err != nil {
		return BuildStats{}, fmt.Errorf("build: load content: %w", err)
	}

	if err := os.RemoveAll(out); err != nil {
		return BuildStats{}, fmt.Errorf("build: clean %s: %w", out, err)
	}
	if err := os.MkdirAll(out, 0o755); err != nil {
		return BuildStats{}, fmt.Errorf("build: %w", err)
	}

	b := &builder{app: a, out: out, min: newMinifier(), keys: map[string]struct{}{}}
	steps := []struct {
		name string
		run  func(context.Context, *content.Site) error
	}{
		{"static assets", b.static},
		{"pages", b.pages},
		{"feeds", b.feeds},
		{"images", b.images},
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return b.stats, err
		}
		if err := step.run(ctx, site); err != nil {
			return b.stats, fmt.Errorf("build: %s: %w", step.name, err)
		}
	}

	if a.Images != nil {
		if b.stats.Pruned, err = a.Images.Prune(ctx, b.keys); err != nil {
			return b.stats, fmt.Errorf("build: prune image cache: %w", err)
		}
	}
	a.logger.Info("build complete",
		"out", out,
		"pages", b.stats.Pages,
		"images", b.stats.Images,
		"pruned", b.stats.Pruned,
		"took", time.Since(start).Round(time.Millisecond),
	)
	return b.stats, nil
}

func (b *builder) write(rel string, data []byte) error {
	p := filepath.Join(b.out, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	return os.WriteFile(p, data, 0o644)
}

func (b *builder) writeMinified(rel, mediatype string, data []byte) error {
	small, err := b.min.Bytes(mediatype, data)
	if err != nil {
		return fmt.Errorf("minify %s: %w", rel, err)
	}
	return b.write(rel, small)
}

func (b *builder) static(ctx context.Context, _ *content.Site) error {
	public := filepath.Join(b.out, "public")
	if _, err := fs.Stat(b.app.staticFS, "."); err == nil {
		if err := os.CopyFS(public, b.app.staticFS); err != nil {
			return err
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	// A site.css in the static directory takes precedence.
	if _, err := os.Stat(filepath.Join(public, "site.css")); err == nil {
		return nil
	}
	return b.writeMinified("public/site.css", "text/css", stylesheet)
}

func (b *builder) page(ctx context.Context, rel string, cmp templ.Component) error {
	var buf bytes.Buffer
	if err := cmp.Render(ctx, &buf); err != nil {
		return fmt.Errorf("render %s: %w", rel, err)
	}
	if err := b.writeMinified(rel, "text/html", buf.Bytes()); err != nil {
		return err
	}
	b.stats.Pages++
	return nil
}

func (b *builder) pages(ctx context.Context, site *content.Site) error {
	a := b.app
	if err := b.page(ctx, "index.html", a.homePage(site)); err != nil {
		return err
	}
	if err := b.page(ctx, "blog/index.html", a.blogPage(site, "", false)); err != nil {
		return err
	}
	for _, post := range site.Posts(false) {
		if err := b.page(ctx, "blog/"+post.Slug+"/index.html", a.postPage(site, post, false)); err != nil {
			return err
		}
	}
	if err := b.page(ctx, "speaking/index.html", a.speakingPage(site)); err != nil {
		return err
	}
	if about, err := site.About(); err == nil {
		if err := b.page(ctx, aboutPath+"/index.html", a.aboutPage(about)); err != nil {
			return err
		}
	}
	return b.page(ctx, "404.html", views.NotFound(a.siteConfig()))
}

func (b *builder) feeds(_ context.Context, site *content.Site) error {
	var rss bytes.Buffer
	if err := writeRSS(&rss, b.app.Config, site.Posts(false)); err != nil {
		return err
	}
	if err := b.writeMinified("rss.xml", "application/rss+xml", rss.Bytes()); err != nil {
		return err
	}
	var sitemap bytes.Buffer
	if err := writeSitemap(&sitemap, b.app.Config, site); err != nil {
		return err
	}
	return b.writeMinified("sitemap.xml", "application/xml", sitemap.Bytes())
}

func (b *builder) image(ctx context.Context, rel string, spec ogimage.Spec) error {
	data, err := b.app.ogImage(ctx, spec)
	if err != nil {
		return fmt.Errorf("%s: %w", rel, err)
	}
	b.keys[b.app.imageKey(spec)] = struct{}{}
	if err := b.write(rel, data); err != nil {
		return err
	}
	b.stats.Images++
	return nil
}

func (b *builder) images(ctx context.Context, site *content.Site) error {
	a := b.app
	if err := b.image(ctx, "og/site.png", a.siteSpec()); err != nil {
		return err
	}
	for _, post := range site.Posts(false) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := b.image(ctx, "og/blog/"+post.Slug+".png", a.postSpec(post)); err != nil {
			return err
		}
	}
	for _, talk := range site.AllTalks() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := b.image(ctx, "og/speaking/"+talk.Slug+".png", a.talkSpec(talk)); err != nil {
			return err
		}
	}
	return nil
}
