package portfolio

import (
	"encoding/xml"
	"io"

	"github.com/aurorascharff/aurorascharff.no/content"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// writeSitemap lists the fixed pages and every published post. Talks are
// anchors on /speaking/ and get no entries of their own.
func writeSitemap(w io.Writer, cfg SiteConfig, site *content.Site) error {
	base := cfg.URL
	posts := site.Posts(false)

	urls := []sitemapURL{{Loc: BuildURL(base)}}
	blog := sitemapURL{Loc: BuildURL(base, "blog")}
	if len(posts) > 0 {
		blog.LastMod = posts[0].DateString()
	}
	urls = append(urls, blog, sitemapURL{Loc: BuildURL(base, "speaking")})
	if _, err := site.About(); err == nil {
		urls = append(urls, sitemapURL{Loc: BuildURL(base, aboutPath)})
	}
	for _, p := range posts {
		urls = append(urls, sitemapURL{
			Loc:     BuildURL(base, "blog", p.Slug),
			LastMod: p.DateString(),
		})
	}

	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	return xml.NewEncoder(w).Encode(sitemap)
}
