package portfolio

import (
	"net/http"
	"slices"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/aurorascharff/aurorascharff.no/content"
	"github.com/aurorascharff/aurorascharff.no/views"
)

const (
	homePostCount = 3
	relatedCount  = 3

	// aboutPath is where the About page lives, whatever its slug.
	aboutPath = "about"
)

// Render writes a templ component as an HTTP 200 HTML response.
func Render(c echo.Context, cmp templ.Component) error {
	return RenderStatus(c, http.StatusOK, cmp)
}

// RenderStatus writes a templ component with a specific HTTP status code.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

// The page builders below are shared by the HTTP handlers and the static
// build.

func (a *App) homePage(site *content.Site) templ.Component {
	posts := site.Posts(false)
	if len(posts) > homePostCount {
		posts = posts[:homePostCount]
	}
	return views.Home(a.siteConfig(), views.PageMeta{
		URL:     BuildURL(a.Config.URL),
		OGImage: a.imageURL("site.png"),
	}, views.HomeData{
		Posts:    posts,
		Upcoming: slices.Collect(site.Talks().Others()),
	})
}

func (a *App) blogPage(site *content.Site, tag string, preview bool) templ.Component {
	posts := site.Posts(preview)
	tags := content.Tags(posts)
	if tag != "" {
		posts = content.WithTag(posts, tag)
	}
	return views.Blog(a.siteConfig(), views.PageMeta{
		Title:   "Blog",
		URL:     BuildURL(a.Config.URL, "blog"),
		OGImage: a.imageURL("site.png"),
	}, views.BlogData{Posts: posts, Tags: tags, ActiveTag: tag})
}

func (a *App) postPage(site *content.Site, post content.Entry, preview bool) templ.Component {
	related := content.Related(post, site.Posts(preview))
	if len(related) > relatedCount {
		related = related[:relatedCount]
	}
	return views.Post(a.siteConfig(), views.PageMeta{
		Title:       post.Title,
		Description: post.Description,
		URL:         BuildURL(a.Config.URL, "blog", post.Slug),
		OGImage:     a.imageURL("blog", post.Slug+".png"),
	}, views.PostData{Post: post, Related: related, Preview: post.Draft})
}

func (a *App) speakingPage(site *content.Site) templ.Component {
	past, upcoming := site.Talks().Split()
	return views.Speaking(a.siteConfig(), views.PageMeta{
		Title:   "Speaking",
		URL:     BuildURL(a.Config.URL, "speaking"),
		OGImage: a.imageURL("site.png"),
	}, views.SpeakingData{Upcoming: upcoming, Past: past})
}

func (a *App) aboutPage(about content.Entry) templ.Component {
	return views.About(a.siteConfig(), views.PageMeta{
		Title:       about.Title,
		Description: about.Description,
		URL:         BuildURL(a.Config.URL, aboutPath),
		OGImage:     a.imageURL("site.png"),
	}, about)
}
