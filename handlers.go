package portfolio

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aurorascharff/aurorascharff.no/content"
	"github.com/aurorascharff/aurorascharff.no/views"
)

func (a *App) handleHome(c echo.Context) error {
	site, err := a.Content.Site()
	if err != nil {
		return err
	}
	return Render(c, a.homePage(site))
}

func (a *App) handleBlog(c echo.Context) error {
	site, err := a.Content.Site()
	if err != nil {
		return err
	}
	return Render(c, a.blogPage(site, c.QueryParam("tag"), IsPreview(c)))
}

func (a *App) handlePost(c echo.Context) error {
	site, err := a.Content.Site()
	if err != nil {
		return err
	}
	preview := IsPreview(c)
	post, err := site.Post(c.Param("slug"), preview)
	if err != nil {
		return notFound(err)
	}
	return Render(c, a.postPage(site, post, preview))
}

func (a *App) handleSpeaking(c echo.Context) error {
	site, err := a.Content.Site()
	if err != nil {
		return err
	}
	return Render(c, a.speakingPage(site))
}

func (a *App) handleAbout(c echo.Context) error {
	site, err := a.Content.Site()
	if err != nil {
		return err
	}
	about, err := site.About()
	if err != nil {
		return notFound(err)
	}
	return Render(c, a.aboutPage(about))
}

func (a *App) handleFeed(c echo.Context) error {
	site, err := a.Content.Site()
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	return writeRSS(c.Response(), a.Config, site.Posts(false))
}

func (a *App) handleSitemap(c echo.Context) error {
	site, err := a.Content.Site()
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	return writeSitemap(c.Response(), a.Config, site)
}

func (a *App) handleStylesheet(c echo.Context) error {
	return c.Blob(http.StatusOK, "text/css; charset=utf-8", stylesheet)
}

// notFound maps content.ErrNotFound to a 404 and passes other errors on.
func notFound(err error) error {
	if errors.Is(err, content.ErrNotFound) {
		return echo.ErrNotFound
	}
	return err
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, views.NotFound(a.siteConfig()))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.logger.Error("server error", "uri", c.Request().RequestURI, "err", err)
		_ = RenderStatus(c, code, views.ServerError(a.siteConfig()))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
