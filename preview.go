package portfolio

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aurorascharff/aurorascharff.no/views"
)

func (a *App) handlePreview(c echo.Context) error {
	if !IsPreview(c) {
		return Render(c, views.Preview(a.siteConfig(), views.PreviewData{CSRFToken: CsrfToken(c)}))
	}
	site, err := a.Content.Site()
	if err != nil {
		return err
	}
	return Render(c, views.Preview(a.siteConfig(), views.PreviewData{
		Active:    true,
		CSRFToken: CsrfToken(c),
		Drafts:    site.Drafts(),
	}))
}

func (a *App) handlePreviewLogin(c echo.Context) error {
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		a.logger.Warn("preview login rate limited", "ip", ip)
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	pass := c.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.PreviewPassword)) == 1 {
		if err := setPreviewSession(c); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, "/preview/")
	}
	a.loginLimiter.Record(ip)
	return RenderStatus(c, http.StatusUnauthorized, views.Preview(a.siteConfig(), views.PreviewData{
		ShowError: true,
		CSRFToken: CsrfToken(c),
	}))
}

func handlePreviewLogout(c echo.Context) error {
	if err := clearPreviewSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/preview/")
}
