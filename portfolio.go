// Package portfolio serves and builds a personal blog and portfolio site.
// Blog posts, speaking engagements and the About page are read from
// markdown files with YAML frontmatter; every page gets a generated Open
// Graph preview image, and published posts are syndicated over RSS.
//
// The same App backs both the HTTP server (Start) and the static build
// (Build), so both render identical pages.
package portfolio

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/aurorascharff/aurorascharff.no/content"
	"github.com/aurorascharff/aurorascharff.no/ogimage"
	"github.com/aurorascharff/aurorascharff.no/views"
)

// App is the central application. It wires together the content cache,
// the preview image renderer and cache, handlers and middleware.
type App struct {
	Config  SiteConfig
	Echo    *echo.Echo
	Content *ContentCache
	Images  *ImageCache // nil when the image cache is disabled

	logger       *slog.Logger
	renderer     *ogimage.Renderer
	theme        ogimage.Theme
	avatarDigest string
	loginLimiter *LoginLimiter
	customRoutes []func(*App)
	contentFS    fs.FS
	staticFS     fs.FS
}

// New creates an App from cfg. It opens the image cache and prepares the
// renderer, so the returned App must be closed.
func New(cfg SiteConfig, opts ...Option) (*App, error) {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.contentFS == nil {
		a.contentFS = os.DirFS(a.Config.ContentDir)
	}
	if a.staticFS == nil {
		a.staticFS = os.DirFS(a.Config.StaticDir)
	}

	theme, err := ogimage.ParseTheme(cfg.Theme.Primary, cfg.Theme.Secondary, cfg.Theme.Background, cfg.Theme.Text)
	if err != nil {
		return nil, fmt.Errorf("portfolio: theme: %w", err)
	}
	a.theme = theme

	var renderOpts []ogimage.Option
	if cfg.Avatar != "" {
		avatar, digest, err := loadAvatar(cfg.Avatar)
		if err != nil {
			return nil, fmt.Errorf("portfolio: avatar: %w", err)
		}
		a.avatarDigest = digest
		renderOpts = append(renderOpts, ogimage.WithAvatar(avatar))
	}
	if a.renderer, err = ogimage.NewRenderer(renderOpts...); err != nil {
		return nil, fmt.Errorf("portfolio: renderer: %w", err)
	}

	cachePath, err := a.Config.ogCachePath()
	if err != nil {
		return nil, fmt.Errorf("portfolio: image cache path: %w", err)
	}
	if cachePath != "" {
		if a.Images, err = OpenImageCache(cachePath); err != nil {
			return nil, fmt.Errorf("portfolio: init image cache: %w", err)
		}
	}

	a.Content = NewContentCache(content.NewLoader(a.contentFS, a.Config.Author), a.Config.ContentCacheTTL)

	if a.Config.previewEnabled() {
		a.loginLimiter = NewLoginLimiter(5, time.Minute)
	} else if a.Config.PreviewPassword != "" || a.Config.SessionSecret != "" {
		a.logger.Warn("draft preview disabled: previewPassword and sessionSecret must both be set")
	}

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	return a, nil
}

// Start serves HTTP on Config.Addr until ctx is cancelled.
func (a *App) Start(ctx context.Context) error {
	a.Echo.HideBanner = true
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.Echo.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("shutdown", "err", err)
		}
	}()

	a.logger.Info("listening", "addr", a.Config.Addr, "preview", a.Config.previewEnabled())
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.GET("/public/site.css", a.handleStylesheet)
	e.StaticFS("/public", a.staticFS)

	e.GET("/", a.handleHome)
	e.GET("/blog/", a.handleBlog)
	e.GET("/blog/:slug/", a.handlePost)
	e.GET("/speaking/", a.handleSpeaking)
	e.GET("/"+aboutPath+"/", a.handleAbout)
	e.GET("/rss.xml", a.handleFeed)
	e.GET("/sitemap.xml", a.handleSitemap)

	e.GET("/og/site.png", a.handleSiteImage)
	e.GET("/og/blog/:file", a.handlePostImage)
	e.GET("/og/speaking/:file", a.handleTalkImage)

	if a.Config.previewEnabled() {
		e.GET("/preview/", a.handlePreview)
		e.POST("/preview/login/", a.handlePreviewLogin)
		e.POST("/preview/logout/", handlePreviewLogout)
	}
}

// Close releases the image cache and stops background work.
func (a *App) Close() error {
	if a.loginLimiter != nil {
		a.loginLimiter.Stop()
	}
	if a.Images != nil {
		return a.Images.Close()
	}
	return nil
}

func (a *App) siteConfig() views.SiteConfig {
	return views.SiteConfig{
		Name:        a.Config.Name,
		URL:         a.Config.URL,
		Description: a.Config.Description,
		Author:      a.Config.Author,
	}
}
