package portfolio

import (
	"io/fs"
	"log/slog"
	"time"

	"github.com/adrg/xdg"
)

// SiteConfig holds all configuration for the site.
type SiteConfig struct {
	Name        string `mapstructure:"name"`        // Site name (default "Aurora Scharff")
	URL         string `mapstructure:"url"`         // Canonical URL (default "http://localhost:3000")
	Description string `mapstructure:"description"` // Site description for RSS and meta tags
	Author      string `mapstructure:"author"`      // Default author for entries and JSON-LD

	Addr       string `mapstructure:"addr"`       // Listen address (default ":3000")
	ContentDir string `mapstructure:"contentDir"` // Markdown content root (default "content")
	StaticDir  string `mapstructure:"staticDir"`  // Static assets served under /public (default "public")
	OutputDir  string `mapstructure:"outputDir"`  // Static build output (default "dist")

	// OGCachePath is the SQLite file caching rendered preview images.
	// Empty means $XDG_CACHE_HOME/aurorascharff/og-cache.db, "off" disables it.
	OGCachePath string `mapstructure:"ogCachePath"`

	PreviewPassword string `mapstructure:"previewPassword"` // Draft preview login password
	SessionSecret   string `mapstructure:"sessionSecret"`   // Session encryption secret
	CookieSecure    bool   `mapstructure:"cookieSecure"`    // Set true for HTTPS

	ContentCacheTTL time.Duration `mapstructure:"contentCacheTTL"` // Content reload interval (default 5min)

	Theme  ThemeConfig `mapstructure:"theme"`
	Avatar string      `mapstructure:"avatar"` // Optional portrait drawn on preview images
}

// ThemeConfig holds the preview image colors as hex strings.
type ThemeConfig struct {
	Primary    string `mapstructure:"primary"`
	Secondary  string `mapstructure:"secondary"`
	Background string `mapstructure:"background"`
	Text       string `mapstructure:"text"`
}

const ogCacheOff = "off"

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Aurora Scharff"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Author == "" {
		c.Author = c.Name
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.ContentDir == "" {
		c.ContentDir = "content"
	}
	if c.StaticDir == "" {
		c.StaticDir = "public"
	}
	if c.OutputDir == "" {
		c.OutputDir = "dist"
	}
	if c.ContentCacheTTL == 0 {
		c.ContentCacheTTL = 5 * time.Minute
	}
}

// previewEnabled reports whether draft preview login can be offered.
func (c *SiteConfig) previewEnabled() bool {
	return c.PreviewPassword != "" && c.SessionSecret != ""
}

// ogCachePath resolves the image cache location. An empty result means the
// cache is disabled.
func (c *SiteConfig) ogCachePath() (string, error) {
	switch c.OGCachePath {
	case ogCacheOff:
		return "", nil
	case "":
		return xdg.CacheFile("aurorascharff/og-cache.db")
	default:
		return c.OGCachePath, nil
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback runs after the built-in routes are registered.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithLogger sets the structured logger used for requests and build output.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		a.logger = l
	}
}

// WithContentFS reads content from fsys instead of Config.ContentDir.
func WithContentFS(fsys fs.FS) Option {
	return func(a *App) {
		a.contentFS = fsys
	}
}

// WithStaticFS serves and copies static assets from fsys instead of
// Config.StaticDir.
func WithStaticFS(fsys fs.FS) Option {
	return func(a *App) {
		a.staticFS = fsys
	}
}
