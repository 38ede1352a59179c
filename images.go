package portfolio

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"net/http"
	"os"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/aurorascharff/aurorascharff.no/content"
	"github.com/aurorascharff/aurorascharff.no/ogimage"
)

const maxImageFileLen = 200

// siteSpec describes the default preview image used by listing pages.
func (a *App) siteSpec() ogimage.Spec {
	return ogimage.Spec{
		Template:    ogimage.TemplateSite,
		Title:       a.Config.Name,
		Author:      a.Config.Author,
		Description: a.Config.Description,
		Theme:       a.theme,
	}
}

func (a *App) postSpec(post content.Entry) ogimage.Spec {
	return ogimage.Spec{
		Template: ogimage.TemplatePost,
		Title:    post.Title,
		Author:   post.Author,
		Date:     post.Date,
		Theme:    a.theme,
	}
}

func (a *App) talkSpec(talk content.Entry) ogimage.Spec {
	label := "Upcoming talk"
	if talk.Completed {
		label = "Talk"
	}
	return ogimage.Spec{
		Template:    ogimage.TemplateEvent,
		Title:       talk.Title,
		Author:      talk.Author,
		Description: talk.Description,
		Label:       label,
		Date:        talk.Date,
		Theme:       a.theme,
	}
}

// ogImage returns the PNG for spec, consulting the image cache first.
// Cache failures are logged and fall back to rendering.
func (a *App) ogImage(ctx context.Context, spec ogimage.Spec) ([]byte, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	key := a.imageKey(spec)
	if a.Images != nil {
		data, ok, err := a.Images.Get(ctx, key)
		if err != nil {
			a.logger.Warn("image cache read", "key", key, "err", err)
		} else if ok {
			return data, nil
		}
	}
	data, err := a.renderer.Render(spec)
	if err != nil {
		return nil, fmt.Errorf("render %q: %w", spec.Title, err)
	}
	if a.Images != nil {
		if err := a.Images.Put(ctx, key, data); err != nil {
			a.logger.Warn("image cache write", "key", key, "err", err)
		}
	}
	return data, nil
}

func (a *App) handleSiteImage(c echo.Context) error {
	return a.servePNG(c, a.siteSpec())
}

func (a *App) handlePostImage(c echo.Context) error {
	slug, ok := pngSlug(c.Param("file"))
	if !ok {
		return echo.ErrNotFound
	}
	site, err := a.Content.Site()
	if err != nil {
		return err
	}
	post, err := site.Post(slug, IsPreview(c))
	if err != nil {
		return notFound(err)
	}
	return a.servePNG(c, a.postSpec(post))
}

func (a *App) handleTalkImage(c echo.Context) error {
	slug, ok := pngSlug(c.Param("file"))
	if !ok {
		return echo.ErrNotFound
	}
	site, err := a.Content.Site()
	if err != nil {
		return err
	}
	talk, err := site.Talk(slug)
	if err != nil {
		return notFound(err)
	}
	return a.servePNG(c, a.talkSpec(talk))
}

func (a *App) servePNG(c echo.Context, spec ogimage.Spec) error {
	data, err := a.ogImage(c.Request().Context(), spec)
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "image/png", data)
}

// pngSlug extracts the slug from a "<slug>.png" route parameter.
func pngSlug(file string) (string, bool) {
	slug, ok := strings.CutSuffix(file, ".png")
	if !ok || slug == "" || len(file) > maxImageFileLen {
		return "", false
	}
	return slug, true
}

// imageURL returns the absolute URL of a preview image under /og/.
func (a *App) imageURL(parts ...string) string {
	return strings.TrimRight(a.Config.URL, "/") + "/og/" + strings.Join(parts, "/")
}

// imageKey is the cache key for spec. The avatar is not part of the spec,
// so its digest is mixed in when one is configured.
func (a *App) imageKey(spec ogimage.Spec) string {
	if a.avatarDigest == "" {
		return spec.Key()
	}
	sum := sha256.Sum256([]byte(spec.Key() + a.avatarDigest))
	return hex.EncodeToString(sum[:])
}

// loadAvatar decodes the portrait at path and returns it with a digest of
// the file contents.
func loadAvatar(path string) (image.Image, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	img, err := ogimage.LoadAvatar(bytes.NewReader(data))
	if err != nil {
		return nil, "", err
	}
	sum := sha256.Sum256(data)
	return img, hex.EncodeToString(sum[:]), nil
}
