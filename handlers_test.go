package portfolio

import (
	"bytes"
	"image"
	"image/png"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aurorascharff/aurorascharff.no/ogimage"
)

func TestPublicPages(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	tests := []struct {
		path    string
		want    []string
		notWant []string
	}{
		{"/", []string{"Forms &amp; Actions", "Hello World", "Future Conf"}, []string{"Secret Draft", "Past Conf"}},
		{"/blog/", []string{"Forms &amp; Actions", "Hello World", `href="/blog/?tag=forms"`}, []string{"Secret Draft"}},
		{"/blog/?tag=forms", []string{"Forms &amp; Actions"}, []string{"Hello World</a>"}},
		{"/blog/forms/", []string{"<title>Forms &amp; Actions | Aurora Scharff</title>", "https://example.com/og/blog/forms.png", "Hello World"}, nil},
		{"/speaking/", []string{"Future Conf", "Past Conf", `href="https://future.example"`}, nil},
		{"/about/", []string{"I build things for the web."}, nil},
	}
	for _, tt := range tests {
		res := get(t, a, tt.path)
		if res.code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", tt.path, res.code)
			continue
		}
		for _, w := range tt.want {
			if !strings.Contains(res.body, w) {
				t.Errorf("GET %s: body missing %q", tt.path, w)
			}
		}
		for _, nw := range tt.notWant {
			if strings.Contains(res.body, nw) {
				t.Errorf("GET %s: body should not contain %q", tt.path, nw)
			}
		}
	}
}

func TestSpeakingPageOrder(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	body := get(t, a, "/speaking/").body
	upcoming := strings.Index(body, "Upcoming")
	future := strings.Index(body, "Future Conf")
	past := strings.Index(body, "Past Conf")
	if upcoming < 0 || future < upcoming || past < future {
		t.Errorf("expected upcoming talks before past talks, got positions %d %d %d", upcoming, future, past)
	}
}

func TestNotFound(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	for _, path := range []string{"/blog/missing/", "/blog/secret/", "/nope/", "/og/blog/secret.png", "/og/blog/forms.jpg", "/og/speaking/missing.png"} {
		res := get(t, a, path)
		if res.code != http.StatusNotFound {
			t.Errorf("GET %s = %d, want 404", path, res.code)
		}
	}
	if res := get(t, a, "/blog/missing/"); !strings.Contains(res.body, "Page not found") {
		t.Error("404 should render the not found page")
	}
}

func TestTrailingSlashRedirect(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	res := get(t, a, "/blog")
	if res.code != http.StatusMovedPermanently {
		t.Fatalf("GET /blog = %d, want 301", res.code)
	}
	if loc := res.header.Get("Location"); loc != "/blog/" {
		t.Errorf("Location = %q, want /blog/", loc)
	}
}

func TestStaticAssets(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	css := get(t, a, "/public/site.css")
	if css.code != http.StatusOK || !strings.Contains(css.header.Get("Content-Type"), "text/css") {
		t.Errorf("GET /public/site.css = %d %q", css.code, css.header.Get("Content-Type"))
	}
	icon := get(t, a, "/public/favicon.svg")
	if icon.code != http.StatusOK {
		t.Errorf("GET /public/favicon.svg = %d", icon.code)
	}
	if cc := icon.header.Get("Cache-Control"); !strings.Contains(cc, "immutable") {
		t.Errorf("static Cache-Control = %q", cc)
	}
}

func TestOGImages(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	for _, path := range []string{"/og/site.png", "/og/blog/forms.png", "/og/speaking/future-conf.png"} {
		res := get(t, a, path)
		if res.code != http.StatusOK {
			t.Fatalf("GET %s = %d", path, res.code)
		}
		if ct := res.header.Get("Content-Type"); ct != "image/png" {
			t.Errorf("GET %s Content-Type = %q", path, ct)
		}
		img, err := png.Decode(bytes.NewReader([]byte(res.body)))
		if err != nil {
			t.Fatalf("GET %s: not a PNG: %v", path, err)
		}
		if b := img.Bounds(); b.Dx() != ogimage.Width || b.Dy() != ogimage.Height {
			t.Errorf("GET %s size = %v", path, b)
		}
	}
}

func TestOGImageUsesCache(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	cache := setupTestImageCache(t)
	a.Images = cache

	first := get(t, a, "/og/blog/forms.png")
	if first.code != http.StatusOK {
		t.Fatalf("first request = %d", first.code)
	}
	if n, err := cache.Len(t.Context()); err != nil || n != 1 {
		t.Fatalf("cache Len = %d, %v; want 1", n, err)
	}
	second := get(t, a, "/og/blog/forms.png")
	if second.body != first.body {
		t.Error("cached image differs from rendered image")
	}
}

func TestFeedAndSitemapHeaders(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	rss := get(t, a, "/rss.xml")
	if rss.code != http.StatusOK || !strings.HasPrefix(rss.header.Get("Content-Type"), "application/rss+xml") {
		t.Errorf("GET /rss.xml = %d %q", rss.code, rss.header.Get("Content-Type"))
	}
	sitemap := get(t, a, "/sitemap.xml")
	if sitemap.code != http.StatusOK {
		t.Fatalf("GET /sitemap.xml = %d", sitemap.code)
	}
	for _, want := range []string{
		"<loc>https://example.com/blog/forms/</loc>",
		"<lastmod>2024-06-01</lastmod>",
		"<loc>https://example.com/about/</loc>",
	} {
		if !strings.Contains(sitemap.body, want) {
			t.Errorf("sitemap missing %q", want)
		}
	}
	if strings.Contains(sitemap.body, "secret") {
		t.Error("sitemap lists a draft")
	}
}

func TestSitemapSkipsTalks(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	sitemap := get(t, a, "/sitemap.xml")
	if !strings.Contains(sitemap.body, "<loc>https://example.com/speaking/</loc>") {
		t.Error("sitemap missing the speaking page")
	}
	if strings.Contains(sitemap.body, "past-conf") || strings.Contains(sitemap.body, "future-conf") {
		t.Error("talks have no page of their own and should not be listed")
	}
}

func TestAboutPathIgnoresSlug(t *testing.T) {
	fsys := testContent()
	fsys["about.md"].Data = []byte("---\ntitle: About\nslug: me\n---\nI build things for the web.\n")
	a := newTestApp(t, SiteConfig{}, WithContentFS(fsys))

	res := get(t, a, "/about/")
	if res.code != http.StatusOK {
		t.Fatalf("GET /about/ = %d", res.code)
	}
	if !strings.Contains(res.body, `href="https://example.com/about/"`) {
		t.Error("canonical URL should be /about/")
	}
	if res := get(t, a, "/me/"); res.code != http.StatusNotFound {
		t.Errorf("GET /me/ = %d, want 404", res.code)
	}
	sitemap := get(t, a, "/sitemap.xml")
	if !strings.Contains(sitemap.body, "<loc>https://example.com/about/</loc>") || strings.Contains(sitemap.body, "/me/") {
		t.Errorf("sitemap should list /about/ only:\n%s", sitemap.body)
	}
}

func TestInvalidContentServesErrorPage(t *testing.T) {
	a := newTestApp(t, SiteConfig{}, WithContentFS(fstestWithBadDate()))
	for _, target := range []string{"/", "/blog/", "/og/blog/forms.png"} {
		res := get(t, a, target)
		if res.code != http.StatusInternalServerError {
			t.Errorf("GET %s = %d, want 500", target, res.code)
			continue
		}
		if !strings.Contains(res.body, "Something went wrong") {
			t.Errorf("GET %s did not render the error page", target)
		}
		if strings.Contains(res.body, "31/12/2024") {
			t.Errorf("GET %s leaked the content error", target)
		}
	}
}

func TestPreviewDisabledWithoutSecrets(t *testing.T) {
	a := newTestApp(t, SiteConfig{PreviewPassword: testPassword})
	if res := get(t, a, "/preview/"); res.code != http.StatusNotFound {
		t.Errorf("GET /preview/ = %d, want 404 when preview is not configured", res.code)
	}
}

// login walks the preview flow: fetch the CSRF cookie, then post the form.
func login(t *testing.T, a *App, password string) result {
	t.Helper()
	page := get(t, a, "/preview/")
	if page.code != http.StatusOK {
		t.Fatalf("GET /preview/ = %d", page.code)
	}
	csrf := cookie(page.cookies, "_csrf")
	if csrf == nil {
		t.Fatal("no _csrf cookie set")
	}
	form := url.Values{"password": {password}, "_csrf": {csrf.Value}}
	return postForm(t, a, "/preview/login/", form, csrf)
}

func TestPreviewLoginShowsDrafts(t *testing.T) {
	a := newTestApp(t, previewConfig())

	res := login(t, a, testPassword)
	if res.code != http.StatusSeeOther {
		t.Fatalf("login = %d, want 303", res.code)
	}
	sess := cookie(res.cookies, sessionName)
	if sess == nil {
		t.Fatal("login did not set a session cookie")
	}

	draft := get(t, a, "/blog/secret/", sess)
	if draft.code != http.StatusOK || !strings.Contains(draft.body, "Not ready yet.") {
		t.Errorf("draft in preview = %d", draft.code)
	}
	if cc := draft.header.Get("Cache-Control"); cc != "no-store" {
		t.Errorf("preview Cache-Control = %q, want no-store", cc)
	}
	if blog := get(t, a, "/blog/", sess); !strings.Contains(blog.body, "Secret Draft") {
		t.Error("blog listing in preview should include drafts")
	}
	if page := get(t, a, "/preview/", sess); !strings.Contains(page.body, "Secret Draft") {
		t.Error("preview page should list drafts")
	}
	if img := get(t, a, "/og/blog/secret.png", sess); img.code != http.StatusOK {
		t.Errorf("draft image in preview = %d", img.code)
	}

	if anon := get(t, a, "/blog/secret/"); anon.code != http.StatusNotFound {
		t.Errorf("draft without session = %d, want 404", anon.code)
	}
	if rss := get(t, a, "/rss.xml", sess); strings.Contains(rss.body, "Secret Draft") {
		t.Error("feed must never include drafts")
	}
}

func TestPreviewWrongPassword(t *testing.T) {
	a := newTestApp(t, previewConfig())
	res := login(t, a, "nope")
	if res.code != http.StatusUnauthorized {
		t.Fatalf("wrong password = %d, want 401", res.code)
	}
	if !strings.Contains(res.body, "Wrong password") {
		t.Error("wrong password should show an error")
	}
	if cookie(res.cookies, sessionName) != nil {
		t.Error("wrong password must not set a session")
	}
}

func TestPreviewLoginRateLimited(t *testing.T) {
	a := newTestApp(t, previewConfig())
	for i := 0; i < 5; i++ {
		if res := login(t, a, "nope"); res.code != http.StatusUnauthorized {
			t.Fatalf("attempt %d = %d, want 401", i+1, res.code)
		}
	}
	if res := login(t, a, testPassword); res.code != http.StatusTooManyRequests {
		t.Errorf("sixth attempt = %d, want 429", res.code)
	}
}

func TestPreviewLoginRequiresCSRF(t *testing.T) {
	a := newTestApp(t, previewConfig())
	res := postForm(t, a, "/preview/login/", url.Values{"password": {testPassword}})
	if res.code != http.StatusForbidden {
		t.Errorf("login without CSRF token = %d, want 403", res.code)
	}
}

func TestPreviewLogout(t *testing.T) {
	a := newTestApp(t, previewConfig())
	res := login(t, a, testPassword)
	sess := cookie(res.cookies, sessionName)
	if sess == nil {
		t.Fatal("no session cookie")
	}
	page := get(t, a, "/preview/", sess)
	csrf := cookie(page.cookies, "_csrf")
	if csrf == nil {
		t.Fatal("no _csrf cookie")
	}
	out := postForm(t, a, "/preview/logout/", url.Values{"_csrf": {csrf.Value}}, sess, csrf)
	if out.code != http.StatusSeeOther {
		t.Fatalf("logout = %d, want 303", out.code)
	}
	cleared := cookie(out.cookies, sessionName)
	if cleared == nil || cleared.MaxAge >= 0 {
		t.Errorf("logout should expire the session cookie, got %+v", cleared)
	}
}

func TestAvatarChangesImageKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "avatar.png")
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 120, 90))); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	withAvatar := newTestApp(t, SiteConfig{Avatar: path})
	plain := newTestApp(t, SiteConfig{})

	spec := plain.siteSpec()
	if plain.imageKey(spec) != spec.Key() {
		t.Error("without an avatar the key should be the spec key")
	}
	if withAvatar.imageKey(spec) == spec.Key() {
		t.Error("an avatar must change the cache key")
	}
	if res := get(t, withAvatar, "/og/site.png"); res.code != http.StatusOK {
		t.Errorf("GET /og/site.png with avatar = %d", res.code)
	}
}

func TestNewRejectsBadTheme(t *testing.T) {
	_, err := New(SiteConfig{OGCachePath: ogCacheOff, Theme: ThemeConfig{Primary: "#nothex"}}, WithContentFS(testContent()))
	if err == nil {
		t.Fatal("expected error for an invalid theme color")
	}
}
