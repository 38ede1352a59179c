package portfolio

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"
)

const testPassword = "let-me-in"

func testContent() fstest.MapFS {
	return fstest.MapFS{
		"blog/hello-world.md": {Data: []byte(`---
title: Hello World
date: 2024-01-10
tags: [react]
description: The first post
---
Hello **world**.
`)},
		"blog/forms.md": {Data: []byte(`---
title: Forms & Actions
date: 2024-06-01
tags: [react, forms]
---
Progressive enhancement with server actions.
`)},
		"blog/secret.md": {Data: []byte(`---
title: Secret Draft
date: 2024-07-01
draft: true
tags: [react]
---
Not ready yet.
`)},
		"speaking/past-conf.md": {Data: []byte(`---
title: Past Conf
date: 2023-09-12
completed: true
link: https://youtube.com/watch?v=abc
---
`)},
		"speaking/future-conf.md": {Data: []byte(`---
title: Future Conf
date: 2030-04-02
websiteLink: https://future.example
---
`)},
		"about.md": {Data: []byte(`---
title: About
---
I build things for the web.
`)},
	}
}

func testStatic() fstest.MapFS {
	return fstest.MapFS{
		"favicon.svg": {Data: []byte(`<svg xmlns="http://www.w3.org/2000/svg"></svg>`)},
	}
}

func newTestApp(t *testing.T, cfg SiteConfig, opts ...Option) *App {
	t.Helper()
	if cfg.URL == "" {
		cfg.URL = "https://example.com"
	}
	cfg.Name = "Aurora Scharff"
	cfg.Description = "Web developer and speaker"
	cfg.OGCachePath = ogCacheOff
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	opts = append([]Option{WithContentFS(testContent()), WithStaticFS(testStatic()), WithLogger(logger)}, opts...)
	a, err := New(cfg, opts...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func previewConfig() SiteConfig {
	return SiteConfig{PreviewPassword: testPassword, SessionSecret: "0123456789abcdef0123456789abcdef"}
}

type result struct {
	code    int
	body    string
	header  http.Header
	cookies []*http.Cookie
}

func do(t *testing.T, a *App, req *http.Request) result {
	t.Helper()
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	res := rec.Result()
	return result{code: rec.Code, body: rec.Body.String(), header: rec.Header(), cookies: res.Cookies()}
}

func get(t *testing.T, a *App, target string, cookies ...*http.Cookie) result {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return do(t, a, req)
}

func postForm(t *testing.T, a *App, target string, form url.Values, cookies ...*http.Cookie) result {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return do(t, a, req)
}

func cookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func fstestWithBadDate() fstest.MapFS {
	fsys := testContent()
	fsys["blog/broken.md"] = &fstest.MapFile{Data: []byte("---\ntitle: Broken\ndate: 31/12/2024\n---\n")}
	return fsys
}
