package portfolio

import (
	"testing"
	"testing/fstest"
	"time"

	"github.com/aurorascharff/aurorascharff.no/content"
)

func TestContentCacheReusesSnapshot(t *testing.T) {
	fsys := testContent()
	c := NewContentCache(content.NewLoader(fsys, "Aurora"), time.Hour)

	first, err := c.Site()
	if err != nil {
		t.Fatalf("Site failed: %v", err)
	}
	fsys["blog/new.md"] = &fstest.MapFile{Data: []byte("---\ntitle: New\ndate: 2025-01-01\n---\n")}
	second, err := c.Site()
	if err != nil {
		t.Fatalf("Site failed: %v", err)
	}
	if first != second {
		t.Error("expected the cached snapshot within the TTL")
	}

	c.Invalidate()
	third, err := c.Site()
	if err != nil {
		t.Fatalf("Site failed: %v", err)
	}
	if _, err := third.Post("new", false); err != nil {
		t.Errorf("new post not visible after Invalidate: %v", err)
	}
}

func TestContentCacheExpires(t *testing.T) {
	c := NewContentCache(content.NewLoader(testContent(), "Aurora"), time.Millisecond)
	first, err := c.Site()
	if err != nil {
		t.Fatalf("Site failed: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	second, err := c.Site()
	if err != nil {
		t.Fatalf("Site failed: %v", err)
	}
	if first == second {
		t.Error("expected a reload after the TTL")
	}
}

func TestContentCacheRetriesAfterError(t *testing.T) {
	fsys := fstestWithBadDate()
	c := NewContentCache(content.NewLoader(fsys, "Aurora"), time.Hour)
	if _, err := c.Site(); err == nil {
		t.Fatal("expected load error")
	}
	delete(fsys, "blog/broken.md")
	if _, err := c.Site(); err != nil {
		t.Errorf("load after fix failed: %v", err)
	}
}
