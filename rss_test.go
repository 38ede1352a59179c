package portfolio

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/aurorascharff/aurorascharff.no/content"
)

func TestWriteRSSParses(t *testing.T) {
	cfg := SiteConfig{Name: "Aurora Scharff", URL: "https://example.com", Description: "Notes"}
	posts := []content.Entry{
		{
			Kind:        content.KindBlog,
			Slug:        "newer",
			Title:       "Newer <post>",
			Date:        time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC),
			Description: "Has a description",
			Tags:        []string{"react", "forms"},
		},
		{
			Kind:  content.KindBlog,
			Slug:  "older",
			Title: "Older",
			Date:  time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC),
			Body:  "# Heading\n\nBody **text** only.",
		},
	}

	var buf bytes.Buffer
	if err := writeRSS(&buf, cfg, posts); err != nil {
		t.Fatalf("writeRSS failed: %v", err)
	}
	feed, err := gofeed.NewParser().ParseString(buf.String())
	if err != nil {
		t.Fatalf("generated feed does not parse: %v\n%s", err, buf.String())
	}
	if feed.FeedType != "rss" || feed.FeedVersion != "2.0" {
		t.Errorf("feed type = %s %s, want rss 2.0", feed.FeedType, feed.FeedVersion)
	}
	if feed.Title != "Aurora Scharff" || feed.Link != "https://example.com" {
		t.Errorf("channel = %q %q", feed.Title, feed.Link)
	}
	if len(feed.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(feed.Items))
	}

	first := feed.Items[0]
	if first.Title != "Newer <post>" {
		t.Errorf("title = %q", first.Title)
	}
	if first.Link != "https://example.com/blog/newer/" || first.GUID != first.Link {
		t.Errorf("link = %q guid = %q", first.Link, first.GUID)
	}
	if first.PublishedParsed == nil || !first.PublishedParsed.Equal(posts[0].Date) {
		t.Errorf("pubDate = %v, want %v", first.PublishedParsed, posts[0].Date)
	}
	if strings.Join(first.Categories, ",") != "react,forms" {
		t.Errorf("categories = %v", first.Categories)
	}
	if feed.Items[1].Description != "Heading Body text only." {
		t.Errorf("excerpt description = %q", feed.Items[1].Description)
	}
}

func TestWriteRSSEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := writeRSS(&buf, SiteConfig{Name: "Empty", URL: "https://example.com"}, nil); err != nil {
		t.Fatalf("writeRSS failed: %v", err)
	}
	feed, err := gofeed.NewParser().ParseString(buf.String())
	if err != nil {
		t.Fatalf("empty feed does not parse: %v", err)
	}
	if len(feed.Items) != 0 {
		t.Errorf("got %d items, want 0", len(feed.Items))
	}
	if strings.Contains(buf.String(), "lastBuildDate") {
		t.Error("empty feed should not carry lastBuildDate")
	}
}
