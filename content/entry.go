// Package content loads blog posts, speaking engagements and standalone pages
// from frontmatter-delimited markdown files and orders them for rendering.
package content

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

// Kind identifies the collection an entry belongs to.
type Kind string

const (
	KindBlog     Kind = "blog"
	KindSpeaking Kind = "speaking"
	KindPage     Kind = "page"
)

var (
	// ErrInvalidDate is returned for entries whose date is missing or malformed.
	ErrInvalidDate = errors.New("invalid date")
	// ErrNotFound is returned when a requested entry does not exist.
	ErrNotFound = errors.New("entry not found")
	// ErrInvalidSlug is returned for entries whose slug is not a single
	// lowercase path segment.
	ErrInvalidSlug = errors.New("invalid slug")
)

// Links carries optional outbound links of an entry. For talks Primary points
// at the recording or slides and Website at the event.
type Links struct {
	Primary string
	Website string
}

// Entry is a single blog post, talk or page with its frontmatter metadata.
type Entry struct {
	Kind        Kind
	Slug        string
	Title       string
	Date        time.Time
	Draft       bool
	Completed   bool
	Tags        []string
	Author      string
	Description string
	Links       Links
	Body        string
	Source      string // path inside the content FS
}

// Link returns the site-relative URL of the entry.
func (e Entry) Link() string {
	switch e.Kind {
	case KindBlog:
		return "/blog/" + e.Slug + "/"
	case KindSpeaking:
		return "/speaking/#" + e.Slug
	default:
		return "/" + e.Slug + "/"
	}
}

// DateString formats the entry date as YYYY-MM-DD, or "" for undated pages.
func (e Entry) DateString() string {
	if e.Date.IsZero() {
		return ""
	}
	return e.Date.Format("2006-01-02")
}

func (e Entry) clone() Entry {
	e.Tags = slices.Clone(e.Tags)
	return e
}

// DateError reports an entry that cannot be ordered by date.
type DateError struct {
	Source string
	Slug   string
	Raw    string
}

func (e *DateError) Error() string {
	name := e.Source
	if name == "" {
		name = e.Slug
	}
	if e.Raw == "" {
		return fmt.Sprintf("%s: missing date", name)
	}
	return fmt.Sprintf("%s: cannot parse date %q (use YYYY-MM-DD or RFC3339)", name, e.Raw)
}

func (e *DateError) Unwrap() error { return ErrInvalidDate }
