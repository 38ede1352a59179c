package content

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

const (
	blogDir     = "blog"
	speakingDir = "speaking"
	aboutFile   = "about.md"
)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

var yamlFormat = frontmatter.NewFormat("---", "---", yaml.Unmarshal)

// frontMatter mirrors the YAML header of a content file. Dates are kept as
// strings so that malformed values can be reported with the file name.
type frontMatter struct {
	Title       string   `yaml:"title"`
	Slug        string   `yaml:"slug"`
	Date        string   `yaml:"date"`
	Draft       bool     `yaml:"draft"`
	Completed   bool     `yaml:"completed"`
	Tags        []string `yaml:"tags"`
	Author      string   `yaml:"author"`
	Description string   `yaml:"description"`
	Link        string   `yaml:"link"`
	WebsiteLink string   `yaml:"websiteLink"`
}

// Loader reads entries from a content tree.
type Loader struct {
	fsys   fs.FS
	author string
}

// NewLoader creates a Loader over fsys. author is used for entries whose
// frontmatter does not name one.
func NewLoader(fsys fs.FS, author string) *Loader {
	return &Loader{fsys: fsys, author: author}
}

// Load reads both collections, orders them newest first and reads the About
// page if present.
func (l *Loader) Load() (*Site, error) {
	blog, err := l.LoadCollection(KindBlog)
	if err != nil {
		return nil, err
	}
	talks, err := l.LoadCollection(KindSpeaking)
	if err != nil {
		return nil, err
	}
	site := &Site{blog: blog, speaking: talks}
	about, err := l.LoadPage(aboutFile)
	switch {
	case err == nil:
		site.about = &about
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, err
	}
	return site, nil
}

// LoadCollection reads every markdown file of a collection directory and
// returns the entries ordered by date, newest first. A missing directory is an
// empty collection.
func (l *Loader) LoadCollection(kind Kind) ([]Entry, error) {
	dir := collectionDir(kind)
	if dir == "" {
		return nil, fmt.Errorf("content: unknown collection %q", kind)
	}
	files, err := fs.ReadDir(l.fsys, dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("content: read %s: %w", dir, err)
	}

	var entries []Entry
	seen := make(map[string]string)
	for _, f := range files {
		if f.IsDir() || !isMarkdown(f.Name()) {
			continue
		}
		p := path.Join(dir, f.Name())
		e, err := l.readEntry(p, kind)
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[e.Slug]; dup {
			return nil, fmt.Errorf("content: duplicate slug %q in %s and %s", e.Slug, prev, p)
		}
		seen[e.Slug] = p
		entries = append(entries, e)
	}
	return SortByDate(entries)
}

// LoadPage reads a single undated page such as about.md.
func (l *Loader) LoadPage(name string) (Entry, error) {
	return l.readEntry(name, KindPage)
}

func (l *Loader) readEntry(p string, kind Kind) (Entry, error) {
	raw, err := fs.ReadFile(l.fsys, p)
	if err != nil {
		return Entry{}, fmt.Errorf("content: read %s: %w", p, err)
	}
	var fm frontMatter
	body, err := frontmatter.Parse(bytes.NewReader(raw), &fm, yamlFormat)
	if err != nil {
		return Entry{}, fmt.Errorf("content: parse frontmatter of %s: %w", p, err)
	}

	base := strings.TrimSuffix(path.Base(p), path.Ext(p))
	e := Entry{
		Kind:        kind,
		Slug:        strings.TrimSpace(fm.Slug),
		Title:       strings.TrimSpace(fm.Title),
		Draft:       fm.Draft,
		Completed:   fm.Completed,
		Tags:        cleanTags(fm.Tags),
		Author:      strings.TrimSpace(fm.Author),
		Description: strings.TrimSpace(fm.Description),
		Links: Links{
			Primary: strings.TrimSpace(fm.Link),
			Website: strings.TrimSpace(fm.WebsiteLink),
		},
		Body:   strings.TrimSpace(string(body)),
		Source: p,
	}
	if e.Slug == "" {
		if !validSlug(base, "_") {
			return Entry{}, fmt.Errorf("content: %s: file name %q cannot be used as a slug: %w", p, base, ErrInvalidSlug)
		}
		e.Slug = base
	} else if !validSlug(e.Slug, "") {
		return Entry{}, fmt.Errorf("content: %s: slug %q must be lowercase letters, digits and single hyphens: %w", p, e.Slug, ErrInvalidSlug)
	}
	if e.Title == "" {
		e.Title = titleFromName(base)
	}
	if e.Author == "" {
		e.Author = l.author
	}

	rawDate := strings.TrimSpace(fm.Date)
	if kind == KindPage && rawDate == "" {
		return e, nil
	}
	date, ok := parseDate(rawDate)
	if !ok {
		return Entry{}, &DateError{Source: p, Slug: e.Slug, Raw: rawDate}
	}
	e.Date = date
	return e, nil
}

// validSlug reports whether s is safe to use as a single URL path segment and
// file name: lowercase ASCII letters and digits joined by single hyphens, plus
// any rune in extra.
func validSlug(s, extra string) bool {
	if s == "" || s[0] == '-' || s[len(s)-1] == '-' || strings.Contains(s, "--") {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
		case strings.ContainsRune(extra, r):
		default:
			return false
		}
	}
	return true
}

func parseDate(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func cleanTags(tags []string) []string {
	var out []string
	for _, t := range tags {
		if s := strings.TrimSpace(t); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func titleFromName(name string) string {
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)
	return cases.Title(language.English).String(name)
}

func collectionDir(kind Kind) string {
	switch kind {
	case KindBlog:
		return blogDir
	case KindSpeaking:
		return speakingDir
	}
	return ""
}

func isMarkdown(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	return ext == ".md" || ext == ".markdown"
}
