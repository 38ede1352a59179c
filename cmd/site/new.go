package main

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	portfolio "github.com/aurorascharff/aurorascharff.no"
	"github.com/aurorascharff/aurorascharff.no/content"
)

// entryHeader is the frontmatter written for a new entry. Field order is
// the order in the generated file.
type entryHeader struct {
	Title       string   `yaml:"title"`
	Date        string   `yaml:"date"`
	Draft       bool     `yaml:"draft,omitempty"`
	Completed   *bool    `yaml:"completed,omitempty"`
	Tags        []string `yaml:"tags,omitempty"`
	Description string   `yaml:"description,omitempty"`
	Link        string   `yaml:"link,omitempty"`
	WebsiteLink string   `yaml:"websiteLink,omitempty"`
}

type newOptions struct {
	date        string
	tags        string
	description string
	link        string
	websiteLink string
	draft       bool
}

var newOpts newOptions

var newCmd = &cobra.Command{
	Use:       "new blog|speaking <title>",
	Short:     "Create a new blog post or speaking engagement",
	Example:   "  site new blog \"Forms with Server Actions\" --tags react,forms --draft\n  site new speaking \"React Conf\" --date 2025-05-15 --website https://conf.react.dev",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{string(content.KindBlog), string(content.KindSpeaking)},
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := writeEntry(siteCfg.ContentDir, content.Kind(args[0]), args[1], newOpts, time.Now())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Created", path)
		return nil
	},
}

func init() {
	f := newCmd.Flags()
	f.StringVar(&newOpts.date, "date", "", "entry date, YYYY-MM-DD (default today)")
	f.StringVar(&newOpts.tags, "tags", "", "comma-separated tags")
	f.StringVar(&newOpts.description, "description", "", "short description")
	f.StringVar(&newOpts.link, "link", "", "recording or slides link (speaking)")
	f.StringVar(&newOpts.websiteLink, "website", "", "event website (speaking)")
	f.BoolVar(&newOpts.draft, "draft", false, "mark the post as a draft (blog)")
}

// writeEntry creates <contentDir>/<kind>/<slug>.md and returns its path. It
// never overwrites an existing file.
func writeEntry(contentDir string, kind content.Kind, title string, opts newOptions, now time.Time) (string, error) {
	if contentDir == "" {
		contentDir = "content"
	}
	if kind != content.KindBlog && kind != content.KindSpeaking {
		return "", fmt.Errorf("unknown kind %q: want %q or %q", kind, content.KindBlog, content.KindSpeaking)
	}
	slug := portfolio.Slugify(title)
	if slug == "" {
		return "", errors.New("title must contain at least one letter or digit")
	}

	date := now.Format(time.DateOnly)
	if opts.date != "" {
		d, err := time.Parse(time.DateOnly, opts.date)
		if err != nil {
			return "", fmt.Errorf("invalid --date %q: use YYYY-MM-DD", opts.date)
		}
		date = d.Format(time.DateOnly)
	}

	header := entryHeader{
		Title:       title,
		Date:        date,
		Tags:        portfolio.SplitTags(opts.tags),
		Description: opts.description,
	}
	switch kind {
	case content.KindBlog:
		header.Draft = opts.draft
	case content.KindSpeaking:
		completed := false
		header.Completed = &completed
		header.Link = opts.link
		header.WebsiteLink = opts.websiteLink
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(header); err != nil {
		return "", fmt.Errorf("encode frontmatter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encode frontmatter: %w", err)
	}
	buf.WriteString("---\n\n")

	dir := filepath.Join(contentDir, string(kind))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, slug+".md")
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("%s already exists", path)
		}
		return "", err
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		f.Close()
		return "", err
	}
	return path, f.Close()
}
