package views

import "github.com/aurorascharff/aurorascharff.no/content"

// SiteConfig holds site-wide settings that every page template reads.
type SiteConfig struct {
	Name        string
	URL         string
	Description string
	Author      string
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	OGImage     string // absolute URL of the preview image
}

// HomeData is rendered on the landing page.
type HomeData struct {
	Posts    []content.Entry
	Upcoming []content.Entry
}

// BlogData is rendered on the post listing.
type BlogData struct {
	Posts     []content.Entry
	Tags      []string
	ActiveTag string
}

// PostData is rendered for a single post.
type PostData struct {
	Post    content.Entry
	Related []content.Entry
	Preview bool
}

// SpeakingData is rendered on the speaking page.
type SpeakingData struct {
	Upcoming []content.Entry
	Past     []content.Entry
}

// PreviewData is rendered on the draft preview login page.
type PreviewData struct {
	Active    bool
	ShowError bool
	CSRFToken string
	Drafts    []content.Entry
}

// page is what every layout receives.
type page struct {
	Site SiteConfig
	Meta PageMeta
	Data any
}
