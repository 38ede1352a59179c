// Package ogimage renders Open Graph preview images for pages of the site.
//
// Rendering is a pure function of the Spec: the same Spec always produces the
// same PNG bytes, which lets the build cache images by Spec.Key.
package ogimage

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"
	"time"
)

// Image dimensions recommended by the Open Graph protocol.
const (
	Width  = 1200
	Height = 630
)

// renderVersion is part of every cache key. Bump it when the layout changes.
const renderVersion = 1

// ErrMissingTitle is returned when a Spec has no title to render.
var ErrMissingTitle = errors.New("ogimage: title is required")

// Template selects the layout used for a Spec.
type Template int

const (
	TemplateSite Template = iota
	TemplatePost
	TemplateEvent
)

func (t Template) String() string {
	switch t {
	case TemplatePost:
		return "post"
	case TemplateEvent:
		return "event"
	default:
		return "site"
	}
}

// ParseTemplate maps a template name back to its Template.
func ParseTemplate(name string) (Template, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "site":
		return TemplateSite, nil
	case "post":
		return TemplatePost, nil
	case "event":
		return TemplateEvent, nil
	}
	return TemplateSite, fmt.Errorf("ogimage: unknown template %q", name)
}

// Theme holds the palette of an image.
type Theme struct {
	Primary    color.RGBA
	Secondary  color.RGBA
	Background color.RGBA
	Text       color.RGBA
}

// DefaultTheme is used for every color a Spec leaves unset.
var DefaultTheme = Theme{
	Primary:    color.RGBA{0x7c, 0x3a, 0xed, 0xff},
	Secondary:  color.RGBA{0xf4, 0x72, 0xb6, 0xff},
	Background: color.RGBA{0x0f, 0x17, 0x2a, 0xff},
	Text:       color.RGBA{0xf8, 0xfa, 0xfc, 0xff},
}

// ParseTheme builds a Theme from CSS hex colors ("#rgb" or "#rrggbb"). Empty
// values keep the DefaultTheme color.
func ParseTheme(primary, secondary, background, text string) (Theme, error) {
	t := DefaultTheme
	fields := []struct {
		name string
		raw  string
		dst  *color.RGBA
	}{
		{"primary", primary, &t.Primary},
		{"secondary", secondary, &t.Secondary},
		{"background", background, &t.Background},
		{"text", text, &t.Text},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.raw) == "" {
			continue
		}
		c, err := parseHex(f.raw)
		if err != nil {
			return Theme{}, fmt.Errorf("ogimage: theme %s: %w", f.name, err)
		}
		*f.dst = c
	}
	return t, nil
}

func (t Theme) withDefaults() Theme {
	var zero color.RGBA
	if t.Primary == zero {
		t.Primary = DefaultTheme.Primary
	}
	if t.Secondary == zero {
		t.Secondary = DefaultTheme.Secondary
	}
	if t.Background == zero {
		t.Background = DefaultTheme.Background
	}
	if t.Text == zero {
		t.Text = DefaultTheme.Text
	}
	return t
}

func parseHex(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// Spec describes one preview image.
type Spec struct {
	Template    Template
	Title       string
	Author      string
	Description string
	Label       string // small caption above the title; defaults per template
	Date        time.Time
	Theme       Theme
}

// Validate checks that the spec can be rendered.
func (s Spec) Validate() error {
	if strings.TrimSpace(s.Title) == "" {
		return ErrMissingTitle
	}
	return nil
}

// Key returns a stable hash of everything that affects the rendered image.
func (s Spec) Key() string {
	s.Theme = s.Theme.withDefaults()
	payload := struct {
		Version int
		Spec    Spec
	}{renderVersion, s}
	b, _ := json.Marshal(payload)
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func (s Spec) label() string {
	if s.Label != "" {
		return s.Label
	}
	switch s.Template {
	case TemplatePost:
		return "Blog"
	case TemplateEvent:
		return "Speaking"
	}
	return ""
}
