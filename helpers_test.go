package portfolio

import (
	"slices"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Hello World", "hello-world"},
		{"  Server Components & Forms  ", "server-components-forms"},
		{"React 19: What's New?", "react-19-what-s-new"},
		{"Café au lait", "cafe-au-lait"},
		{"---", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Slugify(tt.input); got != tt.expected {
			t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestBuildURL(t *testing.T) {
	tests := []struct {
		base     string
		segments []string
		expected string
	}{
		{"https://example.com", nil, "https://example.com"},
		{"https://example.com", []string{"blog", "post"}, "https://example.com/blog/post/"},
		{"https://example.com/", []string{"speaking"}, "https://example.com/speaking/"},
	}
	for _, tt := range tests {
		if got := BuildURL(tt.base, tt.segments...); got != tt.expected {
			t.Errorf("BuildURL(%q, %v) = %q, want %q", tt.base, tt.segments, got, tt.expected)
		}
	}
}

func TestSplitTags(t *testing.T) {
	got := SplitTags(" react, ,next.js ,")
	if !slices.Equal(got, []string{"react", "next.js"}) {
		t.Errorf("SplitTags = %v", got)
	}
	if SplitTags("") != nil {
		t.Error("SplitTags(\"\") should be nil")
	}
}

func TestPNGSlug(t *testing.T) {
	tests := []struct {
		input string
		slug  string
		ok    bool
	}{
		{"hello.png", "hello", true},
		{"hello", "", false},
		{".png", "", false},
		{"hello.jpg", "", false},
	}
	for _, tt := range tests {
		slug, ok := pngSlug(tt.input)
		if slug != tt.slug || ok != tt.ok {
			t.Errorf("pngSlug(%q) = %q, %v; want %q, %v", tt.input, slug, ok, tt.slug, tt.ok)
		}
	}
}
