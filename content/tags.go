package content

import (
	"sort"
	"strings"
)

// Tags returns a sorted, de-duplicated, lower-cased slice of all tags used by entries.
func Tags(entries []Entry) []string {
	set := make(map[string]struct{})
	for _, e := range entries {
		for _, t := range e.Tags {
			if t = normalizeTag(t); t != "" {
				set[t] = struct{}{}
			}
		}
	}
	result := make([]string, 0, len(set))
	for t := range set {
		result = append(result, t)
	}
	sort.Strings(result)
	return result
}

// WithTag filters entries to those carrying tag, compared case-insensitively.
// An empty tag returns entries unchanged.
func WithTag(entries []Entry, tag string) []Entry {
	if tag == "" {
		return entries
	}
	normalized := normalizeTag(tag)
	var filtered []Entry
	for _, e := range entries {
		if hasTag(e, normalized) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// Related finds entries that share at least one tag with current.
func Related(current Entry, entries []Entry) []Entry {
	tagSet := make(map[string]struct{})
	for _, t := range current.Tags {
		if t = normalizeTag(t); t != "" {
			tagSet[t] = struct{}{}
		}
	}
	var related []Entry
	for _, e := range entries {
		if e.Slug == current.Slug && e.Kind == current.Kind {
			continue
		}
		for _, t := range e.Tags {
			if _, ok := tagSet[normalizeTag(t)]; ok {
				related = append(related, e)
				break
			}
		}
	}
	return related
}

func hasTag(e Entry, normalized string) bool {
	for _, t := range e.Tags {
		if normalizeTag(t) == normalized {
			return true
		}
	}
	return false
}

func normalizeTag(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}
