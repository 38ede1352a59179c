package content

// Site is one loaded snapshot of the content tree. Collections are ordered
// newest first.
type Site struct {
	blog     []Entry
	speaking []Entry
	about    *Entry
}

// NewSite builds a Site from already loaded entries, ordering each collection
// by date.
func NewSite(blog, speaking []Entry, about *Entry) (*Site, error) {
	b, err := SortByDate(blog)
	if err != nil {
		return nil, err
	}
	s, err := SortByDate(speaking)
	if err != nil {
		return nil, err
	}
	return &Site{blog: b, speaking: s, about: about}, nil
}

// Posts returns blog posts, newest first. Drafts are left out unless
// includeDrafts is set.
func (s *Site) Posts(includeDrafts bool) []Entry {
	if includeDrafts {
		return cloneAll(s.blog)
	}
	_, published := Partition(s.blog, Draft).Split()
	return published
}

// Drafts returns unpublished posts, newest first.
func (s *Site) Drafts() []Entry {
	drafts, _ := Partition(s.blog, Draft).Split()
	return drafts
}

// Talks partitions speaking engagements on Completed: Matching yields past
// talks and Others yields upcoming ones.
func (s *Site) Talks() View {
	return Partition(s.speaking, Completed)
}

// AllTalks returns every speaking engagement, newest first.
func (s *Site) AllTalks() []Entry {
	return cloneAll(s.speaking)
}

// Post looks up a blog post by slug.
func (s *Site) Post(slug string, includeDrafts bool) (Entry, error) {
	for _, e := range s.blog {
		if e.Slug == slug && (includeDrafts || !e.Draft) {
			return e.clone(), nil
		}
	}
	return Entry{}, ErrNotFound
}

// Talk looks up a speaking engagement by slug.
func (s *Site) Talk(slug string) (Entry, error) {
	for _, e := range s.speaking {
		if e.Slug == slug {
			return e.clone(), nil
		}
	}
	return Entry{}, ErrNotFound
}

// About returns the About page.
func (s *Site) About() (Entry, error) {
	if s.about == nil {
		return Entry{}, ErrNotFound
	}
	return s.about.clone(), nil
}

func cloneAll(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	for i, e := range entries {
		out[i] = e.clone()
	}
	return out
}
