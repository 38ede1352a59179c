package content

import (
	"iter"
	"slices"
)

// Predicate reports whether an entry belongs to the matching side of a View.
type Predicate func(Entry) bool

// Completed matches talks that already took place.
func Completed(e Entry) bool { return e.Completed }

// Draft matches unpublished posts.
func Draft(e Entry) bool { return e.Draft }

// Published matches everything that is not a draft.
func Published(e Entry) bool { return !e.Draft }

// SortByDate returns a copy of entries ordered newest first. Entries with the
// same date keep their input order. An entry without a date fails the whole
// sort instead of being placed arbitrarily.
func SortByDate(entries []Entry) ([]Entry, error) {
	for _, e := range entries {
		if e.Date.IsZero() {
			return nil, &DateError{Source: e.Source, Slug: e.Slug}
		}
	}
	sorted := make([]Entry, len(entries))
	for i, e := range entries {
		sorted[i] = e.clone()
	}
	slices.SortStableFunc(sorted, func(a, b Entry) int {
		return b.Date.Compare(a.Date)
	})
	return sorted, nil
}

// View splits an ordered sequence of entries into two disjoint sequences by a
// predicate. Both sides keep the relative order of the underlying sequence and
// every entry lands on exactly one side.
type View struct {
	entries []Entry
	pred    Predicate
}

// Partition builds a View over entries. The slice is not copied; callers pass
// the result of SortByDate, which is already private to them.
func Partition(entries []Entry, pred Predicate) View {
	return View{entries: entries, pred: pred}
}

// Matching yields the entries for which the predicate holds.
func (v View) Matching() iter.Seq[Entry] {
	return v.side(true)
}

// Others yields the entries for which the predicate does not hold.
func (v View) Others() iter.Seq[Entry] {
	return v.side(false)
}

func (v View) side(want bool) iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for _, e := range v.entries {
			if v.pred(e) != want {
				continue
			}
			if !yield(e.clone()) {
				return
			}
		}
	}
}

// Split materializes both sides of the view.
func (v View) Split() (matching, others []Entry) {
	for _, e := range v.entries {
		if v.pred(e) {
			matching = append(matching, e.clone())
		} else {
			others = append(others, e.clone())
		}
	}
	return matching, others
}

// Len returns the number of entries on both sides together.
func (v View) Len() int { return len(v.entries) }
