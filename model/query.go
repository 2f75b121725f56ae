package model

// SortMode selects the ordering of a note listing.
type SortMode string

const (
	SortNewest       SortMode = "newest"
	SortOldest       SortMode = "oldest"
	SortAlphabetical SortMode = "alphabetical"
	SortUpdated      SortMode = "updated"
	// SortCreated is creation time descending without pinned-first. A sort
	// parameter that names no known mode lands here.
	SortCreated SortMode = "created"
)

// ParseSortMode resolves an explicit sort parameter. Empty or unknown values
// become SortCreated; an absent parameter is SortNewest, see Resolve.
func ParseSortMode(s string) SortMode {
	switch mode := SortMode(s); mode {
	case SortNewest, SortOldest, SortAlphabetical, SortUpdated:
		return mode
	default:
		return SortCreated
	}
}

// Resolve treats the zero value as SortNewest.
func (m SortMode) Resolve() SortMode {
	if m == "" {
		return SortNewest
	}
	return ParseSortMode(string(m))
}

// PinnedFirst reports whether pinned notes are surfaced ahead of the primary
// order. Only the two creation-time modes do this.
func (m SortMode) PinnedFirst() bool {
	return m == SortNewest || m == SortOldest
}

// NoteQuery is a listing request already scoped to one owner. Stores must
// treat OwnerID as a mandatory equality constraint.
type NoteQuery struct {
	OwnerID      string
	Sort         SortMode
	Search       string // case-insensitive substring of title or content
	Tag          string // lower-cased exact tag match
	FavoriteOnly bool
	PinnedOnly   bool
}
