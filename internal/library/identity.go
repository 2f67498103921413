package library

// MatchKind tells which rule matched two song copies.
type MatchKind int

const (
	MatchNone MatchKind = iota
	MatchFullID
	MatchBaseID
	MatchTriple
)

// String returns the match kind name.
func (k MatchKind) String() string {
	switch k {
	case MatchNone:
		return "none"
	case MatchFullID:
		return "full-id"
	case MatchBaseID:
		return "base-id"
	case MatchTriple:
		return "title-artist-album"
	default:
		return "unknown"
	}
}

// BaseID returns the stable identity of a song.
func BaseID(s Song) string {
	return s.ID.Base
}

// SameTrack reports whether a and b share a base id.
func SameTrack(a, b Song) bool {
	return a.ID.Base == b.ID.Base
}

func sameTriple(a, b Song) bool {
	return a.Title == b.Title && a.Artist == b.Artist && a.Album == b.Album
}

// FindIndex locates target in candidates. Full id equality anywhere in the
// list wins over base id equality, which wins over an exact title, artist and
// album match. Returns -1 and MatchNone on a miss.
func FindIndex(target Song, candidates []Song) (int, MatchKind) {
	if i := IndexByFullID(target.ID, candidates); i >= 0 {
		return i, MatchFullID
	}
	if i := IndexByBase(target.ID.Base, candidates); i >= 0 {
		return i, MatchBaseID
	}
	for i := range candidates {
		if sameTriple(target, candidates[i]) {
			return i, MatchTriple
		}
	}
	return -1, MatchNone
}

// FindMatch returns the candidate matching target, if any.
func FindMatch(target Song, candidates []Song) (Song, bool) {
	i, _ := FindIndex(target, candidates)
	if i < 0 {
		return Song{}, false
	}
	return candidates[i], true
}

// ResolveOr returns the matching candidate, or target itself on a miss.
func ResolveOr(target Song, candidates []Song) Song {
	if m, ok := FindMatch(target, candidates); ok {
		return m
	}
	return target
}

// IndexByBase returns the first song whose base id is base, or -1.
func IndexByBase(base string, songs []Song) int {
	if base == "" {
		return -1
	}
	for i := range songs {
		if songs[i].ID.Base == base {
			return i
		}
	}
	return -1
}

// IndexByFullID returns the first song whose full id equals id, or -1.
func IndexByFullID(id ID, songs []Song) int {
	if id.IsZero() {
		return -1
	}
	for i := range songs {
		if songs[i].ID == id {
			return i
		}
	}
	return -1
}

// FindByPath matches on the directory and original filename custom tags.
func FindByPath(target Song, candidates []Song) (Song, bool) {
	dir, name := target.Tag(TagDirectory), target.Tag(TagOriginalFilename)
	if name == "" {
		return Song{}, false
	}
	for _, c := range candidates {
		if c.Tag(TagOriginalFilename) == name && c.Tag(TagDirectory) == dir {
			return c, true
		}
	}
	return Song{}, false
}
