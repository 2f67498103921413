package library

import (
	"slices"

	"github.com/google/uuid"
)

// Playlist is a named ordered list of song copies. Copies may be stale or
// lack a media file; they are matched back to the library at play time.
//
// Playlist values are never modified in place: editing methods return a new
// Playlist and leave the receiver's song slice untouched.
type Playlist struct {
	ID    string
	Name  string
	Songs []Song
}

// NewPlaylist creates an empty playlist with a fresh id.
func NewPlaylist(name string) Playlist {
	return Playlist{
		ID:    uuid.NewString(),
		Name:  name,
		Songs: []Song{},
	}
}

// Len returns the number of songs.
func (p Playlist) Len() int {
	return len(p.Songs)
}

// IsEmpty reports whether the playlist has no songs.
func (p Playlist) IsEmpty() bool {
	return len(p.Songs) == 0
}

// Song returns the song at index, or false if out of bounds.
func (p Playlist) Song(index int) (Song, bool) {
	if index < 0 || index >= len(p.Songs) {
		return Song{}, false
	}
	return p.Songs[index], true
}

// Position returns the index of the first song sharing base id with s, or -1.
func (p Playlist) Position(s Song) int {
	return IndexByBase(s.ID.Base, p.Songs)
}

// WithSongs appends songs stored under their base id. Songs whose base id is
// already present are skipped.
func (p Playlist) WithSongs(songs ...Song) Playlist {
	next := slices.Clone(p.Songs)
	for _, s := range songs {
		if IndexByBase(s.ID.Base, next) >= 0 {
			continue
		}
		c := s.Clone()
		c.ID = s.ID.BaseOnly()
		c.PlaylistContext = nil
		c.PriorityQueue = false
		next = append(next, c)
	}
	p.Songs = next
	return p
}

// Without removes the song at index.
// Returns false if index is out of bounds.
func (p Playlist) Without(index int) (Playlist, bool) {
	if index < 0 || index >= len(p.Songs) {
		return p, false
	}
	p.Songs = slices.Delete(slices.Clone(p.Songs), index, index+1)
	return p, true
}

// WithoutID removes every song matching id by full id.
func (p Playlist) WithoutID(id ID) Playlist {
	p.Songs = slices.DeleteFunc(slices.Clone(p.Songs), func(s Song) bool {
		return s.ID == id
	})
	return p
}

// Moved moves the song at fromIndex to toIndex.
// Returns false if either index is out of bounds.
func (p Playlist) Moved(fromIndex, toIndex int) (Playlist, bool) {
	if fromIndex < 0 || fromIndex >= len(p.Songs) {
		return p, false
	}
	if toIndex < 0 || toIndex >= len(p.Songs) {
		return p, false
	}
	if fromIndex == toIndex {
		return p, true
	}

	next := slices.Clone(p.Songs)
	s := next[fromIndex]
	next = slices.Delete(next, fromIndex, fromIndex+1)
	next = slices.Insert(next, toIndex, s)
	p.Songs = next
	return p, true
}

// Resolved returns a copy whose songs are replaced by their library matches.
// Songs with no match are kept as they are.
func (p Playlist) Resolved(library []Song) Playlist {
	next := make([]Song, len(p.Songs))
	for i, s := range p.Songs {
		next[i] = ResolveOr(s, library)
	}
	p.Songs = next
	return p
}

// Synced returns a copy whose songs are replaced by the library entry sharing
// their base id. This is the narrower reconciliation run when the library
// changes.
func (p Playlist) Synced(library []Song) Playlist {
	next := make([]Song, len(p.Songs))
	for i, s := range p.Songs {
		if j := IndexByBase(s.ID.Base, library); j >= 0 {
			next[i] = library[j]
			continue
		}
		next[i] = s
	}
	p.Songs = next
	return p
}
