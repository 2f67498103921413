package library

import (
	"slices"
	"strings"
)

// Playlists returns all playlists.
func (l *Library) Playlists() []Playlist {
	return l.playlists
}

// Playlist returns the playlist with id.
func (l *Library) Playlist(id string) (Playlist, bool) {
	i := slices.IndexFunc(l.playlists, func(p Playlist) bool { return p.ID == id })
	if i < 0 {
		return Playlist{}, false
	}
	return l.playlists[i], true
}

// PlaylistByName returns the first playlist named name, case-insensitively.
func (l *Library) PlaylistByName(name string) (Playlist, bool) {
	i := slices.IndexFunc(l.playlists, func(p Playlist) bool { return strings.EqualFold(p.Name, name) })
	if i < 0 {
		return Playlist{}, false
	}
	return l.playlists[i], true
}

// CreatePlaylist adds an empty playlist. Blank names are trimmed; the caller
// validates emptiness.
func (l *Library) CreatePlaylist(name string) Playlist {
	p := NewPlaylist(strings.TrimSpace(name))
	l.playlists = append(slices.Clone(l.playlists), p)
	return p
}

// DeletePlaylist removes the playlist with id.
func (l *Library) DeletePlaylist(id string) error {
	return l.updatePlaylists(id, func(_ Playlist) (Playlist, bool) {
		return Playlist{}, false
	})
}

// RenamePlaylist renames the playlist with id.
func (l *Library) RenamePlaylist(id, name string) error {
	return l.updatePlaylists(id, func(p Playlist) (Playlist, bool) {
		p.Name = strings.TrimSpace(name)
		return p, true
	})
}

// AddToPlaylist appends songs to the playlist, skipping base ids already in it.
func (l *Library) AddToPlaylist(id string, songs ...Song) error {
	return l.updatePlaylists(id, func(p Playlist) (Playlist, bool) {
		return p.WithSongs(songs...), true
	})
}

// RemoveFromPlaylist removes the song at index.
func (l *Library) RemoveFromPlaylist(id string, index int) error {
	return l.updatePlaylists(id, func(p Playlist) (Playlist, bool) {
		next, _ := p.Without(index)
		return next, true
	})
}

// MoveInPlaylist moves a song within the playlist.
func (l *Library) MoveInPlaylist(id string, from, to int) error {
	return l.updatePlaylists(id, func(p Playlist) (Playlist, bool) {
		next, _ := p.Moved(from, to)
		return next, true
	})
}

// updatePlaylists applies fn to the playlist with id; fn returning false
// drops the playlist.
func (l *Library) updatePlaylists(id string, fn func(Playlist) (Playlist, bool)) error {
	i := slices.IndexFunc(l.playlists, func(p Playlist) bool { return p.ID == id })
	if i < 0 {
		return ErrPlaylistNotFound
	}
	next := slices.Clone(l.playlists)
	p, keep := fn(next[i])
	if keep {
		next[i] = p
	} else {
		next = slices.Delete(next, i, i+1)
	}
	l.playlists = next
	return nil
}

// Collections returns all collections.
func (l *Library) Collections() []Collection {
	return l.collections
}

// Collection returns the collection with id.
func (l *Library) Collection(id string) (Collection, bool) {
	i := slices.IndexFunc(l.collections, func(c Collection) bool { return c.ID == id })
	if i < 0 {
		return Collection{}, false
	}
	return l.collections[i], true
}

// CollectionByName returns the first collection named name, case-insensitively.
func (l *Library) CollectionByName(name string) (Collection, bool) {
	i := slices.IndexFunc(l.collections, func(c Collection) bool { return strings.EqualFold(c.Name, name) })
	if i < 0 {
		return Collection{}, false
	}
	return l.collections[i], true
}

// CreateCollection adds an empty collection.
func (l *Library) CreateCollection(name string) Collection {
	c := NewCollection(strings.TrimSpace(name))
	l.collections = append(slices.Clone(l.collections), c)
	return c
}

// DeleteCollection removes the collection with id.
func (l *Library) DeleteCollection(id string) error {
	i := slices.IndexFunc(l.collections, func(c Collection) bool { return c.ID == id })
	if i < 0 {
		return ErrCollectionNotFound
	}
	l.collections = slices.Delete(slices.Clone(l.collections), i, i+1)
	return nil
}

// UpdateCollection replaces the collection with id by fn's result. fn
// returning false reports a missing section.
func (l *Library) UpdateCollection(id string, fn func(Collection) (Collection, bool)) error {
	i := slices.IndexFunc(l.collections, func(c Collection) bool { return c.ID == id })
	if i < 0 {
		return ErrCollectionNotFound
	}
	c, ok := fn(l.collections[i])
	if !ok {
		return ErrSectionNotFound
	}
	next := slices.Clone(l.collections)
	next[i] = c.Normalized()
	l.collections = next
	return nil
}
