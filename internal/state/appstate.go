// Package state persists the library between sessions.
package state

import (
	"context"

	"github.com/samber/lo"

	"github.com/llehouerou/setlist/internal/library"
)

// AppState is the persisted shape of the library. Repeat and shuffle modes
// are session-local and never part of it.
type AppState struct {
	Songs                []library.Song
	Playlists            []library.Playlist
	Collections          []library.Collection
	LastKnownDirectories []string
}

// FromSnapshot builds an AppState from a library snapshot.
func FromSnapshot(s library.Snapshot) AppState {
	return AppState{
		Songs:                s.Songs,
		Playlists:            s.Playlists,
		Collections:          s.Collections,
		LastKnownDirectories: s.Directories,
	}
}

// Snapshot converts the state back into a library snapshot.
func (a AppState) Snapshot() library.Snapshot {
	return library.Snapshot{
		Songs:       a.Songs,
		Playlists:   a.Playlists,
		Collections: a.Collections,
		Directories: a.LastKnownDirectories,
	}
}

// Store loads and saves AppState.
type Store interface {
	// Load returns nil without error when nothing was saved yet.
	Load(ctx context.Context) (*AppState, error)
	Save(ctx context.Context, s AppState) error
	Close() error
}

// Persisted returns the state as it is written out: library song ids are
// truncated to their base id, media files and transient playback markers are
// dropped, and nil slices become empty ones. Playlist and collection copies
// keep their ids.
func Persisted(a AppState) AppState {
	return AppState{
		Songs: lo.Map(a.Songs, func(s library.Song, _ int) library.Song {
			c := persistedSong(s)
			c.ID = s.ID.BaseOnly()
			return c
		}),
		Playlists:            lo.Map(a.Playlists, func(p library.Playlist, _ int) library.Playlist { return persistedPlaylist(p) }),
		Collections:          lo.Map(a.Collections, func(c library.Collection, _ int) library.Collection { return persistedCollection(c) }),
		LastKnownDirectories: nonNil(a.LastKnownDirectories),
	}
}

func persistedSong(s library.Song) library.Song {
	c := s.Clone()
	c.File = nil
	c.PlaylistContext = nil
	c.PriorityQueue = false
	return c
}

func persistedPlaylist(p library.Playlist) library.Playlist {
	p.Songs = lo.Map(p.Songs, func(s library.Song, _ int) library.Song { return persistedSong(s) })
	return p
}

func persistedCollection(c library.Collection) library.Collection {
	c = c.Normalized()
	c.Sections = lo.Map(c.Sections, func(s library.Section, _ int) library.Section {
		if s.Playlist != nil {
			pl := persistedPlaylist(*s.Playlist)
			s.Playlist = &pl
		}
		if s.AutoFill != nil {
			cfg := *s.AutoFill
			cfg.Tags = nonNil(cfg.Tags)
			s.AutoFill = &cfg
		}
		return s
	})
	return c
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
