// Package collection prepares collections for playback.
package collection

import (
	"math/rand/v2"

	"github.com/samber/lo"

	"github.com/llehouerou/setlist/internal/library"
	"github.com/llehouerou/setlist/internal/shuffle"
)

// Resolve returns a copy of c whose sections hold the library matches of
// their attached songs, with unplayable songs dropped. Auto-fill sections are
// resolved the same way; nothing is added to them. Sections flagged for
// shuffle are reshuffled on every call. c itself is not modified.
func Resolve(c library.Collection, songs []library.Song, rng *rand.Rand) library.Collection {
	c = c.Normalized()
	sections := make([]library.Section, len(c.Sections))
	for i, sec := range c.Sections {
		sections[i] = resolveSection(sec, songs, rng)
	}
	c.Sections = sections
	return c
}

func resolveSection(sec library.Section, songs []library.Song, rng *rand.Rand) library.Section {
	if sec.Playlist == nil {
		return sec
	}
	pl := *sec.Playlist
	pl.Songs = lo.FilterMap(pl.Songs, func(s library.Song, _ int) (library.Song, bool) {
		m := library.ResolveOr(s, songs)
		return m, m.Playable()
	})
	if pl.Songs == nil {
		pl.Songs = []library.Song{}
	}
	if sec.Shuffle {
		shuffle.Shuffle(pl.Songs, rng)
	}
	sec.Playlist = &pl
	return sec
}

// FirstPlayable returns the index of the first section with songs, or -1.
func FirstPlayable(c library.Collection) int {
	return NextPlayable(c, -1)
}

// NextPlayable returns the first section after index with songs, or -1.
func NextPlayable(c library.Collection, after int) int {
	for i := max(after+1, 0); i < len(c.Sections); i++ {
		if c.Sections[i].HasSongs() {
			return i
		}
	}
	return -1
}

// PrevPlayable returns the last section before index with songs, or -1.
func PrevPlayable(c library.Collection, before int) int {
	for i := min(before, len(c.Sections)) - 1; i >= 0; i-- {
		if c.Sections[i].HasSongs() {
			return i
		}
	}
	return -1
}

// Songs returns every song of the collection in section order.
func Songs(c library.Collection) []library.Song {
	return lo.FlatMap(c.Sections, func(s library.Section, _ int) []library.Song {
		return s.Songs()
	})
}
