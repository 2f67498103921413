package sequence

import (
	"fmt"
	"strings"
)

// RepeatMode defines the repeat behavior. Playlist repeat also repeats
// collections and the whole library.
type RepeatMode int

const (
	RepeatNone RepeatMode = iota
	RepeatPlaylist
	RepeatSong
)

// String returns the repeat mode name.
func (m RepeatMode) String() string {
	switch m {
	case RepeatNone:
		return "none"
	case RepeatPlaylist:
		return "playlist"
	case RepeatSong:
		return "song"
	default:
		return "unknown"
	}
}

// Cycle returns the next mode in the order none, playlist, song.
func (m RepeatMode) Cycle() RepeatMode {
	switch m {
	case RepeatNone:
		return RepeatPlaylist
	case RepeatPlaylist:
		return RepeatSong
	default:
		return RepeatNone
	}
}

// ParseRepeatMode parses a repeat mode name. The empty string is none.
func ParseRepeatMode(s string) (RepeatMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "off":
		return RepeatNone, nil
	case "playlist", "all":
		return RepeatPlaylist, nil
	case "song", "one":
		return RepeatSong, nil
	default:
		return RepeatNone, fmt.Errorf("unknown repeat mode %q", s)
	}
}

// Kind identifies what the engine is playing from.
type Kind int

const (
	KindLibrary Kind = iota
	KindPlaylist
	KindCollection
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindLibrary:
		return "library"
	case KindPlaylist:
		return "playlist"
	case KindCollection:
		return "collection"
	default:
		return "unknown"
	}
}
