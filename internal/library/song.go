// Package library owns songs, playlists and collections, and resolves song
// identity across the copies of a track held by each of them.
package library

import (
	"strings"
)

// Well-known custom tag keys.
const (
	TagDirectory        = "directory"
	TagOriginalFilename = "originalFilename"
	TagAlbumArtist      = "albumArtist"
	TagTrackNumber      = "trackNumber"
)

// ID identifies a song. Base is stable across every copy of a logical track;
// Suffix tells apart copies created at different times.
type ID struct {
	Base   string
	Suffix string
}

// ParseID splits "base-suffix" on the first dash.
func ParseID(s string) ID {
	base, suffix, _ := strings.Cut(s, "-")
	return ID{Base: base, Suffix: suffix}
}

// String returns the composite form of the id.
func (id ID) String() string {
	if id.Suffix == "" {
		return id.Base
	}
	return id.Base + "-" + id.Suffix
}

// BaseOnly drops the suffix.
func (id ID) BaseOnly() ID {
	return ID{Base: id.Base}
}

// IsZero reports whether the id is empty.
func (id ID) IsZero() bool {
	return id.Base == "" && id.Suffix == ""
}

// MarshalText encodes the id in composite form.
func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText decodes a composite id.
func (id *ID) UnmarshalText(b []byte) error {
	*id = ParseID(string(b))
	return nil
}

// EditedMetadata is a partial override of a song's tags. Nil fields fall
// through to the original value.
type EditedMetadata struct {
	Title  *string `json:"title,omitempty"`
	Artist *string `json:"artist,omitempty"`
	Album  *string `json:"album,omitempty"`
	Genre  *string `json:"genre,omitempty"`
	Year   *string `json:"year,omitempty"`
}

// Clone returns a deep copy.
func (e *EditedMetadata) Clone() *EditedMetadata {
	if e == nil {
		return nil
	}
	c := &EditedMetadata{}
	c.Title = clonePtr(e.Title)
	c.Artist = clonePtr(e.Artist)
	c.Album = clonePtr(e.Album)
	c.Genre = clonePtr(e.Genre)
	c.Year = clonePtr(e.Year)
	return c
}

func clonePtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// MediaFile is the playable resource behind a song.
type MediaFile struct {
	Path string
	Size int64
}

// PlaylistContext records the playlist a song was launched from.
type PlaylistContext struct {
	Playlist Playlist
	Index    int
}

// Song is one track in the library or a copy of it held elsewhere.
type Song struct {
	ID       ID
	Title    string
	Artist   string
	Album    string
	Genre    string
	Year     string
	Duration float64 // seconds, 0 if unknown

	Edited     *EditedMetadata
	CustomTags map[string]string

	// File is nil for songs restored from persisted state until a scan
	// supplies the file again.
	File *MediaFile

	PlaylistContext *PlaylistContext
	PriorityQueue   bool
}

// Playable reports whether the song has a media file.
func (s Song) Playable() bool {
	return s.File != nil
}

// Tag returns a custom tag value or "".
func (s Song) Tag(key string) string {
	if s.CustomTags == nil {
		return ""
	}
	return s.CustomTags[key]
}

// Clone returns a copy that shares no mutable state with s.
func (s Song) Clone() Song {
	c := s
	c.Edited = s.Edited.Clone()
	if s.CustomTags != nil {
		c.CustomTags = make(map[string]string, len(s.CustomTags))
		for k, v := range s.CustomTags {
			c.CustomTags[k] = v
		}
	}
	if s.File != nil {
		f := *s.File
		c.File = &f
	}
	return c
}

// Metadata holds the effective display fields of a song.
type Metadata struct {
	Title  string
	Artist string
	Album  string
	Genre  string
	Year   string
}

// Effective applies the edited overlay field by field.
func Effective(s Song) Metadata {
	m := Metadata{
		Title:  s.Title,
		Artist: s.Artist,
		Album:  s.Album,
		Genre:  s.Genre,
		Year:   s.Year,
	}
	if s.Edited == nil {
		return m
	}
	overlay(&m.Title, s.Edited.Title)
	overlay(&m.Artist, s.Edited.Artist)
	overlay(&m.Album, s.Edited.Album)
	overlay(&m.Genre, s.Edited.Genre)
	overlay(&m.Year, s.Edited.Year)
	return m
}

func overlay(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
