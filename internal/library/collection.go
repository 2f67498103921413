package library

import (
	"slices"

	"github.com/google/uuid"
)

// SectionType tells how a collection section gets its songs.
type SectionType string

const (
	SectionPlaylist SectionType = "playlist"
	SectionAutoFill SectionType = "auto-fill"
)

// AutoFillConfig holds the selection constraints of an auto-fill section.
// The constraints are stored but no selection runs on them.
type AutoFillConfig struct {
	MinLength      *int     `json:"minLength,omitempty"`
	MaxLength      *int     `json:"maxLength,omitempty"`
	Tags           []string `json:"tags"`
	TargetDuration *int     `json:"targetDuration,omitempty"`
}

// Section is one ordered sub-list of a collection.
type Section struct {
	ID       string
	Name     string
	Type     SectionType
	Playlist *Playlist
	AutoFill *AutoFillConfig
	Shuffle  bool
}

// Songs returns the section's attached song list.
func (s Section) Songs() []Song {
	if s.Playlist == nil {
		return nil
	}
	return s.Playlist.Songs
}

// HasSongs reports whether the section has at least one song attached.
func (s Section) HasSongs() bool {
	return len(s.Songs()) > 0
}

// Collection is an ordered list of sections played back to back.
type Collection struct {
	ID       string
	Name     string
	Sections []Section
}

// NewCollection creates an empty collection with a fresh id.
func NewCollection(name string) Collection {
	return Collection{
		ID:       uuid.NewString(),
		Name:     name,
		Sections: []Section{},
	}
}

// Normalized guarantees a non-nil sections slice.
func (c Collection) Normalized() Collection {
	if c.Sections == nil {
		c.Sections = []Section{}
	}
	return c
}

// NewSection creates a section. Playlist sections start with the given
// playlist attached (may be nil); auto-fill sections start with an empty
// configuration.
func NewSection(name string, typ SectionType, pl *Playlist) Section {
	s := Section{
		ID:   uuid.NewString(),
		Name: name,
		Type: typ,
	}
	switch typ {
	case SectionAutoFill:
		s.AutoFill = &AutoFillConfig{Tags: []string{}}
	case SectionPlaylist:
		if pl != nil {
			cp := *pl
			s.Playlist = &cp
		}
	}
	return s
}

// SectionIndex returns the index of the section with id, or -1.
func (c Collection) SectionIndex(id string) int {
	return slices.IndexFunc(c.Sections, func(s Section) bool { return s.ID == id })
}

// WithSection appends a section.
func (c Collection) WithSection(s Section) Collection {
	c.Sections = append(slices.Clone(c.Sections), s)
	return c
}

// WithoutSection removes the section with id.
func (c Collection) WithoutSection(id string) Collection {
	c.Sections = slices.DeleteFunc(slices.Clone(c.Sections), func(s Section) bool {
		return s.ID == id
	})
	return c
}

// UpdateSection applies fn to the section with id. Returns false if no
// section has that id.
func (c Collection) UpdateSection(id string, fn func(Section) Section) (Collection, bool) {
	i := c.SectionIndex(id)
	if i < 0 {
		return c, false
	}
	next := slices.Clone(c.Sections)
	next[i] = fn(next[i])
	c.Sections = next
	return c, true
}

// SetSectionPlaylist attaches a copy of pl to the section.
func (c Collection) SetSectionPlaylist(id string, pl Playlist) (Collection, bool) {
	return c.UpdateSection(id, func(s Section) Section {
		cp := pl
		s.Playlist = &cp
		return s
	})
}

// ToggleSectionShuffle flips the section's shuffle flag.
func (c Collection) ToggleSectionShuffle(id string) (Collection, bool) {
	return c.UpdateSection(id, func(s Section) Section {
		s.Shuffle = !s.Shuffle
		return s
	})
}

// SetAutoFill replaces the section's auto-fill configuration.
func (c Collection) SetAutoFill(id string, cfg AutoFillConfig) (Collection, bool) {
	return c.UpdateSection(id, func(s Section) Section {
		if cfg.Tags == nil {
			cfg.Tags = []string{}
		}
		s.AutoFill = &cfg
		return s
	})
}

// AddSongToSection appends song to the section's playlist, creating one
// named after the section if none is attached.
func (c Collection) AddSongToSection(id string, song Song) (Collection, bool) {
	return c.UpdateSection(id, func(s Section) Section {
		var pl Playlist
		if s.Playlist != nil {
			pl = *s.Playlist
		} else {
			pl = NewPlaylist(s.Name)
		}
		pl = pl.WithSongs(song)
		s.Playlist = &pl
		return s
	})
}

// RemoveSongFromSection removes the song with the given full id.
func (c Collection) RemoveSongFromSection(id string, songID ID) (Collection, bool) {
	return c.UpdateSection(id, func(s Section) Section {
		if s.Playlist == nil {
			return s
		}
		pl := s.Playlist.WithoutID(songID)
		s.Playlist = &pl
		return s
	})
}
