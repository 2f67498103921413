package state

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/samber/lo"

	"github.com/llehouerou/setlist/internal/library"
)

type songJSON struct {
	ID             string                  `json:"id"`
	Title          string                  `json:"title"`
	Artist         string                  `json:"artist"`
	Album          string                  `json:"album"`
	Genre          string                  `json:"genre,omitempty"`
	Year           string                  `json:"year,omitempty"`
	Duration       float64                 `json:"duration,omitempty"`
	CustomTags     tagMap                  `json:"customTags,omitempty"`
	EditedMetadata *library.EditedMetadata `json:"editedMetadata"`
	File           *struct{}               `json:"file"`
}

type playlistJSON struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Songs []songJSON `json:"songs"`
}

type sectionJSON struct {
	ID             string                  `json:"id"`
	Name           string                  `json:"name"`
	Type           library.SectionType     `json:"type"`
	Playlist       *playlistJSON           `json:"playlist,omitempty"`
	AutoFillConfig *library.AutoFillConfig `json:"autoFillConfig,omitempty"`
	Shuffle        bool                    `json:"shuffle,omitempty"`
}

type collectionJSON struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Sections []sectionJSON `json:"sections"`
}

type stateJSON struct {
	Songs                []songJSON       `json:"songs"`
	Playlists            []playlistJSON   `json:"playlists"`
	Collections          []collectionJSON `json:"collections"`
	LastKnownDirectories []string         `json:"lastKnownDirectories"`
}

// tagMap decodes custom tags given either as an object or as a plain list of
// tag names.
type tagMap map[string]string

func (m *tagMap) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '[' {
		var names []string
		if err := json.Unmarshal(b, &names); err != nil {
			return err
		}
		out := make(tagMap, len(names))
		for _, n := range names {
			out[n] = ""
		}
		*m = out
		return nil
	}
	var out map[string]string
	if err := json.Unmarshal(b, &out); err != nil {
		return err
	}
	*m = out
	return nil
}

// Export encodes a in its persisted JSON shape.
func Export(a AppState) ([]byte, error) {
	return json.Marshal(toJSON(Persisted(a)))
}

// Encode writes a to w in its persisted JSON shape.
func Encode(w io.Writer, a AppState) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(toJSON(Persisted(a)))
}

// Import decodes a persisted state. Songs come back without media files and
// missing collections sections decode as empty.
func Import(data []byte) (*AppState, error) {
	var raw stateJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	a := fromJSON(raw)
	return &a, nil
}

// Decode reads a persisted state from r.
func Decode(r io.Reader) (*AppState, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Import(data)
}

func toJSON(a AppState) stateJSON {
	return stateJSON{
		Songs:                lo.Map(a.Songs, func(s library.Song, _ int) songJSON { return songToJSON(s) }),
		Playlists:            lo.Map(a.Playlists, func(p library.Playlist, _ int) playlistJSON { return playlistToJSON(p) }),
		Collections:          lo.Map(a.Collections, func(c library.Collection, _ int) collectionJSON { return collectionToJSON(c) }),
		LastKnownDirectories: nonNil(a.LastKnownDirectories),
	}
}

func songToJSON(s library.Song) songJSON {
	return songJSON{
		ID:             s.ID.String(),
		Title:          s.Title,
		Artist:         s.Artist,
		Album:          s.Album,
		Genre:          s.Genre,
		Year:           s.Year,
		Duration:       s.Duration,
		CustomTags:     s.CustomTags,
		EditedMetadata: s.Edited,
	}
}

func playlistToJSON(p library.Playlist) playlistJSON {
	return playlistJSON{
		ID:    p.ID,
		Name:  p.Name,
		Songs: lo.Map(p.Songs, func(s library.Song, _ int) songJSON { return songToJSON(s) }),
	}
}

func collectionToJSON(c library.Collection) collectionJSON {
	return collectionJSON{
		ID:   c.ID,
		Name: c.Name,
		Sections: lo.Map(c.Sections, func(s library.Section, _ int) sectionJSON {
			out := sectionJSON{
				ID:             s.ID,
				Name:           s.Name,
				Type:           s.Type,
				AutoFillConfig: s.AutoFill,
				Shuffle:        s.Shuffle,
			}
			if s.Playlist != nil {
				pl := playlistToJSON(*s.Playlist)
				out.Playlist = &pl
			}
			return out
		}),
	}
}

func fromJSON(raw stateJSON) AppState {
	return AppState{
		Songs:                lo.Map(raw.Songs, func(s songJSON, _ int) library.Song { return songFromJSON(s) }),
		Playlists:            lo.Map(raw.Playlists, func(p playlistJSON, _ int) library.Playlist { return playlistFromJSON(p) }),
		Collections:          lo.Map(raw.Collections, func(c collectionJSON, _ int) library.Collection { return collectionFromJSON(c) }),
		LastKnownDirectories: nonNil(raw.LastKnownDirectories),
	}
}

func songFromJSON(s songJSON) library.Song {
	return library.Song{
		ID:         library.ParseID(s.ID),
		Title:      s.Title,
		Artist:     s.Artist,
		Album:      s.Album,
		Genre:      s.Genre,
		Year:       s.Year,
		Duration:   s.Duration,
		CustomTags: s.CustomTags,
		Edited:     s.EditedMetadata,
	}
}

func playlistFromJSON(p playlistJSON) library.Playlist {
	return library.Playlist{
		ID:    p.ID,
		Name:  p.Name,
		Songs: lo.Map(p.Songs, func(s songJSON, _ int) library.Song { return songFromJSON(s) }),
	}
}

func collectionFromJSON(c collectionJSON) library.Collection {
	return library.Collection{
		ID:   c.ID,
		Name: c.Name,
		Sections: lo.Map(c.Sections, func(s sectionJSON, _ int) library.Section {
			out := library.Section{
				ID:       s.ID,
				Name:     s.Name,
				Type:     s.Type,
				AutoFill: s.AutoFillConfig,
				Shuffle:  s.Shuffle,
			}
			if s.Playlist != nil {
				pl := playlistFromJSON(*s.Playlist)
				out.Playlist = &pl
			}
			return out
		}),
	}.Normalized()
}
