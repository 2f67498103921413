package library

import (
	"errors"
	"log/slog"
	"slices"
	"strings"

	"github.com/samber/lo"
)

var (
	ErrSongNotFound       = errors.New("song not found")
	ErrPlaylistNotFound   = errors.New("playlist not found")
	ErrCollectionNotFound = errors.New("collection not found")
	ErrSectionNotFound    = errors.New("section not found")
)

// Snapshot is the full owned state of a library.
type Snapshot struct {
	Songs       []Song
	Playlists   []Playlist
	Collections []Collection
	Directories []string
}

// Library owns the song list, playlists and collections.
//
// Every mutation replaces the affected slice with a new one, so slices handed
// out by accessors stay valid snapshots and must not be modified by callers.
type Library struct {
	songs       []Song
	playlists   []Playlist
	collections []Collection
	directories []string

	// imported holds songs restored from a persisted snapshot. They carry
	// metadata only and are consulted when scans bring the files back.
	imported []Song

	logger *slog.Logger
}

// New creates an empty library.
func New(logger *slog.Logger) *Library {
	if logger == nil {
		logger = slog.Default()
	}
	return &Library{
		songs:       []Song{},
		playlists:   []Playlist{},
		collections: []Collection{},
		directories: []string{},
		logger:      logger,
	}
}

// Restore loads a persisted snapshot. Persisted songs become the imported
// set: they are not playable until a scan supplies their files.
func (l *Library) Restore(s Snapshot) {
	l.imported = slices.Clone(s.Songs)
	l.playlists = slices.Clone(s.Playlists)
	if l.playlists == nil {
		l.playlists = []Playlist{}
	}
	l.collections = lo.Map(s.Collections, func(c Collection, _ int) Collection {
		return c.Normalized()
	})
	l.directories = slices.Clone(s.Directories)
	if l.directories == nil {
		l.directories = []string{}
	}
	l.songs = []Song{}
	l.logger.Debug("library restored",
		"imported", len(l.imported),
		"playlists", len(l.playlists),
		"collections", len(l.collections))
}

// Snapshot returns the current state. Imported songs that no library song
// matches are kept so a save without a prior scan loses nothing.
func (l *Library) Snapshot() Snapshot {
	songs := slices.Clone(l.songs)
	for _, s := range l.imported {
		if i, _ := FindIndex(s, l.songs); i < 0 {
			songs = append(songs, s)
		}
	}
	return Snapshot{
		Songs:       songs,
		Playlists:   slices.Clone(l.playlists),
		Collections: slices.Clone(l.collections),
		Directories: slices.Clone(l.directories),
	}
}

// Songs returns the live library songs.
func (l *Library) Songs() []Song {
	return l.songs
}

// Imported returns the songs of the last restored or imported snapshot.
func (l *Library) Imported() []Song {
	return l.imported
}

// Directories returns the directories scanned so far.
func (l *Library) Directories() []string {
	return l.directories
}

// Len returns the number of library songs.
func (l *Library) Len() int {
	return len(l.songs)
}

// UploadResult summarizes an upload merge.
type UploadResult struct {
	Added    int
	Replaced int
	// Restored counts songs whose edits came from the imported snapshot.
	Restored int
}

// Upload merges freshly scanned songs into the library.
//
// Edits are resolved in order: the incoming song's own edits, then a match in
// the imported snapshot, then the library entry being replaced. An incoming
// song matching an existing entry replaces it and keeps the existing id.
func (l *Library) Upload(incoming []Song, directory string) UploadResult {
	var res UploadResult
	next := slices.Clone(l.songs)

	for _, in := range incoming {
		s := in.Clone()

		if s.Edited == nil {
			if m, ok := l.importedMatch(s); ok && m.Edited != nil {
				s.Edited = m.Edited.Clone()
				res.Restored++
			}
		}

		i, kind := FindIndex(s, next)
		if i < 0 {
			next = append(next, s)
			res.Added++
			continue
		}

		existing := next[i]
		if s.Edited == nil && existing.Edited != nil {
			s.Edited = existing.Edited.Clone()
		}
		s.ID = existing.ID
		next[i] = s
		res.Replaced++
		l.logger.Debug("replaced library song", "id", s.ID.String(), "match", kind.String())
	}

	l.songs = next
	if directory != "" && !slices.Contains(l.directories, directory) {
		l.directories = append(slices.Clone(l.directories), directory)
	}
	l.SyncPlaylists()

	l.logger.Info("library upload merged",
		"directory", directory,
		"added", res.Added,
		"replaced", res.Replaced,
		"restored_edits", res.Restored)
	return res
}

func (l *Library) importedMatch(s Song) (Song, bool) {
	if m, ok := FindMatch(s, l.imported); ok {
		return m, true
	}
	return FindByPath(s, l.imported)
}

// ApplyImported replaces the imported snapshot and copies its edits onto
// matching library songs. Returns the number of songs updated.
func (l *Library) ApplyImported(imported []Song) int {
	l.imported = slices.Clone(imported)
	updated := 0
	next := make([]Song, len(l.songs))
	for i, s := range l.songs {
		next[i] = s
		m, ok := l.importedMatch(s)
		if !ok || m.Edited == nil {
			continue
		}
		c := s.Clone()
		c.Edited = m.Edited.Clone()
		next[i] = c
		updated++
	}
	l.songs = next
	l.SyncPlaylists()
	return updated
}

// Import replaces playlists and collections with those of s and makes its
// songs the imported set. Live songs stay; those matching an imported song
// take its edits. Directories are merged. Returns the number of songs whose
// edits were applied.
func (l *Library) Import(s Snapshot) int {
	l.playlists = slices.Clone(s.Playlists)
	if l.playlists == nil {
		l.playlists = []Playlist{}
	}
	l.collections = lo.Map(s.Collections, func(c Collection, _ int) Collection {
		return c.Normalized()
	})
	dirs := slices.Clone(l.directories)
	for _, d := range s.Directories {
		if !slices.Contains(dirs, d) {
			dirs = append(dirs, d)
		}
	}
	l.directories = dirs
	n := l.ApplyImported(s.Songs)
	l.logger.Info("library imported",
		"songs", len(s.Songs),
		"edits_applied", n,
		"playlists", len(l.playlists),
		"collections", len(l.collections))
	return n
}

// Edit sets the edited metadata of the song with id. A nil overlay clears
// previous edits.
func (l *Library) Edit(id ID, edited *EditedMetadata) error {
	i := IndexByFullID(id, l.songs)
	if i < 0 {
		return ErrSongNotFound
	}
	next := slices.Clone(l.songs)
	c := next[i].Clone()
	c.Edited = edited.Clone()
	next[i] = c
	l.songs = next
	l.SyncPlaylists()
	return nil
}

// Delete removes the song with id from the library, along with the imported
// entry it was matched to. Playlist copies remain.
func (l *Library) Delete(id ID) error {
	i := IndexByFullID(id, l.songs)
	if i < 0 {
		return ErrSongNotFound
	}
	removed := l.songs[i]
	l.songs = slices.Delete(slices.Clone(l.songs), i, i+1)
	l.imported = slices.DeleteFunc(slices.Clone(l.imported), func(s Song) bool {
		_, kind := FindIndex(s, []Song{removed})
		return kind != MatchNone
	})
	return nil
}

// SyncPlaylists re-points every playlist copy at the library entry sharing
// its base id.
func (l *Library) SyncPlaylists() {
	l.playlists = lo.Map(l.playlists, func(p Playlist, _ int) Playlist {
		return p.Synced(l.songs)
	})
}

// SearchField restricts a search to one field.
type SearchField string

const (
	FieldAll       SearchField = "all"
	FieldTitle     SearchField = "title"
	FieldArtist    SearchField = "artist"
	FieldAlbum     SearchField = "album"
	FieldGenre     SearchField = "genre"
	FieldYear      SearchField = "year"
	FieldDirectory SearchField = "directory"
)

// Search returns songs whose effective metadata contains query,
// case-insensitively. An empty query returns every song.
func (l *Library) Search(query string, field SearchField) []Song {
	return Search(l.songs, query, field)
}

// Search filters songs on their effective metadata.
func Search(songs []Song, query string, field SearchField) []Song {
	if query == "" {
		return songs
	}
	q := strings.ToLower(query)
	return lo.Filter(songs, func(s Song, _ int) bool {
		m := Effective(s)
		dir := strings.ToLower(s.Tag(TagDirectory))
		contains := func(v string) bool { return strings.Contains(strings.ToLower(v), q) }
		switch field {
		case FieldTitle:
			return contains(m.Title)
		case FieldArtist:
			return contains(m.Artist)
		case FieldAlbum:
			return contains(m.Album)
		case FieldGenre:
			return contains(m.Genre)
		case FieldYear:
			return contains(m.Year)
		case FieldDirectory:
			return strings.Contains(dir, q)
		default:
			return contains(m.Title) || contains(m.Artist) || contains(m.Album) ||
				contains(m.Genre) || contains(m.Year) || strings.Contains(dir, q)
		}
	})
}
