package state

import (
	"context"
	"database/sql"
	"errors"
	"time"

	dbutil "github.com/llehouerou/setlist/internal/db"
	"github.com/llehouerou/setlist/internal/library"
)

const ownerLibrary = "library"

func playlistOwner(id string) string { return "playlist:" + id }
func sectionOwner(id string) string  { return "section:" + id }

func saveState(ctx context.Context, sqlDB *sql.DB, a AppState) error {
	return dbutil.WithTxContext(ctx, sqlDB, func(tx *sql.Tx) error {
		for _, table := range []string{"songs", "collection_sections", "collections", "playlists", "directories"} {
			if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
				return err
			}
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO app_state (id, saved_at) VALUES (1, ?)
			ON CONFLICT(id) DO UPDATE SET saved_at = excluded.saved_at
		`, time.Now().Unix())
		if err != nil {
			return err
		}

		dirStmt, err := tx.PrepareContext(ctx, `INSERT INTO directories (position, path) VALUES (?, ?)`)
		if err != nil {
			return err
		}
		defer dirStmt.Close()
		for i, d := range a.LastKnownDirectories {
			if _, err := dirStmt.ExecContext(ctx, i, d); err != nil {
				return err
			}
		}

		songs, err := newSongWriter(ctx, tx)
		if err != nil {
			return err
		}
		defer songs.Close()

		if err := songs.write(ownerLibrary, a.Songs); err != nil {
			return err
		}

		for i, p := range a.Playlists {
			_, err := tx.ExecContext(ctx, `INSERT INTO playlists (id, position, name) VALUES (?, ?, ?)`, p.ID, i, p.Name)
			if err != nil {
				return err
			}
			if err := songs.write(playlistOwner(p.ID), p.Songs); err != nil {
				return err
			}
		}

		for i, c := range a.Collections {
			_, err := tx.ExecContext(ctx, `INSERT INTO collections (id, position, name) VALUES (?, ?, ?)`, c.ID, i, c.Name)
			if err != nil {
				return err
			}
			for j, sec := range c.Sections {
				if err := saveSection(ctx, tx, songs, c.ID, j, sec); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func saveSection(ctx context.Context, tx *sql.Tx, songs *songWriter, collectionID string, pos int, sec library.Section) error {
	autoFill, err := dbutil.JSONOrNull(sec.AutoFill)
	if err != nil {
		return err
	}
	var playlistID, playlistName any
	if sec.Playlist != nil {
		playlistID = sec.Playlist.ID
		playlistName = sec.Playlist.Name
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO collection_sections (id, collection_id, position, name, type, shuffle, playlist_id, playlist_name, auto_fill)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, sec.ID, collectionID, pos, sec.Name, string(sec.Type), sec.Shuffle, playlistID, playlistName, autoFill)
	if err != nil {
		return err
	}
	if sec.Playlist == nil {
		return nil
	}
	return songs.write(sectionOwner(sec.ID), sec.Playlist.Songs)
}

type songWriter struct {
	ctx  context.Context
	stmt *sql.Stmt
}

func newSongWriter(ctx context.Context, tx *sql.Tx) (*songWriter, error) {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO songs (owner, position, song_id, title, artist, album, genre, year, duration, edited, custom_tags)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return nil, err
	}
	return &songWriter{ctx: ctx, stmt: stmt}, nil
}

func (w *songWriter) write(owner string, songs []library.Song) error {
	for i, s := range songs {
		edited, err := dbutil.JSONOrNull(s.Edited)
		if err != nil {
			return err
		}
		var tags any
		if s.CustomTags != nil {
			tags, err = dbutil.JSONOrNull(&s.CustomTags)
			if err != nil {
				return err
			}
		}
		var duration any
		if s.Duration > 0 {
			duration = s.Duration
		}
		_, err = w.stmt.ExecContext(w.ctx, owner, i, s.ID.String(), s.Title, s.Artist, s.Album,
			dbutil.StringOrNull(s.Genre), dbutil.StringOrNull(s.Year), duration, edited, tags)
		if err != nil {
			return err
		}
	}
	return nil
}

func (w *songWriter) Close() error {
	return w.stmt.Close()
}

func loadState(ctx context.Context, sqlDB *sql.DB) (*AppState, error) {
	var savedAt int64
	err := sqlDB.QueryRowContext(ctx, `SELECT saved_at FROM app_state WHERE id = 1`).Scan(&savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil //nolint:nilnil // nothing saved yet
	}
	if err != nil {
		return nil, err
	}

	owned, err := loadSongs(ctx, sqlDB)
	if err != nil {
		return nil, err
	}

	a := &AppState{
		Songs:       nonNil(owned[ownerLibrary]),
		Playlists:   []library.Playlist{},
		Collections: []library.Collection{},
	}

	if a.LastKnownDirectories, err = loadDirectories(ctx, sqlDB); err != nil {
		return nil, err
	}

	rows, err := sqlDB.QueryContext(ctx, `SELECT id, name FROM playlists ORDER BY position`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var p library.Playlist
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			rows.Close()
			return nil, err
		}
		p.Songs = nonNil(owned[playlistOwner(p.ID)])
		a.Playlists = append(a.Playlists, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = sqlDB.QueryContext(ctx, `SELECT id, name FROM collections ORDER BY position`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var c library.Collection
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			rows.Close()
			return nil, err
		}
		a.Collections = append(a.Collections, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range a.Collections {
		sections, err := loadSections(ctx, sqlDB, a.Collections[i].ID, owned)
		if err != nil {
			return nil, err
		}
		a.Collections[i].Sections = sections
	}

	return a, nil
}

func loadDirectories(ctx context.Context, sqlDB *sql.DB) ([]string, error) {
	rows, err := sqlDB.QueryContext(ctx, `SELECT path FROM directories ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dirs := []string{}
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		dirs = append(dirs, d)
	}
	return dirs, rows.Err()
}

func loadSections(ctx context.Context, sqlDB *sql.DB, collectionID string, owned map[string][]library.Song) ([]library.Section, error) {
	rows, err := sqlDB.QueryContext(ctx, `
		SELECT id, name, type, shuffle, playlist_id, playlist_name, auto_fill
		FROM collection_sections
		WHERE collection_id = ?
		ORDER BY position
	`, collectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sections := []library.Section{}
	for rows.Next() {
		var (
			sec          library.Section
			typ          string
			playlistID   sql.NullString
			playlistName sql.NullString
			autoFill     sql.NullString
		)
		if err := rows.Scan(&sec.ID, &sec.Name, &typ, &sec.Shuffle, &playlistID, &playlistName, &autoFill); err != nil {
			return nil, err
		}
		sec.Type = library.SectionType(typ)
		if playlistID.Valid {
			sec.Playlist = &library.Playlist{
				ID:    playlistID.String,
				Name:  dbutil.NullStringValue(playlistName),
				Songs: nonNil(owned[sectionOwner(sec.ID)]),
			}
		}
		if sec.AutoFill, err = dbutil.ScanJSON[library.AutoFillConfig](autoFill); err != nil {
			return nil, err
		}
		sections = append(sections, sec)
	}
	return sections, rows.Err()
}

// loadSongs returns every stored song grouped by owner, in position order.
func loadSongs(ctx context.Context, sqlDB *sql.DB) (map[string][]library.Song, error) {
	rows, err := sqlDB.QueryContext(ctx, `
		SELECT owner, song_id, title, artist, album, genre, year, duration, edited, custom_tags
		FROM songs
		ORDER BY owner, position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	owned := make(map[string][]library.Song)
	for rows.Next() {
		var (
			owner, id        string
			s                library.Song
			genre, year      sql.NullString
			duration         sql.NullFloat64
			edited, tagsJSON sql.NullString
		)
		if err := rows.Scan(&owner, &id, &s.Title, &s.Artist, &s.Album, &genre, &year, &duration, &edited, &tagsJSON); err != nil {
			return nil, err
		}
		s.ID = library.ParseID(id)
		s.Genre = dbutil.NullStringValue(genre)
		s.Year = dbutil.NullStringValue(year)
		s.Duration = dbutil.NullFloat64Value(duration)
		if s.Edited, err = dbutil.ScanJSON[library.EditedMetadata](edited); err != nil {
			return nil, err
		}
		tags, err := dbutil.ScanJSON[map[string]string](tagsJSON)
		if err != nil {
			return nil, err
		}
		if tags != nil {
			s.CustomTags = *tags
		}
		owned[owner] = append(owned[owner], s)
	}
	return owned, rows.Err()
}
