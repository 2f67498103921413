package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/llehouerou/setlist/internal/errmsg"
	"github.com/llehouerou/setlist/internal/library"
	"github.com/llehouerou/setlist/internal/render"
	"github.com/llehouerou/setlist/internal/scanner"
	"github.com/llehouerou/setlist/internal/search"
	"github.com/llehouerou/setlist/internal/state"
)

func scanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan [dir...]",
		Short: "Scan directories for music files and merge them into the library",
		Long:  "Scan walks each directory, reads tags and merges the songs into the library. Without arguments the configured library sources are scanned.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			dirs := args
			if len(dirs) == 0 {
				dirs = a.cfg.LibrarySources
			}
			if len(dirs) == 0 {
				return errors.New("no directory given and no library_sources configured")
			}

			s := scanner.New(scanner.WithLogger(a.logger))
			for _, dir := range dirs {
				abs, err := filepath.Abs(dir)
				if err != nil {
					return errors.New(errmsg.Format(errmsg.OpLibraryScan, err))
				}
				songs, report, err := s.Scan(cmd.Context(), abs)
				if err != nil {
					return errors.New(errmsg.Format(errmsg.OpLibraryScan, err))
				}
				res := a.lib.Upload(songs, abs)
				a.printf("%s\n", report)
				a.printf("  %d added, %d replaced, %d edits restored\n", res.Added, res.Replaced, res.Restored)
				for _, f := range report.Failures {
					a.printf("  %s %s: %v\n", render.S().Error.Render("failed"), f.Path, f.Err)
				}
			}
			a.changed()
			return nil
		},
	}
}

func songsCmd() *cobra.Command {
	var (
		query string
		field string
		fuzzy bool
		width int
	)
	cmd := &cobra.Command{
		Use:   "songs",
		Short: "List library songs",
		Long:  "Songs lists the library with effective metadata. Rows are numbered from 1 and can be used as song references. Imported songs that no scan has matched are listed last, marked x.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := appFrom(cmd)
			songs := a.visibleSongs()
			switch {
			case query != "" && fuzzy:
				songs = search.Songs(songs, query)
			case query != "":
				f, err := parseField(field)
				if err != nil {
					return errors.New(errmsg.Format(errmsg.OpLibrarySearch, err))
				}
				songs = library.Search(songs, query, f)
			}
			a.printf("%s", render.SongTable(songs, render.TableOptions{Width: width, Current: -1, Header: true}))
			return nil
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "only list songs matching this text")
	cmd.Flags().StringVar(&field, "field", string(library.FieldAll), "field to search: all, title, artist, album, genre, year, directory")
	cmd.Flags().BoolVar(&fuzzy, "fuzzy", false, "rank songs by fuzzy match instead of filtering by substring")
	cmd.Flags().IntVar(&width, "width", 0, "table width in cells")
	return cmd
}

func parseField(s string) (library.SearchField, error) {
	f := library.SearchField(s)
	switch f {
	case library.FieldAll, library.FieldTitle, library.FieldArtist, library.FieldAlbum,
		library.FieldGenre, library.FieldYear, library.FieldDirectory:
		return f, nil
	}
	return "", fmt.Errorf("unknown search field %q", s)
}

func editCmd() *cobra.Command {
	var (
		meta       library.Metadata
		clearEdits bool
	)
	cmd := &cobra.Command{
		Use:   "edit <song>",
		Short: "Override a song's metadata",
		Long:  "Edit sets metadata overrides on a live library song. Only the flags given are changed; --clear drops every override first.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			s, err := a.findSong(args[0])
			if err != nil {
				return errors.New(errmsg.Format(errmsg.OpLibraryEdit, err))
			}

			edited := s.Edited.Clone()
			if clearEdits {
				edited = nil
			}
			flags := cmd.Flags()
			for _, f := range []struct {
				name  string
				value string
				dst   func(*library.EditedMetadata) **string
			}{
				{"title", meta.Title, func(e *library.EditedMetadata) **string { return &e.Title }},
				{"artist", meta.Artist, func(e *library.EditedMetadata) **string { return &e.Artist }},
				{"album", meta.Album, func(e *library.EditedMetadata) **string { return &e.Album }},
				{"genre", meta.Genre, func(e *library.EditedMetadata) **string { return &e.Genre }},
				{"year", meta.Year, func(e *library.EditedMetadata) **string { return &e.Year }},
			} {
				if !flags.Changed(f.name) {
					continue
				}
				if edited == nil {
					edited = &library.EditedMetadata{}
				}
				v := f.value
				*f.dst(edited) = &v
			}

			if err := a.lib.Edit(s.ID, edited); err != nil {
				return errors.New(errmsg.Format(errmsg.OpLibraryEdit, err))
			}
			a.changed()
			updated := s
			updated.Edited = edited
			a.printf("%s\n", render.SongLine(updated))
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&meta.Title, "title", "", "title override")
	f.StringVar(&meta.Artist, "artist", "", "artist override")
	f.StringVar(&meta.Album, "album", "", "album override")
	f.StringVar(&meta.Genre, "genre", "", "genre override")
	f.StringVar(&meta.Year, "year", "", "year override")
	f.BoolVar(&clearEdits, "clear", false, "drop existing overrides")
	return cmd
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <song>",
		Short: "Remove a song from the library",
		Long:  "Delete removes a song from the library. Playlist copies of it are kept.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			s, err := a.findSong(args[0])
			if err != nil {
				return errors.New(errmsg.Format(errmsg.OpLibraryDelete, err))
			}
			if err := a.lib.Delete(s.ID); err != nil {
				return errors.New(errmsg.Format(errmsg.OpLibraryDelete, err))
			}
			a.changed()
			a.printf("Deleted %s\n", render.SongLine(s))
			return nil
		},
	}
}

func exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <file|->",
		Short: "Write the library, playlists and collections as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			snap := state.FromSnapshot(a.lib.Snapshot())

			if args[0] == "-" {
				return state.Encode(a.out, snap)
			}
			f, err := os.Create(args[0])
			if err != nil {
				return errors.New(errmsg.Format(errmsg.OpExportFile, err))
			}
			if err := state.Encode(f, snap); err != nil {
				f.Close()
				return errors.New(errmsg.Format(errmsg.OpExportFile, err))
			}
			if err := f.Close(); err != nil {
				return errors.New(errmsg.Format(errmsg.OpExportFile, err))
			}
			a.printf("Exported %d songs, %d playlists, %d collections to %s\n",
				len(snap.Songs), len(snap.Playlists), len(snap.Collections), args[0])
			return nil
		},
	}
}

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file|->",
		Short: "Replace playlists and collections from a JSON export",
		Long:  "Import reads a JSON export. Its playlists and collections replace the current ones; its songs restore edits on matching library songs now and on future scans.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)

			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return errors.New(errmsg.Format(errmsg.OpImportFile, err))
				}
				defer f.Close()
				r = f
			}
			imported, err := state.Decode(r)
			if err != nil {
				return errors.New(errmsg.Format(errmsg.OpImportFile, err))
			}

			applied := a.lib.Import(imported.Snapshot())
			a.changed()
			a.printf("Imported %d songs (%d edits applied), %d playlists, %d collections\n",
				len(imported.Songs), applied, len(imported.Playlists), len(imported.Collections))
			return nil
		},
	}
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show library totals and the state backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := appFrom(cmd)
			st := render.S()
			a.printf("%s\n", st.Title.Render("setlist"))
			a.printf("  songs:       %d\n", a.lib.Len())
			a.printf("  unmatched:   %d\n", len(a.visibleSongs())-a.lib.Len())
			a.printf("  playlists:   %d\n", len(a.lib.Playlists()))
			a.printf("  collections: %d\n", len(a.lib.Collections()))
			a.printf("  directories: %d\n", len(a.lib.Directories()))
			for _, d := range a.lib.Directories() {
				a.printf("    %s\n", st.Muted.Render(d))
			}
			a.printf("  state:       %s\n", a.cfg.State.Backend)
			return nil
		},
	}
}
