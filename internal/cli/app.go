package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/llehouerou/setlist/internal/config"
	"github.com/llehouerou/setlist/internal/errmsg"
	"github.com/llehouerou/setlist/internal/icons"
	"github.com/llehouerou/setlist/internal/library"
	"github.com/llehouerou/setlist/internal/scanner"
	"github.com/llehouerou/setlist/internal/state"
)

// App is the state shared by every command of one invocation.
type App struct {
	cfg    *config.Config
	logger *slog.Logger
	store  state.Store
	saver  *state.Debounced
	lib    *library.Library
	out    io.Writer
	errOut io.Writer
}

type globalOptions struct {
	configPath string
	dbPath     string
	logLevel   string
	offline    bool
}

func openApp(ctx context.Context, opts globalOptions, out, errOut io.Writer) (*App, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.configPath != "" {
		cfg, err = config.LoadFrom(opts.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, errors.New(errmsg.Format(errmsg.OpConfigLoad, err))
	}
	if opts.dbPath != "" {
		cfg.State.Backend = config.BackendSQLite
		cfg.State.Path = opts.dbPath
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
		if err := cfg.Validate(); err != nil {
			return nil, errors.New(errmsg.Format(errmsg.OpConfigLoad, err))
		}
	}

	logger := slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: cfg.Level()}))
	icons.Init(cfg.Icons)

	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, errors.New(errmsg.Format(errmsg.OpStateOpen, err))
	}

	a := &App{
		cfg:    cfg,
		logger: logger,
		store:  store,
		saver:  state.NewDebounced(store, logger),
		lib:    library.New(logger),
		out:    out,
		errOut: errOut,
	}

	saved, err := store.Load(ctx)
	if err != nil {
		_ = store.Close()
		return nil, errors.New(errmsg.Format(errmsg.OpLibraryLoad, err))
	}
	if saved != nil {
		a.lib.Restore(saved.Snapshot())
	}
	if !opts.offline {
		a.rescan(ctx)
	}
	return a, nil
}

func openStore(ctx context.Context, cfg *config.Config) (state.Store, error) {
	switch cfg.State.Backend {
	case config.BackendRedis:
		return state.OpenRedis(ctx, cfg.State.RedisURL, cfg.State.RedisKey)
	default:
		return state.OpenSQLite(cfg.State.Path)
	}
}

// rescan re-reads every known directory so restored songs get their files
// back. Directories that no longer exist are skipped.
func (a *App) rescan(ctx context.Context) {
	s := scanner.New(scanner.WithLogger(a.logger))
	for _, dir := range a.lib.Directories() {
		if _, err := os.Stat(dir); err != nil {
			a.logger.Warn("skipping missing directory", "dir", dir)
			continue
		}
		songs, _, err := s.Scan(ctx, dir)
		if err != nil {
			a.logger.Warn("rescan failed", "dir", dir, "err", err)
			continue
		}
		a.lib.Upload(songs, dir)
	}
}

// changed schedules a save of the library.
func (a *App) changed() {
	a.saver.Save(state.FromSnapshot(a.lib.Snapshot()))
}

// Close flushes pending saves and closes the store.
func (a *App) Close() error {
	err := a.saver.Close()
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpLibrarySave, err))
	}
	return nil
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// visibleSongs lists live songs first, then imported songs no scan has
// matched yet.
func (a *App) visibleSongs() []library.Song {
	return a.lib.Snapshot().Songs
}

// findSong resolves a 1-based row number, a full id or a base id.
func (a *App) findSong(ref string) (library.Song, error) {
	songs := a.visibleSongs()
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(songs) {
			return library.Song{}, fmt.Errorf("row %d: %w", n, library.ErrSongNotFound)
		}
		return songs[n-1], nil
	}
	id := library.ParseID(ref)
	if i := library.IndexByFullID(id, songs); i >= 0 {
		return songs[i], nil
	}
	if i := library.IndexByBase(id.Base, songs); i >= 0 {
		return songs[i], nil
	}
	return library.Song{}, fmt.Errorf("%s: %w", ref, library.ErrSongNotFound)
}

func (a *App) findSongs(refs []string) ([]library.Song, error) {
	out := make([]library.Song, 0, len(refs))
	for _, ref := range refs {
		s, err := a.findSong(ref)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// findPlaylist resolves a playlist by id or case-insensitive name.
func (a *App) findPlaylist(ref string) (library.Playlist, error) {
	if p, ok := a.lib.Playlist(ref); ok {
		return p, nil
	}
	if p, ok := a.lib.PlaylistByName(ref); ok {
		return p, nil
	}
	return library.Playlist{}, fmt.Errorf("%s: %w", ref, library.ErrPlaylistNotFound)
}

// findCollection resolves a collection by id or case-insensitive name.
func (a *App) findCollection(ref string) (library.Collection, error) {
	if c, ok := a.lib.Collection(ref); ok {
		return c, nil
	}
	if c, ok := a.lib.CollectionByName(ref); ok {
		return c, nil
	}
	return library.Collection{}, fmt.Errorf("%s: %w", ref, library.ErrCollectionNotFound)
}

// findSection resolves a section of c by id or case-insensitive name.
func findSection(c library.Collection, ref string) (library.Section, error) {
	for _, s := range c.Sections {
		if s.ID == ref || strings.EqualFold(s.Name, ref) {
			return s, nil
		}
	}
	return library.Section{}, fmt.Errorf("%s: %w", ref, library.ErrSectionNotFound)
}
