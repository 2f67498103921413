// Package sequence decides which library song plays next.
//
// The engine keeps an index into the library song list together with the
// context the song was started from (the library itself, a playlist or a
// collection section). Next and Previous return a Transition telling the
// playback surface what to load.
package sequence

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"

	"github.com/llehouerou/setlist/internal/collection"
	"github.com/llehouerou/setlist/internal/library"
	"github.com/llehouerou/setlist/internal/shuffle"
)

var (
	// ErrIdentityMiss reports a song that could not be located in the library.
	ErrIdentityMiss = errors.New("song not found in library")
	// ErrEmptyTarget reports a playlist or collection with nothing playable.
	ErrEmptyTarget = errors.New("nothing to play")
	// ErrOutOfRange reports a library row that does not exist.
	ErrOutOfRange = errors.New("library index out of range")
)

// Source provides the current library songs.
type Source interface {
	Songs() []library.Song
}

// Context is what the engine is playing from.
type Context struct {
	Kind Kind
	// Playlist is set for KindPlaylist, with songs resolved to library entries.
	Playlist library.Playlist
	// Collection is the resolved collection for KindCollection.
	Collection library.Collection
	// Section is the index of the current section for KindCollection.
	Section int

	// source is the unresolved collection, re-resolved on repeat.
	source library.Collection
}

// Position is the session-local playback position.
type Position struct {
	CurrentIndex    int // index into the library songs, -1 if nothing selected
	Repeat          RepeatMode
	Shuffle         bool
	ShuffledIndices []int
}

// Transition is the outcome of a sequencing operation.
type Transition struct {
	// Index is the library index of the selected song.
	Index int
	// Autoplay is set whenever a song was selected.
	Autoplay bool
	// Restart is set when the selected song is the one already current.
	Restart bool
	// Changed is false when the operation left the position untouched.
	Changed bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand sets the random source used for shuffles.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) { e.rng = r }
}

// WithLogger sets the logger for diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// Engine is the playback sequencing state machine. It is not safe for
// concurrent use.
type Engine struct {
	src    Source
	ctx    Context
	pos    Position
	queue  *Queue
	rng    *rand.Rand
	logger *slog.Logger

	// anchor is the context index to resume from once queued songs are done.
	anchor   int
	anchored bool

	// peek disables side effects while previewing upcoming songs.
	peek bool
}

// New creates an engine over src, starting in library context with nothing
// selected.
func New(src Source, opts ...Option) *Engine {
	e := &Engine{
		src:    src,
		ctx:    Context{Kind: KindLibrary},
		pos:    Position{CurrentIndex: -1},
		queue:  NewQueue(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// Context returns the current context.
func (e *Engine) Context() Context {
	return e.ctx
}

// Position returns a copy of the current position.
func (e *Engine) Position() Position {
	p := e.pos
	p.ShuffledIndices = slices.Clone(e.pos.ShuffledIndices)
	return p
}

// Current returns the selected library song.
func (e *Engine) Current() (library.Song, bool) {
	return e.songAt(e.pos.CurrentIndex)
}

// Queued returns the songs waiting in the manual queue.
func (e *Engine) Queued() []library.Song {
	return e.queue.Songs()
}

// Status describes the current context for display.
func (e *Engine) Status() string {
	switch e.ctx.Kind {
	case KindPlaylist:
		return "Playing from " + e.ctx.Playlist.Name
	case KindCollection:
		s := "Playing from " + e.ctx.Collection.Name
		if e.ctx.Section >= 0 && e.ctx.Section < len(e.ctx.Collection.Sections) {
			s += " - " + e.ctx.Collection.Sections[e.ctx.Section].Name
		}
		return s
	default:
		return "Playing from Library"
	}
}

// PlayNow selects song. A song carrying a playlist context enters that
// playlist, with its songs replaced by their library entries; any other song
// enters the library context. Shuffle is turned off.
func (e *Engine) PlayNow(song library.Song) (Transition, error) {
	songs := e.songs()
	i, kind := library.FindIndex(song, songs)
	if i < 0 {
		return e.miss("play", song)
	}

	if song.PlaylistContext != nil {
		e.ctx = Context{
			Kind:     KindPlaylist,
			Playlist: song.PlaylistContext.Playlist.Resolved(songs),
		}
	} else {
		e.ctx = Context{Kind: KindLibrary}
	}
	e.clearShuffle()
	e.logger.Debug("play now", "song", song.ID.String(), "match", kind.String(), "context", e.ctx.Kind.String())
	return e.advanceTo(i), nil
}

// PlayPlaylist starts p from its first song.
func (e *Engine) PlayPlaylist(p library.Playlist) (Transition, error) {
	if p.IsEmpty() {
		e.logger.Warn("playlist has no songs", "playlist", p.Name)
		return e.stay(), fmt.Errorf("playlist %q: %w", p.Name, ErrEmptyTarget)
	}
	first := p.Songs[0].Clone()
	first.PlaylistContext = &library.PlaylistContext{Playlist: p, Index: 0}
	return e.PlayNow(first)
}

// PlayCollection resolves c against the library and starts its first
// section with a playable song. Shuffle is turned off.
func (e *Engine) PlayCollection(c library.Collection) (Transition, error) {
	t, err := e.startCollection(c)
	if err != nil {
		return t, err
	}
	e.clearShuffle()
	return t, nil
}

func (e *Engine) startCollection(c library.Collection) (Transition, error) {
	songs := e.songs()
	resolved := collection.Resolve(c, songs, e.rng)
	for si := collection.FirstPlayable(resolved); si >= 0; si = collection.NextPlayable(resolved, si) {
		first := resolved.Sections[si].Songs()[0]
		i := library.IndexByBase(first.ID.Base, songs)
		if i < 0 {
			e.logMiss("play collection", first)
			continue
		}
		e.ctx = Context{
			Kind:       KindCollection,
			Collection: resolved,
			Section:    si,
			source:     c,
		}
		return e.advanceTo(i), nil
	}
	e.logger.Warn("collection has no playable songs", "collection", c.Name)
	return e.stay(), fmt.Errorf("collection %q: %w", c.Name, ErrEmptyTarget)
}

// PlayLibraryRow selects the library song at index in library context.
func (e *Engine) PlayLibraryRow(index int) (Transition, error) {
	if index < 0 || index >= len(e.songs()) {
		return e.stay(), fmt.Errorf("row %d: %w", index, ErrOutOfRange)
	}
	e.ctx = Context{Kind: KindLibrary}
	e.clearShuffle()
	return e.advanceTo(index), nil
}

// Enqueue adds songs to the manual queue, played before the context resumes.
func (e *Engine) Enqueue(songs ...library.Song) {
	e.queue.Add(songs...)
}

// ClearQueue empties the manual queue.
func (e *Engine) ClearQueue() {
	e.queue.Clear()
}

// SetRepeat sets the repeat mode.
func (e *Engine) SetRepeat(m RepeatMode) {
	e.pos.Repeat = m
}

// CycleRepeat advances the repeat mode and returns the new one.
func (e *Engine) CycleRepeat() RepeatMode {
	e.pos.Repeat = e.pos.Repeat.Cycle()
	return e.pos.Repeat
}

// SetShuffle turns shuffle on or off. Turning it on generates one
// permutation over the active playlist, or over the library when no playlist
// is active, with the current song first. Collections are never shuffled
// here; their sections carry their own flag.
func (e *Engine) SetShuffle(enabled bool) {
	if !enabled {
		e.clearShuffle()
		return
	}
	e.pos.Shuffle = true
	n, cur := e.shuffleDomain()
	e.pos.ShuffledIndices = shuffle.Generate(n, cur, e.rng)
	e.logger.Debug("shuffle enabled", "size", n, "current", cur)
}

func (e *Engine) shuffleDomain() (n, current int) {
	if e.ctx.Kind == KindPlaylist {
		cur := -1
		if s, ok := e.contextSong(); ok {
			cur = e.ctx.Playlist.Position(s)
		}
		return e.ctx.Playlist.Len(), cur
	}
	return len(e.songs()), e.contextIndex()
}

func (e *Engine) clearShuffle() {
	e.pos.Shuffle = false
	e.pos.ShuffledIndices = nil
}

// Upcoming previews up to limit songs that Next would select, without
// changing any state. Song repeat is ignored, collections are not replayed
// and the preview stops after one full cycle.
func (e *Engine) Upcoming(limit int) []library.Song {
	out := []library.Song{}
	if limit <= 0 {
		return out
	}
	sim := e.clone()
	songs := e.songs()
	start := e.cursor()
	for len(out) < limit {
		fromQueue := !sim.queue.IsEmpty()
		t, err := sim.Next()
		if err != nil || !t.Changed {
			break
		}
		if !fromQueue && sim.cursor() == start {
			break
		}
		out = append(out, songs[t.Index])
	}
	return out
}

// cursor is a position within the context. The same library song can sit at
// several positions of a collection.
type cursor struct {
	section int
	pos     int
}

func (e *Engine) cursor() cursor {
	switch e.ctx.Kind {
	case KindCollection:
		_, si, _, p := e.sectionPosition()
		return cursor{section: si, pos: p}
	case KindPlaylist:
		if s, ok := e.contextSong(); ok {
			return cursor{section: -1, pos: e.ctx.Playlist.Position(s)}
		}
		return cursor{section: -1, pos: -1}
	default:
		return cursor{section: -1, pos: e.contextIndex()}
	}
}

func (e *Engine) clone() *Engine {
	c := *e
	c.pos.ShuffledIndices = slices.Clone(e.pos.ShuffledIndices)
	c.queue = e.queue.clone()
	c.logger = slog.New(slog.DiscardHandler)
	c.peek = true
	return &c
}

func (e *Engine) songs() []library.Song {
	if e.src == nil {
		return nil
	}
	return e.src.Songs()
}

func (e *Engine) songAt(i int) (library.Song, bool) {
	songs := e.songs()
	if i < 0 || i >= len(songs) {
		return library.Song{}, false
	}
	return songs[i], true
}

// contextIndex is the library index the context advances from.
func (e *Engine) contextIndex() int {
	if e.anchored {
		return e.anchor
	}
	return e.pos.CurrentIndex
}

func (e *Engine) contextSong() (library.Song, bool) {
	return e.songAt(e.contextIndex())
}

func (e *Engine) stay() Transition {
	return Transition{Index: e.pos.CurrentIndex}
}

// advanceTo selects library index i from the context, ending any queued run.
func (e *Engine) advanceTo(i int) Transition {
	e.anchored = false
	return e.moveTo(i)
}

func (e *Engine) moveTo(i int) Transition {
	prev := e.pos.CurrentIndex
	e.pos.CurrentIndex = i
	e.logger.Debug("sequence transition", "from", prev, "to", i, "context", e.ctx.Kind.String())
	return Transition{Index: i, Autoplay: true, Restart: i == prev, Changed: true}
}

func (e *Engine) restart() Transition {
	if _, ok := e.Current(); !ok {
		return e.stay()
	}
	return Transition{Index: e.pos.CurrentIndex, Autoplay: true, Restart: true, Changed: true}
}

func (e *Engine) logMiss(op string, s library.Song) {
	e.logger.Warn("song not found in library",
		"op", op,
		"song", s.ID.String(),
		"title", s.Title,
		"artist", s.Artist,
		"album", s.Album)
}

func (e *Engine) miss(op string, s library.Song) (Transition, error) {
	e.logMiss(op, s)
	return e.stay(), fmt.Errorf("%s %q: %w", op, s.Title, ErrIdentityMiss)
}
