// Package playback reacts to sequencing transitions by loading the selected
// song's media and reporting what happens to it.
package playback

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/llehouerou/setlist/internal/library"
	"github.com/llehouerou/setlist/internal/sequence"
)

var (
	// ErrNoMedia is returned when loading a song whose file is unknown.
	ErrNoMedia = errors.New("song has no media file")
	// ErrClosed is returned by Load after Close.
	ErrClosed = errors.New("playback surface closed")
)

// Surface owns the media handle of the loaded song.
//
// Every load bumps a generation counter. Start and finish callbacks carry
// the generation they were issued for and are dropped once it is stale.
type Surface struct {
	mu sync.Mutex

	media  Media
	logger *slog.Logger

	handle  Handle
	started bool
	current *Track
	gen     uint64
	state   State
	fault   string

	subs   []*Subscription
	subsMu sync.RWMutex

	closed bool
}

// NewSurface creates a surface loading songs through media.
func NewSurface(media Media, logger *slog.Logger) *Surface {
	if logger == nil {
		logger = slog.Default()
	}
	return &Surface{media: media, logger: logger}
}

// Load reacts to a transition. Transitions that changed nothing are ignored.
// The previous handle is released before the new one is opened. With
// autoplay the media is started asynchronously.
func (s *Surface) Load(ctx context.Context, song library.Song, tr sequence.Transition) (uint64, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return 0, ErrClosed
	}
	if !tr.Changed {
		gen := s.gen
		s.mu.Unlock()
		return gen, nil
	}

	s.gen++
	gen := s.gen
	s.releaseLocked()
	prev := s.current
	track := TrackFromSong(tr.Index, song)
	s.current = &track

	if song.File == nil {
		err := s.faultLocked("open", track, ErrNoMedia)
		s.mu.Unlock()
		return gen, err
	}

	h, err := s.media.Open(ctx, *song.File, func() { s.finished(gen) })
	if err != nil {
		err = s.faultLocked("open", track, err)
		s.mu.Unlock()
		return gen, err
	}
	s.handle = h
	s.fault = ""

	cur := track
	s.broadcastTrack(TrackChange{Previous: prev, Current: &cur, Generation: gen, Restart: tr.Restart})
	if tr.Autoplay {
		s.setStateLocked(StateLoading)
		s.started = true
	} else {
		s.setStateLocked(StatePaused)
	}
	s.mu.Unlock()

	if tr.Autoplay {
		go s.start(ctx, gen, h)
	}
	return gen, nil
}

func (s *Surface) start(ctx context.Context, gen uint64, h Handle) {
	err := h.Start(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		s.logger.Debug("dropping stale start", "generation", gen, "current", s.gen)
		return
	}
	if err != nil {
		track := Track{}
		if s.current != nil {
			track = *s.current
		}
		s.releaseLocked()
		_ = s.faultLocked("start", track, err)
		return
	}
	switch s.state {
	case StateLoading:
		s.setStateLocked(StatePlaying)
	case StatePaused:
		// paused while starting
		h.Pause()
	}
}

func (s *Surface) finished(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// a short file may end before start has marked it playing
	if gen != s.gen || (s.state != StatePlaying && s.state != StateLoading) {
		s.logger.Debug("dropping stale finish", "generation", gen, "current", s.gen)
		return
	}
	track := *s.current
	s.releaseLocked()
	s.setStateLocked(StateStopped)

	s.subsMu.RLock()
	for _, sub := range s.subs {
		sub.sendFinish(FinishEvent{Track: track, Generation: gen})
	}
	s.subsMu.RUnlock()
}

// Pause pauses a loading or playing song.
func (s *Surface) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StatePlaying && s.state != StateLoading {
		return
	}
	if s.state == StatePlaying && s.handle != nil {
		s.handle.Pause()
	}
	s.setStateLocked(StatePaused)
}

// Resume resumes a paused song, starting it if it was loaded without
// autoplay.
func (s *Surface) Resume(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StatePaused || s.handle == nil {
		return
	}
	if !s.started {
		s.started = true
		s.setStateLocked(StateLoading)
		go s.start(ctx, s.gen, s.handle)
		return
	}
	s.handle.Resume()
	s.setStateLocked(StatePlaying)
}

// Stop releases the loaded media.
func (s *Surface) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.releaseLocked()
	s.setStateLocked(StateStopped)
}

// State returns the playback state.
func (s *Surface) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Generation returns the generation of the last load.
func (s *Surface) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

// Current returns a copy of the loaded track, or nil.
func (s *Surface) Current() *Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	t := *s.current
	return &t
}

// Fault returns the media error of the current song, or "".
func (s *Surface) Fault() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fault
}

// NotifyMode tells subscribers the sequencing mode changed.
func (s *Surface) NotifyMode(repeat sequence.RepeatMode, shuffle bool) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendMode(ModeChange{Repeat: repeat, Shuffle: shuffle})
	}
}

// NotifyQueue tells subscribers the manual queue changed.
func (s *Surface) NotifyQueue(songs []library.Song) {
	tracks := make([]Track, len(songs))
	for i, song := range songs {
		tracks[i] = TrackFromSong(-1, song)
	}
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendQueue(QueueChange{Tracks: tracks})
	}
}

// Subscribe creates a new event subscription.
func (s *Surface) Subscribe() *Subscription {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	sub := newSubscription()
	s.subs = append(s.subs, sub)
	return sub
}

// Close releases the loaded media and ends all subscriptions.
func (s *Surface) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.gen++
	s.releaseLocked()
	s.setStateLocked(StateStopped)
	s.mu.Unlock()

	s.subsMu.Lock()
	for _, sub := range s.subs {
		sub.close()
	}
	s.subs = nil
	s.subsMu.Unlock()

	return nil
}

func (s *Surface) releaseLocked() {
	if s.handle == nil {
		return
	}
	if err := s.handle.Close(); err != nil {
		s.logger.Warn("release media", "err", err)
	}
	s.handle = nil
	s.started = false
}

func (s *Surface) faultLocked(op string, t Track, err error) error {
	s.fault = "Cannot play " + t.Title + ": " + err.Error()
	s.setStateLocked(StateStopped)
	s.logger.Error("media fault", "op", op, "path", t.Path, "err", err)

	s.subsMu.RLock()
	for _, sub := range s.subs {
		sub.sendError(ErrorEvent{Operation: op, Path: t.Path, Err: err})
	}
	s.subsMu.RUnlock()
	return err
}

func (s *Surface) setStateLocked(st State) {
	if s.state == st {
		return
	}
	prev := s.state
	s.state = st
	s.subsMu.RLock()
	for _, sub := range s.subs {
		sub.sendState(StateChange{Previous: prev, Current: st})
	}
	s.subsMu.RUnlock()
}

func (s *Surface) broadcastTrack(e TrackChange) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendTrack(e)
	}
}
