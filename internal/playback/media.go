package playback

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/llehouerou/setlist/internal/library"
)

// ErrEmptyMedia is returned when a media file has no content.
var ErrEmptyMedia = errors.New("media file is empty")

// Media opens playable resources.
type Media interface {
	// Open acquires the resource behind f. onFinish is called, possibly from
	// another goroutine, when playback of the resource reaches its end.
	Open(ctx context.Context, f library.MediaFile, onFinish func()) (Handle, error)
}

// Handle is an opened media resource. Close releases it and must be safe to
// call once on every handle returned by Open.
type Handle interface {
	Start(ctx context.Context) error
	Pause()
	Resume()
	Close() error
}

// FileMedia opens songs from the local filesystem. It does not decode audio:
// a started file counts as playing for Dwell, then finishes.
type FileMedia struct {
	// Dwell is how long a started file plays. Zero never finishes on its own.
	Dwell time.Duration
}

// Verify FileMedia implements Media at compile time.
var _ Media = FileMedia{}

// Open opens the file at f.Path.
func (m FileMedia) Open(_ context.Context, f library.MediaFile, onFinish func()) (Handle, error) {
	fh, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("open media: %w", err)
	}
	info, err := fh.Stat()
	if err != nil {
		fh.Close()
		return nil, fmt.Errorf("stat media: %w", err)
	}
	if info.IsDir() {
		fh.Close()
		return nil, fmt.Errorf("open media %s: is a directory", f.Path)
	}
	return &fileHandle{f: fh, dwell: m.Dwell, onFinish: onFinish}, nil
}

type fileHandle struct {
	mu        sync.Mutex
	f         *os.File
	dwell     time.Duration
	remaining time.Duration
	since     time.Time
	timer     *time.Timer
	onFinish  func()
	closed    bool
}

// Start checks the file is readable and arms the dwell timer.
func (h *fileHandle) Start(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return os.ErrClosed
	}

	var probe [512]byte
	n, err := h.f.ReadAt(probe[:], 0)
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read media: %w", err)
	}
	if n == 0 {
		return ErrEmptyMedia
	}

	if h.dwell > 0 {
		h.remaining = h.dwell
		h.arm()
	}
	return nil
}

func (h *fileHandle) arm() {
	h.since = time.Now()
	if h.onFinish != nil {
		h.timer = time.AfterFunc(h.remaining, h.onFinish)
	}
}

func (h *fileHandle) Pause() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.timer != nil && h.timer.Stop() {
		h.remaining -= time.Since(h.since)
	}
	h.timer = nil
}

func (h *fileHandle) Resume() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed || h.timer != nil || h.remaining <= 0 {
		return
	}
	h.arm()
}

func (h *fileHandle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true
	if h.timer != nil {
		h.timer.Stop()
		h.timer = nil
	}
	return h.f.Close()
}
