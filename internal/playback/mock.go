package playback

import (
	"context"
	"sync"

	"github.com/llehouerou/setlist/internal/library"
)

// MockMedia is a test double for Media.
type MockMedia struct {
	mu       sync.Mutex
	openErr  error
	startErr error
	gate     chan struct{}
	handles  []*MockHandle
}

// NewMockMedia creates a mock media source for testing.
func NewMockMedia() *MockMedia {
	return &MockMedia{}
}

func (m *MockMedia) Open(_ context.Context, f library.MediaFile, onFinish func()) (Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.openErr != nil {
		return nil, m.openErr
	}
	h := &MockHandle{Path: f.Path, onFinish: onFinish, startErr: m.startErr, gate: m.gate}
	m.handles = append(m.handles, h)
	return h, nil
}

// Test helpers

func (m *MockMedia) SetOpenError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.openErr = err
}

func (m *MockMedia) SetStartError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startErr = err
}

// HoldStart makes Start on handles opened from now on block until the
// returned function is called.
func (m *MockMedia) HoldStart() (release func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	gate := make(chan struct{})
	m.gate = gate
	var once sync.Once
	return func() {
		once.Do(func() { close(gate) })
	}
}

// Handles returns every handle opened so far.
func (m *MockMedia) Handles() []*MockHandle {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*MockHandle(nil), m.handles...)
}

// Last returns the most recently opened handle, or nil.
func (m *MockMedia) Last() *MockHandle {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.handles) == 0 {
		return nil
	}
	return m.handles[len(m.handles)-1]
}

// MockHandle is a test double for Handle.
type MockHandle struct {
	Path string

	mu       sync.Mutex
	onFinish func()
	startErr error
	gate     chan struct{}
	started  bool
	paused   bool
	closed   bool
}

func (h *MockHandle) Start(ctx context.Context) error {
	if h.gate != nil {
		select {
		case <-h.gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.started = true
	return h.startErr
}

func (h *MockHandle) Pause() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.paused = true
}

func (h *MockHandle) Resume() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.paused = false
}

func (h *MockHandle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	return nil
}

func (h *MockHandle) Started() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.started
}

func (h *MockHandle) Paused() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.paused
}

func (h *MockHandle) Closed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}

// SimulateFinished simulates the song playing to its end.
func (h *MockHandle) SimulateFinished() {
	if h.onFinish != nil {
		h.onFinish()
	}
}

// Verify mocks implement their interfaces at compile time.
var (
	_ Media  = (*MockMedia)(nil)
	_ Handle = (*MockHandle)(nil)
)
