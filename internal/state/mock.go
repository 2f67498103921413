package state

import (
	"context"
	"sync"
)

// Mock is an in-memory Store for tests.
type Mock struct {
	mu      sync.Mutex
	saved   *AppState
	saves   int
	closed  bool
	loadErr error
	saveErr error
}

var _ Store = (*Mock)(nil)

// NewMock creates an empty mock store.
func NewMock() *Mock {
	return &Mock{}
}

// SetLoadError makes Load fail with err.
func (m *Mock) SetLoadError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadErr = err
}

// SetSaveError makes Save fail with err.
func (m *Mock) SetSaveError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveErr = err
}

func (m *Mock) Load(_ context.Context) (*AppState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.saved == nil {
		return nil, nil //nolint:nilnil // nothing saved yet
	}
	a := *m.saved
	return &a, nil
}

func (m *Mock) Save(_ context.Context, a AppState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	p := Persisted(a)
	m.saved = &p
	m.saves++
	return nil
}

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Saves returns how many times Save succeeded.
func (m *Mock) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// Closed reports whether Close was called.
func (m *Mock) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
