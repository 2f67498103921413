package state

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const saveDebounce = 500 * time.Millisecond

// Debounced coalesces bursts of saves into one write to the underlying
// store.
type Debounced struct {
	store  Store
	logger *slog.Logger
	delay  time.Duration

	saveMu    sync.Mutex
	saveTimer *time.Timer
	pending   *AppState

	// writeMu is held across store writes so an older snapshot never lands
	// after a newer one.
	writeMu sync.Mutex
}

// NewDebounced wraps store. A nil logger discards save errors.
func NewDebounced(store Store, logger *slog.Logger) *Debounced {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Debounced{store: store, logger: logger, delay: saveDebounce}
}

// Save schedules a to be written once no other save arrives for the
// debounce delay.
func (d *Debounced) Save(a AppState) {
	d.saveMu.Lock()
	defer d.saveMu.Unlock()

	d.pending = &a

	if d.saveTimer != nil {
		d.saveTimer.Stop()
	}

	d.saveTimer = time.AfterFunc(d.delay, d.flush)
}

// Flush writes any pending state now. It waits for a write already in
// progress.
func (d *Debounced) Flush(ctx context.Context) error {
	d.writeMu.Lock()
	defer d.writeMu.Unlock()

	d.saveMu.Lock()
	if d.saveTimer != nil {
		d.saveTimer.Stop()
	}
	pending := d.pending
	d.pending = nil
	d.saveMu.Unlock()

	if pending == nil {
		return nil
	}
	return d.store.Save(ctx, *pending)
}

func (d *Debounced) flush() {
	if err := d.Flush(context.Background()); err != nil {
		d.logger.Error("save state", "err", err)
	}
}

// Close flushes pending state and closes the store.
func (d *Debounced) Close() error {
	flushErr := d.Flush(context.Background())
	if err := d.store.Close(); err != nil {
		return err
	}
	return flushErr
}
