package playback

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/synctest"
	"time"

	"github.com/llehouerou/setlist/internal/library"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestFileMedia_OpenMissing(t *testing.T) {
	_, err := FileMedia{}.Open(context.Background(), library.MediaFile{Path: "/does/not/exist.mp3"}, nil)
	if err == nil {
		t.Fatal("Open() should fail for a missing file")
	}
}

func TestFileMedia_OpenDirectory(t *testing.T) {
	_, err := FileMedia{}.Open(context.Background(), library.MediaFile{Path: t.TempDir()}, nil)
	if err == nil {
		t.Fatal("Open() should fail for a directory")
	}
}

func TestFileMedia_StartEmpty(t *testing.T) {
	path := writeFile(t, "empty.mp3", nil)
	h, err := FileMedia{}.Open(context.Background(), library.MediaFile{Path: path}, nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer h.Close()

	if err := h.Start(context.Background()); !errors.Is(err, ErrEmptyMedia) {
		t.Errorf("Start() error = %v, want ErrEmptyMedia", err)
	}
}

func TestFileMedia_DwellFinishes(t *testing.T) {
	path := writeFile(t, "song.mp3", []byte("ID3 not really audio"))

	synctest.Test(t, func(t *testing.T) {
		finished := make(chan struct{}, 1)
		m := FileMedia{Dwell: 3 * time.Second}
		h, err := m.Open(context.Background(), library.MediaFile{Path: path}, func() { finished <- struct{}{} })
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		defer h.Close()

		if err := h.Start(context.Background()); err != nil {
			t.Fatalf("Start() error = %v", err)
		}

		time.Sleep(time.Second)
		h.Pause()
		time.Sleep(10 * time.Second)
		select {
		case <-finished:
			t.Fatal("paused handle should not finish")
		default:
		}

		h.Resume()
		time.Sleep(2*time.Second + time.Millisecond)
		synctest.Wait()
		select {
		case <-finished:
		default:
			t.Error("handle should finish after the remaining dwell")
		}
	})
}

func TestFileMedia_CloseIdempotent(t *testing.T) {
	path := writeFile(t, "song.mp3", []byte("data"))
	h, err := FileMedia{}.Open(context.Background(), library.MediaFile{Path: path}, nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := h.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := h.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if err := h.Start(context.Background()); !errors.Is(err, os.ErrClosed) {
		t.Errorf("Start() after Close error = %v, want os.ErrClosed", err)
	}
}
