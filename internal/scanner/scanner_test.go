package scanner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/setlist/internal/library"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func fixedClock() time.Time {
	return time.UnixMilli(1700000000000)
}

func newTestScanner() *Scanner {
	return New(WithClock(fixedClock))
}

func TestScan_DirectoryLayoutFallback(t *testing.T) {
	root := filepath.Join(t.TempDir(), "Music")
	writeFile(t, filepath.Join(root, "Some Artist", "Best Album", "01 - Intro.ogg"), "not really audio")

	songs, report, err := newTestScanner().Scan(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, songs, 1)

	s := songs[0]
	assert.Equal(t, "Intro", s.Title)
	assert.Equal(t, "Some Artist", s.Artist)
	assert.Equal(t, "Best Album", s.Album)
	assert.Equal(t, UnknownGenre, s.Genre)
	assert.Equal(t, "1", s.Tag(library.TagTrackNumber))
	assert.Equal(t, "01 - Intro.ogg", s.Tag(library.TagOriginalFilename))
	assert.Equal(t, "Music/Some Artist/Best Album", s.Tag(library.TagDirectory))
	assert.Equal(t, "Some Artist", s.Tag(library.TagAlbumArtist))
	require.NotNil(t, s.File)
	assert.True(t, s.Playable())
	assert.EqualValues(t, len("not really audio"), s.File.Size)

	assert.Equal(t, 1, report.Files)
	assert.EqualValues(t, len("not really audio"), report.Bytes)
	assert.Empty(t, report.Failures)
}

func TestScan_FilenameParsing(t *testing.T) {
	root := filepath.Join(t.TempDir(), "Music")
	writeFile(t, filepath.Join(root, "Jazz Cat - Blue Night.ogg"), "x")

	songs, _, err := newTestScanner().Scan(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, songs, 1)

	assert.Equal(t, "Blue Night", songs[0].Title)
	assert.Equal(t, "Jazz Cat", songs[0].Artist)
	assert.Equal(t, UnknownAlbum, songs[0].Album)
	assert.Equal(t, "Jazz", songs[0].Genre)
}

func TestScan_SkipsOtherFiles(t *testing.T) {
	root := filepath.Join(t.TempDir(), "Music")
	writeFile(t, filepath.Join(root, "cover.jpg"), "img")
	writeFile(t, filepath.Join(root, "notes.txt"), "txt")
	writeFile(t, filepath.Join(root, ".cache", "hidden.ogg"), "x")
	writeFile(t, filepath.Join(root, "b.ogg"), "x")
	writeFile(t, filepath.Join(root, "a.OGG"), "x")

	songs, report, err := newTestScanner().Scan(context.Background(), root)
	require.NoError(t, err)

	require.Len(t, songs, 2)
	assert.Equal(t, "a.OGG", songs[0].Tag(library.TagOriginalFilename))
	assert.Equal(t, "b.ogg", songs[1].Tag(library.TagOriginalFilename))
	assert.Equal(t, 2, report.Files)
}

func TestScan_Empty(t *testing.T) {
	songs, report, err := newTestScanner().Scan(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.NotNil(t, songs)
	assert.Empty(t, songs)
	assert.Equal(t, 0, report.Files)
}

func TestScan_IDs(t *testing.T) {
	root := filepath.Join(t.TempDir(), "Music")
	path := filepath.Join(root, "a.ogg")
	writeFile(t, path, "x")
	writeFile(t, filepath.Join(root, "b.ogg"), "x")

	songs, _, err := newTestScanner().Scan(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, songs, 2)

	id := songs[0].ID
	assert.Equal(t, BaseID(path), id.Base)
	assert.NotContains(t, id.Base, "-")
	assert.Equal(t, "1700000000000", id.Suffix)
	assert.Equal(t, id, library.ParseID(id.String()))
	assert.NotEqual(t, songs[0].ID.Base, songs[1].ID.Base)

	later := New(WithClock(func() time.Time { return fixedClock().Add(time.Second) }))
	again, _, err := later.Scan(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, id.Base, again[0].ID.Base)
	assert.NotEqual(t, id.Suffix, again[0].ID.Suffix)
	assert.True(t, library.SameTrack(songs[0], again[0]))
}

func TestScan_MissingDirectory(t *testing.T) {
	_, _, err := newTestScanner().Scan(context.Background(), filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestScan_Cancelled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.ogg"), "x")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := newTestScanner().Scan(ctx, root)
	assert.True(t, errors.Is(err, context.Canceled), "err = %v", err)
}

func TestScan_MergesIntoLibrary(t *testing.T) {
	root := filepath.Join(t.TempDir(), "Music")
	writeFile(t, filepath.Join(root, "Artist", "Album", "01 Song.ogg"), "x")

	songs, _, err := newTestScanner().Scan(context.Background(), root)
	require.NoError(t, err)

	lib := library.New(nil)
	res := lib.Upload(songs, root)
	assert.Equal(t, 1, res.Added)

	again, _, err := New(WithClock(func() time.Time { return fixedClock().Add(time.Minute) })).Scan(context.Background(), root)
	require.NoError(t, err)
	res = lib.Upload(again, root)
	assert.Equal(t, 1, res.Replaced)
	assert.Equal(t, 1, lib.Len())
	assert.Equal(t, songs[0].ID, lib.Songs()[0].ID)
}

func TestReport_String(t *testing.T) {
	r := Report{Files: 3, Bytes: 2048, Elapsed: 1500 * time.Millisecond}
	s := r.String()
	assert.True(t, strings.HasPrefix(s, "3 files, 2.0 kB"), s)
	assert.NotContains(t, s, "failed")

	r.Failures = []Failure{{Path: "/x", Err: errors.New("boom")}}
	assert.Contains(t, r.String(), "1 failed")
}

func TestIsMusicFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"a.mp3", true},
		{"a.FLAC", true},
		{"a.opus", true},
		{"a.m4a", true},
		{"a.wav", true},
		{"a.jpg", false},
		{"mp3", false},
	}
	for _, tt := range tests {
		if got := IsMusicFile(tt.path); got != tt.want {
			t.Errorf("IsMusicFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
