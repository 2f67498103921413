// Package scanner walks music directories and builds library songs from the
// files' tags, falling back to the directory layout and file names.
package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/llehouerou/setlist/internal/library"
)

// Failure is a file that could not be turned into a song.
type Failure struct {
	Path string
	Err  error
}

// Report summarizes one scan.
type Report struct {
	Directory string
	Files     int
	Bytes     int64
	Failures  []Failure
	Elapsed   time.Duration
}

// String renders a one-line summary.
func (r Report) String() string {
	s := fmt.Sprintf("%d files, %s in %s", r.Files, humanize.Bytes(uint64(max(r.Bytes, 0))), r.Elapsed.Round(time.Millisecond))
	if n := len(r.Failures); n > 0 {
		s += fmt.Sprintf(", %d failed", n)
	}
	return s
}

// Scanner builds songs from audio files.
type Scanner struct {
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scanner) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock sets the clock used for id suffixes.
func WithClock(now func() time.Time) Option {
	return func(s *Scanner) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a Scanner.
func New(opts ...Option) *Scanner {
	s := &Scanner{logger: slog.Default(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BaseID returns the stable base id of the file at path.
func BaseID(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	id := uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+filepath.ToSlash(path)))
	return strings.ReplaceAll(id.String(), "-", "")
}

// Scan walks dir and returns a song for every supported audio file, in
// lexical path order. Per-file problems are collected in the report; only an
// unreadable dir or a cancelled ctx fail the scan.
func (s *Scanner) Scan(ctx context.Context, dir string) ([]library.Song, Report, error) {
	start := s.now()
	report := Report{Directory: dir}
	suffix := strconv.FormatInt(start.UnixMilli(), 10)
	parent := filepath.Dir(filepath.Clean(dir))

	var songs []library.Song
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if path == dir {
				return walkErr
			}
			report.Failures = append(report.Failures, Failure{Path: path, Err: walkErr})
			return nil
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsMusicFile(path) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			report.Failures = append(report.Failures, Failure{Path: path, Err: err})
			return nil
		}

		rel, err := filepath.Rel(parent, path)
		if err != nil {
			rel = filepath.Base(path)
		}

		song := s.buildSong(path, rel, info.Size())
		song.ID = library.ID{Base: BaseID(path), Suffix: suffix}
		songs = append(songs, song)
		report.Files++
		report.Bytes += info.Size()
		return nil
	})
	report.Elapsed = s.now().Sub(start)
	if err != nil {
		return nil, report, fmt.Errorf("scan %s: %w", dir, err)
	}

	s.logger.Info("scan complete",
		"dir", dir,
		"files", report.Files,
		"size", humanize.Bytes(uint64(max(report.Bytes, 0))),
		"failed", len(report.Failures))
	if songs == nil {
		songs = []library.Song{}
	}
	return songs, report, nil
}

func (s *Scanner) buildSong(path, rel string, size int64) library.Song {
	name := filepath.Base(path)

	t, err := readTags(path)
	if err != nil {
		s.logger.Debug("no readable tags, using file layout", "path", path, "err", err)
	}
	duration, err := readDuration(path)
	if err != nil {
		s.logger.Debug("duration unavailable", "path", path, "err", err)
	}

	l := layoutOf(rel)
	nameArtist, nameTitle := parseFilename(name)

	title := cleanTitle(t.Title)
	artist := cleanArtist(t.Artist)
	albumArtist := cleanArtist(t.AlbumArtist)
	if title == "" {
		title = nameTitle
		artist = firstNonEmpty(artist, nameArtist)
	}

	track := trackFromFilename(name)
	if t.TrackNumber > 0 {
		track = strconv.Itoa(t.TrackNumber)
	}
	var year string
	if t.Year > 0 {
		year = strconv.Itoa(t.Year)
	}

	return library.Song{
		Title:    firstNonEmpty(title, UnknownTitle),
		Artist:   firstNonEmpty(artist, albumArtist, l.Artist, UnknownArtist),
		Album:    firstNonEmpty(t.Album, l.Album, UnknownAlbum),
		Genre:    firstNonEmpty(t.Genre, l.Genre, UnknownGenre),
		Year:     year,
		Duration: duration,
		CustomTags: map[string]string{
			library.TagDirectory:        filepath.ToSlash(filepath.Dir(rel)),
			library.TagOriginalFilename: name,
			library.TagAlbumArtist:      firstNonEmpty(albumArtist, artist, l.Artist, UnknownArtist),
			library.TagTrackNumber:      track,
		},
		File: &library.MediaFile{Path: path, Size: size},
	}
}
