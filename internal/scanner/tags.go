package scanner

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bogem/id3v2/v2"
	"github.com/dhowden/tag"
)

// Supported file extensions.
const (
	extMP3  = ".mp3"
	extFLAC = ".flac"
	extOPUS = ".opus"
	extOGG  = ".ogg"
	extM4A  = ".m4a"
	extMP4  = ".mp4"
	extWAV  = ".wav"
)

// IsMusicFile reports whether path has a supported audio extension.
func IsMusicFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case extMP3, extFLAC, extOPUS, extOGG, extM4A, extMP4, extWAV:
		return true
	}
	return false
}

// fileTags is the subset of tag metadata a song is built from. Empty fields
// were absent from the file.
type fileTags struct {
	Title       string
	Artist      string
	AlbumArtist string
	Album       string
	Genre       string
	Year        int
	TrackNumber int
}

// readTags reads tag metadata from a music file.
func readTags(path string) (fileTags, error) {
	f, err := os.Open(path)
	if err != nil {
		return fileTags{}, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		switch strings.ToLower(filepath.Ext(path)) {
		case extMP3:
			// dhowden/tag has issues with some UTF-16 encoded ID3 tags
			return readID3v2(path)
		case extFLAC, extOPUS, extM4A:
			return readWithTaglib(path)
		}
		return fileTags{}, err
	}

	track, _ := m.Track()
	return fileTags{
		Title:       strings.TrimSpace(m.Title()),
		Artist:      strings.TrimSpace(m.Artist()),
		AlbumArtist: strings.TrimSpace(m.AlbumArtist()),
		Album:       strings.TrimSpace(m.Album()),
		Genre:       strings.TrimSpace(m.Genre()),
		Year:        m.Year(),
		TrackNumber: track,
	}, nil
}

// readID3v2 reads MP3 metadata using only the id3v2 library.
func readID3v2(path string) (fileTags, error) {
	id3tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fileTags{}, err
	}
	defer id3tag.Close()

	var year int
	if y := id3tag.Year(); len(y) >= 4 {
		year, _ = strconv.Atoi(y[:4])
	}

	return fileTags{
		Title:       strings.TrimSpace(id3tag.Title()),
		Artist:      strings.TrimSpace(id3tag.Artist()),
		AlbumArtist: strings.TrimSpace(textFrame(id3tag, "TPE2")),
		Album:       strings.TrimSpace(id3tag.Album()),
		Genre:       strings.TrimSpace(id3tag.Genre()),
		Year:        year,
		TrackNumber: parseTrackNumber(textFrame(id3tag, "TRCK")),
	}, nil
}

// parseTrackNumber parses a track number string like "5" or "5/10".
func parseTrackNumber(s string) int {
	num, _, _ := strings.Cut(s, "/")
	n, _ := strconv.Atoi(strings.TrimSpace(num))
	return n
}

func textFrame(id3tag *id3v2.Tag, frameID string) string {
	frames := id3tag.GetFrames(frameID)
	if len(frames) == 0 {
		return ""
	}
	if tf, ok := frames[0].(id3v2.TextFrame); ok {
		return tf.Text
	}
	return ""
}
