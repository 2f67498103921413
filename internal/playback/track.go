package playback

import (
	"time"

	"github.com/llehouerou/setlist/internal/library"
)

// Track is the loaded song as shown to listeners.
// This is a copy of the data, not a reference to the library song.
type Track struct {
	Index    int // library index
	ID       string
	Path     string
	Title    string
	Artist   string
	Album    string
	Duration time.Duration
}

// TrackFromSong builds a Track from the effective metadata of s.
func TrackFromSong(index int, s library.Song) Track {
	m := library.Effective(s)
	t := Track{
		Index:    index,
		ID:       s.ID.String(),
		Title:    m.Title,
		Artist:   m.Artist,
		Album:    m.Album,
		Duration: time.Duration(s.Duration * float64(time.Second)),
	}
	if s.File != nil {
		t.Path = s.File.Path
	}
	return t
}
