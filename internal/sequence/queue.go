package sequence

import (
	"slices"

	"github.com/llehouerou/setlist/internal/library"
)

// Queue holds songs the user asked to hear next, ahead of the active context.
type Queue struct {
	songs []library.Song
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{songs: []library.Song{}}
}

// Add appends marked copies of songs.
func (q *Queue) Add(songs ...library.Song) {
	for _, s := range songs {
		c := s.Clone()
		c.PriorityQueue = true
		c.PlaylistContext = nil
		q.songs = append(q.songs, c)
	}
}

// Pop removes and returns the first song.
// Returns false if the queue is empty.
func (q *Queue) Pop() (library.Song, bool) {
	if len(q.songs) == 0 {
		return library.Song{}, false
	}
	s := q.songs[0]
	q.songs = slices.Clone(q.songs[1:])
	return s, true
}

// RemoveAt removes the song at index.
func (q *Queue) RemoveAt(index int) bool {
	if index < 0 || index >= len(q.songs) {
		return false
	}
	q.songs = slices.Delete(slices.Clone(q.songs), index, index+1)
	return true
}

// Clear removes all songs.
func (q *Queue) Clear() {
	q.songs = []library.Song{}
}

// Songs returns the queued songs.
func (q *Queue) Songs() []library.Song {
	return q.songs
}

// Len returns the number of queued songs.
func (q *Queue) Len() int {
	return len(q.songs)
}

// IsEmpty returns true if nothing is queued.
func (q *Queue) IsEmpty() bool {
	return len(q.songs) == 0
}

func (q *Queue) clone() *Queue {
	return &Queue{songs: slices.Clone(q.songs)}
}
