// Package search ranks library songs against free-text queries.
package search

import (
	"strings"

	"github.com/samber/lo"

	"github.com/llehouerou/setlist/internal/library"
)

// Songs returns the songs whose effective title, artist, album and genre
// match query, best match first. An empty query returns songs unchanged.
func Songs(songs []library.Song, query string) []library.Song {
	if strings.TrimSpace(query) == "" {
		return songs
	}
	texts := lo.Map(songs, func(s library.Song, _ int) string {
		m := library.Effective(s)
		return strings.Join([]string{m.Title, m.Artist, m.Album, m.Genre}, " ")
	})
	matches := NewTrigramMatcher(texts).Search(query)
	return lo.Map(matches, func(m Match, _ int) library.Song {
		return songs[m.Index]
	})
}
