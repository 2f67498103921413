package scanner

import (
	"strconv"
	"strings"

	"go.senan.xyz/taglib"
)

type taglibTags map[string][]string

// get returns the first value for any of the given keys, or empty string if not found.
func (t taglibTags) get(keys ...string) string {
	for _, key := range keys {
		if values, ok := t[key]; ok && len(values) > 0 {
			return strings.TrimSpace(values[0])
		}
	}
	return ""
}

// readWithTaglib reads FLAC, Opus and M4A metadata through TagLib when
// dhowden/tag fails.
func readWithTaglib(path string) (fileTags, error) {
	raw, err := taglib.ReadTags(path)
	if err != nil {
		return fileTags{}, err
	}
	tags := taglibTags(raw)

	var year int
	if d := tags.get(taglib.Date, taglib.OriginalDate); len(d) >= 4 {
		year, _ = strconv.Atoi(d[:4])
	}

	return fileTags{
		Title:       tags.get(taglib.Title),
		Artist:      tags.get(taglib.Artist),
		AlbumArtist: tags.get(taglib.AlbumArtist),
		Album:       tags.get(taglib.Album),
		Genre:       tags.get(taglib.Genre),
		Year:        year,
		TrackNumber: parseTrackNumber(tags.get(taglib.TrackNumber)),
	}, nil
}
