package scanner

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// Defaults for fields neither the tags nor the file layout supply.
const (
	UnknownTitle  = "Unknown Title"
	UnknownArtist = "Unknown Artist"
	UnknownAlbum  = "Unknown Album"
	UnknownGenre  = "Unknown Genre"
)

var (
	reAnd            = regexp.MustCompile(`(?i) and `)
	reSpaces         = regexp.MustCompile(`\s+`)
	reTrailingParens = regexp.MustCompile(`\s*\([^)]*\)\s*$`)
	reVersion        = regexp.MustCompile(`(?i)\s*-\s*(Extended|Remix|Edit|Version|Mix).*$`)
	reLeadingTrack   = regexp.MustCompile(`^\d+[\s._-]+`)
	reTrackPrefix    = regexp.MustCompile(`^(\d+)`)
	reArtistTitle    = regexp.MustCompile(`^(.+?)\s*-\s*(.+)$`)
	reTitleBy        = regexp.MustCompile(`^(.+?)\s+by\s+(.+)$`)
)

var genrePatterns = []struct {
	genre   string
	pattern *regexp.Regexp
}{
	{"Rock", regexp.MustCompile(`rock|alternative|indie`)},
	{"Pop", regexp.MustCompile(`pop|dance|electronic`)},
	{"Jazz", regexp.MustCompile(`jazz|blues|swing`)},
	{"Classical", regexp.MustCompile(`classical|orchestra|chamber`)},
	{"Christian", regexp.MustCompile(`christian|worship|gospel`)},
}

// cleanArtist normalizes "and" to "&" and collapses whitespace.
func cleanArtist(s string) string {
	s = reAnd.ReplaceAllString(s, " & ")
	return strings.TrimSpace(reSpaces.ReplaceAllString(s, " "))
}

// cleanTitle drops trailing parentheses and version suffixes.
func cleanTitle(s string) string {
	s = reTrailingParens.ReplaceAllString(s, "")
	s = reVersion.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// cleanFilename strips the extension and a leading track number.
func cleanFilename(name string) string {
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = reLeadingTrack.ReplaceAllString(name, "")
	return cleanTitle(name)
}

func trackFromFilename(name string) string {
	if m := reTrackPrefix.FindStringSubmatch(name); m != nil {
		n, _ := strconv.Atoi(m[1])
		return strconv.Itoa(n)
	}
	return ""
}

// layout holds what the directory structure tells about a file, for a
// root/Artist/Album/song layout.
type layout struct {
	Artist string
	Album  string
	Genre  string
}

// layoutOf inspects rel, the file path relative to the scanned directory's
// parent. rel always starts with the scanned directory's name.
func layoutOf(rel string) layout {
	parts := strings.Split(filepath.ToSlash(rel), "/")
	var l layout
	if len(parts) >= 3 {
		l.Album = parts[len(parts)-2]
	}
	if len(parts) >= 4 {
		l.Artist = cleanArtist(parts[len(parts)-3])
	}
	lower := strings.ToLower(rel)
	for _, g := range genrePatterns {
		if g.pattern.MatchString(lower) {
			l.Genre = g.genre
			break
		}
	}
	return l
}

// parseFilename splits "Artist - Title" and "Title by Artist" names.
func parseFilename(name string) (artist, title string) {
	clean := cleanFilename(name)
	if m := reArtistTitle.FindStringSubmatch(clean); m != nil {
		return cleanArtist(m[1]), strings.TrimSpace(m[2])
	}
	if m := reTitleBy.FindStringSubmatch(clean); m != nil {
		return cleanArtist(m[2]), strings.TrimSpace(m[1])
	}
	return "", clean
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
