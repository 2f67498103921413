// Package icons holds the indicator glyphs for playlists and play modes.
package icons

// Style represents the icon style to use.
type Style string

const (
	StyleNerd    Style = "nerd"
	StyleUnicode Style = "unicode"
	StyleNone    Style = "none"
)

// Icons holds the icon characters for the current style.
type Icons struct {
	Playlist   string
	Collection string
	Shuffle    string
	RepeatAll  string
	RepeatOne  string
}

var (
	nerdIcons = Icons{
		Playlist:   "󰲸 ",      // nf-md-playlist_music
		Collection: "\uf51e ", // nf-oct-stack
		Shuffle:    "󰒟",       // nf-md-shuffle
		RepeatAll:  "󰑖",       // nf-md-repeat
		RepeatOne:  "󰑘",       // nf-md-repeat_once
	}

	unicodeIcons = Icons{
		Playlist:   "📋 ",
		Collection: "🗂 ",
		Shuffle:    "🔀",
		RepeatAll:  "🔁",
		RepeatOne:  "🔂",
	}

	noneIcons = Icons{
		Shuffle:   "[S]",
		RepeatAll: "[R]",
		RepeatOne: "[1]",
	}

	// current holds the active icon set
	current = noneIcons
)

// Valid reports whether style names a known icon style.
func Valid(style string) bool {
	switch Style(style) {
	case StyleNerd, StyleUnicode, StyleNone, "":
		return true
	}
	return false
}

// Init initializes the icons based on the style.
// Call this once at startup with the config value.
func Init(style string) {
	switch Style(style) {
	case StyleNerd:
		current = nerdIcons
	case StyleUnicode:
		current = unicodeIcons
	default:
		current = noneIcons
	}
}

// FormatPlaylist formats a playlist name with the appropriate icon.
func FormatPlaylist(name string) string {
	return current.Playlist + name
}

// FormatCollection formats a collection name with the appropriate icon.
func FormatCollection(name string) string {
	return current.Collection + name
}

// Shuffle returns the shuffle icon.
func Shuffle() string {
	return current.Shuffle
}

// RepeatAll returns the repeat all icon.
func RepeatAll() string {
	return current.RepeatAll
}

// RepeatOne returns the repeat one icon.
func RepeatOne() string {
	return current.RepeatOne
}
