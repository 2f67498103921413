package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/llehouerou/setlist/internal/icons"
	"github.com/llehouerou/setlist/internal/library"
	"github.com/llehouerou/setlist/internal/sequence"
)

const (
	defaultWidth   = 100
	durationWidth  = 7
	indexWidth     = 4
	markerWidth    = 2
	minColumnWidth = 8
)

// TableOptions controls SongTable output.
type TableOptions struct {
	Width   int // total width in cells, 0 means 100
	Current int // row to mark as playing, -1 for none
	Header  bool
}

// SongTable renders songs one per row with their effective metadata.
// Songs without a media file are marked with "x".
func SongTable(songs []library.Song, opts TableOptions) string {
	width := opts.Width
	if width <= 0 {
		width = defaultWidth
	}
	// title gets the extra cell when the remainder does not split evenly
	flex := max(width-indexWidth-markerWidth-durationWidth-3, 3*minColumnWidth)
	artistW := flex / 3
	albumW := flex / 3
	titleW := flex - artistW - albumW

	st := S()
	var b strings.Builder
	if opts.Header {
		line := strings.Repeat(" ", markerWidth) +
			TruncateAndPad("#", indexWidth) + " " +
			TruncateAndPad("Title", titleW) + " " +
			TruncateAndPad("Artist", artistW) + " " +
			TruncateAndPad("Album", albumW) +
			fmt.Sprintf("%*s", durationWidth, "Time")
		b.WriteString(st.Header.Render(line))
		b.WriteString("\n")
	}

	for i, s := range songs {
		m := library.Effective(s)
		marker := "  "
		switch {
		case i == opts.Current:
			marker = "▶ "
		case s.PriorityQueue:
			marker = "+ "
		case !s.Playable():
			marker = "x "
		}
		line := marker +
			TruncateAndPad(strconv.Itoa(i+1), indexWidth) + " " +
			TruncateAndPad(m.Title, titleW) + " " +
			TruncateAndPad(m.Artist, artistW) + " " +
			TruncateAndPad(m.Album, albumW) +
			fmt.Sprintf("%*s", durationWidth, Duration(s.Duration))

		switch {
		case i == opts.Current:
			line = st.Playing.Render(line)
		case s.PriorityQueue:
			line = st.Queued.Render(line)
		case !s.Playable():
			line = st.Muted.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

// SongLine renders one song as "Title - Artist (Album)".
func SongLine(s library.Song) string {
	m := library.Effective(s)
	line := Sanitize(m.Title) + " - " + Sanitize(m.Artist)
	if m.Album != "" {
		line += " (" + Sanitize(m.Album) + ")"
	}
	return line
}

// PlaylistList renders one playlist per line with its song count.
func PlaylistList(playlists []library.Playlist, width int) string {
	if width <= 0 {
		width = defaultWidth
	}
	st := S()
	var b strings.Builder
	for _, p := range playlists {
		right := st.Muted.Render(songCount(p.Len()))
		b.WriteString(Row(Truncate(icons.FormatPlaylist(Sanitize(p.Name)), width/2), right, width))
		b.WriteString("\n")
	}
	return b.String()
}

// CollectionTree renders a collection and its sections. resolved, when not
// nil, holds the playable songs of each section.
func CollectionTree(c library.Collection, resolved [][]library.Song) string {
	st := S()
	var b strings.Builder
	b.WriteString(st.Title.Render(icons.FormatCollection(Sanitize(c.Name))))
	b.WriteString("\n")
	if len(c.Sections) == 0 {
		b.WriteString(st.Muted.Render("  (no sections)"))
		b.WriteString("\n")
		return b.String()
	}

	for i, sec := range c.Sections {
		branch := "├─ "
		if i == len(c.Sections)-1 {
			branch = "└─ "
		}
		flags := []string{string(sec.Type)}
		if sec.Shuffle {
			flags = append(flags, "shuffle")
		}
		detail := songCount(len(sec.Songs()))
		if resolved != nil && i < len(resolved) {
			detail = fmt.Sprintf("%d of %s playable", len(resolved[i]), songCount(len(sec.Songs())))
		}
		if sec.Playlist != nil && sec.Playlist.Name != "" {
			detail = Sanitize(sec.Playlist.Name) + ", " + detail
		}
		fmt.Fprintf(&b, "%s%s %s %s\n", branch, Sanitize(sec.Name),
			st.Muted.Render("["+strings.Join(flags, ", ")+"]"), detail)
	}
	return b.String()
}

// NowPlaying renders the status line, the current song and what comes next.
func NowPlaying(status string, current *library.Song, fault string, upcoming []library.Song) string {
	st := S()
	var b strings.Builder
	b.WriteString(st.Title.Render(status))
	b.WriteString("\n")
	if current == nil {
		b.WriteString(st.Muted.Render("Nothing playing"))
		b.WriteString("\n")
	} else {
		b.WriteString(st.Playing.Render("▶ " + SongLine(*current)))
		b.WriteString("\n")
	}
	if fault != "" {
		b.WriteString(st.Error.Render("! " + fault))
		b.WriteString("\n")
	}
	if len(upcoming) > 0 {
		b.WriteString(st.Header.Render("Up next"))
		b.WriteString("\n")
		for i, s := range upcoming {
			line := fmt.Sprintf("%3d. %s", i+1, SongLine(s))
			if s.PriorityQueue {
				line = st.Queued.Render(line)
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Mode renders the repeat and shuffle indicators, empty when both are off.
func Mode(repeat sequence.RepeatMode, shuffle bool) string {
	var parts []string
	switch repeat {
	case sequence.RepeatPlaylist:
		parts = append(parts, icons.RepeatAll())
	case sequence.RepeatSong:
		parts = append(parts, icons.RepeatOne())
	}
	if shuffle {
		parts = append(parts, icons.Shuffle())
	}
	return strings.Join(parts, " ")
}

func songCount(n int) string {
	if n == 1 {
		return "1 song"
	}
	return strconv.Itoa(n) + " songs"
}
