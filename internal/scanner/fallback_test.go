package scanner

import "testing"

func TestCleanArtist(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Simon and Garfunkel", "Simon & Garfunkel"},
		{"  Spaced   Out  ", "Spaced Out"},
		{"Band", "Band"},
	}
	for _, tt := range tests {
		if got := cleanArtist(tt.in); got != tt.want {
			t.Errorf("cleanArtist(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCleanTitle(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Song (Live)", "Song"},
		{"Song - Extended Mix", "Song"},
		{"Song - Remix by Someone", "Song"},
		{"Plain", "Plain"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := cleanTitle(tt.in); got != tt.want {
			t.Errorf("cleanTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseFilename(t *testing.T) {
	tests := []struct {
		name       string
		wantArtist string
		wantTitle  string
	}{
		{"03 - Intro.mp3", "", "Intro"},
		{"Artist - Title.flac", "Artist", "Title"},
		{"The Song by Someone.ogg", "Someone", "The Song"},
		{"12_Track.mp3", "", "Track"},
	}
	for _, tt := range tests {
		artist, title := parseFilename(tt.name)
		if artist != tt.wantArtist || title != tt.wantTitle {
			t.Errorf("parseFilename(%q) = (%q, %q), want (%q, %q)", tt.name, artist, title, tt.wantArtist, tt.wantTitle)
		}
	}
}

func TestTrackFromFilename(t *testing.T) {
	if got := trackFromFilename("07 - Song.mp3"); got != "7" {
		t.Errorf("trackFromFilename() = %q, want %q", got, "7")
	}
	if got := trackFromFilename("Song.mp3"); got != "" {
		t.Errorf("trackFromFilename() = %q, want empty", got)
	}
}

func TestLayoutOf(t *testing.T) {
	l := layoutOf("Music/Indie Band/First Album/song.mp3")
	if l.Artist != "Indie Band" || l.Album != "First Album" || l.Genre != "Rock" {
		t.Errorf("layoutOf() = %+v", l)
	}

	l = layoutOf("Music/song.mp3")
	if l.Artist != "" || l.Album != "" {
		t.Errorf("layoutOf() = %+v, want empty artist and album", l)
	}
}

func TestParseTrackNumber(t *testing.T) {
	if got := parseTrackNumber("5/10"); got != 5 {
		t.Errorf("parseTrackNumber() = %d, want 5", got)
	}
	if got := parseTrackNumber(""); got != 0 {
		t.Errorf("parseTrackNumber() = %d, want 0", got)
	}
}
