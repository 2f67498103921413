//nolint:goconst // test cases intentionally repeat strings for readability
package icons

import "testing"

func TestInit(t *testing.T) {
	tests := []struct {
		name     string
		style    string
		expected Icons
	}{
		{"nerd style", "nerd", nerdIcons},
		{"unicode style", "unicode", unicodeIcons},
		{"none style", "none", noneIcons},
		{"empty string defaults to none", "", noneIcons},
		{"unknown style defaults to none", "invalid", noneIcons},
		{"case sensitive - NERD defaults to none", "NERD", noneIcons},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Init(tt.style)
			if current != tt.expected {
				t.Errorf("Init(%q) selected %+v", tt.style, current)
			}
		})
	}

	// Reset to default
	Init("none")
}

func TestValid(t *testing.T) {
	for _, style := range []string{"nerd", "unicode", "none", ""} {
		if !Valid(style) {
			t.Errorf("Valid(%q) = false, want true", style)
		}
	}
	if Valid("emoji") {
		t.Error("Valid(\"emoji\") = true, want false")
	}
}

func TestFormatPlaylist(t *testing.T) {
	tests := []struct {
		style    string
		expected string
	}{
		{"none", "Road Trip"},
		{"nerd", "󰲸 Road Trip"},
		{"unicode", "📋 Road Trip"},
	}

	for _, tt := range tests {
		t.Run(tt.style, func(t *testing.T) {
			Init(tt.style)
			if got := FormatPlaylist("Road Trip"); got != tt.expected {
				t.Errorf("FormatPlaylist() = %q, want %q", got, tt.expected)
			}
		})
	}

	Init("none")
}

func TestModeIcons(t *testing.T) {
	tests := []struct {
		style     string
		shuffle   string
		repeatAll string
		repeatOne string
	}{
		{"none", "[S]", "[R]", "[1]"},
		{"unicode", "🔀", "🔁", "🔂"},
		{"nerd", "󰒟", "󰑖", "󰑘"},
	}

	for _, tt := range tests {
		t.Run(tt.style, func(t *testing.T) {
			Init(tt.style)
			if got := Shuffle(); got != tt.shuffle {
				t.Errorf("Shuffle() = %q, want %q", got, tt.shuffle)
			}
			if got := RepeatAll(); got != tt.repeatAll {
				t.Errorf("RepeatAll() = %q, want %q", got, tt.repeatAll)
			}
			if got := RepeatOne(); got != tt.repeatOne {
				t.Errorf("RepeatOne() = %q, want %q", got, tt.repeatOne)
			}
		})
	}

	Init("none")
}
