package library

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func song(id, title string) Song {
	return Song{ID: ParseID(id), Title: title, Artist: "Artist", Album: "Album"}
}

func TestFindIndex(t *testing.T) {
	lib := []Song{
		song("a-1", "One"),
		song("b-1", "Two"),
		song("a-2", "One again"),
		song("c-1", "Three"),
	}

	tests := []struct {
		name     string
		target   Song
		wantIdx  int
		wantKind MatchKind
	}{
		{"full id beats earlier base match", song("a-2", "x"), 2, MatchFullID},
		{"base id", song("b-9", "x"), 1, MatchBaseID},
		{"base id first occurrence", song("a-7", "x"), 0, MatchBaseID},
		{"triple", song("z-1", "Three"), 3, MatchTriple},
		{"miss", song("z-1", "Nope"), -1, MatchNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, kind := FindIndex(tt.target, lib)
			assert.Equal(t, tt.wantIdx, idx)
			assert.Equal(t, tt.wantKind, kind)
		})
	}
}

func TestFindIndex_TripleIsExact(t *testing.T) {
	lib := []Song{{ID: ParseID("a-1"), Title: "Song", Artist: "X", Album: "Y"}}
	target := Song{ID: ParseID("z-1"), Title: "song", Artist: "X", Album: "Y"}

	if i, _ := FindIndex(target, lib); i != -1 {
		t.Errorf("FindIndex() = %d, want -1 for case mismatch", i)
	}
}

func TestFindIndex_EmptyIDsDoNotMatch(t *testing.T) {
	lib := []Song{{Title: "A"}}
	target := Song{Title: "B"}

	if i, kind := FindIndex(target, lib); i != -1 {
		t.Errorf("FindIndex() = %d (%s), want -1", i, kind)
	}
}

func TestResolveOr(t *testing.T) {
	lib := []Song{song("a-1", "One")}
	lib[0].File = &MediaFile{Path: "/one.mp3"}

	got := ResolveOr(song("a", "stale"), lib)
	assert.Equal(t, "/one.mp3", got.File.Path)

	miss := song("q", "Q")
	assert.Equal(t, miss, ResolveOr(miss, lib))
}

func TestFindByPath(t *testing.T) {
	tagged := func(id, dir, name string) Song {
		s := song(id, id)
		s.CustomTags = map[string]string{TagDirectory: dir, TagOriginalFilename: name}
		return s
	}
	candidates := []Song{tagged("a", "music", "x.mp3"), tagged("b", "other", "y.mp3")}

	m, ok := FindByPath(tagged("n", "other", "y.mp3"), candidates)
	assert.True(t, ok)
	assert.Equal(t, "b", m.ID.Base)

	_, ok = FindByPath(tagged("n", "music", "y.mp3"), candidates)
	assert.False(t, ok)

	_, ok = FindByPath(song("n", "no tags"), candidates)
	assert.False(t, ok)
}

func TestSameTrack(t *testing.T) {
	if !SameTrack(song("a-1", ""), song("a-2", "")) {
		t.Error("SameTrack should compare base ids")
	}
	if SameTrack(song("a-1", ""), song("b-1", "")) {
		t.Error("SameTrack should differ on base id")
	}
}
