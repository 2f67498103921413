// Test program to scan one directory and walk the resulting library
package main

import (
	"context"
	"log"
	"os"
	"path/filepath"

	"github.com/llehouerou/setlist/internal/library"
	"github.com/llehouerou/setlist/internal/scanner"
	"github.com/llehouerou/setlist/internal/sequence"
)

const previewLimit = 20

func main() {
	if len(os.Args) < 2 {
		log.Fatalf("usage: %s <dir> [repeat]", filepath.Base(os.Args[0]))
	}
	dir, err := filepath.Abs(os.Args[1])
	if err != nil {
		log.Fatalf("Failed to resolve directory: %v", err)
	}
	repeat := sequence.RepeatNone
	if len(os.Args) > 2 {
		repeat, err = sequence.ParseRepeatMode(os.Args[2])
		if err != nil {
			log.Fatalf("Invalid repeat mode: %v", err)
		}
	}

	log.Printf("Scanning %s", dir)
	songs, report, err := scanner.New().Scan(context.Background(), dir)
	if err != nil {
		log.Fatalf("Failed to scan: %v", err)
	}
	log.Println(report)
	for _, f := range report.Failures {
		log.Printf("  ERROR: %s: %v", f.Path, f.Err)
	}

	lib := library.New(nil)
	res := lib.Upload(songs, dir)
	log.Printf("Library: %d added, %d replaced", res.Added, res.Replaced)

	for i, s := range lib.Songs() {
		m := library.Effective(s)
		log.Printf("  [%d] %s - %s (%s) track %s genre %q", i+1, m.Artist, m.Title, m.Album,
			s.Tag(library.TagTrackNumber), m.Genre)
	}

	eng := sequence.New(lib)
	eng.SetRepeat(repeat)
	if _, err := eng.PlayLibraryRow(0); err != nil {
		log.Fatalf("Failed to start sequence: %v", err)
	}
	eng.SetShuffle(true)

	log.Printf("\nShuffled order (%s, repeat %s):", eng.Status(), repeat)
	if cur, ok := eng.Current(); ok {
		log.Printf("  now: %s", library.Effective(cur).Title)
	}
	for i, s := range eng.Upcoming(previewLimit) {
		log.Printf("  %2d: %s", i+1, library.Effective(s).Title)
	}
}
