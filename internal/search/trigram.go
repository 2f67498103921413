package search

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Match represents a search match with its index and score.
type Match struct {
	Index int
	Score float64
}

// minCoverage is the share of a word's trigrams an item must contain.
const minCoverage = 0.4

// TrigramMatcher performs trigram-based search with multi-word support.
type TrigramMatcher struct {
	itemTrigrams []map[string]struct{}
	normalized   []string
}

// NewTrigramMatcher creates a matcher over texts.
func NewTrigramMatcher(texts []string) *TrigramMatcher {
	m := &TrigramMatcher{
		itemTrigrams: make([]map[string]struct{}, len(texts)),
		normalized:   make([]string, len(texts)),
	}
	for i, text := range texts {
		n := normalize(text)
		m.normalized[i] = n
		m.itemTrigrams[i] = generateTrigrams(n)
	}
	return m
}

// Search finds texts matching the query.
// Query is split into words, each word must match (AND logic).
// Returns matches sorted by score (best first), ties in input order.
func (m *TrigramMatcher) Search(query string) []Match {
	words := strings.Fields(normalize(query))
	if len(words) == 0 {
		matches := make([]Match, len(m.normalized))
		for i := range m.normalized {
			matches[i] = Match{Index: i}
		}
		return matches
	}

	wordTrigrams := make([]map[string]struct{}, len(words))
	for i, word := range words {
		wordTrigrams[i] = generateTrigrams(word)
	}

	matches := []Match{}
	for i, itemTris := range m.itemTrigrams {
		if score := m.scoreItem(i, words, wordTrigrams, itemTris); score > 0 {
			matches = append(matches, Match{Index: i, Score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}

// scoreItem calculates how well an item matches the query words.
// All words must match for a non-zero score.
func (m *TrigramMatcher) scoreItem(idx int, words []string, wordTrigrams []map[string]struct{}, itemTris map[string]struct{}) float64 {
	text := m.normalized[idx]
	totalScore := 0.0

	for i, word := range words {
		// For short words (1-2 chars), use substring match
		if len([]rune(word)) <= 2 {
			if !strings.Contains(text, word) {
				return 0
			}
			totalScore += 1.0
			continue
		}

		// coverage rather than Jaccard: short queries against long texts
		coverage := trigramCoverage(wordTrigrams[i], itemTris)
		if coverage < minCoverage {
			return 0
		}
		similarity := coverage
		if strings.Contains(text, word) {
			similarity += 0.5
		}
		totalScore += similarity
	}

	return totalScore / float64(len(words))
}

// normalize lowercases and removes diacritics for matching.
func normalize(s string) string {
	return strings.ToLower(RemoveDiacritics(s))
}

// generateTrigrams creates the set of trigrams for a string.
// Pads with spaces at start/end for better prefix/suffix matching.
func generateTrigrams(s string) map[string]struct{} {
	if s == "" {
		return nil
	}

	tris := make(map[string]struct{})
	runes := []rune("  " + s + "  ")
	for i := 0; i <= len(runes)-3; i++ {
		tri := string(runes[i : i+3])
		if strings.TrimSpace(tri) != "" {
			tris[tri] = struct{}{}
		}
	}
	return tris
}

// trigramCoverage calculates what fraction of query trigrams are found in the item.
func trigramCoverage(query, item map[string]struct{}) float64 {
	if len(query) == 0 {
		return 0
	}

	intersection := 0
	for tri := range query {
		if _, ok := item[tri]; ok {
			intersection++
		}
	}
	return float64(intersection) / float64(len(query))
}

// RemoveDiacritics removes accents from characters, so "cafe" matches
// "café".
func RemoveDiacritics(s string) string {
	var result strings.Builder
	for _, r := range norm.NFD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		result.WriteRune(r)
	}
	return norm.NFC.String(result.String())
}
