package conv

import (
	"sort"
	"strings"

	"iris/pkg/fuzzy"
)

// WakeMatcher decides whether a normalized utterance addresses the
// assistant by name.
type WakeMatcher struct {
	name string
}

func NewWakeMatcher(name string) *WakeMatcher {
	return &WakeMatcher{name: strings.ToLower(name)}
}

// Matches reports whether any token is the assistant's name within one
// edit, or the utterance contains both "wake" and "up". A one-edit token
// only counts when it still sounds like the name: it must share the
// name's first two characters, or be a rearrangement of the same letters
// (an adjacent transposition). Near-misses from misrecognition ("irys",
// "irish", "iirs") wake the assistant; different words that happen to sit
// one edit away ("idris") do not.
func (w *WakeMatcher) Matches(text string) bool {
	tokens := strings.Fields(text)
	var hasWake, hasUp bool
	for _, tok := range tokens {
		switch tok {
		case "wake":
			hasWake = true
		case "up":
			hasUp = true
		}
		switch fuzzy.Distance(tok, w.name) {
		case 0:
			return true
		case 1:
			if sharedPrefix(tok, w.name) >= 2 || sameLetters(tok, w.name) {
				return true
			}
		}
	}
	return hasWake && hasUp
}

func sharedPrefix(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	n := 0
	for n < len(ra) && n < len(rb) && ra[n] == rb[n] {
		n++
	}
	return n
}

func sameLetters(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	ra, rb := []rune(a), []rune(b)
	sort.Slice(ra, func(i, j int) bool { return ra[i] < ra[j] })
	sort.Slice(rb, func(i, j int) bool { return rb[i] < rb[j] })
	return string(ra) == string(rb)
}
