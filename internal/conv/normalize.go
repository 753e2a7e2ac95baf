package conv

import (
	"strings"
	"unicode"
)

// Transcription artifacts the recognizer emits on silence or background
// hiss. Compared after normalization.
var silenceArtifacts = map[string]bool{
	"":                       true,
	"you":                    true,
	"thank you":              true,
	"thanks for watching":    true,
	"15 15 15 15 15 15 15":   true,
	"subtitles by the amaraorg community": true,
}

// Utterance is one normalized unit of user input for a single cycle.
type Utterance struct {
	Raw   string // as transcribed, original casing and punctuation
	Text  string // lower-cased, punctuation stripped, whitespace collapsed
	Noise bool   // empty or a known silence artifact
}

// Normalize lower-cases the transcription, strips punctuation, collapses
// whitespace, and flags silence artifacts as noise.
func Normalize(raw string) Utterance {
	var b strings.Builder
	for _, r := range strings.ToLower(raw) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		case r == '\'':
			// keep contractions: "what's" stays one token
			b.WriteRune(r)
		}
	}
	text := strings.Join(strings.Fields(b.String()), " ")
	return Utterance{Raw: raw, Text: text, Noise: silenceArtifacts[text]}
}

func hasToken(text, token string) bool {
	for _, t := range strings.Fields(text) {
		if t == token {
			return true
		}
	}
	return false
}
