// Package fncall implements the wire format the backend uses to request
// local function execution: JSON objects of the form
//
//	{"function": "<name>", "args": {...}}
//
// embedded anywhere in an otherwise free-text reply.
package fncall

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Call is one function-call request extracted from backend output.
type Call struct {
	Name string
	Args map[string]any
}

// blockRe matches balanced-brace JSON object candidates with at most one
// level of nested objects. Deeper nesting is not part of the wire format.
var blockRe = regexp.MustCompile(`\{[^{}]*(?:\{[^{}]*\}[^{}]*)*\}`)

var spaceRe = regexp.MustCompile(`\s+`)

// Parse splits raw backend output into spoken text and the function calls
// embedded in it, in their original left-to-right order.
//
// Each matched call is removed from the speech text once, at its first
// occurrence. Substrings that fail to parse as JSON are left alone, and so
// are well-formed JSON objects without a "function" key; the backend is
// prompted not to produce those, and stripping them would hide a
// misbehaving reply from the user.
func Parse(text string) (string, []Call) {
	speech := text
	var calls []Call

	for _, m := range blockRe.FindAllString(text, -1) {
		var obj map[string]any
		if err := json.Unmarshal([]byte(m), &obj); err != nil {
			continue
		}

		name, ok := obj["function"].(string)
		if !ok {
			continue
		}

		args, _ := obj["args"].(map[string]any)
		if args == nil {
			args = map[string]any{}
		}

		calls = append(calls, Call{Name: name, Args: args})
		speech = strings.Replace(speech, m, "", 1)
	}

	speech = strings.TrimSpace(spaceRe.ReplaceAllString(speech, " "))
	return speech, calls
}
