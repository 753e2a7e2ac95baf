// Package funcs holds the table of local functions the backend may call
// and the dispatch contract around them: ordinary failures are absorbed
// into error-shaped results, while the two control signals below propagate
// to the conversation loop untouched.
package funcs

import (
	"errors"
	"fmt"
	"strings"
)

// Control signals raised by built-in commands. They are not data errors;
// the loop matches on them to change top-level state or end the program.
var (
	ErrSleep    = errors.New("funcs: enter sleep")
	ErrShutdown = errors.New("funcs: shutdown")
)

// Param describes one parameter in a function's schema. The schema is only
// used to render the capability listing for the backend's system prompt.
type Param struct {
	Name        string
	Type        string
	Description string
}

// Handler implements one callable function.
type Handler func(args map[string]any) (map[string]any, error)

type entry struct {
	name        string
	description string
	params      []Param
	handler     Handler
}

// Registry is an ordered name-to-implementation table.
type Registry struct {
	entries []*entry
	byName  map[string]*entry
}

func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*entry)}
}

// Register adds a function. Registration order is preserved so the prompt
// listing is stable. Registering a duplicate name replaces the handler but
// keeps the original position.
func (r *Registry) Register(name, description string, params []Param, h Handler) {
	if e, ok := r.byName[name]; ok {
		e.description = description
		e.params = params
		e.handler = h
		return
	}
	e := &entry{name: name, description: description, params: params, handler: h}
	r.entries = append(r.entries, e)
	r.byName[name] = e
}

// Call invokes a registered function by name. Unknown names, handler
// errors and handler panics all come back as {"error": ...} results with a
// nil error, so a misbehaving function can never take the loop down.
// ErrSleep and ErrShutdown are the only errors Call ever returns.
func (r *Registry) Call(name string, args map[string]any) (res map[string]any, err error) {
	e, ok := r.byName[name]
	if !ok {
		return map[string]any{"error": "Unknown function: " + name}, nil
	}
	if args == nil {
		args = map[string]any{}
	}

	defer func() {
		if p := recover(); p != nil {
			res = map[string]any{"error": fmt.Sprintf("%s: %v", name, p)}
			err = nil
		}
	}()

	res, err = e.handler(args)
	if err != nil {
		if errors.Is(err, ErrSleep) || errors.Is(err, ErrShutdown) {
			return nil, err
		}
		return map[string]any{"error": err.Error()}, nil
	}
	if res == nil {
		res = map[string]any{}
	}
	return res, nil
}

// PromptDescription renders the registry as a newline-delimited capability
// list for the backend's system prompt, in registration order. This is the
// only way the backend learns what it may call.
func (r *Registry) PromptDescription() string {
	var b strings.Builder
	for i, e := range r.entries {
		if i > 0 {
			b.WriteByte('\n')
		}
		parts := make([]string, len(e.params))
		for j, p := range e.params {
			parts[j] = fmt.Sprintf("%s (%s): %s", p.Name, p.Type, p.Description)
		}
		fmt.Fprintf(&b, "- %s(%s): %s", e.name, strings.Join(parts, ", "), e.description)
	}
	return b.String()
}

// Names returns the registered function names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.name
	}
	return out
}

// argument coercion helpers shared by the built-ins

func stringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

func numberArg(args map[string]any, key string) (float64, bool) {
	switch v := args[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		var f float64
		if _, err := fmt.Sscanf(strings.TrimSpace(v), "%g", &f); err == nil {
			return f, true
		}
	}
	return 0, false
}
