// Package conv drives the assistant's conversation cycle: capture an
// utterance, route it by mode, call the backend, dispatch parsed function
// calls, and speak the results.
package conv

import (
	"context"
	"errors"
	"time"
)

// ErrWaitTimeout is returned by a Listener when no phrase started within
// the listen timeout. The loop treats it as an empty cycle, not a fault.
var ErrWaitTimeout = errors.New("conv: no speech before timeout")

// Listener captures one utterance of user input as text. Listen blocks
// until a phrase is transcribed, the timeout passes with no speech
// (ErrWaitTimeout), or ctx is cancelled.
type Listener interface {
	Listen(ctx context.Context, timeout, phraseLimit time.Duration) (string, error)
}

// Backend generates replies. Init sets the system prompt and returns the
// opening line to greet the user with; Generate runs one turn against the
// conversation history. Reset drops accumulated history.
type Backend interface {
	Init(systemPrompt string) (greeting string, err error)
	Generate(ctx context.Context, prompt string) (string, error)
	Reset()
}

// Speaker voices text. Say must not block the loop past its own
// invocation; implementations queue and return.
type Speaker interface {
	Say(text string)
}

// SpeakerFunc adapts a plain function to the Speaker interface.
type SpeakerFunc func(text string)

func (f SpeakerFunc) Say(text string) { f(text) }

// Camera is an exclusively-held capture device. The loop releases it
// before sleeping and re-acquires it on waking, so no two modes ever hold
// it at once.
type Camera interface {
	Acquire() error
	Release()
	Capture() (path string, err error)
}
