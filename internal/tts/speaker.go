// Package tts voices the assistant's replies through an external speech
// synthesizer.
package tts

import (
	"context"
	log "log/slog"
	"os/exec"
	"time"
)

// Ducker lowers other audio while speech plays. Optional.
type Ducker interface {
	Duck(ctx context.Context, factor float64, fade time.Duration) error
	Restore(ctx context.Context, fade time.Duration) error
}

// Speaker runs a TTS command per utterance on a single worker goroutine,
// so Say returns immediately and phrases never overlap.
type Speaker struct {
	bin    string
	args   []string
	ducker Ducker
	queue  chan string
	done   chan struct{}
}

// NewSpeaker starts the speech worker. bin is the synthesizer command,
// e.g. "espeak-ng" on Linux or "say" on macOS; the text is passed as the
// final argument. ducker may be nil.
func NewSpeaker(bin string, args []string, ducker Ducker) *Speaker {
	if bin == "" {
		bin = "espeak-ng"
	}
	s := &Speaker{
		bin:    bin,
		args:   args,
		ducker: ducker,
		queue:  make(chan string, 16),
		done:   make(chan struct{}),
	}
	go s.worker()
	return s
}

// Say queues text for speech and returns immediately. A full queue drops
// the phrase rather than stalling the conversation loop.
func (s *Speaker) Say(text string) {
	if text == "" {
		return
	}
	select {
	case s.queue <- text:
	default:
		log.Warn("speech queue full, dropping phrase")
	}
}

// Close stops accepting phrases and blocks until everything already
// queued has been spoken.
func (s *Speaker) Close() {
	close(s.queue)
	<-s.done
}

func (s *Speaker) worker() {
	defer close(s.done)
	ctx := context.Background()

	for text := range s.queue {
		if s.ducker != nil {
			if err := s.ducker.Duck(ctx, 0.3, 200*time.Millisecond); err != nil {
				log.Debug("duck failed", "err", err)
			}
		}

		args := append(append([]string(nil), s.args...), text)
		if err := exec.Command(s.bin, args...).Run(); err != nil {
			log.Error("speech synthesis failed", "bin", s.bin, "err", err)
		}

		if s.ducker != nil {
			if err := s.ducker.Restore(ctx, 200*time.Millisecond); err != nil {
				log.Debug("restore failed", "err", err)
			}
		}
	}
}
