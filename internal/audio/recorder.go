// Package audio captures microphone input and turns it into text for the
// conversation loop.
package audio

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/gordonklaus/portaudio"
)

// ErrNoSpeech means no voice activity started before the listen timeout.
var ErrNoSpeech = errors.New("audio: no speech detected")

const (
	sampleRate       = 16000
	frameSize        = 320 // 20ms at 16kHz
	frameDur         = 20 * time.Millisecond
	silenceThreshRMS = 0.015
	silenceHold      = 600 * time.Millisecond
)

// Recorder owns the portaudio input stream lifecycle.
type Recorder struct{}

func NewRecorder() (*Recorder, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, err
	}
	return &Recorder{}, nil
}

func (r *Recorder) Close() {
	portaudio.Terminate()
}

// Record waits up to wait for voice activity, then captures until the
// speaker pauses or phraseLimit elapses. Mono float32 at 16kHz, ready for
// the transcriber. Returns ErrNoSpeech when nothing was said in time.
func (r *Recorder) Record(ctx context.Context, wait, phraseLimit time.Duration) ([]float32, error) {
	buf := make([]float32, frameSize)
	out := make([]float32, 0, sampleRate*3)

	stream, err := portaudio.OpenDefaultStream(1, 0, sampleRate, len(buf), buf)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return nil, err
	}
	defer stream.Stop()

	var (
		speaking bool
		silence  time.Duration
		onsetBy  = time.Now().Add(wait)
		endBy    time.Time
	)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := stream.Read(); err != nil {
			return nil, err
		}

		rms := frameRMS(buf)
		if !speaking {
			if rms <= silenceThreshRMS {
				if time.Now().After(onsetBy) {
					return nil, ErrNoSpeech
				}
				continue
			}
			speaking = true
			endBy = time.Now().Add(phraseLimit)
		}

		out = append(out, buf...)
		if rms <= silenceThreshRMS {
			silence += frameDur
			if silence >= silenceHold {
				return out, nil
			}
		} else {
			silence = 0
		}
		if time.Now().After(endBy) {
			return out, nil
		}
	}
}

func frameRMS(f []float32) float64 {
	var s float64
	for _, x := range f {
		s += float64(x * x)
	}
	return math.Sqrt(s / float64(len(f)))
}
