package audio

import (
	"context"
	"errors"
	"strings"
	"time"

	"iris/internal/conv"
	"iris/pkg/stt"
)

// Mic pairs the recorder with a whisper transcriber to implement the
// loop's Listener.
type Mic struct {
	rec      *Recorder
	tr       *stt.Transcriber
	language string
}

func NewMic(rec *Recorder, tr *stt.Transcriber, language string) *Mic {
	if language == "" {
		language = "en"
	}
	return &Mic{rec: rec, tr: tr, language: language}
}

func (m *Mic) Listen(ctx context.Context, timeout, phraseLimit time.Duration) (string, error) {
	pcm, err := m.rec.Record(ctx, timeout, phraseLimit)
	if err != nil {
		if errors.Is(err, ErrNoSpeech) {
			return "", conv.ErrWaitTimeout
		}
		return "", err
	}

	res, err := m.tr.TranscribePCM(ctx, pcm, stt.Options{Language: m.language})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(res.Text), nil
}
