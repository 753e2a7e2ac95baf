// iris-dictate transcribes speech into timestamped transcript files, the
// offline counterpart of the daemon's dictation mode. With file arguments
// it decodes and transcribes each recording; with none it listens on the
// microphone until interrupted.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/lmittmann/tint"
	log "log/slog"

	"github.com/spf13/afero"
	cli "github.com/spf13/pflag"

	"iris/internal/audio"
	"iris/internal/config"
	"iris/internal/conv"
	"iris/pkg/audioconv"
	"iris/pkg/stt"
)

func main() {
	lang := cli.StringP("lang", "L", "en", "Transcription language")
	outDir := cli.StringP("out", "o", "", "Transcript directory (defaults to the dictation dir)")
	cli.Parse()

	log.SetDefault(log.New(tint.NewHandler(os.Stderr, &tint.Options{Level: log.LevelInfo})))

	cfg, err := config.Load()
	if err != nil {
		log.Error("Bad configuration", "err", err)
		os.Exit(1)
	}
	dir := *outDir
	if dir == "" {
		dir = cfg.DictationDir
	}

	tr, err := stt.NewTranscriber(cfg.WhisperModel)
	if err != nil {
		log.Error("Failed to init whisper", "err", err)
		os.Exit(1)
	}
	defer tr.Close()

	fs := afero.NewOsFs()
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		log.Error("Failed to create transcript dir", "err", err)
		os.Exit(1)
	}

	files := cli.Args()
	if len(files) == 0 {
		if err := dictateLive(fs, tr, cfg, dir, *lang); err != nil {
			log.Error("Dictation failed", "err", err)
			os.Exit(1)
		}
		return
	}

	failed := 0
	for _, file := range files {
		if err := transcribeFile(fs, tr, file, dir, *lang); err != nil {
			log.Error("Transcription failed", "file", file, "err", err)
			failed++
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
}

// dictateLive records from the microphone until interrupted, appending
// every recognized line to a fresh transcript. Filler the recognizer
// hallucinates over silence is dropped.
func dictateLive(fs afero.Fs, tr *stt.Transcriber, cfg config.Config, dir, lang string) error {
	rec, err := audio.NewRecorder()
	if err != nil {
		return err
	}
	defer rec.Close()
	mic := audio.NewMic(rec, tr, lang)

	transcript, err := conv.OpenTranscript(fs, dir, nil)
	if err != nil {
		return err
	}
	defer transcript.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("Dictating", "transcript", transcript.Path())
	for {
		text, err := mic.Listen(ctx, cfg.ListenTimeout, cfg.PhraseLimit)
		switch {
		case errors.Is(err, conv.ErrWaitTimeout):
			continue
		case errors.Is(err, context.Canceled):
			log.Info("Dictation finished", "lines", transcript.Lines(), "transcript", transcript.Path())
			return nil
		case err != nil:
			return err
		}

		u := conv.Normalize(text)
		if u.Noise {
			continue
		}
		if err := transcript.Append(u.Raw); err != nil {
			return err
		}
		fmt.Println(u.Raw)
	}
}

func transcribeFile(fs afero.Fs, tr *stt.Transcriber, file, dir, lang string) error {
	pcm, err := audioconv.DecodeFile(file, audioconv.Options{})
	if err != nil {
		return err
	}
	log.Info("Decoded", "file", file, "samples", len(pcm))

	res, err := tr.TranscribePCM(context.Background(), pcm, stt.Options{Language: lang})
	if err != nil {
		return err
	}

	stem := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	out := filepath.Join(dir, stem+".txt")
	if err := afero.WriteFile(fs, out, []byte(res.Text+"\n"), 0o644); err != nil {
		return err
	}

	log.Info("Transcribed", "file", file, "out", out, "language", res.Language)
	return nil
}
