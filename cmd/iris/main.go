package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/lmittmann/tint"
	log "log/slog"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	cli "github.com/spf13/pflag"

	"iris/internal/audio"
	"iris/internal/camera"
	"iris/internal/config"
	"iris/internal/conv"
	"iris/internal/funcs"
	"iris/internal/ipc"
	"iris/internal/llm"
	"iris/internal/msg"
	"iris/internal/notify"
	"iris/internal/proxy"
	"iris/internal/tts"
	"iris/internal/ui"
	"iris/pkg/stt"
)

var logLevelMap = map[string]log.Level{
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

func main() {
	logLevel := cli.StringP("log", "l", "info", "Log level")
	eventsAddr := cli.StringP("events", "w", "", "Serve a websocket event feed on this address, e.g. :8093")
	cli.Parse()

	log.SetDefault(log.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level: logLevelMap[*logLevel],
	})))

	log.Info("Booting up")

	cfg, err := config.Load()
	if err != nil {
		log.Error("Bad configuration", "err", err)
		os.Exit(1)
	}

	backend, err := buildBackend(cfg)
	if err != nil {
		log.Error("Failed to build backend", "err", err)
		os.Exit(1)
	}

	rec, err := audio.NewRecorder()
	if err != nil {
		log.Error("Failed to init audio", "err", err)
		os.Exit(1)
	}
	defer rec.Close()

	transcriber, err := stt.NewTranscriber(cfg.WhisperModel)
	if err != nil {
		log.Error("Failed to init whisper", "err", err)
		os.Exit(1)
	}
	defer transcriber.Close()

	mic := audio.NewMic(rec, transcriber, "en")

	var speaker conv.Speaker = conv.SpeakerFunc(func(string) {})
	if !cfg.Quiet {
		ducker := audio.NewDucker([]string{cfg.SpeakCommand}, 10)
		voiced := tts.NewSpeaker(cfg.SpeakCommand, cfg.SpeakArgs, ducker)
		defer voiced.Close()
		speaker = voiced
	}

	grabber := camera.NewGrabber(cfg.SnapshotDir)

	var messenger funcs.Messenger
	if cfg.BusURL != "" {
		bus, err := msg.Dial(cfg.BusURL, "iris")
		if err != nil {
			log.Warn("Bus unavailable, messaging disabled", "url", cfg.BusURL, "err", err)
		} else {
			defer bus.Close()
			messenger = bus
		}
	}

	reg := funcs.NewRegistry()
	timers := funcs.RegisterBuiltins(reg, funcs.Deps{
		NotesDir: cfg.NotesDir,
		Say:      speaker.Say,
		Chime: func() {
			if err := notify.Chime(cfg.ChimePath); err != nil {
				log.Warn("Chime failed", "err", err)
			}
		},
		Camera:    grabber,
		Messenger: messenger,
	})
	defer timers.CancelAll()

	console := ui.NewConsole()
	events := ui.NewEvents()
	if *eventsAddr != "" {
		go func() {
			log.Info("Serving event feed", "addr", *eventsAddr)
			if err := http.ListenAndServe(*eventsAddr, events); err != nil {
				log.Error("Event feed stopped", "err", err)
			}
		}()
	}

	loop := conv.NewLoop(
		conv.Config{
			Name:            cfg.Name,
			Prefix:          cfg.Prefix,
			SystemPrompt:    llm.SystemPrompt(cfg.Name, reg.PromptDescription()),
			ListenTimeout:   cfg.ListenTimeout,
			PhraseLimit:     cfg.PhraseLimit,
			GenerateTimeout: cfg.GenerateTimeout,
			IdleThreshold:   cfg.IdleThreshold,
			VisualEvery:     cfg.VisualEvery,
			DictationDir:    cfg.DictationDir,
		},
		conv.Deps{
			Listener: mic,
			Backend:  backend,
			Speaker:  speaker,
			Camera:   grabber,
			Registry: reg,
			Callbacks: conv.Callbacks{
				OnStatus: func(text string) {
					console.Status(text)
					events.Publish(ui.Event{Kind: "status", Text: text})
				},
				OnDisplay: func(userText, responseText string) {
					console.Display(userText, responseText)
					events.Publish(ui.Event{Kind: "display", User: userText, Text: responseText})
				},
				OnSleep: func(sleeping bool) {
					console.Sleep(sleeping)
					events.Publish(ui.Event{Kind: "sleep", Flag: sleeping})
				},
				OnMute: func(muted bool) {
					console.Mute(muted)
					events.Publish(ui.Event{Kind: "mute", Flag: muted})
				},
				OnExit: func() {
					events.Publish(ui.Event{Kind: "exit"})
				},
			},
		})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := ipc.StartServer(cfg.SocketPath, func(m ipc.ControlMessage) {
		switch m.Cmd {
		case "ask", "say":
			loop.Inject(m.Text)
		case "wake":
			loop.Wake()
		case "sleep":
			loop.Sleep()
		case "mute":
			loop.Mute(true)
		case "unmute":
			loop.Mute(false)
		case "shutdown":
			stop()
		default:
			log.Warn("Unknown command", "cmd", m.Cmd)
		}
	})
	if err != nil {
		log.Error("Failed ipc server", "err", err)
		os.Exit(1)
	}
	defer srv.Close()

	log.Info("Boot up - successful", "name", cfg.Name, "backend", cfg.Backend)

	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("Loop ended with error", "err", err)
		os.Exit(1)
	}
	log.Info("Shut down cleanly")
}

func buildBackend(cfg config.Config) (conv.Backend, error) {
	if cfg.Backend == "cli" {
		return llm.NewCLI(cfg.CLIBin, "--allowedTools", "Read"), nil
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, errors.New("OPENAI_API_KEY not set")
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if cfg.SocksProxy != "" {
		httpClient, err := proxy.NewSocksClient(cfg.SocksProxy)
		if err != nil {
			return nil, err
		}
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	client := openai.NewClient(opts...)
	return llm.NewOpenAI(client, cfg.OpenAIModel), nil
}
