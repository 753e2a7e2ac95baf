// Package config loads the daemon's settings from the environment, with
// an optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is everything the daemon reads from its environment.
type Config struct {
	Name   string // assistant name, doubles as the wake word
	Prefix string // optional text prepended to every prompt

	Backend      string // "openai" or "cli"
	OpenAIModel  string
	CLIBin       string
	SocksProxy   string // optional host:port for outbound HTTP
	SpeakCommand string // TTS binary, e.g. "espeak-ng" or "say"
	SpeakArgs    []string
	Quiet        bool // print replies instead of voicing them

	WhisperModel string // path to a ggml whisper model
	ChimePath    string

	ListenTimeout   time.Duration
	PhraseLimit     time.Duration
	GenerateTimeout time.Duration

	IdleThreshold int
	VisualEvery   int

	NotesDir     string
	DictationDir string
	SnapshotDir  string
	SocketPath   string
	BusURL       string // optional websocket message bus
}

// Load reads IRIS_* environment variables over defaults. A .env file in
// the working directory is merged in first, existing env winning.
func Load() (Config, error) {
	godotenv.Load()

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	base := filepath.Join(home, ".iris")

	cfg := Config{
		Name:            envStr("IRIS_NAME", "Iris"),
		Prefix:          envStr("IRIS_PROMPT_PREFIX", ""),
		Backend:         envStr("IRIS_BACKEND", "openai"),
		OpenAIModel:     envStr("IRIS_OPENAI_MODEL", ""),
		CLIBin:          envStr("IRIS_CLI_BIN", "claude"),
		SocksProxy:      envStr("IRIS_SOCKS_PROXY", ""),
		SpeakCommand:    envStr("IRIS_SPEAK_COMMAND", "espeak-ng"),
		SpeakArgs:       strings.Fields(os.Getenv("IRIS_SPEAK_ARGS")),
		Quiet:           envBool("IRIS_QUIET"),
		WhisperModel:    envStr("IRIS_WHISPER_MODEL", filepath.Join(base, "models", "ggml-base.en.bin")),
		ChimePath:       envStr("IRIS_CHIME", filepath.Join(base, "chime.mp3")),
		NotesDir:        envStr("IRIS_NOTES_DIR", filepath.Join(base, "notes")),
		DictationDir:    envStr("IRIS_DICTATION_DIR", filepath.Join(base, "dictation")),
		SnapshotDir:     envStr("IRIS_SNAPSHOT_DIR", filepath.Join(base, "snapshots")),
		SocketPath:      envStr("IRIS_SOCKET", "/tmp/iris.sock"),
		BusURL:          envStr("IRIS_BUS_URL", ""),
		ListenTimeout:   5 * time.Second,
		PhraseLimit:     30 * time.Second,
		GenerateTimeout: 60 * time.Second,
		IdleThreshold:   25,
		VisualEvery:     10,
	}

	if cfg.ListenTimeout, err = envDuration("IRIS_LISTEN_TIMEOUT", cfg.ListenTimeout); err != nil {
		return cfg, err
	}
	if cfg.PhraseLimit, err = envDuration("IRIS_PHRASE_LIMIT", cfg.PhraseLimit); err != nil {
		return cfg, err
	}
	if cfg.GenerateTimeout, err = envDuration("IRIS_GENERATE_TIMEOUT", cfg.GenerateTimeout); err != nil {
		return cfg, err
	}
	if cfg.IdleThreshold, err = envInt("IRIS_IDLE_THRESHOLD", cfg.IdleThreshold); err != nil {
		return cfg, err
	}
	if cfg.VisualEvery, err = envInt("IRIS_VISUAL_EVERY", cfg.VisualEvery); err != nil {
		return cfg, err
	}

	switch cfg.Backend {
	case "openai", "cli":
	default:
		return cfg, fmt.Errorf("IRIS_BACKEND must be openai or cli, got %q", cfg.Backend)
	}
	return cfg, nil
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func envBool(key string) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func envInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
