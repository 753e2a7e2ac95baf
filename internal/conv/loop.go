package conv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/afero"

	"iris/internal/funcs"
	"iris/pkg/fncall"
	"iris/pkg/watchdog"
)

// Config carries the loop's tunables. Zero values get sensible defaults
// from NewLoop.
type Config struct {
	Name         string // assistant name, doubles as the wake word
	SystemPrompt string
	Prefix       string // optional text prepended to every active prompt

	ListenTimeout   time.Duration // wait for a phrase to start
	PhraseLimit     time.Duration // max length of one phrase
	GenerateTimeout time.Duration // backend turn budget
	Margin          time.Duration // watchdog slack on top of the timeouts
	Poll            time.Duration // watchdog poll interval

	IdleThreshold int // empty cycles before falling asleep
	VisualEvery   int // cycles between periodic snapshots in visual mode

	FS           afero.Fs
	DictationDir string
	Now          func() time.Time
}

func (c *Config) fill() {
	if c.Name == "" {
		c.Name = "Iris"
	}
	if c.ListenTimeout == 0 {
		c.ListenTimeout = 5 * time.Second
	}
	if c.PhraseLimit == 0 {
		c.PhraseLimit = 30 * time.Second
	}
	if c.GenerateTimeout == 0 {
		c.GenerateTimeout = 60 * time.Second
	}
	if c.IdleThreshold == 0 {
		c.IdleThreshold = 25
	}
	if c.VisualEvery == 0 {
		c.VisualEvery = 10
	}
	if c.FS == nil {
		c.FS = afero.NewOsFs()
	}
	if c.DictationDir == "" {
		c.DictationDir = "."
	}
	if c.Now == nil {
		c.Now = time.Now
	}
}

// Deps are the loop's collaborators. Camera may be nil when no capture
// device exists; visual mode then refuses to start.
type Deps struct {
	Listener  Listener
	Backend   Backend
	Speaker   Speaker
	Camera    Camera
	Registry  *funcs.Registry
	Callbacks Callbacks
	Log       *slog.Logger
}

// Loop drives the conversation cycle.
type Loop struct {
	cfg      Config
	log      *slog.Logger
	listener Listener
	backend  Backend
	speaker  Speaker
	camera   Camera
	reg      *funcs.Registry
	modes    *Controller
	wake     *WakeMatcher
	cb       Callbacks

	injected chan string
	ops      chan func()
	cycles   int
}

func NewLoop(cfg Config, d Deps) *Loop {
	cfg.fill()
	if d.Log == nil {
		d.Log = slog.Default()
	}
	l := &Loop{
		cfg:      cfg,
		log:      d.Log,
		listener: d.Listener,
		backend:  d.Backend,
		speaker:  d.Speaker,
		camera:   d.Camera,
		reg:      d.Registry,
		modes:    NewController(cfg.IdleThreshold),
		wake:     NewWakeMatcher(cfg.Name),
		cb:       d.Callbacks,
		injected: make(chan string, 8),
		ops:      make(chan func(), 8),
	}
	l.registerModeFunctions()
	return l
}

// Inject queues text to be handled as if it had been heard. Safe from
// other goroutines; used by the control socket.
func (l *Loop) Inject(text string) {
	select {
	case l.injected <- text:
	default:
		l.log.Warn("inject queue full, dropping", "text", text)
	}
}

// Do queues a state operation to run on the loop goroutine at the start
// of the next cycle.
func (l *Loop) Do(op func()) {
	select {
	case l.ops <- op:
	default:
		l.log.Warn("op queue full, dropping command")
	}
}

// Sleep queues a transition to sleeping, as if the go_to_sleep function
// had fired.
func (l *Loop) Sleep() {
	l.Do(func() {
		if !l.modes.Sleeping() {
			l.goToSleep("Going to sleep.")
		}
	})
}

// Wake queues a wake-up, as if the wake word had been heard.
func (l *Loop) Wake() {
	l.Do(func() {
		if l.modes.Sleeping() {
			l.wakeUp()
		}
	})
}

// Mute queues a mute-state change.
func (l *Loop) Mute(muted bool) {
	l.Do(func() {
		l.modes.SetMuted(muted)
		l.cb.mute(muted)
	})
}

// Run executes the conversation loop until ctx is cancelled, a shutdown
// function fires, or the capture device fails.
func (l *Loop) Run(ctx context.Context) error {
	greeting, err := l.backend.Init(l.cfg.SystemPrompt)
	if err != nil {
		return fmt.Errorf("backend init: %w", err)
	}
	if greeting != "" {
		l.cb.display("", greeting)
		l.speaker.Say(greeting)
	}

	for ctx.Err() == nil {
		l.drainOps()

		raw, err := l.capture(ctx)
		switch {
		case err == nil:
		case errors.Is(err, ErrWaitTimeout), errors.Is(err, watchdog.ErrHung):
			raw = ""
		case errors.Is(err, context.Canceled):
			return nil
		default:
			// capture device fault: report and exit rather than retry forever
			l.log.Error("listener failed", "err", err)
			l.speaker.Say("I can't hear anything, shutting down.")
			return err
		}

		l.cycles++
		u := Normalize(raw)

		if l.modes.Sleeping() {
			if !u.Noise && l.wake.Matches(u.Text) {
				l.wakeUp()
			}
			continue
		}

		if l.modes.Visual() && l.cycles%l.cfg.VisualEvery == 0 {
			l.visualTurn(ctx)
		}

		if u.Noise {
			if !l.modes.Visual() && l.modes.RecordIdle() {
				l.goToSleep("Going to sleep. Say my name to wake me.")
			}
			continue
		}
		l.modes.ResetIdle()

		if l.modes.Muted() && !hasToken(u.Text, "unmute") {
			continue
		}

		var done bool
		switch {
		case l.modes.Dictating():
			done = l.dictationCycle(ctx, u)
		case l.modes.Passive():
			done = l.passiveCycle(ctx, u)
		default:
			done = l.turn(ctx, u.Raw, u.Raw)
		}
		if done {
			l.cb.exit()
			return nil
		}
	}
	return nil
}

func (l *Loop) drainOps() {
	for {
		select {
		case op := <-l.ops:
			op()
		default:
			return
		}
	}
}

// capture waits for one utterance, preferring injected text over the
// microphone.
func (l *Loop) capture(ctx context.Context) (string, error) {
	select {
	case text := <-l.injected:
		return text, nil
	default:
	}

	cfg := watchdog.Config{
		Primary:   l.cfg.ListenTimeout,
		Secondary: l.cfg.PhraseLimit,
		Margin:    l.cfg.Margin,
		Poll:      l.cfg.Poll,
	}
	return watchdog.Run(ctx, cfg, func(ctx context.Context) (string, error) {
		return l.listener.Listen(ctx, l.cfg.ListenTimeout, l.cfg.PhraseLimit)
	})
}

func (l *Loop) dictationCycle(ctx context.Context, u Utterance) bool {
	t := l.modes.Transcript()
	if !l.wake.Matches(u.Text) {
		if err := t.Append(u.Raw); err != nil {
			l.log.Error("dictation write failed", "err", err)
			l.speaker.Say("I couldn't write to the transcript.")
			l.modes.StopDictation()
			return false
		}
		l.cb.status(fmt.Sprintf("Dictating (%d lines)", t.Lines()))
		return false
	}

	recent := t.Recent()
	prompt := u.Raw
	if len(recent) > 0 {
		prompt = "Recent dictation:\n" + strings.Join(recent, "\n") + "\n\n" + u.Raw
	}
	return l.turn(ctx, prompt, u.Raw)
}

func (l *Loop) passiveCycle(ctx context.Context, u Utterance) bool {
	if !l.wake.Matches(u.Text) {
		n := l.modes.BufferPassive(u.Raw)
		l.cb.status(fmt.Sprintf("Listening passively (%d lines)", n))
		return false
	}

	buf := l.modes.DrainPassive()
	prompt := u.Raw
	if len(buf) > 0 {
		prompt = "Context from passive listening:\n" + strings.Join(buf, "\n") + "\n\n" + u.Raw
	}
	return l.turn(ctx, prompt, u.Raw)
}

// turn runs one full backend exchange: generate, speak, dispatch calls,
// follow up. It reports true when the shutdown function fired.
func (l *Loop) turn(ctx context.Context, prompt, userText string) bool {
	if l.cfg.Prefix != "" {
		prompt = l.cfg.Prefix + " " + prompt
	}

	reply, ok := l.generate(ctx, prompt)
	if !ok {
		return false
	}

	speech, calls := fncall.Parse(reply)
	l.cb.display(userText, speech)
	if speech != "" {
		l.speaker.Say(speech)
	}
	if len(calls) == 0 {
		return false
	}

	results := make([]map[string]any, 0, len(calls))
	for _, call := range calls {
		res, err := l.reg.Call(call.Name, call.Args)
		switch {
		case errors.Is(err, funcs.ErrSleep):
			l.goToSleep("Good night.")
			return false
		case errors.Is(err, funcs.ErrShutdown):
			return true
		}
		results = append(results, res)
	}

	followUp := followUpPrompt(calls, results)
	reply, ok = l.generate(ctx, followUp)
	if !ok {
		return false
	}
	speech, _ = fncall.Parse(reply)
	if speech != "" {
		l.cb.display(userText, speech)
		l.speaker.Say(speech)
	}
	return false
}

// generate runs one watchdog-guarded backend call, reporting elapsed time
// through the status callback.
func (l *Loop) generate(ctx context.Context, prompt string) (string, bool) {
	l.cb.status("Processing...")
	cfg := watchdog.Config{
		Primary: l.cfg.GenerateTimeout,
		Margin:  l.cfg.Margin,
		Poll:    l.cfg.Poll,
		OnStatus: func(elapsed, _ time.Duration) {
			l.cb.status(fmt.Sprintf("Processing... (%ds)", int(elapsed.Seconds())))
		},
	}
	reply, err := watchdog.Run(ctx, cfg, func(ctx context.Context) (string, error) {
		return l.backend.Generate(ctx, prompt)
	})
	switch {
	case err == nil:
		return reply, true
	case errors.Is(err, watchdog.ErrHung):
		l.log.Warn("backend hung, abandoning call")
		l.speaker.Say("Sorry, that took too long.")
	case errors.Is(err, context.Canceled):
	default:
		l.log.Error("backend call failed", "err", err)
		l.speaker.Say("Sorry, something went wrong.")
	}
	return "", false
}

// followUpPrompt builds the second-turn prompt from dispatch results.
// A lone result carrying an image path asks for a description of the
// image instead of a recital of raw JSON.
func followUpPrompt(calls []fncall.Call, results []map[string]any) string {
	if len(results) == 1 {
		if path, ok := results[0]["path"].(string); ok && strings.HasSuffix(path, ".png") {
			return "Read the image at " + path + " and describe what you see. Be brief and conversational."
		}
	}

	var b strings.Builder
	for i, res := range results {
		blob, err := json.Marshal(res)
		if err != nil {
			blob = []byte(`{"error": "unencodable result"}`)
		}
		fmt.Fprintf(&b, "Function %s returned: %s. ", calls[i].Name, blob)
	}
	b.WriteString("Summarize the result conversationally.")
	return b.String()
}

func (l *Loop) goToSleep(announce string) {
	if l.modes.Visual() && l.camera != nil {
		l.camera.Release()
	}
	l.modes.Sleep()
	l.cb.sleep(true)
	l.cb.status("Sleeping")
	l.speaker.Say(announce)
}

func (l *Loop) wakeUp() {
	l.modes.Wake()
	l.cb.sleep(false)
	l.cb.status("Awake")
	if l.modes.Visual() && l.camera != nil {
		if err := l.camera.Acquire(); err != nil {
			l.log.Error("camera re-acquire failed", "err", err)
			l.modes.SetVisual(false)
		}
	}
	l.speaker.Say("I'm awake.")
}

// visualTurn captures a periodic snapshot and has the backend describe
// it. Runs even while muted; only sleep suspends it.
func (l *Loop) visualTurn(ctx context.Context) {
	path, err := l.camera.Capture()
	if err != nil {
		l.log.Error("snapshot failed", "err", err)
		return
	}
	prompt := "Read the image at " + path + " and describe what you see. Be brief and conversational."
	reply, ok := l.generate(ctx, prompt)
	if !ok {
		return
	}
	speech, _ := fncall.Parse(reply)
	if speech != "" {
		l.cb.display("", speech)
		l.speaker.Say(speech)
	}
}

// registerModeFunctions installs the mode-toggle functions. They close
// over the controller and run synchronously from turn dispatch, so they
// need no locking.
func (l *Loop) registerModeFunctions() {
	if l.reg == nil {
		return
	}

	l.reg.Register("mute",
		"Stop responding to speech until unmuted",
		nil,
		func(map[string]any) (map[string]any, error) {
			l.modes.SetMuted(true)
			l.cb.mute(true)
			return map[string]any{"status": "muted"}, nil
		})

	l.reg.Register("unmute",
		"Resume responding to speech",
		nil,
		func(map[string]any) (map[string]any, error) {
			l.modes.SetMuted(false)
			l.cb.mute(false)
			return map[string]any{"status": "unmuted"}, nil
		})

	l.reg.Register("start_passive_mode",
		"Listen passively, buffering what is heard until addressed by name",
		nil,
		func(map[string]any) (map[string]any, error) {
			l.modes.StartPassive()
			return map[string]any{"status": "passive"}, nil
		})

	l.reg.Register("stop_passive_mode",
		"Stop passive listening and discard the buffer",
		nil,
		func(map[string]any) (map[string]any, error) {
			l.modes.StopPassive()
			return map[string]any{"status": "active"}, nil
		})

	l.reg.Register("start_dictation",
		"Start transcribing everything heard to a file",
		nil,
		func(map[string]any) (map[string]any, error) {
			t, err := OpenTranscript(l.cfg.FS, l.cfg.DictationDir, l.cfg.Now)
			if err != nil {
				return nil, err
			}
			l.modes.StartDictation(t)
			return map[string]any{"status": "dictating", "path": t.Path()}, nil
		})

	l.reg.Register("stop_dictation",
		"Stop transcribing and close the transcript file",
		nil,
		func(map[string]any) (map[string]any, error) {
			t := l.modes.Transcript()
			if t == nil {
				return nil, fmt.Errorf("not dictating")
			}
			path := t.Path()
			l.modes.StopDictation()
			return map[string]any{"status": "stopped", "path": path}, nil
		})

	l.reg.Register("start_visual_mode",
		"Periodically capture and describe what the camera sees",
		nil,
		func(map[string]any) (map[string]any, error) {
			if l.camera == nil {
				return nil, fmt.Errorf("no camera available")
			}
			if err := l.camera.Acquire(); err != nil {
				return nil, err
			}
			l.modes.SetVisual(true)
			return map[string]any{"status": "visual"}, nil
		})

	l.reg.Register("stop_visual_mode",
		"Stop periodic camera capture",
		nil,
		func(map[string]any) (map[string]any, error) {
			if l.camera != nil {
				l.camera.Release()
			}
			l.modes.SetVisual(false)
			return map[string]any{"status": "active"}, nil
		})
}
