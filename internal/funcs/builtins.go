package funcs

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/afero"
)

// Camera captures webcam snapshots for the capture_image function.
type Camera interface {
	Capture() (path string, err error)
}

// Messenger is the send/poll transport behind send_message and
// check_messages.
type Messenger interface {
	Send(recipient, content string) error
	Poll() []InboundMessage
}

// InboundMessage is one message received over the transport.
type InboundMessage struct {
	From    string `json:"from"`
	Content string `json:"content"`
}

// Deps carries the collaborators the built-in functions need. Nil optional
// fields (Camera, Messenger) degrade the matching functions into
// not-connected stubs rather than breaking registration.
type Deps struct {
	FS        afero.Fs
	NotesDir  string
	HTTP      *http.Client
	Say       func(text string)
	Chime     func()
	Camera    Camera
	Messenger Messenger
	Now       func() time.Time
}

func (d *Deps) fill() {
	if d.FS == nil {
		d.FS = afero.NewOsFs()
	}
	if d.HTTP == nil {
		d.HTTP = &http.Client{Timeout: 15 * time.Second}
	}
	if d.Say == nil {
		d.Say = func(string) {}
	}
	if d.Chime == nil {
		d.Chime = func() {}
	}
	if d.Now == nil {
		d.Now = time.Now
	}
}

// RegisterBuiltins populates the registry with the standard function set.
// Registration order is what the backend sees in its system prompt.
// It returns the timer set so the caller can drain it on shutdown.
func RegisterBuiltins(r *Registry, d Deps) *Timers {
	d.fill()

	weather := &weatherService{http: d.HTTP}
	wiki := &wikiService{http: d.HTTP}
	notes := &noteStore{fs: d.FS, dir: d.NotesDir, now: d.Now}
	timers := NewTimers(d.Say, d.Chime)

	r.Register("get_weather",
		"Get the current weather for a location",
		[]Param{{"location", "string", "City or location name"}},
		func(args map[string]any) (map[string]any, error) {
			return weather.current(stringArg(args, "location"))
		})

	r.Register("get_time",
		"Get the current time and date",
		nil,
		func(map[string]any) (map[string]any, error) {
			now := d.Now()
			return map[string]any{
				"time": now.Format("03:04 PM"),
				"date": now.Format("Monday, January 02, 2006"),
			}, nil
		})

	r.Register("set_timer",
		"Set a countdown timer that announces when done",
		[]Param{
			{"seconds", "number", "Number of seconds for the timer"},
			{"label", "string", "What the timer is for"},
		},
		func(args map[string]any) (map[string]any, error) {
			secs, ok := numberArg(args, "seconds")
			if !ok || secs <= 0 {
				return nil, fmt.Errorf("set_timer needs a positive number of seconds")
			}
			label := stringArg(args, "label")
			if label == "" {
				label = "timer"
			}
			timers.Start(time.Duration(secs*float64(time.Second)), label)
			return map[string]any{"status": "started", "seconds": secs, "label": label}, nil
		})

	r.Register("cancel_timer",
		"Cancel the most recently set timer",
		nil,
		func(map[string]any) (map[string]any, error) {
			label, ok := timers.CancelLast()
			if !ok {
				return nil, fmt.Errorf("no active timers")
			}
			return map[string]any{"status": "cancelled", "label": label}, nil
		})

	r.Register("cancel_all_timers",
		"Cancel every active timer",
		nil,
		func(map[string]any) (map[string]any, error) {
			n := timers.CancelAll()
			return map[string]any{"status": "cancelled", "count": n}, nil
		})

	r.Register("calculate",
		"Evaluate a math expression and return the result",
		[]Param{{"expression", "string", "Math expression to evaluate, e.g. '347 * 23'"}},
		func(args map[string]any) (map[string]any, error) {
			expr := stringArg(args, "expression")
			v, err := evaluate(expr)
			if err != nil {
				return nil, err
			}
			return map[string]any{"expression": expr, "result": v}, nil
		})

	r.Register("get_system_info",
		"Get system information like disk space, IP address, and uptime",
		nil,
		func(map[string]any) (map[string]any, error) {
			return systemInfo(), nil
		})

	r.Register("save_note",
		"Save a note or reminder to retrieve later",
		[]Param{{"text", "string", "The note or reminder text"}},
		func(args map[string]any) (map[string]any, error) {
			return notes.save(stringArg(args, "text"))
		})

	r.Register("get_notes",
		"Retrieve all saved notes and reminders",
		nil,
		func(map[string]any) (map[string]any, error) {
			return notes.list()
		})

	r.Register("wikipedia_summary",
		"Get a short summary about a topic from Wikipedia",
		[]Param{{"topic", "string", "Topic to look up"}},
		func(args map[string]any) (map[string]any, error) {
			return wiki.summary(stringArg(args, "topic"))
		})

	r.Register("convert_units",
		"Convert between common units (distance, weight, temperature)",
		[]Param{
			{"value", "number", "The numeric value to convert"},
			{"from_unit", "string", "Unit to convert from"},
			{"to_unit", "string", "Unit to convert to"},
		},
		func(args map[string]any) (map[string]any, error) {
			v, ok := numberArg(args, "value")
			if !ok {
				return nil, fmt.Errorf("convert_units needs a numeric value")
			}
			return convertUnits(v, stringArg(args, "from_unit"), stringArg(args, "to_unit"))
		})

	r.Register("capture_image",
		"Capture a photo from the webcam",
		nil,
		func(map[string]any) (map[string]any, error) {
			if d.Camera == nil {
				return nil, fmt.Errorf("no camera available")
			}
			path, err := d.Camera.Capture()
			if err != nil {
				return nil, err
			}
			return map[string]any{"status": "captured", "path": path}, nil
		})

	r.Register("home_automation",
		"Control smart home devices (not yet connected)",
		[]Param{
			{"device", "string", "Device name, e.g. 'living room lights'"},
			{"action", "string", "Action to perform, e.g. 'on', 'off', 'dim 50%'"},
		},
		func(args map[string]any) (map[string]any, error) {
			return map[string]any{
				"status":  "not_implemented",
				"message": fmt.Sprintf("Home automation not yet connected. Would %s %s.", stringArg(args, "action"), stringArg(args, "device")),
			}, nil
		})

	r.Register("play_music",
		"Play music or a podcast (not yet connected)",
		[]Param{{"query", "string", "Song, artist, playlist, or podcast name"}},
		func(args map[string]any) (map[string]any, error) {
			return map[string]any{
				"status":  "not_implemented",
				"message": "Music playback not yet connected. Would play: " + stringArg(args, "query"),
			}, nil
		})

	r.Register("send_message",
		"Send a message to someone on the bus",
		[]Param{
			{"recipient", "string", "Who to send the message to"},
			{"message", "string", "The message content"},
		},
		func(args map[string]any) (map[string]any, error) {
			recipient := stringArg(args, "recipient")
			content := stringArg(args, "message")
			if d.Messenger == nil {
				return map[string]any{
					"status":  "not_connected",
					"message": fmt.Sprintf("Messaging not connected. Would send to %s: %s", recipient, content),
				}, nil
			}
			if err := d.Messenger.Send(recipient, content); err != nil {
				return nil, err
			}
			return map[string]any{"status": "sent", "recipient": recipient}, nil
		})

	r.Register("check_messages",
		"Check for new messages received on the bus",
		nil,
		func(map[string]any) (map[string]any, error) {
			if d.Messenger == nil {
				return map[string]any{"messages": []InboundMessage{}}, nil
			}
			msgs := d.Messenger.Poll()
			if msgs == nil {
				msgs = []InboundMessage{}
			}
			return map[string]any{"messages": msgs}, nil
		})

	r.Register("go_to_sleep",
		"Go to sleep and stop responding until woken by name. Use when the user says good night or asks you to sleep.",
		nil,
		func(map[string]any) (map[string]any, error) {
			return nil, ErrSleep
		})

	r.Register("shutdown",
		"Shut down the voice interface. Use when the user says goodbye or asks to shut down.",
		nil,
		func(map[string]any) (map[string]any, error) {
			d.Say("Goodbye")
			return nil, ErrShutdown
		})

	return timers
}
