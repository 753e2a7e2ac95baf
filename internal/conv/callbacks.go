package conv

// Callbacks surface loop events to whatever front-end is attached. All
// fields are optional; they may be invoked from timer and watchdog
// goroutines, so implementations must be safe to call off the main loop.
type Callbacks struct {
	OnStatus  func(text string)
	OnDisplay func(userText, responseText string)
	OnSleep   func(sleeping bool)
	OnMute    func(muted bool)
	OnExit    func()
}

func (c Callbacks) status(text string) {
	if c.OnStatus != nil {
		c.OnStatus(text)
	}
}

func (c Callbacks) display(userText, responseText string) {
	if c.OnDisplay != nil {
		c.OnDisplay(userText, responseText)
	}
}

func (c Callbacks) sleep(sleeping bool) {
	if c.OnSleep != nil {
		c.OnSleep(sleeping)
	}
}

func (c Callbacks) mute(muted bool) {
	if c.OnMute != nil {
		c.OnMute(muted)
	}
}

func (c Callbacks) exit() {
	if c.OnExit != nil {
		c.OnExit()
	}
}
