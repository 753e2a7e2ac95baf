package conv

// Controller owns the mode state machine and its bookkeeping: the idle
// counter, the passive buffer, and the dictation transcript. It is only
// mutated from the loop goroutine and from function handlers the loop
// invokes synchronously, so it needs no locking.
type Controller struct {
	idleThreshold int

	sleeping  bool
	muted     bool
	passive   bool
	dictating bool
	visual    bool

	idle       int
	passiveBuf []string
	transcript *Transcript
}

func NewController(idleThreshold int) *Controller {
	return &Controller{idleThreshold: idleThreshold}
}

func (c *Controller) Sleeping() bool  { return c.sleeping }
func (c *Controller) Muted() bool     { return c.muted }
func (c *Controller) Passive() bool   { return c.passive }
func (c *Controller) Dictating() bool { return c.dictating }
func (c *Controller) Visual() bool    { return c.visual }

// Sleep enters the sleeping state. Sleeping suspends every sub-state, so
// passive listening and dictation end here; mute survives a nap.
func (c *Controller) Sleep() {
	c.sleeping = true
	c.idle = 0
	c.passive = false
	c.passiveBuf = nil
	c.stopDictation()
}

// Wake returns to active listening.
func (c *Controller) Wake() {
	c.sleeping = false
	c.idle = 0
}

func (c *Controller) SetMuted(muted bool) { c.muted = muted }

func (c *Controller) SetVisual(visual bool) { c.visual = visual }

// StartPassive enters passive listening. Dictation is mutually exclusive
// with it and is forced off.
func (c *Controller) StartPassive() {
	c.passive = true
	c.passiveBuf = nil
	c.stopDictation()
}

// StopPassive leaves passive listening and discards anything buffered.
func (c *Controller) StopPassive() {
	c.passive = false
	c.passiveBuf = nil
}

// StartDictation enters dictation onto the given transcript, forcing
// passive off. A transcript already open is closed first.
func (c *Controller) StartDictation(t *Transcript) {
	c.stopDictation()
	c.dictating = true
	c.transcript = t
	c.passive = false
	c.passiveBuf = nil
}

// StopDictation leaves dictation, closing the transcript file.
func (c *Controller) StopDictation() { c.stopDictation() }

func (c *Controller) stopDictation() {
	c.dictating = false
	if c.transcript != nil {
		c.transcript.Close()
		c.transcript = nil
	}
}

// Transcript returns the active dictation transcript, or nil.
func (c *Controller) Transcript() *Transcript { return c.transcript }

// RecordIdle counts one empty cycle and reports whether the sleep
// threshold was just reached. The counter resets when it trips, so the
// transition fires exactly once.
func (c *Controller) RecordIdle() bool {
	c.idle++
	if c.idle >= c.idleThreshold {
		c.idle = 0
		return true
	}
	return false
}

// ResetIdle clears the idle count; called on every meaningful input.
func (c *Controller) ResetIdle() { c.idle = 0 }

// IdleCount reports consecutive empty cycles so far.
func (c *Controller) IdleCount() int { return c.idle }

// BufferPassive appends one overheard line and returns the buffer size.
func (c *Controller) BufferPassive(line string) int {
	c.passiveBuf = append(c.passiveBuf, line)
	return len(c.passiveBuf)
}

// DrainPassive returns the buffered lines and clears the buffer.
func (c *Controller) DrainPassive() []string {
	buf := c.passiveBuf
	c.passiveBuf = nil
	return buf
}
