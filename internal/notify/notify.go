// Package notify implements the console's transient notification channel:
// at most one visible notification at a time, replaced on publish, dismissed
// automatically after a fixed duration or earlier by the user.
package notify

import (
	"sync"
	"time"
)

// Severity classifies a notification for presentation.
type Severity string

const (
	Success Severity = "success"
	Error   Severity = "error"
	Info    Severity = "info"
)

// Notification is one transient (message, severity) event.
type Notification struct {
	Message  string
	Severity Severity
}

// Notifier is the publish contract every controller depends on. It is always
// injected explicitly so tests can substitute a Recorder or a Nop.
type Notifier interface {
	Notify(message string, severity Severity)
}

// Center holds the single visible notification for one console session.
// Publishing while one is visible replaces it and restarts the dismiss timer.
type Center struct {
	mu       sync.Mutex
	current  *Notification
	seq      uint64
	duration time.Duration
}

// NewCenter creates a Center whose notifications auto-dismiss after duration.
// A non-positive duration disables auto-dismiss.
func NewCenter(duration time.Duration) *Center {
	return &Center{duration: duration}
}

// Notify publishes a notification, replacing any visible one.
func (c *Center) Notify(message string, severity Severity) {
	c.mu.Lock()
	c.current = &Notification{Message: message, Severity: severity}
	c.seq++
	seq := c.seq
	c.mu.Unlock()

	if c.duration > 0 {
		time.AfterFunc(c.duration, func() {
			c.dismissSeq(seq)
		})
	}
}

// Dismiss clears the visible notification, if any.
func (c *Center) Dismiss() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = nil
}

// Current returns the visible notification and whether one exists.
func (c *Center) Current() (Notification, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return Notification{}, false
	}
	return *c.current, true
}

// dismissSeq clears the notification only if it is still the one whose timer
// fired; a later publish keeps its own timer.
func (c *Center) dismissSeq(seq uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.seq == seq {
		c.current = nil
	}
}

// Nop is a Notifier that discards everything.
type Nop struct{}

func (Nop) Notify(string, Severity) {}

// Recorder is a Notifier that remembers every publication in order.
// The web layer uses one per request to translate publications into toast
// response headers; tests use it to assert on notification traffic.
type Recorder struct {
	mu     sync.Mutex
	events []Notification
}

// Notify appends the notification to the recording.
func (r *Recorder) Notify(message string, severity Severity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Notification{Message: message, Severity: severity})
}

// Events returns a copy of everything published so far.
func (r *Recorder) Events() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.events))
	copy(out, r.events)
	return out
}

// Last returns the most recent publication and whether one exists.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return Notification{}, false
	}
	return r.events[len(r.events)-1], true
}
