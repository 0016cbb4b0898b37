// Package feedback carries presentation cues (sounds, haptics) from game events
// to whatever output a client has. Cues are fire-and-forget: a missing or
// failing output never affects gameplay.
package feedback

import (
	"log"
	"sync/atomic"
)

// Cue names a feedback event.
type Cue string

const (
	CueClick      Cue = "click"
	CueCorrect    Cue = "correct"
	CueIncorrect  Cue = "incorrect"
	CueTurnChange Cue = "turnChange"
)

// Notifier emits a cue. Implementations must not block.
type Notifier interface {
	Notify(cue Cue)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(cue Cue)

func (f NotifierFunc) Notify(cue Cue) {
	f(cue)
}

// Nop discards every cue.
type Nop struct{}

func (Nop) Notify(Cue) {}

// Switch forwards cues to next while enabled.
type Switch struct {
	next    Notifier
	enabled atomic.Bool
}

// NewSwitch wraps next; a nil next behaves like Nop.
func NewSwitch(next Notifier, enabled bool) *Switch {
	if next == nil {
		next = Nop{}
	}
	s := &Switch{next: next}
	s.enabled.Store(enabled)
	return s
}

// Toggle turns cue delivery on or off.
func (s *Switch) Toggle(on bool) {
	s.enabled.Store(on)
}

func (s *Switch) Enabled() bool {
	return s.enabled.Load()
}

func (s *Switch) Notify(cue Cue) {
	if !s.enabled.Load() {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("feedback cue %s dropped: %v", cue, r)
		}
	}()
	s.next.Notify(cue)
}
