// Package sound holds the devices the player sends notes to.
package sound

import (
	"sync"

	charmlog "github.com/charmbracelet/log"
)

// Device receives notes. Calls are fire and forget: a device deals with its own
// failures and never blocks the caller for long.
type Device interface {
	NoteOn(note, velocity uint8)
	NoteOff(note, velocity uint8)
}

// Log is a device that only logs what it is asked to play.
type Log struct {
	Logger *charmlog.Logger
}

func (d Log) NoteOn(note, velocity uint8) {
	d.Logger.Info("note on", "note", note, "velocity", velocity)
}

func (d Log) NoteOff(note, velocity uint8) {
	d.Logger.Debug("note off", "note", note, "velocity", velocity)
}

type tee []Device

// Tee sends every call to all devices, in order.
func Tee(devices ...Device) Device {
	return tee(devices)
}

func (t tee) NoteOn(note, velocity uint8) {
	for _, d := range t {
		d.NoteOn(note, velocity)
	}
}

func (t tee) NoteOff(note, velocity uint8) {
	for _, d := range t {
		d.NoteOff(note, velocity)
	}
}

type Call struct {
	On       bool
	Note     uint8
	Velocity uint8
}

// Recorder keeps every call it receives. It is safe for concurrent use.
type Recorder struct {
	mu    sync.Mutex
	calls []Call
}

func (r *Recorder) NoteOn(note, velocity uint8) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Call{On: true, Note: note, Velocity: velocity})
}

func (r *Recorder) NoteOff(note, velocity uint8) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Call{On: false, Note: note, Velocity: velocity})
}

func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := make([]Call, len(r.calls))
	copy(res, r.calls)
	return res
}
