package sample

import (
	"math/rand"
	"sort"
	"time"

	"github.com/jsphweid/markovmidi/model"
	"github.com/jsphweid/markovmidi/player"
	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const (
	ticksPerQuarter = 960
	bpm             = 120
	ticksPerSecond  = ticksPerQuarter * bpm / 60
)

type event struct {
	at time.Duration
	model.RawCommand
}

// Take draws steps chords from src and lays them out the way the scheduler
// would play them, as a command stream.
func Take(src player.Source, r *rand.Rand, steps int) []model.RawCommand {
	var events []event
	var at time.Duration
	for i := 0; i < steps; i++ {
		c, wait := src.Next(r)
		for _, n := range c.Notes {
			events = append(events,
				event{at, model.RawCommand{Direction: model.On, Note: n.Key, Velocity: n.Velocity}},
				event{at + c.Duration, model.RawCommand{Direction: model.Off, Note: n.Key}},
			)
		}
		at += wait
	}

	// a release lands before a strike at the same instant
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].at != events[j].at {
			return events[i].at < events[j].at
		}
		return events[i].Direction == model.Off && events[j].Direction == model.On
	})

	res := make([]model.RawCommand, len(events))
	var prev time.Duration
	for i, e := range events {
		res[i] = e.RawCommand
		res[i].Delta = e.at - prev
		prev = e.at
	}
	return res
}

func toTicks(d time.Duration) int64 {
	return (int64(d)*ticksPerSecond + int64(time.Second)/2) / int64(time.Second)
}

// Create writes a command stream into a single track smf at a fixed tempo.
func Create(cmds []model.RawCommand, channel uint8) *smf.SMF {
	res := smf.New()
	res.TimeFormat = smf.MetricTicks(ticksPerQuarter)

	var track smf.Track
	track.Add(0, smf.MetaTempo(bpm))
	var at time.Duration
	var prevTicks int64
	for _, c := range cmds {
		at += c.Delta
		ticks := toTicks(at)
		delta := uint32(ticks - prevTicks)
		prevTicks = ticks
		if c.Direction == model.On {
			track.Add(delta, midi.NoteOn(channel, c.Note, c.Velocity))
		} else {
			track.Add(delta, midi.NoteOffVelocity(channel, c.Note, c.Velocity))
		}
	}
	track.Close(0)
	res.Add(track)
	return res
}

func Write(path string, cmds []model.RawCommand, channel uint8) error {
	if err := Create(cmds, channel).WriteFile(path); err != nil {
		return errors.Wrapf(err, "could not write %v", path)
	}
	return nil
}
