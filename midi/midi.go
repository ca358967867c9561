package midi

import (
	"bytes"
	"os"
	"sort"
	"time"

	"github.com/jsphweid/markovmidi/model"
	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
	"gitlab.com/gomidi/quantizer/lib/quantizer"
)

func ReadMidiFile(filepath string) (s *smf.SMF, e error) {
	// handle panics
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r := recover(); r != nil {
			s, e = nil, errors.Errorf("panic parsing midi file: %v", r)
		}
	}()

	dat, err := os.ReadFile(filepath)
	if err != nil {
		return nil, errors.Wrap(err, "error reading midi file")
	}
	res, err := smf.ReadFrom(bytes.NewReader(dat))
	if err != nil {
		return nil, errors.Wrap(err, "error parsing midi file")
	}
	return res, nil
}

// Quantize snaps the notes of s to a grid, which turns near simultaneous notes
// into simultaneous ones.
func Quantize(s *smf.SMF) (*smf.SMF, error) {
	var in, out bytes.Buffer
	if _, err := s.WriteTo(&in); err != nil {
		return nil, errors.Wrap(err, "could not write midi for quantizing")
	}
	if err := quantizer.Quantize(&in, &out); err != nil {
		return nil, errors.Wrap(err, "could not quantize")
	}
	res, err := smf.ReadFrom(&out)
	if err != nil {
		return nil, errors.Wrap(err, "could not read quantized midi")
	}
	return res, nil
}

type timedCommand struct {
	absMicros int64
	cmd       model.RawCommand
}

// Commands merges the note events of every track into one stream ordered by
// time. A note-on with zero velocity counts as a note-off.
func Commands(s *smf.SMF) []model.RawCommand {
	var timed []timedCommand
	for _, track := range s.Tracks {
		var absTicks int64
		for _, event := range track {
			absTicks += int64(event.Delta)
			msg := midi.Message(event.Message)

			var channel, key, velocity uint8
			var c model.RawCommand
			switch {
			case msg.GetNoteStart(&channel, &key, &velocity):
				c = model.RawCommand{Direction: model.On, Note: key, Velocity: velocity}
			case msg.GetNoteOff(&channel, &key, &velocity):
				c = model.RawCommand{Direction: model.Off, Note: key, Velocity: velocity}
			case msg.GetNoteEnd(&channel, &key):
				c = model.RawCommand{Direction: model.Off, Note: key}
			default:
				continue
			}
			timed = append(timed, timedCommand{absMicros: s.TimeAt(absTicks), cmd: c})
		}
	}

	sort.SliceStable(timed, func(i, j int) bool {
		return timed[i].absMicros < timed[j].absMicros
	})

	res := make([]model.RawCommand, 0, len(timed))
	var prev int64
	for _, t := range timed {
		c := t.cmd
		c.Delta = time.Duration(t.absMicros-prev) * time.Microsecond
		prev = t.absMicros
		res = append(res, c)
	}
	return res
}

func ReadCommands(filepath string, quantize bool) ([]model.RawCommand, error) {
	s, err := ReadMidiFile(filepath)
	if err != nil {
		return nil, err
	}
	if quantize {
		if s, err = Quantize(s); err != nil {
			return nil, err
		}
	}
	return Commands(s), nil
}
