package sound

import (
	charmlog "github.com/charmbracelet/log"
	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

// Port plays notes on a MIDI output port.
type Port struct {
	out     drivers.Out
	send    func(midi.Message) error
	channel uint8
	logger  *charmlog.Logger
}

// OpenPort opens the output port called name. When there is no such port a
// virtual one is created under that name so that a synth can connect to it.
func OpenPort(name string, channel uint8, logger *charmlog.Logger) (*Port, error) {
	out, err := midi.FindOutPort(name)
	if err != nil {
		logger.Warn("can't find output, opening a virtual one", "port", name)
		drv, ok := drivers.Get().(*rtmididrv.Driver)
		if !ok {
			return nil, errors.Errorf("no rtmidi driver registered to open %q", name)
		}
		out, err = drv.OpenVirtualOut(name)
		if err != nil {
			return nil, errors.Wrapf(err, "could not open virtual output %q", name)
		}
	}
	send, err := midi.SendTo(out)
	if err != nil {
		return nil, errors.Wrapf(err, "could not send to %v", out)
	}
	logger.Info("connected", "output", out.String())
	return &Port{out: out, send: send, channel: channel & 0x0f, logger: logger}, nil
}

func (p *Port) NoteOn(note, velocity uint8) {
	if err := p.send(midi.NoteOn(p.channel, note, velocity)); err != nil {
		p.logger.Error("note on failed", "note", note, "err", err)
	}
}

func (p *Port) NoteOff(note, velocity uint8) {
	if err := p.send(midi.NoteOffVelocity(p.channel, note, velocity)); err != nil {
		p.logger.Error("note off failed", "note", note, "err", err)
	}
}

// Close silences everything still sounding and closes the port.
func (p *Port) Close() error {
	for note := uint8(0); note < 128; note++ {
		p.send(midi.NoteOff(p.channel, note))
	}
	return p.out.Close()
}
