package melody

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jsphweid/markovmidi/chord"
	"github.com/jsphweid/markovmidi/config"
	"github.com/jsphweid/markovmidi/group"
	"github.com/jsphweid/markovmidi/markov"
	"github.com/jsphweid/markovmidi/midi"
	"github.com/jsphweid/markovmidi/model"
	"github.com/pkg/errors"
)

// Melody is one run of the pipeline over a midi file.
type Melody struct {
	Id       uuid.UUID
	Path     string
	Order    int
	Commands []model.RawCommand
	Groups   []model.AtomicGroup
	Chords   []model.Chord

	// nil when Order is config.Original
	Model   markov.Model
	BuiltAt time.Time
}

func Load(path string, order int, quantize bool) (*Melody, error) {
	cmds, err := midi.ReadCommands(path, quantize)
	if err != nil {
		return nil, errors.Wrapf(err, "could not load %v", path)
	}
	return FromCommands(path, cmds, order)
}

func FromCommands(path string, cmds []model.RawCommand, order int) (*Melody, error) {
	m := &Melody{
		Id:       uuid.New(),
		Path:     path,
		Order:    order,
		Commands: cmds,
		BuiltAt:  time.Now(),
	}
	m.Groups = group.Group(cmds)
	m.Chords = chord.Extract(m.Groups)
	if order == config.Original {
		return m, nil
	}

	built, err := markov.Build(order, m.Groups, m.Chords)
	if err != nil {
		return nil, errors.Wrapf(err, "could not build order %d model for %v", order, path)
	}
	m.Model = built
	return m, nil
}

func (m *Melody) OrderName() string {
	if m.Order == config.Original {
		return "original"
	}
	return markovOrderName(m.Order)
}

func markovOrderName(order int) string {
	switch order {
	case 0:
		return "independent"
	case 1:
		return "first order"
	default:
		return fmt.Sprintf("order %d", order)
	}
}
