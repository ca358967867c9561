package markov

import (
	"fmt"

	"github.com/jsphweid/markovmidi/model"
	"github.com/pkg/errors"
)

var (
	ErrEmptyModel       = errors.New("empty model")
	ErrUnsupportedOrder = errors.New("unsupported order")
)

type Stats struct {
	Order int
	Keys  int
	Edges int
	Start string
}

type Model interface {
	Stats() Stats
}

// Build picks the builder for order: 0 is the independent model, 1 the first
// order chain, anything up to MaxOrder an n-gram chain.
func Build(order int, groups []model.AtomicGroup, chords []model.Chord) (Model, error) {
	switch {
	case order == 0:
		return BuildIndependent(groups, chords)
	case order == 1:
		return BuildFirstOrder(chords)
	case order > 1 && order <= MaxOrder:
		return BuildHigherOrder(order, chords)
	default:
		return nil, errors.Wrapf(ErrUnsupportedOrder, "order %d not in [0, %d]", order, MaxOrder)
	}
}

func emptyModel(format string, args ...any) error {
	return errors.Wrap(ErrEmptyModel, fmt.Sprintf(format, args...))
}
