package markov

import (
	"time"

	"github.com/jsphweid/markovmidi/model"
	"github.com/pkg/errors"
)

// HigherOrder chains windows of Order consecutive chords. Consecutive windows
// share all but their newest chord. The chord sounded for a window is its
// oldest one.
type HigherOrder struct {
	Table[NGram, NGram]
	Order      int
	StartState NGram
	alphabet   *alphabet
}

func BuildHigherOrder(order int, chords []model.Chord) (*HigherOrder, error) {
	if order < 1 || order > MaxOrder {
		return nil, errors.Wrapf(ErrUnsupportedOrder, "order %d not in [1, %d]", order, MaxOrder)
	}
	if len(chords) < order {
		return nil, emptyModel("%d chords cannot fill a window of %d", len(chords), order)
	}
	if len(chords) == order {
		return nil, emptyModel("%d chords make a single window with no transitions", len(chords))
	}

	m := &HigherOrder{
		Table:    newTable[NGram, NGram](),
		Order:    order,
		alphabet: newAlphabet(),
	}
	states := make([]State, len(chords))
	for i, c := range chords {
		states[i] = StateOf(c)
	}

	m.StartState = m.alphabet.ngram(states[:order])
	prev := m.StartState
	for i := 1; i+order <= len(states); i++ {
		curr := m.alphabet.ngram(states[i : i+order])
		m.add(prev, curr)
		prev = curr
	}
	return m, nil
}

func (m *HigherOrder) Start() NGram {
	return m.StartState
}

// States expands a window into its chords, oldest first.
func (m *HigherOrder) States(g NGram) []State {
	return m.alphabet.expand(g)
}

func (m *HigherOrder) Advance(next NGram) (NGram, time.Duration) {
	return next, m.alphabet.states[next.ids[0]].Wait
}

func (m *HigherOrder) Chord(k NGram) model.Chord {
	return m.alphabet.states[k.ids[0]].Signature.Chord()
}

func (m *HigherOrder) Render(g NGram) string {
	return m.alphabet.render(g)
}

func (m *HigherOrder) Stats() Stats {
	return Stats{
		Order: m.Order,
		Keys:  m.NumKeys(),
		Edges: m.NumEdges(),
		Start: m.Render(m.StartState),
	}
}
