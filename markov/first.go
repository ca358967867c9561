package markov

import (
	"time"

	"github.com/jsphweid/markovmidi/model"
)

// FirstOrder chains each chord to the one played before it. Keys drop the wait
// since it belongs to the transition into a chord, not the chord itself.
type FirstOrder struct {
	Table[Signature, State]
	StartState State
}

func BuildFirstOrder(chords []model.Chord) (*FirstOrder, error) {
	if len(chords) < 2 {
		return nil, emptyModel("%d chords give no first order transitions", len(chords))
	}

	m := &FirstOrder{Table: newTable[Signature, State]()}
	m.StartState = StateOf(chords[0])
	prev := m.StartState
	for _, c := range chords[1:] {
		curr := StateOf(c)
		m.add(prev.Signature, curr)
		prev = curr
	}
	return m, nil
}

func (m *FirstOrder) Start() Signature {
	return m.StartState.Signature
}

func (m *FirstOrder) Advance(next State) (Signature, time.Duration) {
	return next.Signature, next.Wait
}

func (m *FirstOrder) Chord(k Signature) model.Chord {
	return k.Chord()
}

func (m *FirstOrder) Stats() Stats {
	return Stats{
		Order: 1,
		Keys:  m.NumKeys(),
		Edges: m.NumEdges(),
		Start: m.StartState.String(),
	}
}
