package markov

import (
	"strings"
	"time"

	"github.com/jsphweid/markovmidi/chord"
	"github.com/jsphweid/markovmidi/model"
)

// MaxOrder bounds the window of an order-N model so that its keys stay fixed
// size and comparable.
const MaxOrder = 8

// Signature is what is played: how long and which notes. It is the identity of
// a chord once its position in the melody is forgotten.
type Signature struct {
	Duration time.Duration
	Voicing  model.Voicing
}

func SignatureOf(c model.Chord) Signature {
	return Signature{Duration: c.Duration, Voicing: model.NewVoicing(c.Notes)}
}

func (s Signature) Chord() model.Chord {
	return model.Chord{Duration: s.Duration, Notes: s.Voicing.Notes()}
}

func (s Signature) String() string {
	return chord.CreateChordKey(s.Chord())
}

// State is a signature plus the wait that preceded it.
type State struct {
	Signature
	Wait time.Duration
}

func StateOf(c model.Chord) State {
	return State{Signature: SignatureOf(c), Wait: c.Wait}
}

func (s State) Chord() model.Chord {
	c := s.Signature.Chord()
	c.Wait = s.Wait
	return c
}

func (s State) String() string {
	return chord.CreateChordKey(s.Chord())
}

// NGram is a window of consecutive states, oldest first. States are stored by
// their id in the owning model's alphabet.
type NGram struct {
	n   uint8
	ids [MaxOrder]uint32
}

func (g NGram) Len() int {
	return int(g.n)
}

// alphabet interns states in order of first appearance.
type alphabet struct {
	ids    map[State]uint32
	states []State
}

func newAlphabet() *alphabet {
	return &alphabet{ids: make(map[State]uint32)}
}

func (a *alphabet) intern(s State) uint32 {
	if id, ok := a.ids[s]; ok {
		return id
	}
	id := uint32(len(a.states))
	a.ids[s] = id
	a.states = append(a.states, s)
	return id
}

func (a *alphabet) ngram(window []State) NGram {
	var g NGram
	g.n = uint8(len(window))
	for i, s := range window {
		g.ids[i] = a.intern(s)
	}
	return g
}

func (a *alphabet) expand(g NGram) []State {
	res := make([]State, g.n)
	for i := range res {
		res[i] = a.states[g.ids[i]]
	}
	return res
}

func (a *alphabet) render(g NGram) string {
	parts := make([]string, 0, g.n)
	for _, s := range a.expand(g) {
		parts = append(parts, s.String())
	}
	return strings.Join(parts, " / ")
}
