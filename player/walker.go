package player

import (
	"math/rand"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/jsphweid/markovmidi/markov"
	"github.com/jsphweid/markovmidi/model"
	"github.com/pkg/errors"
)

// Source produces the chord to sound next and how long to wait before asking
// again.
type Source interface {
	Next(r *rand.Rand) (model.Chord, time.Duration)
}

// Chain is a transition table the Walker can step through. K is the state the
// walker sits in, V a recorded successor.
type Chain[K comparable, V any] interface {
	Start() K
	Successors(k K) ([]V, bool)
	Advance(next V) (K, time.Duration)
	Chord(k K) model.Chord
}

// Walker wanders a chain, restarting from its start whenever it reaches a
// state with no recorded successor.
type Walker[K comparable, V any] struct {
	chain    Chain[K, V]
	current  K
	restarts int
	logger   *charmlog.Logger
}

func NewWalker[K comparable, V any](chain Chain[K, V], logger *charmlog.Logger) *Walker[K, V] {
	return &Walker[K, V]{chain: chain, current: chain.Start(), logger: logger}
}

func (w *Walker[K, V]) Current() K {
	return w.current
}

func (w *Walker[K, V]) Reset(k K) {
	w.current = k
}

func (w *Walker[K, V]) Restarts() int {
	return w.restarts
}

func (w *Walker[K, V]) Next(r *rand.Rand) (model.Chord, time.Duration) {
	candidates, ok := w.chain.Successors(w.current)
	if !ok {
		w.restarts++
		w.logger.Debug("dead end, back to start", "restarts", w.restarts)
		w.current = w.chain.Start()
		candidates, ok = w.chain.Successors(w.current)
		if !ok {
			panic("player: start state has no successors")
		}
	}

	play := w.chain.Chord(w.current)
	next, wait := w.chain.Advance(candidates[r.Intn(len(candidates))])
	w.current = next
	return play, wait
}

// SourceFor wraps a built model in the Source that samples it.
func SourceFor(m markov.Model, logger *charmlog.Logger) (Source, error) {
	switch m := m.(type) {
	case *markov.Independent:
		return m, nil
	case *markov.FirstOrder:
		return NewWalker[markov.Signature, markov.State](m, logger), nil
	case *markov.HigherOrder:
		return NewWalker[markov.NGram, markov.NGram](m, logger), nil
	default:
		return nil, errors.Errorf("no source for model %T", m)
	}
}
