package markov

import (
	"math/rand"
	"time"

	"github.com/jsphweid/markovmidi/model"
)

// Independent is the order 0 model. What to play and how long to wait before
// the next onset are drawn from two separate frequency tables.
type Independent struct {
	Content Buckets[Signature]
	Waits   Buckets[time.Duration]
}

func BuildIndependent(groups []model.AtomicGroup, chords []model.Chord) (*Independent, error) {
	sigs := make([]Signature, 0, len(chords))
	for _, c := range chords {
		sigs = append(sigs, SignatureOf(c))
	}

	m := &Independent{
		Content: NewBuckets(sigs),
		Waits:   NewBuckets(onsetGaps(groups)),
	}
	if m.Content.Total() == 0 {
		return nil, emptyModel("no chords to sample from")
	}
	if m.Waits.Total() == 0 {
		return nil, emptyModel("need at least two note-on groups to sample waits")
	}
	return m, nil
}

// onsetGaps returns the time between consecutive note-on groups.
func onsetGaps(groups []model.AtomicGroup) []time.Duration {
	var res []time.Duration
	var seenOn bool
	var since time.Duration
	for _, g := range groups {
		since += g.Delta
		if !g.IsOn() {
			continue
		}
		if seenOn {
			res = append(res, since)
		}
		seenOn = true
		since = 0
	}
	return res
}

func (m *Independent) Next(r *rand.Rand) (model.Chord, time.Duration) {
	return m.Content.Sample(r).Chord(), m.Waits.Sample(r)
}

func (m *Independent) Stats() Stats {
	s := Stats{
		Order: 0,
		Keys:  m.Content.Len(),
		Edges: m.Content.Total(),
	}
	if m.Content.Len() > 0 {
		v, _, _ := m.Content.Bucket(0)
		s.Start = v.String()
	}
	return s
}
