package markov

import (
	"math/rand"
	"testing"
	"time"

	"github.com/jsphweid/markovmidi/chord"
	"github.com/jsphweid/markovmidi/group"
	"github.com/jsphweid/markovmidi/model"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkChord(dur time.Duration, wait time.Duration, keys ...uint8) model.Chord {
	c := model.Chord{Duration: dur, Wait: wait}
	for _, k := range keys {
		c.Notes = append(c.Notes, model.Note{Key: k, Velocity: 80})
	}
	return c
}

// a b a c a b
func sampleChords() []model.Chord {
	a := mkChord(time.Second, 0, 60, 64)
	b := mkChord(500*time.Millisecond, time.Second, 62)
	c := mkChord(250*time.Millisecond, 500*time.Millisecond, 67)
	a2 := a
	a2.Wait = 500 * time.Millisecond
	return []model.Chord{a, b, a2, c, a2, b}
}

func TestBucketsPartitionRange(t *testing.T) {
	b := NewBuckets([]string{"x", "y", "x", "z", "x", "y"})

	assert := assert.New(t)
	assert.Equal(3, b.Len())
	assert.Equal(6, b.Total())

	v, lo, hi := b.Bucket(0)
	assert.Equal("x", v)
	assert.Equal([2]int{1, 3}, [2]int{lo, hi})
	v, lo, hi = b.Bucket(1)
	assert.Equal("y", v)
	assert.Equal([2]int{4, 5}, [2]int{lo, hi})
	v, lo, hi = b.Bucket(2)
	assert.Equal("z", v)
	assert.Equal([2]int{6, 6}, [2]int{lo, hi})

	for i, want := range []string{"x", "x", "x", "y", "y", "z"} {
		got, ok := b.Resolve(i + 1)
		assert.True(ok)
		assert.Equal(want, got)
	}
	_, ok := b.Resolve(0)
	assert.False(ok)
	_, ok = b.Resolve(7)
	assert.False(ok)
}

func TestBucketsProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("bucket sizes sum to the sample count", prop.ForAll(
		func(samples []int) bool {
			b := NewBuckets(samples)
			var sum int
			for k := 0; k < b.Len(); k++ {
				_, lo, hi := b.Bucket(k)
				sum += hi - lo + 1
			}
			return sum == len(samples) && b.Total() == len(samples)
		},
		gen.SliceOf(gen.IntRange(0, 5)),
	))

	properties.Property("every integer in range lands in exactly one bucket", prop.ForAll(
		func(samples []int) bool {
			b := NewBuckets(samples)
			next := 1
			for k := 0; k < b.Len(); k++ {
				v, lo, hi := b.Bucket(k)
				if lo != next || hi < lo {
					return false
				}
				for i := lo; i <= hi; i++ {
					got, ok := b.Resolve(i)
					if !ok || got != v {
						return false
					}
				}
				next = hi + 1
			}
			return next == b.Total()+1
		},
		gen.SliceOf(gen.IntRange(0, 5)),
	))

	properties.TestingRun(t)
}

func TestIndependentModel(t *testing.T) {
	groups := group.Group([]model.RawCommand{
		{Direction: model.On, Note: 60, Velocity: 90},
		{Direction: model.Off, Note: 60, Velocity: 90, Delta: time.Second},
		{Direction: model.On, Note: 60, Velocity: 90, Delta: time.Second},
		{Direction: model.Off, Note: 60, Velocity: 90, Delta: time.Second},
		{Direction: model.On, Note: 62, Velocity: 90},
		{Direction: model.Off, Note: 62, Velocity: 90, Delta: 500 * time.Millisecond},
	})
	m, err := BuildIndependent(groups, chord.Extract(groups))
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal(2, m.Content.Len())
	assert.Equal(3, m.Content.Total())
	v, lo, hi := m.Content.Bucket(0)
	assert.Equal(time.Second, v.Duration)
	assert.Equal([2]int{1, 2}, [2]int{lo, hi})

	// onsets at 0s, 2s and 3s
	assert.Equal(2, m.Waits.Len())
	w, _, _ := m.Waits.Bucket(0)
	assert.Equal(2*time.Second, w)
	w, _, _ = m.Waits.Bucket(1)
	assert.Equal(time.Second, w)

	r := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		c, wait := m.Next(r)
		assert.NotEmpty(c.Notes)
		assert.Contains([]time.Duration{time.Second, 2 * time.Second}, wait)
	}
}

func TestIndependentNeedsTwoOnsets(t *testing.T) {
	groups := group.Group([]model.RawCommand{
		{Direction: model.On, Note: 60, Velocity: 90},
		{Direction: model.Off, Note: 60, Velocity: 90, Delta: time.Second},
	})
	_, err := BuildIndependent(groups, chord.Extract(groups))
	assert.True(t, errors.Is(err, ErrEmptyModel))
}

func TestFirstOrderModel(t *testing.T) {
	chords := sampleChords()
	m, err := BuildFirstOrder(chords)
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal(StateOf(chords[0]), m.StartState)
	assert.Equal(SignatureOf(chords[0]), m.Start())

	a := SignatureOf(chords[0])
	b := SignatureOf(chords[1])
	c := SignatureOf(chords[3])
	assert.Equal([]State{StateOf(chords[1]), StateOf(chords[3]), StateOf(chords[5])}, m.Edges[a])
	assert.Equal([]State{StateOf(chords[2])}, m.Edges[b])
	assert.Equal([]State{StateOf(chords[4])}, m.Edges[c])
	assert.Equal(3, m.NumKeys())
	assert.Equal(5, m.NumEdges())

	// every chord after the first is a successor of its predecessor
	for i := 1; i < len(chords); i++ {
		succ, ok := m.Successors(SignatureOf(chords[i-1]))
		assert.True(ok)
		assert.Contains(succ, StateOf(chords[i]))
	}
	for _, vs := range m.Edges {
		assert.NotEmpty(vs)
	}
}

func TestFirstOrderRejectsShortSequence(t *testing.T) {
	_, err := BuildFirstOrder([]model.Chord{mkChord(time.Second, 0, 60)})
	assert.True(t, errors.Is(err, ErrEmptyModel))
}

func TestHigherOrderModel(t *testing.T) {
	chords := sampleChords()
	m, err := BuildHigherOrder(2, chords)
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal([]State{StateOf(chords[0]), StateOf(chords[1])}, m.States(m.Start()))
	assert.Equal(4, m.NumEdges())
	assert.Equal(SignatureOf(chords[0]).Chord(), m.Chord(m.Start()))

	for k, vs := range m.Edges {
		assert.NotEmpty(vs)
		for _, v := range vs {
			assert.Equal(m.States(k)[1:], m.States(v)[:1])
		}
	}

	next, wait := m.Advance(m.Edges[m.Start()][0])
	assert.Equal(StateOf(chords[1]), m.States(next)[0])
	assert.Equal(chords[1].Wait, wait)
}

func TestHigherOrderRejectsShortSequence(t *testing.T) {
	chords := sampleChords()
	_, err := BuildHigherOrder(7, chords)
	assert.True(t, errors.Is(err, ErrEmptyModel))
	_, err = BuildHigherOrder(6, chords)
	assert.True(t, errors.Is(err, ErrEmptyModel))
	_, err = BuildHigherOrder(MaxOrder+1, chords)
	assert.True(t, errors.Is(err, ErrUnsupportedOrder))
}

func TestBuildDispatchesOnOrder(t *testing.T) {
	chords := sampleChords()

	assert := assert.New(t)
	m, err := Build(1, nil, chords)
	assert.NoError(err)
	assert.IsType(&FirstOrder{}, m)
	m, err = Build(3, nil, chords)
	assert.NoError(err)
	assert.IsType(&HigherOrder{}, m)
	assert.Equal(3, m.Stats().Order)
	_, err = Build(-1, nil, chords)
	assert.True(errors.Is(err, ErrUnsupportedOrder))
}

func genChords() gopter.Gen {
	return gen.SliceOf(gopter.CombineGens(
		gen.IntRange(1, 3),
		gen.IntRange(0, 2),
		gen.UInt8Range(60, 62),
	).Map(func(vals []interface{}) model.Chord {
		return mkChord(
			time.Duration(vals[0].(int))*100*time.Millisecond,
			time.Duration(vals[1].(int))*100*time.Millisecond,
			vals[2].(uint8),
		)
	}))
}

func TestHigherOrderProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("start is the first window and neighbours overlap by order-1", prop.ForAll(
		func(chords []model.Chord, order int) bool {
			m, err := BuildHigherOrder(order, chords)
			if len(chords) <= order {
				return errors.Is(err, ErrEmptyModel)
			}
			if err != nil {
				return false
			}
			start := m.States(m.Start())
			for i := 0; i < order; i++ {
				if start[i] != StateOf(chords[i]) {
					return false
				}
			}
			for k, vs := range m.Edges {
				if len(vs) == 0 {
					return false
				}
				from := m.States(k)
				for _, v := range vs {
					to := m.States(v)
					for i := 1; i < order; i++ {
						if from[i] != to[i-1] {
							return false
						}
					}
				}
			}
			return m.NumEdges() == len(chords)-order
		},
		genChords(),
		gen.IntRange(2, 4),
	))

	properties.Property("rebuilding gives identical tables", prop.ForAll(
		func(chords []model.Chord, order int) bool {
			m1, err1 := Build(order, nil, chords)
			m2, err2 := Build(order, nil, chords)
			if err1 != nil || err2 != nil {
				return err1 != nil && err2 != nil
			}
			return assert.ObjectsAreEqual(m1, m2)
		},
		genChords(),
		gen.IntRange(1, 4),
	))

	properties.TestingRun(t)
}
