package markov

import (
	"math/rand"
	"sort"
)

// Buckets is a frequency table laid out on the integers [1, Total]. Each
// distinct value owns a run of integers as long as its count, in order of first
// appearance, so a uniform integer picks a value in proportion to how often it
// was seen.
type Buckets[T comparable] struct {
	values []T
	upper  []int
}

func NewBuckets[T comparable](samples []T) Buckets[T] {
	var b Buckets[T]
	counts := make(map[T]int)
	for _, s := range samples {
		if _, ok := counts[s]; !ok {
			b.values = append(b.values, s)
		}
		counts[s]++
	}

	var cum int
	for _, v := range b.values {
		cum += counts[v]
		b.upper = append(b.upper, cum)
	}
	return b
}

func (b Buckets[T]) Len() int {
	return len(b.values)
}

func (b Buckets[T]) Total() int {
	if len(b.upper) == 0 {
		return 0
	}
	return b.upper[len(b.upper)-1]
}

// Bucket returns the k-th value and the inclusive range of integers it owns.
func (b Buckets[T]) Bucket(k int) (v T, lo, hi int) {
	lo = 1
	if k > 0 {
		lo = b.upper[k-1] + 1
	}
	return b.values[k], lo, b.upper[k]
}

// Resolve maps i in [1, Total] to the value owning it.
func (b Buckets[T]) Resolve(i int) (T, bool) {
	var zero T
	if i < 1 || i > b.Total() {
		return zero, false
	}
	k := sort.SearchInts(b.upper, i)
	return b.values[k], true
}

func (b Buckets[T]) Sample(r *rand.Rand) T {
	v, _ := b.Resolve(r.Intn(b.Total()) + 1)
	return v
}
