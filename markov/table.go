package markov

// Table maps a key to every successor observed after it. Successors are kept in
// order of observation and never deduplicated, so a uniform pick over them
// follows the empirical frequencies.
type Table[K comparable, V any] struct {
	Edges map[K][]V
}

func newTable[K comparable, V any]() Table[K, V] {
	return Table[K, V]{Edges: make(map[K][]V)}
}

func (t Table[K, V]) add(k K, v V) {
	t.Edges[k] = append(t.Edges[k], v)
}

func (t Table[K, V]) Successors(k K) ([]V, bool) {
	vs, ok := t.Edges[k]
	return vs, ok && len(vs) > 0
}

func (t Table[K, V]) NumKeys() int {
	return len(t.Edges)
}

func (t Table[K, V]) NumEdges() int {
	var n int
	for _, vs := range t.Edges {
		n += len(vs)
	}
	return n
}
