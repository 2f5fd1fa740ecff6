package crawl

// Queue is a BFS work list that accepts each key once.
type Queue[K comparable] struct {
	items []K
	seen  map[K]struct{}
	head  int
}

// NewQueue creates an empty page queue.
func NewQueue() *Queue[string] {
	return &Queue[string]{seen: make(map[string]struct{})}
}

// Add enqueues key unless it was added before. It reports whether key is new.
func (q *Queue[K]) Add(key K) bool {
	if _, dup := q.seen[key]; dup {
		return false
	}
	q.seen[key] = struct{}{}
	q.items = append(q.items, key)
	return true
}

// HasNext reports whether unprocessed keys remain.
func (q *Queue[K]) HasNext() bool {
	return q.head < len(q.items)
}

// Next pops the oldest unprocessed key.
func (q *Queue[K]) Next() K {
	k := q.items[q.head]
	q.head++
	return k
}

// Visited returns the number of distinct keys ever added.
func (q *Queue[K]) Visited() int {
	return len(q.seen)
}

// All returns every key in insertion order.
func (q *Queue[K]) All() []K {
	return q.items
}
