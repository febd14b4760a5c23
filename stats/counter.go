package stats

// Counter counts occurrences per key and remembers the order in which keys
// were first seen. Ranking code relies on that order for tie-breaks.
type Counter[K comparable] struct {
	order  []K
	counts map[K]int
}

func NewCounter[K comparable]() *Counter[K] {
	return &Counter[K]{counts: make(map[K]int)}
}

type Entry[K comparable] struct {
	Key   K
	Count int
}

func (c *Counter[K]) Inc(key K) {
	if c.counts == nil {
		c.counts = make(map[K]int)
	}
	if _, ok := c.counts[key]; !ok {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

func (c *Counter[K]) Get(key K) int {
	if c == nil {
		return 0
	}
	return c.counts[key]
}

func (c *Counter[K]) Len() int {
	if c == nil {
		return 0
	}
	return len(c.order)
}

// Keys returns the keys in first-insertion order.
func (c *Counter[K]) Keys() []K {
	if c == nil {
		return nil
	}
	keys := make([]K, len(c.order))
	copy(keys, c.order)
	return keys
}

// Entries returns key/count pairs in first-insertion order.
func (c *Counter[K]) Entries() []Entry[K] {
	if c == nil {
		return nil
	}
	entries := make([]Entry[K], 0, len(c.order))
	for _, k := range c.order {
		entries = append(entries, Entry[K]{Key: k, Count: c.counts[k]})
	}
	return entries
}

// Map returns a copy of the counts.
func (c *Counter[K]) Map() map[K]int {
	m := make(map[K]int, c.Len())
	if c == nil {
		return m
	}
	for k, v := range c.counts {
		m[k] = v
	}
	return m
}
