package groundtruth

import (
	"fmt"
	"strings"
)

// Counter accumulates character occurrence counts across label files.
//
// The zero value is not usable; create one with NewCounter. A Counter is not
// safe for concurrent use.
type Counter struct {
	counts map[rune]int
	order  []rune
	total  int
}

// NewCounter returns an empty Counter.
func NewCounter() *Counter {
	return &Counter{counts: make(map[rune]int)}
}

// Add tallies every character of label after normalizing whitespace.
func (c *Counter) Add(label string) {
	for _, r := range NormalizeLabel(label) {
		if _, seen := c.counts[r]; !seen {
			c.order = append(c.order, r)
		}
		c.counts[r]++
		c.total++
	}
}

// CountFile tallies the labels of every record in the file at path.
// Counts accumulate on top of whatever the Counter already holds.
func (c *Counter) CountFile(path string) error {
	return ScanFile(path, func(rec Record) error {
		c.Add(rec.Label)
		return nil
	})
}

// Count returns the number of times r has been seen.
func (c *Counter) Count(r rune) int {
	return c.counts[r]
}

// Keys returns the distinct characters in the order they were first seen.
func (c *Counter) Keys() []rune {
	keys := make([]rune, len(c.order))
	copy(keys, c.order)
	return keys
}

// Len returns the number of distinct characters.
func (c *Counter) Len() int {
	return len(c.order)
}

// Total returns the number of characters tallied.
func (c *Counter) Total() int {
	return c.total
}

// CharCount pairs a character with its occurrence count.
type CharCount struct {
	Char  rune `json:"char"`
	Count int  `json:"count"`
}

// Entries returns every character with its count in first-seen order.
func (c *Counter) Entries() []CharCount {
	entries := make([]CharCount, len(c.order))
	for i, r := range c.order {
		entries[i] = CharCount{Char: r, Count: c.counts[r]}
	}
	return entries
}

// String renders the counts as {'a': 1, 'b': 2} in first-seen order.
func (c *Counter) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, r := range c.order {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%q: %d", r, c.counts[r])
	}
	sb.WriteByte('}')
	return sb.String()
}
