// Package vocab maps label characters to integer ids for a recognition model.
//
// Three ids are reserved and always present:
//
//	☯  0  padding
//	■  1  start of sequence
//	□  2  end of sequence
//
// Every other character receives the next free id, starting at 3, in the
// order it is added. Ids are therefore unique and contiguous from 0, and a
// Vocabulary is always a bijection between characters and ids.
//
// The on-disk form is one entry per line, "<character>\t<id>\n", in id order.
package vocab

import (
	"errors"
	"fmt"
	"log"

	"github.com/ironsheep/ocr-dataset-tools/internal/groundtruth"
)

// Reserved symbols.
const (
	PadSymbol rune = '☯'
	SOSSymbol rune = '■'
	EOSSymbol rune = '□'
)

// Reserved ids.
const (
	PadID = 0
	SOSID = 1
	EOSID = 2

	// FirstLabelID is the id given to the first non-reserved character.
	FirstLabelID = 3
)

var (
	// ErrMalformedEntry is returned for a vocabulary line that cannot be parsed.
	ErrMalformedEntry = errors.New("malformed vocabulary entry")

	// ErrDuplicate is returned when a character or id appears twice.
	ErrDuplicate = errors.New("duplicate vocabulary entry")

	// ErrUnknownCharacter is returned when encoding a character with no id.
	ErrUnknownCharacter = errors.New("character not in vocabulary")

	// ErrLabelTooLong is returned when a label exceeds the encoding length.
	ErrLabelTooLong = errors.New("label longer than maximum length")
)

// Vocabulary is a bijective character to id mapping.
type Vocabulary struct {
	ids   map[rune]int
	chars []rune
}

// New returns a Vocabulary holding only the reserved symbols.
func New() *Vocabulary {
	v := &Vocabulary{ids: make(map[rune]int)}
	for _, r := range []rune{PadSymbol, SOSSymbol, EOSSymbol} {
		v.ids[r] = len(v.chars)
		v.chars = append(v.chars, r)
	}
	return v
}

// Add assigns the next id to r and returns it. If r already has an id,
// that id is returned unchanged.
func (v *Vocabulary) Add(r rune) int {
	if id, ok := v.ids[r]; ok {
		return id
	}
	id := len(v.chars)
	v.ids[r] = id
	v.chars = append(v.chars, r)
	return id
}

// Build creates a Vocabulary from the characters of a Counter, in the order
// the Counter first saw them. A dataset character equal to a reserved symbol
// keeps its reserved id.
func Build(counter *groundtruth.Counter) *Vocabulary {
	v := New()
	for _, r := range counter.Keys() {
		if isReserved(r) {
			log.Printf("Label character %q collides with a reserved symbol; keeping id %d", r, v.ids[r])
			continue
		}
		v.Add(r)
	}
	return v
}

func isReserved(r rune) bool {
	return r == PadSymbol || r == SOSSymbol || r == EOSSymbol
}

// ID returns the id of r.
func (v *Vocabulary) ID(r rune) (int, bool) {
	id, ok := v.ids[r]
	return id, ok
}

// Char returns the character with the given id.
func (v *Vocabulary) Char(id int) (rune, bool) {
	if id < 0 || id >= len(v.chars) {
		return 0, false
	}
	return v.chars[id], true
}

// Len returns the number of entries, reserved symbols included.
func (v *Vocabulary) Len() int {
	return len(v.chars)
}

// Chars returns every character in id order.
func (v *Vocabulary) Chars() []rune {
	chars := make([]rune, len(v.chars))
	copy(chars, v.chars)
	return chars
}

// Maps returns the forward and reverse mappings as independent maps.
func (v *Vocabulary) Maps() (map[rune]int, map[int]rune) {
	forward := make(map[rune]int, len(v.chars))
	reverse := make(map[int]rune, len(v.chars))
	for id, r := range v.chars {
		forward[r] = id
		reverse[id] = r
	}
	return forward, reverse
}

// Encode converts label into a fixed-length id sequence of maxLen+2 ids:
// start symbol, the label's characters, end symbol, then padding.
func (v *Vocabulary) Encode(label string, maxLen int) ([]int, error) {
	runes := []rune(label)
	if len(runes) > maxLen {
		return nil, fmt.Errorf("%w: %d > %d", ErrLabelTooLong, len(runes), maxLen)
	}

	seq := make([]int, 0, maxLen+2)
	seq = append(seq, SOSID)
	for _, r := range runes {
		id, ok := v.ids[r]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCharacter, r)
		}
		seq = append(seq, id)
	}
	seq = append(seq, EOSID)
	for len(seq) < maxLen+2 {
		seq = append(seq, PadID)
	}
	return seq, nil
}

// Decode converts ids back into a label. It stops at the first end symbol
// and skips start and padding symbols. Unknown ids are an error.
func (v *Vocabulary) Decode(ids []int) (string, error) {
	out := make([]rune, 0, len(ids))
	for _, id := range ids {
		switch id {
		case EOSID:
			return string(out), nil
		case SOSID, PadID:
			continue
		}
		r, ok := v.Char(id)
		if !ok {
			return "", fmt.Errorf("%w: id %d", ErrUnknownCharacter, id)
		}
		out = append(out, r)
	}
	return string(out), nil
}
