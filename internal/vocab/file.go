package vocab

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"
)

// WriteTo writes one "<character>\t<id>" line per entry in id order.
func (v *Vocabulary) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64
	for id, r := range v.chars {
		written, err := fmt.Fprintf(bw, "%c\t%d\n", r, id)
		n += int64(written)
		if err != nil {
			return n, err
		}
	}
	return n, bw.Flush()
}

// WriteFile writes the vocabulary to path, replacing any existing file.
func (v *Vocabulary) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create vocabulary file: %w", err)
	}
	if _, err := v.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write vocabulary file: %w", err)
	}
	return f.Close()
}

// Read parses a vocabulary written by WriteTo, or by any tool using the same
// line format. Entries may appear in any order, but the result must be a
// bijection with ids contiguous from 0.
func Read(r io.Reader) (*Vocabulary, error) {
	forward, reverse, err := readMaps(r)
	if err != nil {
		return nil, err
	}

	v := &Vocabulary{ids: forward, chars: make([]rune, len(reverse))}
	for id, ch := range reverse {
		if id >= len(reverse) {
			return nil, fmt.Errorf("%w: ids are not contiguous from 0 (found %d with %d entries)",
				ErrMalformedEntry, id, len(reverse))
		}
		v.chars[id] = ch
	}
	return v, nil
}

// Load reads the vocabulary file at path.
func Load(path string) (*Vocabulary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open vocabulary file: %w", err)
	}
	defer f.Close()

	v, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

// LoadMaps reads the vocabulary file at path into a forward (character to
// id) map and its exact inverse. Unlike Load it does not require the ids
// to be contiguous.
func LoadMaps(path string) (map[rune]int, map[int]rune, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open vocabulary file: %w", err)
	}
	defer f.Close()

	forward, reverse, err := readMaps(f)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return forward, reverse, nil
}

func readMaps(r io.Reader) (map[rune]int, map[int]rune, error) {
	forward := make(map[rune]int)
	reverse := make(map[int]rune)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}

		ch, id, err := parseEntry(line)
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if prev, ok := forward[ch]; ok {
			return nil, nil, fmt.Errorf("line %d: %w: %q already has id %d", lineNo, ErrDuplicate, ch, prev)
		}
		if prev, ok := reverse[id]; ok {
			return nil, nil, fmt.Errorf("line %d: %w: id %d already used by %q", lineNo, ErrDuplicate, id, prev)
		}
		forward[ch] = id
		reverse[id] = ch
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("scanner error: %w", err)
	}
	return forward, reverse, nil
}

// parseEntry splits on the last tab so that a tab character used as a key
// still parses.
func parseEntry(line string) (rune, int, error) {
	i := strings.LastIndexByte(line, '\t')
	if i < 0 {
		return 0, 0, fmt.Errorf("%w: no tab in %q", ErrMalformedEntry, line)
	}
	key, idText := line[:i], line[i+1:]

	if utf8.RuneCountInString(key) != 1 {
		return 0, 0, fmt.Errorf("%w: key %q is not a single character", ErrMalformedEntry, key)
	}
	ch, _ := utf8.DecodeRuneInString(key)

	id, err := strconv.Atoi(strings.TrimSpace(idText))
	if err != nil || id < 0 {
		return 0, 0, fmt.Errorf("%w: bad id %q", ErrMalformedEntry, idText)
	}
	return ch, id, nil
}
