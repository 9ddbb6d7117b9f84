package groundtruth

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

// ErrMalformedRecord is returned for a non-blank line without a label field.
var ErrMalformedRecord = errors.New("malformed ground-truth record")

const (
	fullWidthSpace = '\u3000'
	byteOrderMark  = "\ufeff"
)

// Record is one parsed line of a ground-truth file.
type Record struct {
	// ImageName is the file name of the word image, relative to its image directory.
	ImageName string `json:"image_name"`

	// Label is the transcription with its surrounding quotes removed.
	Label string `json:"label"`
}

// ParseRecord parses a single line of a label file.
//
// The line is split on its first comma. Trailing whitespace (including the
// line terminator) is ignored. A leading byte order mark is dropped from the
// image name. Backslash escapes inside the label are kept as written.
func ParseRecord(line string) (Record, error) {
	line = strings.TrimRight(line, " \t\r\n")
	name, field, ok := strings.Cut(line, ",")
	if !ok {
		return Record{}, fmt.Errorf("%w: no comma in %q", ErrMalformedRecord, line)
	}

	field = strings.TrimSpace(field)
	field = strings.TrimPrefix(field, `"`)
	field = strings.TrimSuffix(field, `"`)

	return Record{
		ImageName: strings.TrimSpace(strings.TrimPrefix(name, byteOrderMark)),
		Label:     field,
	}, nil
}

// NormalizeLabel replaces full-width spaces and tabs with a plain space.
func NormalizeLabel(label string) string {
	return strings.Map(func(r rune) rune {
		if r == fullWidthSpace || r == '\t' {
			return ' '
		}
		return r
	}, label)
}

// LabelLength returns the number of characters (runes) in a label.
func LabelLength(label string) int {
	return utf8.RuneCountInString(label)
}

// Scan calls fn for every record in r, in file order. Blank lines are
// skipped. Parse errors are reported with their 1-based line number.
func Scan(r io.Reader, fn func(Record) error) error {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(strings.TrimPrefix(line, byteOrderMark)) == "" {
			continue
		}

		rec, err := ParseRecord(line)
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
		if err := fn(rec); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}
	return nil
}

// ScanFile opens path and calls fn for every record in it.
func ScanFile(path string, fn func(Record) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open label file: %w", err)
	}
	defer f.Close()

	if err := Scan(f, fn); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// ReadFile returns every record of a label file.
func ReadFile(path string) ([]Record, error) {
	var records []Record
	err := ScanFile(path, func(rec Record) error {
		records = append(records, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}
