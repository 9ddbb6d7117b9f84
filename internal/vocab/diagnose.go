package vocab

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Diagnostics reports whitespace found in a written vocabulary file.
type Diagnostics struct {
	// SpaceLines holds each line (with its newline) that contains a plain space.
	SpaceLines []string `json:"space_lines"`

	// FullWidthLines holds the 1-based numbers of lines that still contain a
	// full-width space (U+3000). Labels are normalized before counting, so
	// any entry here means the file was not produced from normalized labels.
	FullWidthLines []int `json:"full_width_lines"`
}

// Diagnose scans a vocabulary file's raw lines for whitespace characters.
func Diagnose(r io.Reader) (*Diagnostics, error) {
	d := &Diagnostics{SpaceLines: []string{}, FullWidthLines: []int{}}
	br := bufio.NewReader(r)
	lineNo := 0
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			lineNo++
			if strings.ContainsRune(line, ' ') {
				d.SpaceLines = append(d.SpaceLines, line)
			} else if strings.ContainsRune(line, '\u3000') {
				d.FullWidthLines = append(d.FullWidthLines, lineNo)
			}
		}
		if err == io.EOF {
			return d, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read vocabulary file: %w", err)
		}
	}
}

// DiagnoseFile runs Diagnose over the file at path.
func DiagnoseFile(path string) (*Diagnostics, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open vocabulary file: %w", err)
	}
	defer f.Close()
	return Diagnose(f)
}
