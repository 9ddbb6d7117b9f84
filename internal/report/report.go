// Package report prints dataset statistics and renders them as charts.
package report

import (
	"fmt"
	"io"

	"github.com/ironsheep/ocr-dataset-tools/internal/groundtruth"
	"github.com/ironsheep/ocr-dataset-tools/internal/imaging"
	"github.com/ironsheep/ocr-dataset-tools/internal/ocr"
	"github.com/ironsheep/ocr-dataset-tools/internal/vocab"
)

// InputHeight is the line height recognition models commonly resize to.
const InputHeight = 32

// Printer writes human-readable sections to w. Write errors are sticky:
// after the first failure nothing more is written and Err returns it.
type Printer struct {
	w   io.Writer
	err error
}

// NewPrinter returns a Printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Err returns the first write error, if any.
func (p *Printer) Err() error {
	return p.err
}

func (p *Printer) printf(format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

// Section prints a blank-line separated heading.
func (p *Printer) Section(title string) {
	p.printf("\n\n%s\n", title)
}

// MaxLabelLength prints the longest label length.
func (p *Printer) MaxLabelLength(n int) {
	p.printf("Longest label in the dataset has %d characters\n", n)
}

// CharCounts prints a character frequency map under a heading.
func (p *Printer) CharCounts(title string, c *groundtruth.Counter) {
	p.printf("%s\n%s\n", title, c.String())
}

// Vocabulary prints every entry as "<character> <id>".
func (p *Printer) Vocabulary(v *vocab.Vocabulary) {
	for id, r := range v.Chars() {
		p.printf("%c %d\n", r, id)
	}
}

// Diagnostics prints the lines holding a plain space and flags any line
// that still holds a full-width space.
func (p *Printer) Diagnostics(d *vocab.Diagnostics) {
	for _, line := range d.SpaceLines {
		p.printf("%q\n", line)
	}
	for _, n := range d.FullWidthLines {
		p.printf("Line %d contains a full-width space; replace it with a plain space\n", n)
	}
}

// SpaceID prints the id of the plain space and its code point.
func (p *Printer) SpaceID(v *vocab.Vocabulary) {
	if id, ok := v.ID(' '); ok {
		p.printf("Space character id: %d\n", id)
	} else {
		p.printf("Space character id: not in vocabulary\n")
	}
	p.printf("%d\n", ' ')
}

// CodePoints prints the code point of every vocabulary character.
func (p *Printer) CodePoints(v *vocab.Vocabulary) {
	for _, r := range v.Chars() {
		p.printf("'%c' code point: %d\n", r, r)
	}
}

// Dimensions prints image size and ratio extrema.
func (p *Printer) Dimensions(s imaging.DimensionStats) {
	if s.Empty() {
		p.printf("no images found\n")
		return
	}
	p.printf("images %d\n", s.Count)
	p.printf("min_h %d\n", s.MinHeight)
	p.printf("max_h %d\n", s.MaxHeight)
	p.printf("min_w %d\n", s.MinWidth)
	p.printf("max_w %d\n", s.MaxWidth)
	p.printf("min_ratio %g\n", s.MinRatio)
	p.printf("max_ratio %g\n", s.MaxRatio)
	p.printf("mean_ratio %g\n", s.MeanRatio)
	p.printf("width at height %d: %d..%d\n", InputHeight,
		imaging.WidthAtHeight(s.MinRatio, InputHeight), imaging.WidthAtHeight(s.MaxRatio, InputHeight))
}

// ScanFailures prints files that could not be decoded.
func (p *Printer) ScanFailures(failed []imaging.ScanFailure) {
	if len(failed) == 0 {
		return
	}
	p.printf("%d file(s) could not be decoded:\n", len(failed))
	for _, f := range failed {
		p.printf("  %s: %s\n", f.Path, f.Error)
	}
}

// Appearance prints photometric ranges.
func (p *Printer) Appearance(s *imaging.AppearanceStats) {
	if s == nil || s.Count == 0 {
		return
	}
	row := func(name string, r imaging.Range) {
		p.printf("%-14s min %.3f  max %.3f  mean %.3f\n", name, r.Min, r.Max, r.Mean)
	}
	row("luminance", s.MeanLuminance)
	row("contrast", s.Contrast)
	row("sharpness", s.Sharpness)
	p.printf("dark background %d of %d\n", s.DarkBackground, s.Count)
}

// Files prints one path per line.
func (p *Printer) Files(paths []string) {
	if len(paths) == 0 {
		p.printf("none\n")
		return
	}
	for _, path := range paths {
		p.printf("%s\n", path)
	}
}

// Baseline prints an OCR baseline summary followed by each sample.
func (p *Printer) Baseline(res *ocr.BaselineResult) {
	p.printf("evaluated %d, missing images %d, exact %d, mean CER %.3f\n",
		res.Evaluated, res.Missing, res.ExactMatches, res.MeanCER)
	for _, s := range res.Samples {
		if s.Error != "" {
			p.printf("  %-20s %q -> error: %s\n", s.ImageName, s.Label, s.Error)
			continue
		}
		p.printf("  %-20s %q -> %q  CER %.3f\n", s.ImageName, s.Label, s.Recognized, s.CER)
	}
}
