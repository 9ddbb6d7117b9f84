package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/ironsheep/ocr-dataset-tools/internal/groundtruth"
)

// DefaultTopChars is how many characters the frequency chart shows.
const DefaultTopChars = 40

const (
	chartWidth  = 1920
	chartHeight = 1080
)

// Chart file names written by WriteCharts.
const (
	CharFrequencyFile = "char_frequency.png"
	LabelLengthFile   = "label_length.png"
)

// ErrNoData is returned when there is nothing to chart.
var ErrNoData = errors.New("not enough data to chart")

// charLabel names a character on an axis.
func charLabel(r rune) string {
	switch r {
	case ' ':
		return "SP"
	case '\u3000':
		return "FWSP"
	}
	return string(r)
}

// CharFrequencyChart renders the topN most frequent characters as a PNG bar
// chart. Ties keep first-seen order.
func CharFrequencyChart(c *groundtruth.Counter, topN int, w io.Writer) error {
	entries := c.Entries()
	if len(entries) == 0 {
		return ErrNoData
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Count > entries[j].Count })
	if topN > 0 && len(entries) > topN {
		entries = entries[:topN]
	}

	bars := make([]chart.Value, len(entries))
	for i, e := range entries {
		bars[i] = chart.Value{Value: float64(e.Count), Label: charLabel(e.Char)}
	}

	graph := barChart(fmt.Sprintf("Character frequency (top %d of %d)", len(entries), c.Len()), bars, float64(entries[0].Count))
	return graph.Render(chart.PNG, w)
}

// LabelLengthChart renders the label length histogram as a PNG bar chart.
func LabelLengthChart(h *groundtruth.LengthHistogram, w io.Writer) error {
	buckets := h.Buckets()
	if len(buckets) == 0 {
		return ErrNoData
	}

	bars := make([]chart.Value, len(buckets))
	most := 0
	for i, b := range buckets {
		bars[i] = chart.Value{Value: float64(b.Labels), Label: fmt.Sprintf("%d", b.Length)}
		most = max(most, b.Labels)
	}

	graph := barChart(fmt.Sprintf("Label length (%d labels)", h.Labels()), bars, float64(most))
	return graph.Render(chart.PNG, w)
}

func barChart(title string, bars []chart.Value, maxValue float64) chart.BarChart {
	barWidth := (chartWidth - 200) / len(bars)
	barWidth = min(max(barWidth, 4), 60)

	return chart.BarChart{
		Title:  title,
		Width:  chartWidth,
		Height: chartHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 60},
		},
		BarWidth: barWidth,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{
				Min: 0.0,
				Max: maxValue*1.1 + 1,
			},
		},
		Bars: bars,
	}
}

// WriteCharts renders both charts into dir, creating it if needed, and
// returns the paths written. A chart with no data is skipped.
func WriteCharts(dir string, c *groundtruth.Counter, h *groundtruth.LengthHistogram, topN int) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create chart directory: %w", err)
	}

	var written []string
	render := func(name string, fn func(io.Writer) error) error {
		path := filepath.Join(dir, name)
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create chart: %w", err)
		}
		if err := fn(f); err != nil {
			f.Close()
			os.Remove(path)
			if errors.Is(err, ErrNoData) {
				return nil
			}
			return fmt.Errorf("failed to render %s: %w", name, err)
		}
		if err := f.Close(); err != nil {
			return err
		}
		written = append(written, path)
		return nil
	}

	if err := render(CharFrequencyFile, func(w io.Writer) error { return CharFrequencyChart(c, topN, w) }); err != nil {
		return written, err
	}
	if err := render(LabelLengthFile, func(w io.Writer) error { return LabelLengthChart(h, w) }); err != nil {
		return written, err
	}
	return written, nil
}
