// Package analysis runs the full dataset analysis: label statistics,
// vocabulary generation, image statistics and the optional extras.
package analysis

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/ironsheep/ocr-dataset-tools/internal/config"
	"github.com/ironsheep/ocr-dataset-tools/internal/groundtruth"
	"github.com/ironsheep/ocr-dataset-tools/internal/imaging"
	"github.com/ironsheep/ocr-dataset-tools/internal/ocr"
	"github.com/ironsheep/ocr-dataset-tools/internal/report"
	"github.com/ironsheep/ocr-dataset-tools/internal/vocab"
)

// Pixels of background kept around the text when -ocr-trim is set.
const ocrTrimPadding = 4

// Summary holds everything a run computed.
type Summary struct {
	MaxLabelLength int
	Chars          *groundtruth.Counter
	Vocabulary     *vocab.Vocabulary
	VocabPath      string
	Diagnostics    *vocab.Diagnostics

	// SpaceID is the id of ' ', or -1 when no label contains it.
	SpaceID int

	Images   *imaging.ScanResult
	Charts   []string
	Baseline *ocr.BaselineResult
}

// RecognizerFactory opens an OCR engine.
type RecognizerFactory func(opts ocr.TesseractOptions) (ocr.Recognizer, error)

// Analyzer runs the analysis described by Params.
type Analyzer struct {
	Params config.Params

	// Out receives the report.
	Out io.Writer

	// ProgressOut receives the image scan progress bar; nil disables it.
	ProgressOut io.Writer

	// NewRecognizer defaults to ocr.NewTesseract.
	NewRecognizer RecognizerFactory
}

// New returns an Analyzer printing to out with a progress bar on progress.
func New(p config.Params, out, progress io.Writer) *Analyzer {
	if p.Quiet {
		progress = nil
	}
	return &Analyzer{
		Params:        p,
		Out:           out,
		ProgressOut:   progress,
		NewRecognizer: ocr.NewTesseract,
	}
}

func (a *Analyzer) debugf(format string, args ...interface{}) {
	if a.Params.Debug() {
		log.Printf(format, args...)
	}
}

// Run executes every stage in order and stops at the first error.
func (a *Analyzer) Run(ctx context.Context) (*Summary, error) {
	p := a.Params
	out := report.NewPrinter(a.Out)
	sum := &Summary{VocabPath: p.VocabPath, SpaceID: -1}

	// Longest label over both splits.
	maxLen := -1
	for _, path := range []string{p.TrainLabels, p.ValidLabels} {
		n, err := groundtruth.MaxLabelLength(path)
		if err != nil {
			return nil, err
		}
		a.debugf("%s: longest label %d", path, n)
		maxLen = max(maxLen, n)
	}
	sum.MaxLabelLength = maxLen
	out.MaxLabelLength(maxLen)

	// Character frequencies, printed after each split.
	chars := groundtruth.NewCounter()
	if err := chars.CountFile(p.TrainLabels); err != nil {
		return nil, err
	}
	out.CharCounts("Training set character counts", chars)
	if err := chars.CountFile(p.ValidLabels); err != nil {
		return nil, err
	}
	out.CharCounts("Training + validation character counts", chars)
	sum.Chars = chars

	// Vocabulary.
	v := vocab.Build(chars)
	out.Section("Vocabulary")
	out.Vocabulary(v)
	if err := v.WriteFile(p.VocabPath); err != nil {
		return nil, err
	}
	a.debugf("wrote %d entries to %s", v.Len(), p.VocabPath)
	sum.Vocabulary = v

	// Read the written file back and look for spaces.
	diag, err := vocab.DiagnoseFile(p.VocabPath)
	if err != nil {
		return nil, err
	}
	out.Diagnostics(diag)
	sum.Diagnostics = diag

	if id, ok := v.ID(' '); ok {
		sum.SpaceID = id
	}
	out.SpaceID(v)
	if p.Verbose {
		out.CodePoints(v)
	}

	// Training images.
	images, err := a.scanImages(ctx)
	if err != nil {
		return nil, err
	}
	out.Section("Training images")
	out.Dimensions(images.Dimensions)
	out.ScanFailures(images.Failed)
	if images.Appearance != nil {
		out.Section("Appearance")
		out.Appearance(images.Appearance)
	}
	sum.Images = images

	if p.ChartDir != "" {
		charts, err := a.writeCharts(chars)
		if err != nil {
			return nil, err
		}
		out.Section("Charts")
		out.Files(charts)
		sum.Charts = charts
	}

	if p.OCRSamples > 0 {
		res, err := a.runBaseline(ctx)
		if err != nil {
			return nil, err
		}
		out.Section("OCR baseline")
		out.Baseline(res)
		sum.Baseline = res
	}

	if err := out.Err(); err != nil {
		return nil, fmt.Errorf("failed to write report: %w", err)
	}
	return sum, nil
}

func (a *Analyzer) scanImages(ctx context.Context) (*imaging.ScanResult, error) {
	paths, err := imaging.ListImages(a.Params.TrainImageDir)
	if err != nil {
		return nil, err
	}
	a.debugf("scanning %d files in %s", len(paths), a.Params.TrainImageDir)

	opts := imaging.ScanOptions{
		Appearance:  a.Params.Appearance,
		SkipInvalid: a.Params.SkipInvalidImages,
	}
	if a.ProgressOut == nil || len(paths) == 0 {
		return imaging.ScanFiles(ctx, paths, opts)
	}

	progress := mpb.NewWithContext(ctx, mpb.WithWidth(80), mpb.WithOutput(a.ProgressOut))
	bar := progress.AddBar(int64(len(paths)),
		mpb.PrependDecorators(
			decor.Name("Scanning images: "),
			decor.CountersNoUnit("%d / %d", decor.WCSyncSpace),
		),
		mpb.AppendDecorators(
			decor.OnComplete(decor.AverageETA(decor.ET_STYLE_GO), "done!"),
		),
	)
	opts.Progress = func(string) { bar.Increment() }

	res, err := imaging.ScanFiles(ctx, paths, opts)
	if err != nil {
		bar.Abort(false)
	}
	progress.Wait()
	return res, err
}

func (a *Analyzer) writeCharts(chars *groundtruth.Counter) ([]string, error) {
	lengths := groundtruth.NewLengthHistogram()
	for _, path := range []string{a.Params.TrainLabels, a.Params.ValidLabels} {
		if err := lengths.AddFile(path); err != nil {
			return nil, err
		}
	}
	return report.WriteCharts(a.Params.ChartDir, chars, lengths, a.Params.TopChars)
}

func (a *Analyzer) runBaseline(ctx context.Context) (*ocr.BaselineResult, error) {
	records, err := groundtruth.ReadFile(a.Params.TrainLabels)
	if err != nil {
		return nil, err
	}

	newRec := a.NewRecognizer
	if newRec == nil {
		newRec = ocr.NewTesseract
	}
	rec, err := newRec(ocr.TesseractOptions{
		Language:    a.Params.OCRLanguage,
		TessdataDir: a.Params.TessdataDir,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start OCR engine: %w", err)
	}
	defer rec.Close()

	return ocr.RunBaseline(ctx, rec, a.Params.TrainImageDir, records, ocr.BaselineOptions{
		Samples:     a.Params.OCRSamples,
		MinHeight:   a.Params.OCRMinHeight,
		IgnoreCase:  a.Params.OCRIgnoreCase,
		TrimMargins: a.Params.OCRTrim,
		TrimPadding: ocrTrimPadding,
	})
}
