package ocr

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/ironsheep/ocr-dataset-tools/internal/groundtruth"
	"github.com/ironsheep/ocr-dataset-tools/internal/imaging"
)

// BaselineOptions controls RunBaseline.
type BaselineOptions struct {
	// Samples is the maximum number of records to evaluate.
	Samples int

	// MinHeight is passed to Prepare. Zero means DefaultMinHeight.
	MinHeight int

	// IgnoreCase compares labels and recognized text case-insensitively.
	IgnoreCase bool

	// TrimMargins crops uniform background around the text before
	// upscaling, leaving TrimPadding pixels on each side.
	TrimMargins bool
	TrimPadding int
}

// Sample is the outcome for one ground-truth record.
type Sample struct {
	ImageName  string  `json:"image_name"`
	Label      string  `json:"label"`
	Recognized string  `json:"recognized"`
	CER        float64 `json:"cer"`
	Exact      bool    `json:"exact"`
	Error      string  `json:"error,omitempty"`
}

// BaselineResult aggregates a baseline run.
type BaselineResult struct {
	Samples []Sample `json:"samples"`

	// Evaluated is len(Samples).
	Evaluated int `json:"evaluated"`

	// Missing counts records skipped because their image file does not exist.
	Missing int `json:"missing"`

	// ExactMatches counts samples recognized without error.
	ExactMatches int `json:"exact_matches"`

	// MeanCER is the mean character error rate over Samples. Samples whose
	// recognition failed count as 1.
	MeanCER float64 `json:"mean_cer"`
}

// RunBaseline recognizes up to opts.Samples records, in order, whose images
// exist under imageDir, and scores each against its label.
func RunBaseline(ctx context.Context, rec Recognizer, imageDir string, records []groundtruth.Record, opts BaselineOptions) (*BaselineResult, error) {
	if opts.MinHeight == 0 {
		opts.MinHeight = DefaultMinHeight
	}

	res := &BaselineResult{Samples: []Sample{}}
	var cerSum float64
	for _, r := range records {
		if len(res.Samples) >= opts.Samples {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path := filepath.Join(imageDir, r.ImageName)
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			res.Missing++
			continue
		}

		s := evaluate(rec, path, r, opts)
		if s.Error != "" {
			log.Printf("OCR baseline: %s: %s", r.ImageName, s.Error)
		}
		if s.Exact {
			res.ExactMatches++
		}
		cerSum += s.CER
		res.Samples = append(res.Samples, s)
	}

	res.Evaluated = len(res.Samples)
	if res.Evaluated > 0 {
		res.MeanCER = cerSum / float64(res.Evaluated)
	}
	return res, nil
}

func evaluate(rec Recognizer, path string, r groundtruth.Record, opts BaselineOptions) Sample {
	s := Sample{ImageName: r.ImageName, Label: r.Label, CER: 1}

	img, err := imaging.Open(path)
	if err != nil {
		s.Error = err.Error()
		return s
	}
	if opts.TrimMargins {
		img = imaging.TrimMargins(img, imaging.DefaultTrimTolerance, opts.TrimPadding)
	}
	text, err := rec.Recognize(Prepare(img, opts.MinHeight))
	if err != nil {
		s.Error = err.Error()
		return s
	}

	s.Recognized = text
	ref, hyp := r.Label, text
	if opts.IgnoreCase {
		ref, hyp = strings.ToLower(ref), strings.ToLower(hyp)
	}
	s.CER = CharErrorRate(ref, hyp)
	s.Exact = ref == hyp
	return s
}
