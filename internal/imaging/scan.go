package imaging

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ListImages returns the paths of the regular, non-hidden files in dir,
// sorted by name. Symlinks are followed and kept when they resolve to a
// regular file. Files are not filtered by extension; anything that does not
// decode is reported by the scan.
func ListImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read image directory: %w", err)
	}

	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if e.Type()&fs.ModeSymlink != 0 {
			info, err := os.Stat(path)
			if err != nil || !info.Mode().IsRegular() {
				continue
			}
		} else if !e.Type().IsRegular() {
			continue
		}
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths, nil
}

// ScanOptions controls ScanFiles.
type ScanOptions struct {
	// Appearance enables per-image photometric measurement.
	Appearance bool

	// SkipInvalid records undecodable files instead of stopping.
	SkipInvalid bool

	// Progress, when set, is called once per file after it is processed.
	Progress func(path string)
}

// ScanFailure records a file that could not be decoded.
type ScanFailure struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// ScanResult is the aggregate of a scan.
type ScanResult struct {
	Dimensions DimensionStats   `json:"dimensions"`
	Appearance *AppearanceStats `json:"appearance,omitempty"`
	Failed     []ScanFailure    `json:"failed"`
}

// ScanFiles decodes each path in order and aggregates its dimensions and,
// if requested, its appearance. The context is checked between files.
func ScanFiles(ctx context.Context, paths []string, opts ScanOptions) (*ScanResult, error) {
	res := &ScanResult{Failed: []ScanFailure{}}
	if opts.Appearance {
		res.Appearance = &AppearanceStats{}
	}

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		img, err := Open(path)
		if err != nil {
			if !opts.SkipInvalid {
				return nil, err
			}
			res.Failed = append(res.Failed, ScanFailure{Path: path, Error: err.Error()})
		} else {
			b := img.Bounds()
			res.Dimensions.Observe(b.Dx(), b.Dy())
			if res.Appearance != nil {
				res.Appearance.Observe(MeasureAppearance(img))
			}
		}

		if opts.Progress != nil {
			opts.Progress(path)
		}
	}
	return res, nil
}

// ScanDir lists dir and scans every file in it.
func ScanDir(ctx context.Context, dir string, opts ScanOptions) (*ScanResult, error) {
	paths, err := ListImages(dir)
	if err != nil {
		return nil, err
	}
	return ScanFiles(ctx, paths, opts)
}
