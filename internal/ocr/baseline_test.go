package ocr

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/ocr-dataset-tools/internal/groundtruth"
)

// fakeRecognizer returns canned text keyed by image width.
type fakeRecognizer struct {
	byWidth map[int]string
	heights []int
	closed  bool
}

func (f *fakeRecognizer) Recognize(img image.Image) (string, error) {
	f.heights = append(f.heights, img.Bounds().Dy())
	text, ok := f.byWidth[img.Bounds().Dx()]
	if !ok {
		return "", errors.New("no text")
	}
	return text, nil
}

func (f *fakeRecognizer) Close() error {
	f.closed = true
	return nil
}

func writePNG(t *testing.T, dir, name string, width, height int) {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	f, err := os.Create(filepath.Join(dir, name))
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestEditDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "abc", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"日本語", "日本", 1},
		{"EXIT", "EX1T", 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, EditDistance(tt.a, tt.b), "%q -> %q", tt.a, tt.b)
	}
}

func TestCharErrorRate(t *testing.T) {
	assert.Equal(t, 0.0, CharErrorRate("HELLO", "HELLO"))
	assert.Equal(t, 0.2, CharErrorRate("HELLO", "HELL0"))
	assert.Equal(t, 0.0, CharErrorRate("", ""))
	assert.Equal(t, 1.0, CharErrorRate("", "x"))
	assert.Equal(t, 3.0, CharErrorRate("A", "xyz"))
}

func TestPrepare(t *testing.T) {
	small := image.NewGray(image.Rect(0, 0, 40, 16))
	up := Prepare(small, 64)
	assert.Equal(t, 64, up.Bounds().Dy())
	assert.Equal(t, 160, up.Bounds().Dx())

	tall := image.NewGray(image.Rect(0, 0, 40, 80))
	assert.Same(t, tall, Prepare(tall, 64).(*image.Gray))
}

func TestRunBaseline(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "word_1.png", 100, 64)
	writePNG(t, dir, "word_2.png", 110, 64)
	writePNG(t, dir, "word_3.png", 120, 64)

	records := []groundtruth.Record{
		{ImageName: "word_1.png", Label: "EXIT"},
		{ImageName: "missing.png", Label: "GONE"},
		{ImageName: "word_2.png", Label: "Theatre"},
		{ImageName: "word_3.png", Label: "STOP"},
	}
	rec := &fakeRecognizer{byWidth: map[int]string{100: "EXIT", 110: "theatre"}}

	res, err := RunBaseline(context.Background(), rec, dir, records, BaselineOptions{Samples: 3})
	require.NoError(t, err)

	assert.Equal(t, 3, res.Evaluated)
	assert.Equal(t, 1, res.Missing)
	assert.Equal(t, 1, res.ExactMatches)
	require.Len(t, res.Samples, 3)
	assert.True(t, res.Samples[0].Exact)
	assert.InDelta(t, 1.0/7, res.Samples[1].CER, 1e-9)
	assert.Equal(t, 1.0, res.Samples[2].CER)
	assert.NotEmpty(t, res.Samples[2].Error)
	assert.InDelta(t, (0+1.0/7+1)/3, res.MeanCER, 1e-9)
}

func TestRunBaseline_IgnoreCaseAndSampleLimit(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "a.png", 110, 64)
	writePNG(t, dir, "b.png", 100, 64)

	records := []groundtruth.Record{
		{ImageName: "a.png", Label: "Theatre"},
		{ImageName: "b.png", Label: "EXIT"},
	}
	rec := &fakeRecognizer{byWidth: map[int]string{110: "theatre", 100: "EXIT"}}

	res, err := RunBaseline(context.Background(), rec, dir, records, BaselineOptions{Samples: 1, IgnoreCase: true})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Evaluated)
	assert.Equal(t, 1, res.ExactMatches)
	assert.Equal(t, 0.0, res.MeanCER)
}

func TestRunBaseline_UpscalesSmallImages(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "tiny.png", 20, 10)

	rec := &fakeRecognizer{byWidth: map[int]string{}}
	_, err := RunBaseline(context.Background(), rec, dir,
		[]groundtruth.Record{{ImageName: "tiny.png", Label: "x"}},
		BaselineOptions{Samples: 1, MinHeight: 32})
	require.NoError(t, err)
	assert.Equal(t, []int{32}, rec.heights)
}

func TestRunBaseline_Empty(t *testing.T) {
	res, err := RunBaseline(context.Background(), &fakeRecognizer{}, t.TempDir(), nil, BaselineOptions{Samples: 5})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Evaluated)
	assert.False(t, math.IsNaN(res.MeanCER))
}

func TestRunBaseline_Cancelled(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "a.png", 10, 64)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := RunBaseline(ctx, &fakeRecognizer{}, dir,
		[]groundtruth.Record{{ImageName: "a.png", Label: "a"}}, BaselineOptions{Samples: 1})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunBaseline_UndecodableImage(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.png"), []byte("nope"), 0o644))

	res, err := RunBaseline(context.Background(), &fakeRecognizer{}, dir,
		[]groundtruth.Record{{ImageName: "bad.png", Label: "a"}}, BaselineOptions{Samples: 1})
	require.NoError(t, err)
	require.Len(t, res.Samples, 1)
	assert.NotEmpty(t, res.Samples[0].Error)
	assert.Equal(t, 1.0, res.MeanCER)
}

func TestRunBaseline_TrimMargins(t *testing.T) {
	dir := t.TempDir()
	img := image.NewGray(image.Rect(0, 0, 200, 64))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	for y := 10; y < 30; y++ {
		for x := 10; x < 50; x++ {
			img.SetGray(x, y, color.Gray{Y: 0})
		}
	}
	f, err := os.Create(filepath.Join(dir, "word.png"))
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())

	records := []groundtruth.Record{{ImageName: "word.png", Label: "OK"}}

	// The 40x20 block upscaled to 64 pixels tall is 128 wide.
	rec := &fakeRecognizer{byWidth: map[int]string{128: "OK"}}
	res, err := RunBaseline(context.Background(), rec, dir, records, BaselineOptions{Samples: 1, TrimMargins: true})
	require.NoError(t, err)
	assert.Equal(t, 1, res.ExactMatches)
	assert.Equal(t, []int{64}, rec.heights)

	rec = &fakeRecognizer{byWidth: map[int]string{128: "OK"}}
	res, err = RunBaseline(context.Background(), rec, dir, records, BaselineOptions{Samples: 1})
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExactMatches)
}
