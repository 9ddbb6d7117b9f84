package imaging

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/effect"
	"github.com/lucasb-eyer/go-colorful"
)

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H float64 `json:"h"` // Hue: 0-360 degrees
	S float64 `json:"s"` // Saturation: 0-1
	L float64 `json:"l"` // Lightness: 0-1
}

// Appearance holds photometric figures for one image.
type Appearance struct {
	// MeanLuminance is the average gray level (0 = black, 1 = white).
	MeanLuminance float64 `json:"mean_luminance"`

	// Contrast is the standard deviation of the gray level.
	Contrast float64 `json:"contrast"`

	// Sharpness is the mean Sobel gradient magnitude. Blurry or flat crops
	// score close to 0.
	Sharpness float64 `json:"sharpness"`

	// MeanColor is the average color, as hex "#RRGGBB" and HSL.
	MeanColorHex string   `json:"mean_color_hex"`
	MeanColor    HSLColor `json:"mean_color"`
}

// MeasureAppearance computes the photometric figures of img.
func MeasureAppearance(img image.Image) Appearance {
	gray := effect.Grayscale(img)
	mean, stddev := grayMoments(gray)

	sobel := effect.Sobel(gray)
	sharpness, _ := grayMoments(sobel)

	mc := meanColor(img)
	h, s, l := mc.Hsl()
	if math.IsNaN(h) {
		h = 0
	}

	return Appearance{
		MeanLuminance: mean,
		Contrast:      stddev,
		Sharpness:     sharpness,
		MeanColorHex:  mc.Hex(),
		MeanColor:     HSLColor{H: h, S: s, L: l},
	}
}

// grayMoments returns the mean and standard deviation of the red channel of
// g, normalized to 0..1. The bild grayscale and Sobel filters write the same
// value to R, G and B, so one channel is the gray level.
func grayMoments(g *image.RGBA) (float64, float64) {
	b := g.Bounds()
	n := b.Dx() * b.Dy()
	if n == 0 {
		return 0, 0
	}

	var sum, sumSq float64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := g.Pix[g.PixOffset(b.Min.X, y):g.PixOffset(b.Max.X, y)]
		for i := 0; i < len(row); i += 4 {
			v := float64(row[i]) / 255
			sum += v
			sumSq += v * v
		}
	}
	mean := sum / float64(n)
	variance := sumSq/float64(n) - mean*mean
	if variance < 0 {
		variance = 0
	}
	return mean, math.Sqrt(variance)
}

func meanColor(img image.Image) colorful.Color {
	b := img.Bounds()
	n := b.Dx() * b.Dy()
	if n == 0 {
		return colorful.Color{}
	}

	var rs, gs, bs float64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			rs += float64(r) / 0xffff
			gs += float64(g) / 0xffff
			bs += float64(bl) / 0xffff
		}
	}
	return colorful.Color{R: rs / float64(n), G: gs / float64(n), B: bs / float64(n)}.Clamped()
}

// Range holds the extrema and mean of one figure.
type Range struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
	sum  float64
}

func (r *Range) observe(v float64, n int) {
	if n == 0 {
		r.Min, r.Max = v, v
	} else {
		r.Min = math.Min(r.Min, v)
		r.Max = math.Max(r.Max, v)
	}
	r.sum += v
	r.Mean = r.sum / float64(n+1)
}

// AppearanceStats aggregates Appearance figures over a set of images.
type AppearanceStats struct {
	Count         int   `json:"count"`
	MeanLuminance Range `json:"mean_luminance"`
	Contrast      Range `json:"contrast"`
	Sharpness     Range `json:"sharpness"`

	// DarkBackground counts images whose mean luminance is below 0.5,
	// which usually means light text on a dark background.
	DarkBackground int `json:"dark_background"`
}

// Observe adds one image's figures.
func (s *AppearanceStats) Observe(a Appearance) {
	s.MeanLuminance.observe(a.MeanLuminance, s.Count)
	s.Contrast.observe(a.Contrast, s.Count)
	s.Sharpness.observe(a.Sharpness, s.Count)
	if a.MeanLuminance < 0.5 {
		s.DarkBackground++
	}
	s.Count++
}
