package imaging

// DimensionStats tracks size and aspect ratio extrema over a set of images.
//
// Ratio is width divided by height. Images with zero height contribute to
// the height and width extrema but not to the ratio figures.
type DimensionStats struct {
	Count int `json:"count"`

	MinHeight int `json:"min_height"`
	MaxHeight int `json:"max_height"`
	MinWidth  int `json:"min_width"`
	MaxWidth  int `json:"max_width"`

	MinRatio  float64 `json:"min_ratio"`
	MaxRatio  float64 `json:"max_ratio"`
	MeanRatio float64 `json:"mean_ratio"`

	ratioSum   float64
	ratioCount int
}

// Observe adds one image's size.
func (s *DimensionStats) Observe(width, height int) {
	if s.Count == 0 {
		s.MinHeight, s.MaxHeight = height, height
		s.MinWidth, s.MaxWidth = width, width
	} else {
		s.MinHeight = min(s.MinHeight, height)
		s.MaxHeight = max(s.MaxHeight, height)
		s.MinWidth = min(s.MinWidth, width)
		s.MaxWidth = max(s.MaxWidth, width)
	}
	s.Count++

	if height <= 0 {
		return
	}
	ratio := float64(width) / float64(height)
	if s.ratioCount == 0 {
		s.MinRatio, s.MaxRatio = ratio, ratio
	} else {
		s.MinRatio = min(s.MinRatio, ratio)
		s.MaxRatio = max(s.MaxRatio, ratio)
	}
	s.ratioSum += ratio
	s.ratioCount++
	s.MeanRatio = s.ratioSum / float64(s.ratioCount)
}

// Empty reports whether no image has been observed.
func (s *DimensionStats) Empty() bool {
	return s.Count == 0
}

// WidthAtHeight returns the width an image of the given aspect ratio has
// after resizing to height, rounded to the nearest pixel.
func WidthAtHeight(ratio float64, height int) int {
	return int(ratio*float64(height) + 0.5)
}
