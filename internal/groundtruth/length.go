package groundtruth

import "sort"

// MaxLabelLength returns the largest label length, in characters, found in
// the file at path. A file without records yields -1.
func MaxLabelLength(path string) (int, error) {
	maxLen := -1
	err := ScanFile(path, func(rec Record) error {
		if n := LabelLength(rec.Label); n > maxLen {
			maxLen = n
		}
		return nil
	})
	if err != nil {
		return -1, err
	}
	return maxLen, nil
}

// LengthHistogram counts labels by their length in characters.
type LengthHistogram struct {
	counts map[int]int
	labels int
}

// NewLengthHistogram returns an empty histogram.
func NewLengthHistogram() *LengthHistogram {
	return &LengthHistogram{counts: make(map[int]int)}
}

// Add records one label.
func (h *LengthHistogram) Add(label string) {
	h.counts[LabelLength(label)]++
	h.labels++
}

// AddFile records every label in the file at path.
func (h *LengthHistogram) AddFile(path string) error {
	return ScanFile(path, func(rec Record) error {
		h.Add(rec.Label)
		return nil
	})
}

// Labels returns the number of labels recorded.
func (h *LengthHistogram) Labels() int {
	return h.labels
}

// Max returns the largest recorded length, or -1 when empty.
func (h *LengthHistogram) Max() int {
	maxLen := -1
	for n := range h.counts {
		if n > maxLen {
			maxLen = n
		}
	}
	return maxLen
}

// LengthBucket is the number of labels with a given length.
type LengthBucket struct {
	Length int `json:"length"`
	Labels int `json:"labels"`
}

// Buckets returns the non-empty buckets ordered by length.
func (h *LengthHistogram) Buckets() []LengthBucket {
	buckets := make([]LengthBucket, 0, len(h.counts))
	for n, c := range h.counts {
		buckets = append(buckets, LengthBucket{Length: n, Labels: c})
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Length < buckets[j].Length })
	return buckets
}
