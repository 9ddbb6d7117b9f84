// Package groundtruth reads OCR ground-truth label files.
//
// A label file holds one record per line in the form
//
//	image_name,"label string"
//
// The image name runs up to the first comma. The remainder is the label
// field: surrounding whitespace is trimmed and one double quote is removed
// from each end. Anything inside the quotes, including further commas,
// belongs to the label.
//
// # Counting
//
// Counter accumulates per-character occurrence counts across any number of
// files. Characters are runes (Unicode code points); the order in which a
// Counter first saw each rune is preserved because downstream vocabulary ids
// are assigned in that order.
//
// Before counting, the full-width space (U+3000) and the tab character are
// normalized to a plain space. MaxLabelLength does not normalize, but both
// replacements are one rune for one rune, so lengths agree either way.
package groundtruth
