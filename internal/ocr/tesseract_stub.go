//go:build !cgo

package ocr

// NewTesseract always fails in builds without cgo.
func NewTesseract(opts TesseractOptions) (Recognizer, error) {
	return nil, ErrTesseractUnavailable
}

// Version returns an empty string in builds without cgo.
func Version() string {
	return ""
}
