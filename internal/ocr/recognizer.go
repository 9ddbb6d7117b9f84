package ocr

import (
	"errors"
	"image"

	"github.com/disintegration/imaging"
)

// ErrTesseractUnavailable is returned when the binary was built without cgo.
var ErrTesseractUnavailable = errors.New("tesseract OCR is not available in this build")

// DefaultMinHeight is the height below which images are upscaled before
// recognition.
const DefaultMinHeight = 64

// Recognizer reads the text in a single word image.
type Recognizer interface {
	Recognize(img image.Image) (string, error)
	Close() error
}

// TesseractOptions configures NewTesseract.
type TesseractOptions struct {
	// Language is a Tesseract language code such as "eng". Default "eng".
	Language string

	// TessdataDir overrides the directory holding *.traineddata files.
	// Empty means the library default (or TESSDATA_PREFIX).
	TessdataDir string
}

// Prepare upscales img so that it is at least minHeight pixels tall.
// Images that are already tall enough are returned unchanged.
func Prepare(img image.Image, minHeight int) image.Image {
	h := img.Bounds().Dy()
	if minHeight <= 0 || h == 0 || h >= minHeight {
		return img
	}
	// Width 0 preserves the aspect ratio.
	return imaging.Resize(img, 0, minHeight, imaging.Lanczos)
}
