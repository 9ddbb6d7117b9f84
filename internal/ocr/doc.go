// Package ocr measures how well an off-the-shelf Tesseract engine reads the
// word images of a dataset.
//
// A baseline run takes a sample of ground-truth records, recognizes each
// word image, and compares the result against the label using the character
// error rate: the Levenshtein distance over runes divided by the label
// length. The figure gives a quick sense of dataset difficulty before any
// model is trained.
//
// # Prerequisites
//
// Recognition uses gosseract/v2, which needs cgo and the Tesseract and
// Leptonica libraries:
//   - Ubuntu/Debian: apt-get install libtesseract-dev tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// Without cgo, NewTesseract returns ErrTesseractUnavailable. Everything else
// in this package works without Tesseract; RunBaseline accepts any
// Recognizer.
//
// # Preprocessing
//
// Word crops in scene-text datasets are often only a few pixels tall, far
// below what Tesseract is tuned for. Prepare upscales any image shorter than
// a minimum height, preserving the aspect ratio. With
// BaselineOptions.TrimMargins the background around the text is cropped first
// so the upscale spends its pixels on the glyphs.
package ocr
