// Package imaging decodes dataset images and aggregates their geometry and
// appearance.
//
// Images are decoded with github.com/disintegration/imaging, which handles
// PNG, JPEG, GIF, BMP and TIFF; WebP support is registered from
// golang.org/x/image. EXIF orientation is applied on decode so that the
// reported width and height match what a training pipeline sees after
// loading the file.
//
// # Dimensions
//
// DimensionStats keeps running minima and maxima of height, width and the
// width/height aspect ratio. Observations are order independent.
//
// # Appearance
//
// MeasureAppearance computes per-image photometric figures: mean luminance,
// luminance standard deviation (contrast), mean Sobel gradient magnitude
// (sharpness), and the mean color in HSL. Luminance and gradients come from
// github.com/anthonynsimon/bild; color space conversion from
// github.com/lucasb-eyer/go-colorful. All figures are normalized to 0..1
// except hue, which is in degrees.
//
// # Margins
//
// ContentBounds finds the box of pixels that stand out from the background
// (estimated from the corners); TrimMargins crops to it.
//
// # Scanning
//
// ScanFiles walks a list of image paths sequentially. A file that cannot be
// decoded stops the scan unless ScanOptions.SkipInvalid is set, in which case
// it is recorded in ScanResult.Failed and the scan continues.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. DimensionStats and AppearanceStats
// are not.
package imaging
