package imaging

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// DefaultTrimTolerance is the gray-level difference from the background
// above which a pixel counts as content.
const DefaultTrimTolerance = 48

// ContentBounds returns the smallest rectangle holding every pixel whose gray
// level differs from the background by more than tolerance. The background
// is the mean gray level of the four corner pixels. A blank image yields an
// empty rectangle.
func ContentBounds(img image.Image, tolerance uint8) image.Rectangle {
	b := img.Bounds()
	if b.Empty() {
		return image.Rectangle{}
	}

	corners := []image.Point{
		b.Min,
		{b.Max.X - 1, b.Min.Y},
		{b.Min.X, b.Max.Y - 1},
		{b.Max.X - 1, b.Max.Y - 1},
	}
	sum := 0
	for _, p := range corners {
		sum += int(grayAt(img, p.X, p.Y))
	}
	bg := sum / len(corners)

	content := image.Rectangle{}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			d := int(grayAt(img, x, y)) - bg
			if d < 0 {
				d = -d
			}
			if d > int(tolerance) {
				content = content.Union(image.Rect(x, y, x+1, y+1))
			}
		}
	}
	return content
}

// TrimMargins crops img to its content bounds grown by pad pixels on every
// side. Blank images, and images with no margin to remove, are returned
// unchanged.
func TrimMargins(img image.Image, tolerance uint8, pad int) image.Image {
	content := ContentBounds(img, tolerance)
	if content.Empty() {
		return img
	}
	r := content.Inset(-pad).Intersect(img.Bounds())
	if r == img.Bounds() {
		return img
	}
	return imaging.Crop(img, r)
}

func grayAt(img image.Image, x, y int) uint8 {
	return color.GrayModel.Convert(img.At(x, y)).(color.Gray).Y
}
