package photo

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"

	"github.com/disintegration/imaging"
)

const (
	// MediumLongEdge bounds the longer edge of the medium derivative.
	MediumLongEdge = 800
	// SmallShortEdge bounds the shorter edge of the small derivative. The
	// longer edge is cropped client-side to a fixed tile, so only the
	// short edge matters here.
	SmallShortEdge = 150
)

// Decode parses JPEG bytes into an in-memory image.
func Decode(data []byte) (image.Image, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	if format != "jpeg" {
		return nil, fmt.Errorf("decode image: unexpected format %q", format)
	}
	return img, nil
}

// ResizeBoundingLongEdge recalculates (width, height) so the longer edge
// equals target, keeping the ratio. Unchanged when neither edge exceeds
// target. The ratio is the float quotient of the bounding edge by the
// target; the other edge is floor-divided by it.
func ResizeBoundingLongEdge(width, height, target int) (int, int) {
	if width <= target && height <= target {
		return width, height
	}
	if height > width {
		ratio := float64(height) / float64(target)
		return int(float64(width) / ratio), target
	}
	ratio := float64(width) / float64(target)
	return target, int(float64(height) / ratio)
}

// ResizeBoundingShortEdge recalculates (width, height) so the shorter edge
// equals target, keeping the ratio. Unchanged when the shorter edge is
// already at or below target.
func ResizeBoundingShortEdge(width, height, target int) (int, int) {
	if width <= target || height <= target {
		return width, height
	}
	if height < width {
		ratio := float64(height) / float64(target)
		return int(float64(width) / ratio), target
	}
	ratio := float64(width) / float64(target)
	return target, int(float64(height) / ratio)
}

// Rotate undoes the sensor orientation recorded in EXIF. Orientation 1 is
// the identity and returns the image untouched; 6 rotates 90 degrees
// clockwise, 8 counter-clockwise, 3 a half turn. The canvas expands with
// the rotation, nothing is cropped. Any other value reports ok=false and
// the image comes back unchanged for the caller to log.
func Rotate(img image.Image, orientation int) (image.Image, bool) {
	switch orientation {
	case 1:
		return img, true
	case 6:
		return imaging.Rotate270(img), true
	case 8:
		return imaging.Rotate90(img), true
	case 3:
		return imaging.Rotate180(img), true
	default:
		return img, false
	}
}

// ToMedium produces the medium derivative: a Lanczos resample bounding the
// long edge at MediumLongEdge. Orientation rotation is applied by the
// caller afterwards, when EXIF provides one.
func ToMedium(img image.Image) image.Image {
	bounds := img.Bounds()
	width, height := ResizeBoundingLongEdge(bounds.Dx(), bounds.Dy(), MediumLongEdge)
	if width == bounds.Dx() && height == bounds.Dy() {
		return img
	}
	return imaging.Resize(img, width, height, imaging.Lanczos)
}

// ToSmall produces the small derivative from the already-rotated medium
// image, bounding the short edge at SmallShortEdge. No further rotation:
// orientation is already correct on the medium derivative.
func ToSmall(medium image.Image) image.Image {
	bounds := medium.Bounds()
	width, height := ResizeBoundingShortEdge(bounds.Dx(), bounds.Dy(), SmallShortEdge)
	if width == bounds.Dx() && height == bounds.Dy() {
		return medium
	}
	return imaging.Resize(medium, width, height, imaging.Lanczos)
}

// Save writes a derivative to a local path, encoding by file extension.
func Save(img image.Image, path string) error {
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("save derivative %s: %w", path, err)
	}
	return nil
}
