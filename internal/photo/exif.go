package photo

import (
	"bytes"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// exifTimeLayout is the naive timestamp layout EXIF records, e.g.
// "2020:05:01 10:00:00". The timezone is supplied by the caller.
const exifTimeLayout = "2006:01:02 15:04:05"

// Metadata carries the two EXIF attributes the pipeline consumes. Each is
// paired with a presence flag: a JPEG can carry an EXIF block without
// either key, which is a recoverable condition, not an error.
type Metadata struct {
	CaptureTime    time.Time
	HasCaptureTime bool
	Orientation    int
	HasOrientation bool
}

// ExtractMetadata pulls capture time and orientation out of a JPEG's EXIF
// block. The second return value is false when the image carries no
// retrievable metadata at all. The naive capture timestamp is interpreted
// in loc.
func ExtractMetadata(data []byte, loc *time.Location) (Metadata, bool) {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return Metadata{}, false
	}

	var meta Metadata
	if tag, err := x.Get(exif.DateTimeOriginal); err == nil {
		if value, err := tag.StringVal(); err == nil {
			if captured, err := time.ParseInLocation(exifTimeLayout, value, loc); err == nil {
				meta.CaptureTime = captured
				meta.HasCaptureTime = true
			}
		}
	}
	if tag, err := x.Get(exif.Orientation); err == nil {
		if orientation, err := tag.Int(0); err == nil {
			meta.Orientation = orientation
			meta.HasOrientation = true
		}
	}
	return meta, true
}
