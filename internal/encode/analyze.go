package encode

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	exif "github.com/dsoprea/go-exif/v3"
)

// ImageInfo is a best-effort pre-transform snapshot of a still image.
type ImageInfo struct {
	Width       int
	Height      int
	HasEXIF     bool
	CameraModel string
}

// analyzeImage inspects dimensions and EXIF presence before a transform.
// Re-encoding drops EXIF blocks, so the camera model is surfaced in debug
// logs before it disappears. Everything here is advisory; failures yield a
// zero-value info rather than an error.
func analyzeImage(path string) ImageInfo {
	info := ImageInfo{}

	f, err := os.Open(path)
	if err != nil {
		return info
	}
	defer f.Close()

	if cfg, _, err := image.DecodeConfig(f); err == nil {
		info.Width = cfg.Width
		info.Height = cfg.Height
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return info
	}

	tags, _, err := exif.GetFlatExifDataUniversalSearchWithReadSeeker(f, nil, true)
	if err != nil {
		return info
	}
	for _, tag := range tags {
		info.HasEXIF = true
		if tag.TagName == "Model" || tag.TagName == "CameraModelName" {
			info.CameraModel = tag.Formatted
		}
	}
	return info
}
