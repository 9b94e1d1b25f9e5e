package encode

import (
	"fmt"
	"strconv"

	"mediapress/internal/preset"
)

// Fixed encoder settings. These values are part of the observable output
// contract; changing them changes every artifact the tool produces.
const (
	webpQuality     = 80
	webpEffort      = 6
	videoCRF        = 28
	videoPresetName = "medium"
	audioBitrate    = "128k"
)

// imageScaleFilter builds the bounded-fit scale expression for still images.
// The min(iw/ih, …) clamps keep the source resolution as a ceiling, so images
// are never upscaled.
func imageScaleFilter(p preset.Preset) string {
	return fmt.Sprintf(
		"scale=w='min(iw,%d)':h='min(ih,%d)':force_original_aspect_ratio=decrease",
		p.Width, p.Height)
}

// videoScaleFilter builds the scale (and, for exact presets, centered pad)
// chain for video. Dimensions are forced even for the H.264 encoder.
func videoScaleFilter(p preset.Preset) string {
	if p.Mode == preset.ModeExact {
		return fmt.Sprintf(
			"scale=%d:%d:force_original_aspect_ratio=decrease:force_divisible_by=2,"+
				"pad=%d:%d:(ow-iw)/2:(oh-ih)/2",
			p.Width, p.Height, p.Width, p.Height)
	}
	return fmt.Sprintf(
		"scale=w='min(iw,%d)':h='min(ih,%d)':force_original_aspect_ratio=decrease:force_divisible_by=2",
		p.Width, p.Height)
}

// buildImageArgs constructs the ffmpeg invocation for a still-image
// re-encode to WebP. filter may be empty (compress without resize).
func buildImageArgs(input, output, filter string) []string {
	args := make([]string, 0, 16)
	args = append(args, "-hide_banner", "-nostdin", "-y", "-loglevel", "error")
	args = append(args, "-i", input)
	if filter != "" {
		args = append(args, "-vf", filter)
	}
	args = append(args,
		"-c:v", "libwebp",
		"-quality", strconv.Itoa(webpQuality),
		"-compression_level", strconv.Itoa(webpEffort),
	)
	return append(args, output)
}

// buildVideoArgs constructs the ffmpeg invocation for a web-delivery H.264
// re-encode. The faststart flag relocates the moov atom so playback can
// begin before the file finishes downloading.
func buildVideoArgs(input, output, filter string) []string {
	args := make([]string, 0, 24)
	args = append(args, "-hide_banner", "-nostdin", "-y", "-loglevel", "error")
	args = append(args, "-i", input)
	if filter != "" {
		args = append(args, "-vf", filter)
	}
	args = append(args,
		"-c:v", "libx264",
		"-crf", strconv.Itoa(videoCRF),
		"-preset", videoPresetName,
		"-pix_fmt", "yuv420p",
		"-c:a", "aac",
		"-b:a", audioBitrate,
		"-movflags", "+faststart",
	)
	return append(args, output)
}

// buildPDFArgs constructs the Ghostscript invocation for PDF optimization.
// Each tier maps to a device preset and raster resolution; image
// downsampling and font compression are always on.
func buildPDFArgs(input, output string, q PDFQuality) []string {
	dpi := strconv.Itoa(q.resolution())
	return []string{
		"-sDEVICE=pdfwrite",
		"-dCompatibilityLevel=1.4",
		"-dPDFSETTINGS=" + q.devicePreset(),
		"-dDownsampleColorImages=true",
		"-dColorImageResolution=" + dpi,
		"-dDownsampleGrayImages=true",
		"-dGrayImageResolution=" + dpi,
		"-dDownsampleMonoImages=true",
		"-dMonoImageResolution=" + dpi,
		"-dCompressFonts=true",
		"-dNOPAUSE",
		"-dBATCH",
		"-dQUIET",
		"-sOutputFile=" + output,
		input,
	}
}
