// Package ffmpeg provides the transcoder adapter: argument construction,
// process execution with progress reporting, and quality metric extraction.
package ffmpeg

// ConvertParams selects the encoder for a conversion.
type ConvertParams struct {
	// Encoder is the video encoder name, e.g. libx265.
	Encoder string
	// Tag is the codec tag written into the container, e.g. hvc1.
	Tag string
}

// CompareFilter is the dual-metric filter graph for quality comparison runs.
// The unlabeled chain feeds both inputs to ssim; the labeled chain reuses
// them for psnr.
const CompareFilter = "ssim;[0:v][1:v]psnr"

// ConvertArgs builds the transcode invocation: the video stream re-encoded
// with params.Encoder, audio copied unmodified. The container format is
// stated explicitly because the output path is a partial file whose suffix
// does not reveal it.
func ConvertArgs(inputPath, outputPath string, params ConvertParams) []string {
	return []string{
		"-hide_banner",
		"-nostdin",
		"-y",
		"-i", inputPath,
		"-c:v", params.Encoder,
		"-tag:v", params.Tag,
		"-c:a", "copy",
		"-f", "matroska",
		outputPath,
	}
}

// CompareArgs builds the quality comparison run: the converted file as the
// main input, the original as reference, decoded through the SSIM and PSNR
// filters into a null sink. Nothing is written to disk.
func CompareArgs(convertedPath, originalPath string) []string {
	return []string{
		"-hide_banner",
		"-nostdin",
		"-i", convertedPath,
		"-i", originalPath,
		"-filter_complex", CompareFilter,
		"-f", "null", "-",
	}
}
