package encode

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"vodforge/logger"
	"vodforge/models"
)

const (
	previewHeight     = 720
	previewMaxSeconds = 30
)

// PreviewStart returns the content-relative clip offset: 10% into the
// source, never negative.
func PreviewStart(durationSeconds int) int {
	start := durationSeconds / 10
	if start < 0 {
		return 0
	}
	return start
}

// PreviewDuration returns the clip length: at most previewMaxSeconds, capped
// by the material remaining after the start offset.
func PreviewDuration(durationSeconds int) int {
	remaining := durationSeconds - PreviewStart(durationSeconds)
	if remaining < previewMaxSeconds {
		return remaining
	}
	return previewMaxSeconds
}

// Preview encodes a short downscaled clip as its own segmented VOD stream in
// outDir. Callers skip this stage entirely when the source duration is zero.
func (e *Encoder) Preview(ctx context.Context, input, outDir string, durationSeconds int, prof Profile, loud models.LoudnessParams) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return &Error{Stage: "preview", Err: err}
	}

	start := PreviewStart(durationSeconds)
	clip := PreviewDuration(durationSeconds)
	logger.Infof("Encoding preview clip: start=%ds duration=%ds", start, clip)

	var args []string
	args = append(args, "-y")
	args = append(args, prof.InputArgs...)
	args = append(args, "-ss", strconv.Itoa(start), "-i", input, "-t", strconv.Itoa(clip))
	args = append(args, "-vf", fmt.Sprintf("scale=-2:%d", previewHeight))
	args = append(args, prof.videoArgs(prof.DeliveryPreset, deliveryQuality)...)
	args = append(args, "-c:a", "aac", "-b:a", "128k", "-af", loudnormFilter(loud))
	args = append(args, hlsArgs(outDir, "preview.m3u8")...)

	if _, err := e.Runner.Run(ctx, e.FFmpegBin, args, previewTimeout); err != nil {
		return &Error{Stage: "preview", Err: err}
	}
	return nil
}
