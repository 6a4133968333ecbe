package encode

import (
	"context"
	"strconv"

	"vodforge/logger"
)

// ThumbnailTimestamp returns the frame-grab position: 10% into the source,
// but at least one second in to avoid black lead-in frames.
func ThumbnailTimestamp(durationSeconds int) int {
	ts := durationSeconds / 10
	if ts < 1 {
		return 1
	}
	return ts
}

// Thumbnail extracts a single high-quality still frame. Callers skip this
// stage when the source duration is zero.
func (e *Encoder) Thumbnail(ctx context.Context, input, output string, durationSeconds int) error {
	ts := ThumbnailTimestamp(durationSeconds)
	logger.Infof("Extracting thumbnail at %ds", ts)

	args := []string{
		"-y",
		"-ss", strconv.Itoa(ts),
		"-i", input,
		"-vframes", "1",
		"-q:v", "2",
		output,
	}
	if _, err := e.Runner.Run(ctx, e.FFmpegBin, args, thumbnailTimeout); err != nil {
		return &Error{Stage: "thumbnail", Err: err}
	}
	return nil
}
