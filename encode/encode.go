// Package encode wraps every ffmpeg/audiowaveform stage of the pipeline:
// capability detection, the archival mezzanine, loudness analysis, the HLS
// rendition ladder, the preview clip, thumbnails and waveforms.
package encode

import (
	"fmt"
	"time"

	"vodforge/toolrun"
)

// Stage timeouts. A timeout is treated exactly like a non-zero exit.
const (
	detectTimeout         = 10 * time.Second
	mezzanineTimeout      = time.Hour
	loudnessTimeout       = 300 * time.Second
	videoRenditionTimeout = time.Hour
	audioRenditionTimeout = 10 * time.Minute
	previewTimeout        = 120 * time.Second
	thumbnailTimeout      = 60 * time.Second
	waveformTimeout       = 120 * time.Second
)

// Error reports a failed encode stage. Variant is set for ladder failures.
type Error struct {
	Stage   string
	Variant string
	Err     error
}

func (e *Error) Error() string {
	if e.Variant != "" {
		return fmt.Sprintf("encode stage %s (%s): %v", e.Stage, e.Variant, e.Err)
	}
	return fmt.Sprintf("encode stage %s: %v", e.Stage, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Encoder runs all encode stages through one tool runner. It holds no
// per-job state; profile and loudness are passed in per call.
type Encoder struct {
	Runner           toolrun.Runner
	FFmpegBin        string
	AudiowaveformBin string
}
