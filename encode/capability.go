package encode

import (
	"context"
	"strings"

	"vodforge/logger"
)

// hardwareCodec is the encoder name looked for in the ffmpeg listing.
const hardwareCodec = "h264_nvenc"

// DetectHardware reports whether the hardware encoder path is usable on this
// host. Any invocation error (binary missing, timeout) counts as absent;
// detection never fails a job. The result is computed once per job.
func (e *Encoder) DetectHardware(ctx context.Context) bool {
	res, err := e.Runner.Run(ctx, e.FFmpegBin, []string{"-encoders"}, detectTimeout)
	if err != nil {
		logger.Debugf("Hardware encoder detection failed, assuming software: %v", err)
		return false
	}
	available := strings.Contains(res.Stdout, hardwareCodec)
	logger.Infof("Hardware encoder %s available: %v", hardwareCodec, available)
	return available
}
