package encode

import (
	"context"

	"vodforge/logger"
)

// Waveform produces the two audio visualization artifacts from the same
// source: a peak-data JSON document and a rendered PNG, via two independent
// audiowaveform passes. Either pass failing fails the stage.
func (e *Encoder) Waveform(ctx context.Context, input, jsonPath, imagePath string) error {
	logger.Info("Generating waveform data and image")

	jsonArgs := []string{
		"-i", input,
		"-o", jsonPath,
		"--pixels-per-second", "10",
		"-b", "8",
	}
	if _, err := e.Runner.Run(ctx, e.AudiowaveformBin, jsonArgs, waveformTimeout); err != nil {
		return &Error{Stage: "waveform", Err: err}
	}

	imageArgs := []string{
		"-i", input,
		"-o", imagePath,
		"--width", "1800",
		"--height", "140",
		"--colors", "audition",
	}
	if _, err := e.Runner.Run(ctx, e.AudiowaveformBin, imageArgs, waveformTimeout); err != nil {
		return &Error{Stage: "waveform", Err: err}
	}
	return nil
}
