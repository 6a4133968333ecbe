package encode

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"vodforge/logger"
	"vodforge/models"
)

// loudnessTarget is the normalization target applied to every delivery encode.
const loudnessTarget = "I=-16:TP=-1.5:LRA=11"

// AnalyzeLoudness runs an analysis-only loudnorm pass and parses the JSON
// block ffmpeg prints on stderr. Loudness is best effort: a non-zero exit or
// unparseable output degrades to the defaults and the pipeline continues.
func (e *Encoder) AnalyzeLoudness(ctx context.Context, input string) models.LoudnessParams {
	args := []string{
		"-i", input,
		"-af", "loudnorm=" + loudnessTarget + ":print_format=json",
		"-f", "null", "-",
	}

	res, err := e.Runner.Run(ctx, e.FFmpegBin, args, loudnessTimeout)
	if err != nil {
		logger.Warnf("Loudness analysis failed, using default parameters: %v", err)
		return models.DefaultLoudness()
	}

	params, ok := parseLoudness(res.Stderr)
	if !ok {
		logger.Warn("Loudness output unparseable, using default parameters")
		return models.DefaultLoudness()
	}
	logger.Infof("Measured loudness: I=%.1f TP=%.1f LRA=%.1f", params.InputI, params.InputTP, params.InputLRA)
	return params
}

// parseLoudness extracts the last well-formed JSON block from the ffmpeg
// diagnostic stream. loudnorm prints its numbers as quoted strings.
func parseLoudness(stderr string) (models.LoudnessParams, bool) {
	start := strings.LastIndex(stderr, "{")
	end := strings.LastIndex(stderr, "}")
	if start < 0 || end <= start {
		return models.LoudnessParams{}, false
	}

	var raw struct {
		InputI   string `json:"input_i"`
		InputTP  string `json:"input_tp"`
		InputLRA string `json:"input_lra"`
	}
	if err := json.Unmarshal([]byte(stderr[start:end+1]), &raw); err != nil {
		return models.LoudnessParams{}, false
	}

	defaults := models.DefaultLoudness()
	return models.LoudnessParams{
		InputI:   parseMeasure(raw.InputI, defaults.InputI),
		InputTP:  parseMeasure(raw.InputTP, defaults.InputTP),
		InputLRA: parseMeasure(raw.InputLRA, defaults.InputLRA),
	}, true
}

func parseMeasure(s string, fallback float64) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fallback
	}
	return v
}

// loudnormFilter builds the normalization filter with the measured (or
// default) source parameters fed back in.
func loudnormFilter(lp models.LoudnessParams) string {
	return fmt.Sprintf("loudnorm=%s:measured_I=%.2f:measured_TP=%.2f:measured_LRA=%.2f",
		loudnessTarget, lp.InputI, lp.InputTP, lp.InputLRA)
}
