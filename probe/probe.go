// Package probe extracts media metadata with ffprobe.
package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"vodforge/logger"
	"vodforge/models"
	"vodforge/toolrun"
)

const probeTimeout = 30 * time.Second

// Error reports an unusable probe: non-zero exit or unparseable output.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string { return fmt.Sprintf("probe %s: %v", e.Path, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

type probeOutput struct {
	Streams []struct {
		CodecType string `json:"codec_type"`
		Width     int    `json:"width"`
		Height    int    `json:"height"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// Probe runs ffprobe against path and returns duration plus, when a video
// stream exists, its dimensions. Duration is the container duration truncated
// to whole seconds.
func Probe(ctx context.Context, runner toolrun.Runner, binary, path string) (models.MediaInfo, error) {
	args := []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	}

	res, err := runner.Run(ctx, binary, args, probeTimeout)
	if err != nil {
		return models.MediaInfo{}, &Error{Path: path, Err: err}
	}

	var out probeOutput
	if err := json.Unmarshal([]byte(res.Stdout), &out); err != nil {
		return models.MediaInfo{}, &Error{Path: path, Err: fmt.Errorf("unparseable ffprobe output: %w", err)}
	}

	info := models.MediaInfo{}
	if out.Format.Duration != "" {
		seconds, err := strconv.ParseFloat(out.Format.Duration, 64)
		if err != nil {
			return models.MediaInfo{}, &Error{Path: path, Err: fmt.Errorf("bad duration %q: %w", out.Format.Duration, err)}
		}
		if seconds > 0 {
			info.DurationSeconds = int(seconds)
		}
	}

	// First video stream wins; audio-only sources keep nil dimensions.
	for _, stream := range out.Streams {
		if stream.CodecType == "video" {
			w, h := stream.Width, stream.Height
			info.Width = &w
			info.Height = &h
			break
		}
	}

	logger.Infof("Probed %s: duration=%ds width=%v height=%v",
		path, info.DurationSeconds, deref(info.Width), deref(info.Height))
	return info, nil
}

func deref(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
