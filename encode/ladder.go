package encode

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"vodforge/logger"
	"vodforge/models"
)

// segmentSeconds is the fixed HLS segment duration for all renditions.
const segmentSeconds = 6

// VideoLadder is the declared video rendition set, in ladder order. Entries
// taller than the source are skipped; sources are never upscaled.
var VideoLadder = []models.RenditionSpec{
	{Name: "1080p", Height: 1080, VideoBitrateKbps: 5000, AudioBitrateKbps: 192},
	{Name: "720p", Height: 720, VideoBitrateKbps: 3000, AudioBitrateKbps: 128},
	{Name: "480p", Height: 480, VideoBitrateKbps: 1500, AudioBitrateKbps: 96},
	{Name: "360p", Height: 360, VideoBitrateKbps: 800, AudioBitrateKbps: 64},
}

// AudioLadder is the declared audio rendition set. All entries always encode.
var AudioLadder = []models.RenditionSpec{
	{Name: "128k", AudioBitrateKbps: 128},
	{Name: "64k", AudioBitrateKbps: 64},
}

// EncodeLadder encodes every applicable ladder entry into its own
// subdirectory of outDir as a segmented VOD stream, then writes the master
// playlist. Returns the rendition names actually produced, in ladder order.
// One rendition failing fails the whole ladder; there is no partial success.
func (e *Encoder) EncodeLadder(ctx context.Context, input, outDir string, ladder []models.RenditionSpec, sourceHeight *int, prof Profile, loud models.LoudnessParams) ([]string, error) {
	ready := []string{}
	var produced []models.RenditionSpec

	for _, spec := range ladder {
		if spec.Height > 0 && sourceHeight != nil && spec.Height > *sourceHeight {
			logger.Infof("Skipping %s rendition: source height %d below target %d", spec.Name, *sourceHeight, spec.Height)
			continue
		}

		variantDir := filepath.Join(outDir, spec.Name)
		if err := os.MkdirAll(variantDir, 0755); err != nil {
			return nil, &Error{Stage: "ladder", Variant: spec.Name, Err: err}
		}

		logger.Infof("Encoding %s rendition", spec.Name)
		timeout := audioRenditionTimeout
		if spec.Height > 0 {
			timeout = videoRenditionTimeout
		}
		args := renditionArgs(input, variantDir, spec, prof, loud)
		if _, err := e.Runner.Run(ctx, e.FFmpegBin, args, timeout); err != nil {
			return nil, &Error{Stage: "ladder", Variant: spec.Name, Err: err}
		}

		ready = append(ready, spec.Name)
		produced = append(produced, spec)
	}

	if err := writeMasterPlaylist(filepath.Join(outDir, "master.m3u8"), produced); err != nil {
		return nil, &Error{Stage: "ladder", Err: err}
	}
	return ready, nil
}

// renditionArgs builds the ffmpeg arguments for one ladder entry. Entries
// without a height are audio-only and drop the video chain entirely.
func renditionArgs(input, variantDir string, spec models.RenditionSpec, prof Profile, loud models.LoudnessParams) []string {
	var args []string
	args = append(args, "-y")

	if spec.Height > 0 {
		args = append(args, prof.InputArgs...)
		args = append(args, "-i", input)
		args = append(args, "-vf", fmt.Sprintf("scale=-2:%d", spec.Height))
		args = append(args, prof.videoArgs(prof.DeliveryPreset, deliveryQuality)...)
		args = append(args,
			"-b:v", fmt.Sprintf("%dk", spec.VideoBitrateKbps),
			"-maxrate", fmt.Sprintf("%dk", spec.VideoBitrateKbps),
			"-bufsize", fmt.Sprintf("%dk", spec.VideoBitrateKbps*2),
		)
	} else {
		args = append(args, "-i", input, "-vn")
	}

	args = append(args,
		"-c:a", "aac",
		"-b:a", fmt.Sprintf("%dk", spec.AudioBitrateKbps),
		"-af", loudnormFilter(loud),
	)
	args = append(args, hlsArgs(variantDir, "index.m3u8")...)
	return args
}

// hlsArgs is the shared segmented-VOD packaging block.
func hlsArgs(dir, playlist string) []string {
	return []string{
		"-f", "hls",
		"-hls_time", strconv.Itoa(segmentSeconds),
		"-hls_playlist_type", "vod",
		"-hls_segment_filename", filepath.Join(dir, "segment_%03d.ts"),
		filepath.Join(dir, playlist),
	}
}

// writeMasterPlaylist writes the top-level playlist referencing every
// produced rendition by relative path. Video resolutions are approximated
// from the target height assuming 16:9; this is declared, not measured.
func writeMasterPlaylist(path string, produced []models.RenditionSpec) error {
	var b strings.Builder
	b.WriteString("#EXTM3U\n")
	b.WriteString("#EXT-X-VERSION:3\n")
	for _, spec := range produced {
		if spec.Height > 0 {
			bandwidth := spec.VideoBitrateKbps * 1000
			width := spec.Height * 16 / 9
			fmt.Fprintf(&b, "#EXT-X-STREAM-INF:BANDWIDTH=%d,RESOLUTION=%dx%d\n", bandwidth, width, spec.Height)
		} else {
			fmt.Fprintf(&b, "#EXT-X-STREAM-INF:BANDWIDTH=%d\n", spec.AudioBitrateKbps*1000)
		}
		fmt.Fprintf(&b, "%s/index.m3u8\n", spec.Name)
	}
	return os.WriteFile(path, []byte(b.String()), 0644)
}
