package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"vodforge/encode"
	"vodforge/models"
	"vodforge/storage"
	"vodforge/toolrun"
)

// fakeToolchain emulates ffprobe, ffmpeg and audiowaveform well enough for a
// full pipeline run: it answers probe and capability queries with canned
// output and touches the output files encode stages expect to exist.
type fakeToolchain struct {
	probeJSON string
	nvenc     bool
	failOn    string // substring of any argument that triggers a failure
	calls     [][]string
}

func (f *fakeToolchain) Run(ctx context.Context, binary string, args []string, timeout time.Duration) (toolrun.Result, error) {
	call := append([]string{binary}, args...)
	f.calls = append(f.calls, call)

	if f.failOn != "" {
		for _, a := range args {
			if strings.Contains(a, f.failOn) {
				return toolrun.Result{}, fmt.Errorf("%s failed on %s", binary, a)
			}
		}
	}

	switch {
	case binary == "ffprobe":
		return toolrun.Result{Stdout: f.probeJSON}, nil
	case hasArg(args, "-encoders"):
		if f.nvenc {
			return toolrun.Result{Stdout: "V..... h264_nvenc"}, nil
		}
		return toolrun.Result{Stdout: "V..... libx264"}, nil
	case binary == "audiowaveform":
		return toolrun.Result{}, touchArgValue(args, "-o")
	case args[len(args)-1] == "-":
		// loudness analysis pass, answered with a measured block
		return toolrun.Result{Stderr: `{"input_i":"-20.00","input_tp":"-3.00","input_lra":"9.00"}`}, nil
	default:
		// encode pass: the last argument is the output file
		return toolrun.Result{}, touch(args[len(args)-1])
	}
}

func hasArg(args []string, want string) bool {
	for _, a := range args {
		if a == want {
			return true
		}
	}
	return false
}

func touchArgValue(args []string, flag string) error {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag {
			return touch(args[i+1])
		}
	}
	return fmt.Errorf("missing %s argument", flag)
}

func touch(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte("artifact"), 0644)
}

const videoProbeJSON = `{
	"streams": [{"codec_type": "video", "width": 1280, "height": 720}],
	"format": {"duration": "300.40"}
}`

const audioProbeJSON = `{
	"streams": [{"codec_type": "audio"}],
	"format": {"duration": "180.00"}
}`

// deliveryRecord captures one webhook attempt.
type deliveryRecord struct {
	url    string
	result models.JobResult
}

type testHarness struct {
	pipeline   *Pipeline
	toolchain  *fakeToolchain
	deliverErr error
	delivered  []deliveryRecord
	deliveryFS string
	archiveFS  string
}

func newHarness(t *testing.T, probeJSON string) *testHarness {
	t.Helper()
	h := &testHarness{
		toolchain:  &fakeToolchain{probeJSON: probeJSON},
		deliveryFS: t.TempDir(),
		archiveFS:  t.TempDir(),
	}
	enc := &encode.Encoder{Runner: h.toolchain, FFmpegBin: "ffmpeg", AudiowaveformBin: "audiowaveform"}
	p := New(enc, "ffprobe", t.TempDir())
	p.Deliver = func(ctx context.Context, url, secret string, result models.JobResult) error {
		h.delivered = append(h.delivered, deliveryRecord{url: url, result: result})
		return h.deliverErr
	}
	h.pipeline = p
	return h
}

func (h *testHarness) job(mediaType models.MediaType, inputKey string) models.Job {
	return models.Job{
		MediaID:       "m1",
		CreatorID:     "c1",
		Type:          mediaType,
		InputKey:      inputKey,
		WebhookURL:    "https://example.com/hook",
		WebhookSecret: "secret",
		Delivery:      models.StoreConfig{Provider: "fs", BaseDir: h.deliveryFS},
		Archive:       models.StoreConfig{Provider: "fs", BaseDir: h.archiveFS},
	}
}

func (h *testHarness) putInput(t *testing.T, key string) {
	t.Helper()
	path := filepath.Join(h.deliveryFS, filepath.FromSlash(key))
	if err := touch(path); err != nil {
		t.Fatal(err)
	}
}

func deliveredObject(t *testing.T, base, key string) {
	t.Helper()
	if _, err := os.Stat(filepath.Join(base, filepath.FromSlash(key))); err != nil {
		t.Errorf("Expected published object %s: %v", key, err)
	}
}

func TestRunVideoJob(t *testing.T) {
	h := newHarness(t, videoProbeJSON)
	h.putInput(t, "c1/uploads/m1/source.mp4")

	result, err := h.pipeline.Run(context.Background(), h.job(models.MediaTypeVideo, "c1/uploads/m1/source.mp4"))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.Status != models.StatusCompleted || result.MediaID != "m1" {
		t.Errorf("Unexpected result envelope: %+v", result)
	}
	if result.HLSMasterPlaylistKey == nil || *result.HLSMasterPlaylistKey != "c1/hls/m1/master.m3u8" {
		t.Errorf("Unexpected master playlist key: %v", result.HLSMasterPlaylistKey)
	}
	if result.HLSPreviewKey == nil || *result.HLSPreviewKey != "c1/hls/m1/preview/preview.m3u8" {
		t.Errorf("Unexpected preview key: %v", result.HLSPreviewKey)
	}
	if result.MezzanineKey == nil || *result.MezzanineKey != "c1/mezzanine/m1/mezzanine.mp4" {
		t.Errorf("Unexpected mezzanine key: %v", result.MezzanineKey)
	}
	if result.ThumbnailKey == nil || *result.ThumbnailKey != "c1/thumbnails/m1/auto-generated.jpg" {
		t.Errorf("Unexpected thumbnail key: %v", result.ThumbnailKey)
	}
	if result.WaveformKey != nil || result.WaveformImageKey != nil {
		t.Error("Video jobs must not produce waveform artifacts")
	}
	if result.DurationSeconds == nil || *result.DurationSeconds != 300 {
		t.Errorf("Unexpected duration: %v", result.DurationSeconds)
	}
	if result.Height == nil || *result.Height != 720 {
		t.Errorf("Unexpected height: %v", result.Height)
	}

	// 1080p is above the 720p source and must be skipped.
	want := []string{"720p", "480p", "360p"}
	if len(result.ReadyVariants) != len(want) {
		t.Fatalf("Unexpected variants: %v", result.ReadyVariants)
	}
	for i := range want {
		if result.ReadyVariants[i] != want[i] {
			t.Errorf("Variant %d: expected %s, got %s", i, want[i], result.ReadyVariants[i])
		}
	}

	deliveredObject(t, h.deliveryFS, "c1/hls/m1/master.m3u8")
	deliveredObject(t, h.deliveryFS, "c1/hls/m1/720p/index.m3u8")
	deliveredObject(t, h.deliveryFS, "c1/hls/m1/preview/preview.m3u8")
	deliveredObject(t, h.deliveryFS, "c1/thumbnails/m1/auto-generated.jpg")
	deliveredObject(t, h.archiveFS, "c1/mezzanine/m1/mezzanine.mp4")

	if len(h.delivered) != 1 {
		t.Fatalf("Expected exactly one webhook delivery, got %d", len(h.delivered))
	}
	if h.delivered[0].result.Status != models.StatusCompleted {
		t.Errorf("Unexpected delivered status: %s", h.delivered[0].result.Status)
	}
}

func TestRunAudioJob(t *testing.T) {
	h := newHarness(t, audioProbeJSON)
	h.putInput(t, "c1/uploads/m1/source.flac")

	result, err := h.pipeline.Run(context.Background(), h.job(models.MediaTypeAudio, "c1/uploads/m1/source.flac"))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.MezzanineKey != nil || result.ThumbnailKey != nil || result.HLSPreviewKey != nil {
		t.Errorf("Audio jobs must not produce video artifacts: %+v", result)
	}
	if result.WaveformKey == nil || *result.WaveformKey != "c1/waveforms/m1/waveform.json" {
		t.Errorf("Unexpected waveform key: %v", result.WaveformKey)
	}
	if result.WaveformImageKey == nil || *result.WaveformImageKey != "c1/waveforms/m1/waveform.png" {
		t.Errorf("Unexpected waveform image key: %v", result.WaveformImageKey)
	}
	if result.Width != nil || result.Height != nil {
		t.Error("Audio jobs must not report dimensions")
	}
	if len(result.ReadyVariants) != 2 || result.ReadyVariants[0] != "128k" {
		t.Errorf("Unexpected audio variants: %v", result.ReadyVariants)
	}

	deliveredObject(t, h.deliveryFS, "c1/waveforms/m1/waveform.json")
	deliveredObject(t, h.deliveryFS, "c1/waveforms/m1/waveform.png")
}

func TestRunDownloadFailure(t *testing.T) {
	h := newHarness(t, videoProbeJSON)
	// no input object staged

	result, err := h.pipeline.Run(context.Background(), h.job(models.MediaTypeVideo, "c1/uploads/m1/source.mp4"))
	if err == nil {
		t.Fatal("Expected run to fail on missing input")
	}
	var dlErr *storage.DownloadError
	if !errors.As(err, &dlErr) {
		t.Errorf("Expected download error, got %v", err)
	}

	if result.Status != models.StatusFailed || result.Error == nil {
		t.Errorf("Unexpected failure payload: %+v", result)
	}
	if result.HLSMasterPlaylistKey != nil || result.MezzanineKey != nil {
		t.Error("Failure payload must carry null artifact keys")
	}
	if len(h.delivered) != 1 || h.delivered[0].result.Status != models.StatusFailed {
		t.Fatalf("Expected exactly one failure webhook, got %+v", h.delivered)
	}
}

func TestRunEncodeFailure(t *testing.T) {
	h := newHarness(t, videoProbeJSON)
	h.toolchain.failOn = "480p"
	h.putInput(t, "c1/uploads/m1/source.mp4")

	_, err := h.pipeline.Run(context.Background(), h.job(models.MediaTypeVideo, "c1/uploads/m1/source.mp4"))
	var encErr *encode.Error
	if !errors.As(err, &encErr) || encErr.Variant != "480p" {
		t.Fatalf("Expected 480p encode error, got %v", err)
	}
	if len(h.delivered) != 1 || h.delivered[0].result.Status != models.StatusFailed {
		t.Fatalf("Expected exactly one failure webhook, got %d", len(h.delivered))
	}
}

func TestRunFailureWebhookErrorSwallowed(t *testing.T) {
	h := newHarness(t, videoProbeJSON)
	h.deliverErr = errors.New("endpoint down")
	// missing input makes the job itself fail first

	_, err := h.pipeline.Run(context.Background(), h.job(models.MediaTypeVideo, "c1/uploads/m1/source.mp4"))
	var dlErr *storage.DownloadError
	if !errors.As(err, &dlErr) {
		t.Errorf("Delivery error must not mask the job's own failure, got %v", err)
	}
}

func TestRunSuccessWebhookErrorReturned(t *testing.T) {
	h := newHarness(t, videoProbeJSON)
	h.deliverErr = errors.New("endpoint down")
	h.putInput(t, "c1/uploads/m1/source.mp4")

	result, err := h.pipeline.Run(context.Background(), h.job(models.MediaTypeVideo, "c1/uploads/m1/source.mp4"))
	if err == nil {
		t.Fatal("Expected undelivered completion webhook to surface as an error")
	}
	if result.Status != models.StatusCompleted {
		t.Errorf("Completed result must still be returned, got %+v", result)
	}
	if len(h.delivered) != 1 {
		t.Errorf("Expected exactly one delivery attempt, got %d", len(h.delivered))
	}
}

func TestRunCleansWorkspace(t *testing.T) {
	h := newHarness(t, videoProbeJSON)
	h.putInput(t, "c1/uploads/m1/source.mp4")
	workRoot := h.pipeline.WorkDirRoot

	if _, err := h.pipeline.Run(context.Background(), h.job(models.MediaTypeVideo, "c1/uploads/m1/source.mp4")); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	entries, err := os.ReadDir(workRoot)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("Workspace not released: %v", entries)
	}
}

func TestRunCleansWorkspaceOnFailure(t *testing.T) {
	h := newHarness(t, videoProbeJSON)
	h.toolchain.failOn = "mezzanine"
	h.putInput(t, "c1/uploads/m1/source.mp4")
	workRoot := h.pipeline.WorkDirRoot

	if _, err := h.pipeline.Run(context.Background(), h.job(models.MediaTypeVideo, "c1/uploads/m1/source.mp4")); err == nil {
		t.Fatal("Expected run to fail")
	}

	entries, err := os.ReadDir(workRoot)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("Workspace not released after failure: %v", entries)
	}
}

func TestRunShortVideoSkipsNothingApplicable(t *testing.T) {
	const shortProbe = `{
		"streams": [{"codec_type": "video", "width": 426, "height": 240}],
		"format": {"duration": "5.00"}
	}`
	h := newHarness(t, shortProbe)
	h.putInput(t, "c1/uploads/m1/source.mp4")

	result, err := h.pipeline.Run(context.Background(), h.job(models.MediaTypeVideo, "c1/uploads/m1/source.mp4"))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	// every ladder entry is above a 240p source
	if len(result.ReadyVariants) != 0 {
		t.Errorf("Expected no renditions for 240p source, got %v", result.ReadyVariants)
	}
	if result.HLSMasterPlaylistKey == nil {
		t.Error("Master playlist is still published for an empty ladder")
	}
	if result.HLSPreviewKey == nil || result.ThumbnailKey == nil {
		t.Error("Preview and thumbnail still apply to short sources")
	}
}
