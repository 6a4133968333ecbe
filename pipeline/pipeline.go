// Package pipeline owns the job lifecycle: it sequences download, probe,
// encode, publish and notify against external tools and storage, isolates
// stage failures, guarantees exactly one terminal notification, and always
// releases the job workspace.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"vodforge/encode"
	"vodforge/logger"
	"vodforge/models"
	"vodforge/probe"
	"vodforge/storage"
	"vodforge/webhook"
)

// Pipeline runs one job per Run call. Stages execute strictly sequentially;
// the only intra-job concurrency is the file fan-out inside directory upload.
type Pipeline struct {
	Encoder     *encode.Encoder
	FFprobeBin  string
	WorkDirRoot string
	VideoLadder []models.RenditionSpec
	AudioLadder []models.RenditionSpec

	// Injection points for tests.
	NewStore func(models.StoreConfig) (storage.Store, error)
	Deliver  func(ctx context.Context, url, secret string, result models.JobResult) error
}

// New builds a pipeline with the default store factory and webhook delivery.
func New(enc *encode.Encoder, ffprobeBin, workDirRoot string) *Pipeline {
	return &Pipeline{
		Encoder:     enc,
		FFprobeBin:  ffprobeBin,
		WorkDirRoot: workDirRoot,
		VideoLadder: encode.VideoLadder,
		AudioLadder: encode.AudioLadder,
		NewStore:    storage.New,
		Deliver:     webhook.Deliver,
	}
}

// Run executes the whole stage sequence for one job and returns the final
// result alongside the terminal error. The webhook is attempted exactly once
// on success; on failure the failure payload is attempted once more, and a
// delivery error there never masks the job's own error. The scoped workspace
// is released on every exit path.
func (p *Pipeline) Run(ctx context.Context, job models.Job) (models.JobResult, error) {
	logger.Infof("Starting %s job for media %s", job.Type, job.MediaID)

	workDir, err := os.MkdirTemp(p.WorkDirRoot, "vodforge_")
	if err != nil {
		return p.notifyFailure(ctx, job, fmt.Errorf("create workspace: %w", err))
	}
	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			logger.Errorf("Failed to remove workspace %s: %v", workDir, err)
		}
	}()

	result, err := p.execute(ctx, job, workDir)
	if err != nil {
		p.advance(job, StateFailed)
		logger.Errorf("Job %s failed: %v", job.MediaID, err)
		return p.notifyFailure(ctx, job, err)
	}

	p.advance(job, StateNotifying)
	if err := p.Deliver(ctx, job.WebhookURL, job.WebhookSecret, result); err != nil {
		logger.Errorf("Job %s: completion webhook not delivered: %v", job.MediaID, err)
		return result, err
	}

	p.advance(job, StateDone)
	return result, nil
}

// notifyFailure attempts the single failure notification. Its own delivery
// error is logged and swallowed so the job's root cause is what callers see.
func (p *Pipeline) notifyFailure(ctx context.Context, job models.Job, cause error) (models.JobResult, error) {
	result := models.FailedResult(job.MediaID, cause)
	if err := p.Deliver(ctx, job.WebhookURL, job.WebhookSecret, result); err != nil {
		logger.Errorf("Job %s: failure webhook not delivered: %v", job.MediaID, err)
	}
	return result, cause
}

// execute runs every stage up to (not including) notification and builds the
// completed result. The first stage error aborts the rest of the sequence.
func (p *Pipeline) execute(ctx context.Context, job models.Job, workDir string) (models.JobResult, error) {
	deliveryStore, err := p.NewStore(job.Delivery)
	if err != nil {
		return models.JobResult{}, fmt.Errorf("delivery store: %w", err)
	}
	var archiveStore storage.Store
	if job.Type == models.MediaTypeVideo {
		if archiveStore, err = p.NewStore(job.Archive); err != nil {
			return models.JobResult{}, fmt.Errorf("archival store: %w", err)
		}
	}

	p.advance(job, StateDownloading)
	inputExt := path.Ext(job.InputKey)
	if inputExt == "" {
		inputExt = ".mp4"
	}
	inputPath := filepath.Join(workDir, "input"+inputExt)
	if err := storage.Download(ctx, deliveryStore, job.InputKey, inputPath); err != nil {
		return models.JobResult{}, err
	}

	p.advance(job, StateProbing)
	info, err := probe.Probe(ctx, p.Encoder.Runner, p.FFprobeBin, inputPath)
	if err != nil {
		return models.JobResult{}, err
	}

	// Capability is computed once and read-only for the rest of the job.
	prof := encode.SelectProfile(p.Encoder.DetectHardware(ctx))
	logger.Infof("Job %s using %s encode profile", job.MediaID, prof.Name)

	var mezzKey *string
	if job.Type == models.MediaTypeVideo {
		p.advance(job, StateEncodingArchival)
		mezzaninePath := filepath.Join(workDir, "mezzanine.mp4")
		if err := p.Encoder.Mezzanine(ctx, inputPath, mezzaninePath, prof); err != nil {
			return models.JobResult{}, err
		}
		key := mezzanineKey(job.CreatorID, job.MediaID)
		if err := storage.UploadFile(ctx, archiveStore, mezzaninePath, key); err != nil {
			return models.JobResult{}, err
		}
		mezzKey = &key
	}

	p.advance(job, StateAnalyzingLoudness)
	loud := p.Encoder.AnalyzeLoudness(ctx, inputPath)

	p.advance(job, StateEncodingLadder)
	hlsDir := filepath.Join(workDir, "hls")
	if err := os.MkdirAll(hlsDir, 0755); err != nil {
		return models.JobResult{}, fmt.Errorf("create hls dir: %w", err)
	}
	ladder := p.AudioLadder
	if job.Type == models.MediaTypeVideo {
		ladder = p.VideoLadder
	}
	ready, err := p.Encoder.EncodeLadder(ctx, inputPath, hlsDir, ladder, info.Height, prof, loud)
	if err != nil {
		return models.JobResult{}, err
	}

	p.advance(job, StateGeneratingAuxiliary)
	var previewGenerated, thumbnailGenerated bool
	thumbnailPath := filepath.Join(workDir, "thumbnail.jpg")
	waveformJSONPath := filepath.Join(workDir, "waveform.json")
	waveformPNGPath := filepath.Join(workDir, "waveform.png")
	switch {
	case job.Type == models.MediaTypeVideo && info.DurationSeconds > 0:
		previewDir := filepath.Join(hlsDir, "preview")
		if err := p.Encoder.Preview(ctx, inputPath, previewDir, info.DurationSeconds, prof, loud); err != nil {
			return models.JobResult{}, err
		}
		previewGenerated = true
		if err := p.Encoder.Thumbnail(ctx, inputPath, thumbnailPath, info.DurationSeconds); err != nil {
			return models.JobResult{}, err
		}
		thumbnailGenerated = true
	case job.Type == models.MediaTypeAudio:
		if err := p.Encoder.Waveform(ctx, inputPath, waveformJSONPath, waveformPNGPath); err != nil {
			return models.JobResult{}, err
		}
	}

	p.advance(job, StatePublishing)
	prefix := hlsPrefix(job.CreatorID, job.MediaID)
	if err := storage.UploadDir(ctx, deliveryStore, hlsDir, prefix); err != nil {
		return models.JobResult{}, err
	}
	masterKey := prefix + "master.m3u8"

	result := models.JobResult{
		Status:               models.StatusCompleted,
		MediaID:              job.MediaID,
		HLSMasterPlaylistKey: &masterKey,
		MezzanineKey:         mezzKey,
		DurationSeconds:      &info.DurationSeconds,
		Width:                info.Width,
		Height:               info.Height,
		ReadyVariants:        ready,
	}

	if previewGenerated {
		previewKey := prefix + "preview/preview.m3u8"
		result.HLSPreviewKey = &previewKey
	}
	if thumbnailGenerated {
		key := thumbnailKey(job.CreatorID, job.MediaID)
		if err := storage.UploadFile(ctx, deliveryStore, thumbnailPath, key); err != nil {
			return models.JobResult{}, err
		}
		result.ThumbnailKey = &key
	}
	if job.Type == models.MediaTypeAudio {
		wfKey := waveformKey(job.CreatorID, job.MediaID)
		wfImgKey := waveformImageKey(job.CreatorID, job.MediaID)
		if err := storage.UploadFile(ctx, deliveryStore, waveformJSONPath, wfKey); err != nil {
			return models.JobResult{}, err
		}
		if err := storage.UploadFile(ctx, deliveryStore, waveformPNGPath, wfImgKey); err != nil {
			return models.JobResult{}, err
		}
		result.WaveformKey = &wfKey
		result.WaveformImageKey = &wfImgKey
	}

	return result, nil
}

func (p *Pipeline) advance(job models.Job, state State) {
	logger.Infof("Job %s: %s", job.MediaID, state)
}
