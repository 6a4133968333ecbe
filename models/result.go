package models

import "unicode/utf8"

// Job result statuses reported to the webhook.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// MaxErrorBytes caps the error text in a failure payload.
const MaxErrorBytes = 2000

// JobResult is the webhook payload. Key fields are nil whenever the artifact
// does not apply to the media type or was not reached before a failure.
type JobResult struct {
	Status               string   `json:"status"`
	MediaID              string   `json:"mediaId"`
	HLSMasterPlaylistKey *string  `json:"hlsMasterPlaylistKey"`
	HLSPreviewKey        *string  `json:"hlsPreviewKey"`
	ThumbnailKey         *string  `json:"thumbnailKey"`
	WaveformKey          *string  `json:"waveformKey"`
	WaveformImageKey     *string  `json:"waveformImageKey"`
	MezzanineKey         *string  `json:"mezzanineKey"`
	DurationSeconds      *int     `json:"durationSeconds"`
	Width                *int     `json:"width"`
	Height               *int     `json:"height"`
	ReadyVariants        []string `json:"readyVariants"`
	Error                *string  `json:"error"`
}

// FailedResult builds the all-null failure payload for a job, truncating the
// error text to at most MaxErrorBytes without splitting a UTF-8 sequence.
func FailedResult(mediaID string, err error) JobResult {
	msg := err.Error()
	if len(msg) > MaxErrorBytes {
		cut := MaxErrorBytes
		for cut > 0 && !utf8.RuneStart(msg[cut]) {
			cut--
		}
		msg = msg[:cut]
	}
	return JobResult{
		Status:        StatusFailed,
		MediaID:       mediaID,
		ReadyVariants: []string{},
		Error:         &msg,
	}
}
