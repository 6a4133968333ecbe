package models

import "fmt"

// MediaType selects the pipeline shape: video jobs get a mezzanine, preview
// and thumbnail; audio jobs get a waveform instead.
type MediaType string

const (
	MediaTypeVideo MediaType = "video"
	MediaTypeAudio MediaType = "audio"
)

// StoreConfig describes one object-store destination. Provider defaults to
// "s3" (any S3-compatible endpoint); "gcs", "sftp" and "fs" are also accepted.
// CredentialsRef, when set, names a server-side credential record that is
// merged into the config before the job starts.
type StoreConfig struct {
	Provider string `json:"provider,omitempty"`

	// S3-compatible (R2, B2, minio, ...)
	Endpoint        string `json:"endpoint,omitempty"`
	AccessKeyID     string `json:"accessKeyId,omitempty"`
	SecretAccessKey string `json:"secretAccessKey,omitempty"`
	Region          string `json:"region,omitempty"`
	Bucket          string `json:"bucket,omitempty"`

	// GCS
	CredentialsJSON string `json:"credentialsJson,omitempty"`

	// SFTP
	Host       string `json:"host,omitempty"`
	Port       string `json:"port,omitempty"`
	User       string `json:"user,omitempty"`
	Password   string `json:"password,omitempty"`
	PrivateKey string `json:"privateKey,omitempty"`

	// Local filesystem (fs provider, also used by tests)
	BaseDir string `json:"baseDir,omitempty"`

	CredentialsRef string `json:"credentialsRef,omitempty"`
}

// Job is the immutable description of one transcoding invocation. It is
// created from the submission token, validated once at the boundary, and
// never persisted beyond the terminal notification.
type Job struct {
	MediaID       string      `json:"mediaId"`
	CreatorID     string      `json:"creatorId"`
	Type          MediaType   `json:"type"`
	InputKey      string      `json:"inputKey"`
	WebhookURL    string      `json:"webhookUrl"`
	WebhookSecret string      `json:"webhookSecret"`
	Delivery      StoreConfig `json:"delivery"`
	Archive       StoreConfig `json:"archive"`
}

// Validate checks the required fields before the pipeline starts.
func (j Job) Validate() error {
	switch {
	case j.MediaID == "":
		return fmt.Errorf("job missing mediaId")
	case j.CreatorID == "":
		return fmt.Errorf("job missing creatorId")
	case j.InputKey == "":
		return fmt.Errorf("job missing inputKey")
	case j.WebhookURL == "":
		return fmt.Errorf("job missing webhookUrl")
	case j.WebhookSecret == "":
		return fmt.Errorf("job missing webhookSecret")
	}
	if j.Type != MediaTypeVideo && j.Type != MediaTypeAudio {
		return fmt.Errorf("job has unknown media type %q", j.Type)
	}
	return nil
}

// MediaInfo is derived once from probing. Width and Height are nil for
// audio-only sources.
type MediaInfo struct {
	DurationSeconds int
	Width           *int
	Height          *int
}

// LoudnessParams holds the measured loudness of the source, fed back into
// the loudnorm filter of every rendition and preview encode.
type LoudnessParams struct {
	InputI   float64 // integrated loudness, LUFS
	InputTP  float64 // true peak, dBTP
	InputLRA float64 // loudness range, LU
}

// DefaultLoudness is used whenever the measurement pass cannot be parsed.
func DefaultLoudness() LoudnessParams {
	return LoudnessParams{InputI: -16, InputTP: -1, InputLRA: 7}
}

// RenditionSpec is one entry of a rendition ladder. Height and
// VideoBitrateKbps are zero for audio-only renditions.
type RenditionSpec struct {
	Name             string
	Height           int
	VideoBitrateKbps int
	AudioBitrateKbps int
}
