package encode

import "strconv"

// Encode quality targets. Delivery renditions aim at streaming quality,
// the mezzanine at visually lossless archival quality.
const (
	deliveryQuality = 23
	archivalQuality = 18
)

// Profile is the encoder-argument template selected once per job by the
// capability check and applied uniformly by every video encode stage.
type Profile struct {
	Name           string
	InputArgs      []string // args placed before -i (hwaccel)
	Codec          string
	QualityFlag    string // -cq for nvenc, -crf for x264
	DeliveryPreset string
	ArchivalPreset string
}

// SelectProfile returns the hardware template when the NVENC encoder is
// usable on this host, otherwise the software fallback.
func SelectProfile(useHardware bool) Profile {
	if useHardware {
		return Profile{
			Name:           "nvenc",
			InputArgs:      []string{"-hwaccel", "cuda"},
			Codec:          "h264_nvenc",
			QualityFlag:    "-cq",
			DeliveryPreset: "p4",
			ArchivalPreset: "p4",
		}
	}
	return Profile{
		Name:           "x264",
		Codec:          "libx264",
		QualityFlag:    "-crf",
		DeliveryPreset: "fast",
		ArchivalPreset: "slow",
	}
}

// videoArgs returns the codec/preset/quality argument block.
func (p Profile) videoArgs(preset string, quality int) []string {
	return []string{"-c:v", p.Codec, "-preset", preset, p.QualityFlag, strconv.Itoa(quality)}
}
