package pipeline

import "fmt"

// Object key layout: creator-scoped, then artifact kind, then media.

func mezzanineKey(creatorID, mediaID string) string {
	return fmt.Sprintf("%s/mezzanine/%s/mezzanine.mp4", creatorID, mediaID)
}

func hlsPrefix(creatorID, mediaID string) string {
	return fmt.Sprintf("%s/hls/%s/", creatorID, mediaID)
}

func thumbnailKey(creatorID, mediaID string) string {
	return fmt.Sprintf("%s/thumbnails/%s/auto-generated.jpg", creatorID, mediaID)
}

func waveformKey(creatorID, mediaID string) string {
	return fmt.Sprintf("%s/waveforms/%s/waveform.json", creatorID, mediaID)
}

func waveformImageKey(creatorID, mediaID string) string {
	return fmt.Sprintf("%s/waveforms/%s/waveform.png", creatorID, mediaID)
}
