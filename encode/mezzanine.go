package encode

import "context"

// Mezzanine produces the archival-quality encode of a video source: CRF 18
// equivalent video, fixed 256k AAC audio. Audio jobs never reach this stage.
func (e *Encoder) Mezzanine(ctx context.Context, input, output string, prof Profile) error {
	var args []string
	args = append(args, "-y")
	args = append(args, prof.InputArgs...)
	args = append(args, "-i", input)
	args = append(args, prof.videoArgs(prof.ArchivalPreset, archivalQuality)...)
	args = append(args, "-c:a", "aac", "-b:a", "256k", output)

	if _, err := e.Runner.Run(ctx, e.FFmpegBin, args, mezzanineTimeout); err != nil {
		return &Error{Stage: "mezzanine", Err: err}
	}
	return nil
}
