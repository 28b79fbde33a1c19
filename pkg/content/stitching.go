// Package content supplies the bundled tutorial step sequences.
package content

import "github.com/vanderheijden86/stitchwork/pkg/model"

// Image handles for the stitching tutorial illustrations.
const (
	ImageGather   model.ImageHandle = "stitching/gather"
	ImageThread   model.ImageHandle = "stitching/thread"
	ImageDrawLine model.ImageHandle = "stitching/draw-line"
	ImageStitch   model.ImageHandle = "stitching/stitch"
	ImageTieOff   model.ImageHandle = "stitching/tie-off"
	ImageCut      model.ImageHandle = "stitching/cut"
	ImageDone     model.ImageHandle = "stitching/done"
)

// StitchingID identifies the stitching tutorial.
const StitchingID = "stitching"

// Stitching returns the stitching master class. Each call returns a fresh
// copy, so callers may not affect one another.
func Stitching() model.Tutorial {
	steps := []model.Step{
		{
			DisplayText: "Gather your materials",
			Description: "Collect fabric, thread, a needle, and scissors.",
			Image:       ImageGather,
			VoiceNote:   "Gather your materials. Collect fabric, thread, a needle, and scissors.",
			BannerText:  "Gather your materials",
		},
		{
			DisplayText: "Thread the needle",
			Description: "Pass the thread through and knot the end.",
			Image:       ImageThread,
			VoiceNote:   "Thread the needle. Pass the thread through and knot the end.",
			BannerText:  "Thread the needle",
		},
		{
			DisplayText: "Draw a stitching line",
			Description: "Use a pencil or chalk to draw a line as a guide.",
			Image:       ImageDrawLine,
			VoiceNote:   "Draw a stitching line. Use a pencil or chalk to draw a line as a guide.",
			BannerText:  "Draw a stitching line",
		},
		{
			DisplayText: "Start stitching on drawn line",
			Description: "Push the needle through fabric and follow the line.",
			Image:       ImageStitch,
			VoiceNote:   "Start stitching on drawn line. Push the needle through fabric and follow the line.",
			BannerText:  "Start stitching on drawn line",
		},
		{
			DisplayText: "Once done, tie off the thread.",
			Description: "Make a small knot at the end to secure stitches.",
			Image:       ImageTieOff,
			VoiceNote:   "Once done, tie off the thread. Make a small knot at the end to secure stitches.",
			BannerText:  "Once done, tie off the thread.",
		},
		{
			DisplayText: "Cut the thread",
			Description: "Use scissors to trim any extra thread carefully.",
			Image:       ImageCut,
			VoiceNote:   "Cut the thread. Use scissors to trim any extra thread carefully.",
			BannerText:  "Cut the thread",
		},
		{
			DisplayText: "Done! Great job!",
			Description: "You did it! Keep practicing to improve your skills!",
			Image:       ImageDone,
			VoiceNote:   "Done! Great job! Keep practicing to improve your skills!",
			BannerText:  "Done! Great job!",
		},
	}

	return model.Tutorial{
		ID:       StitchingID,
		Title:    "Stitching Master Class",
		Name:     "Stitching Master",
		Subtitle: "Start Training →",
		Icon:     "🧵",
		Steps:    steps,
	}
}
