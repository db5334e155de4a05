// Package overlay renders the detected skeleton and a diagnostic caption
// onto decoded frames. Rendering is best-effort: a failure here must never
// cost the pipeline a frame.
package overlay

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/backmassage/movetrace/internal/pose"
)

// visibilityThreshold gates drawing of individual landmarks: points the
// model barely saw just add noise to the output video.
const visibilityThreshold = 0.5

var (
	boneColor     = color.RGBA{R: 230, G: 230, B: 230, A: 0}
	jointColor    = color.RGBA{R: 0, G: 138, B: 255, A: 0}
	detectedColor = color.RGBA{R: 0, G: 255, B: 0, A: 0}
	missedColor   = color.RGBA{R: 255, G: 0, B: 0, A: 0}
)

// DrawSkeleton renders sk onto frame. Landmark coordinates are normalized;
// they may fall slightly outside the frame, which OpenCV clips silently.
func DrawSkeleton(frame *gocv.Mat, sk *pose.Skeleton) error {
	if frame == nil || frame.Empty() {
		return fmt.Errorf("draw skeleton: empty frame")
	}

	w := frame.Cols()
	h := frame.Rows()

	for _, conn := range pose.Connections {
		a := sk.Landmarks[conn[0]]
		b := sk.Landmarks[conn[1]]
		if a.Visibility < visibilityThreshold || b.Visibility < visibilityThreshold {
			continue
		}
		gocv.Line(frame, toPixel(a, w, h), toPixel(b, w, h), boneColor, 2)
	}

	for i := range sk.Landmarks {
		lm := sk.Landmarks[i]
		if lm.Visibility < visibilityThreshold {
			continue
		}
		gocv.Circle(frame, toPixel(lm, w, h), 4, jointColor, -1)
	}
	return nil
}

// DrawCaption writes the per-frame status line in the top-left corner:
// frame position and whether a skeleton was detected. Always applied, even
// on frames where analysis failed.
func DrawCaption(frame *gocv.Mat, index, total int, detected bool) {
	if frame == nil || frame.Empty() {
		return
	}

	status := "NO POSE"
	c := missedColor
	if detected {
		status = "DETECTED"
		c = detectedColor
	}

	text := fmt.Sprintf("Frame: %d/%d | %s", index, total, status)
	gocv.PutText(frame, text, image.Pt(10, 30), gocv.FontHersheySimplex, 0.6, c, 2)
}

func toPixel(lm pose.Landmark, w, h int) image.Point {
	return image.Pt(int(lm.X*float64(w)), int(lm.Y*float64(h)))
}
