package video

import (
	"fmt"
	"os"

	"gocv.io/x/gocv"
)

// Validate opens path, extracts container metadata, and sanity-checks it
// against the package limits. The capture handle is released before
// returning on every path; Validate never writes.
//
// Every failure mode here means the input itself is unusable, so callers
// treat any error from Validate as terminal for the job (not retried).
func Validate(path string) (Metadata, error) {
	var md Metadata

	fi, err := os.Stat(path)
	if err != nil {
		return md, fmt.Errorf("video file not found: %s", path)
	}
	if fi.Size() == 0 {
		return md, fmt.Errorf("video file is empty (0 bytes): %s", path)
	}
	md.FileSizeMB = float64(fi.Size()) / (1024 * 1024)
	if md.FileSizeMB > MaxFileSizeMB {
		return md, fmt.Errorf("video file too large: %.2fMB (max: %dMB)", md.FileSizeMB, MaxFileSizeMB)
	}

	cap, err := gocv.OpenVideoCapture(path)
	if err != nil || !cap.IsOpened() {
		if cap != nil {
			cap.Close()
		}
		return md, fmt.Errorf("cannot open video file (corrupt or unsupported format): %s", path)
	}

	md.FPS = cap.Get(gocv.VideoCaptureFPS)
	md.FrameCount = int(cap.Get(gocv.VideoCaptureFrameCount))
	md.Width = int(cap.Get(gocv.VideoCaptureFrameWidth))
	md.Height = int(cap.Get(gocv.VideoCaptureFrameHeight))
	cap.Close()

	return md, checkMetadata(&md)
}

// checkMetadata validates decoded properties and computes the duration.
// Split from Validate so property checks are testable without a real file.
func checkMetadata(md *Metadata) error {
	if md.FPS <= 0 || md.FPS > MaxFrameRate {
		return fmt.Errorf("invalid frame rate: %.2f", md.FPS)
	}
	if md.FrameCount <= 0 {
		return fmt.Errorf("video has no frames")
	}
	if md.Width <= 0 || md.Height <= 0 {
		return fmt.Errorf("invalid resolution: %dx%d", md.Width, md.Height)
	}

	md.Duration = float64(md.FrameCount) / md.FPS
	if md.Duration > MaxVideoDurationSeconds {
		return fmt.Errorf("video too long: %.2fs (max: %ds)", md.Duration, MaxVideoDurationSeconds)
	}
	return nil
}
