// Package video wraps OpenCV capture and writer handles behind small
// Source/Sink interfaces, validates container metadata before any heavy
// work begins, and negotiates a working output codec.
package video

import (
	"fmt"

	"gocv.io/x/gocv"
)

// Resource limits enforced by Validate. Oversized or overlong input is
// rejected up front to bound the per-job resource envelope.
const (
	MaxVideoDurationSeconds = 600 // 10 minutes.
	MaxFileSizeMB           = 500
	MaxFrameRate            = 240
)

// Metadata holds container properties read once per job by Validate and
// immutable thereafter.
type Metadata struct {
	FPS        float64
	FrameCount int
	Width      int
	Height     int
	Duration   float64 // Seconds: FrameCount / FPS.
	FileSizeMB float64
}

// Resolution returns "WxH" for log output.
func (m Metadata) Resolution() string {
	return fmt.Sprintf("%dx%d", m.Width, m.Height)
}

// Source is a decode handle over an opened video. Read fills dst with the
// next frame and reports false at end of stream. The owning job must Close
// it on every exit path.
type Source interface {
	Read(dst *gocv.Mat) bool
	Close() error
}

// Sink is an encode handle over an opened output stream. Frames must match
// the dimensions the sink was opened with.
type Sink interface {
	Write(frame gocv.Mat) error
	Close() error
}

// OpenSource opens a decode handle. The path is assumed to have passed
// Validate already; failure here is still possible (e.g. file replaced
// between validation and open).
func OpenSource(path string) (Source, error) {
	cap, err := gocv.OpenVideoCapture(path)
	if err != nil {
		return nil, fmt.Errorf("open video source %s: %w", path, err)
	}
	if !cap.IsOpened() {
		cap.Close()
		return nil, fmt.Errorf("open video source %s: capture not opened", path)
	}
	return &captureSource{cap: cap}, nil
}

type captureSource struct {
	cap    *gocv.VideoCapture
	closed bool
}

func (s *captureSource) Read(dst *gocv.Mat) bool {
	if s.closed {
		return false
	}
	return s.cap.Read(dst)
}

// Close is idempotent: the pipeline releases handles explicitly before
// artifact verification and again via defer on error paths.
func (s *captureSource) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.cap.Close()
}

// OpenSink opens an encode handle with a fixed frame size. May fail when
// the codec is unsupported on the host; callers are expected to have run
// codec negotiation first.
func OpenSink(path, codec string, fps float64, width, height int) (Sink, error) {
	w, err := gocv.VideoWriterFile(path, codec, fps, width, height, true)
	if err != nil {
		return nil, fmt.Errorf("open video writer %s (%s): %w", path, codec, err)
	}
	if !w.IsOpened() {
		w.Close()
		return nil, fmt.Errorf("open video writer %s: codec %s not supported", path, codec)
	}
	return &writerSink{w: w}, nil
}

type writerSink struct {
	w      *gocv.VideoWriter
	closed bool
}

func (s *writerSink) Write(frame gocv.Mat) error {
	if s.closed {
		return fmt.Errorf("write to closed video sink")
	}
	return s.w.Write(frame)
}

// Close is idempotent, matching captureSource.
func (s *writerSink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.w.Close()
}
