package video

import (
	"os"
	"path/filepath"
	"strings"

	"gocv.io/x/gocv"
)

// Candidate pairs a fourcc encoder identifier with its container extension.
type Candidate struct {
	Codec string
	Ext   string
}

// CodecPreferences is tried in order: MP4-interoperable encoders first,
// then AVI-compatible fallbacks. Exported for the --check diagnostics.
var CodecPreferences = []Candidate{
	{"mp4v", ".mp4"}, // MPEG-4 part 2; most widely available.
	{"avc1", ".mp4"}, // H.264.
	{"XVID", ".avi"},
	{"MJPG", ".avi"},
}

// codecFallback is used when no candidate probes as available. Producing
// some output is preferred over failing the job for container fidelity.
var codecFallback = Candidate{"mp4v", ".mp4"}

// Selection is the outcome of codec negotiation. OutputPath carries the
// caller's requested path with the extension the winning codec dictates,
// which may differ from what the caller asked for.
type Selection struct {
	Codec      string
	Ext        string
	OutputPath string
	Fallback   bool // True when every candidate probe failed.
}

// AvailabilityProbe reports whether an encoder can be opened on this host.
// Injected so negotiation is testable without OpenCV codec support.
type AvailabilityProbe func(codec, ext string) bool

// NegotiateCodec picks the first available candidate for outputPath. The
// requested extension is preserved when it matches the winning codec's
// container; otherwise the codec's extension wins and OutputPath is
// adjusted. When every candidate is unavailable the hard-coded fallback is
// returned rather than an error.
func NegotiateCodec(outputPath string, avail AvailabilityProbe) Selection {
	requested := strings.ToLower(filepath.Ext(outputPath))

	for _, cand := range CodecPreferences {
		if !avail(cand.Codec, cand.Ext) {
			continue
		}
		ext := cand.Ext
		if requested == cand.Ext {
			ext = requested
		}
		return Selection{
			Codec:      cand.Codec,
			Ext:        ext,
			OutputPath: replaceExt(outputPath, ext),
		}
	}

	return Selection{
		Codec:      codecFallback.Codec,
		Ext:        codecFallback.Ext,
		OutputPath: replaceExt(outputPath, codecFallback.Ext),
		Fallback:   true,
	}
}

// ProbeCodec is the production availability probe: it opens a throwaway
// writer in the temp directory and reports whether the codec initialized.
func ProbeCodec(codec, ext string) bool {
	f, err := os.CreateTemp("", "movetrace-probe-*"+ext)
	if err != nil {
		return false
	}
	path := f.Name()
	f.Close()
	defer os.Remove(path)

	w, err := gocv.VideoWriterFile(path, codec, 30, 64, 64, true)
	if err != nil {
		return false
	}
	defer w.Close()
	return w.IsOpened()
}

func replaceExt(path, ext string) string {
	old := filepath.Ext(path)
	return strings.TrimSuffix(path, old) + ext
}
