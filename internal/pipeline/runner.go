package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"gocv.io/x/gocv"

	"github.com/backmassage/movetrace/internal/config"
	"github.com/backmassage/movetrace/internal/logging"
	"github.com/backmassage/movetrace/internal/overlay"
	"github.com/backmassage/movetrace/internal/pose"
	"github.com/backmassage/movetrace/internal/video"
)

// progressInterval controls how often the frame loop logs progress.
const progressInterval = 100

// Result is the aggregate outcome of one successful job. Created once at
// the end of a run; immutable. Per-frame keypoints are discarded after
// aggregation — only summary statistics persist here.
type Result struct {
	Success         bool     `json:"success"`
	InputFile       string   `json:"input_file"`
	OutputFile      string   `json:"output_file"`
	OutputSizeMB    float64  `json:"output_size_mb"`
	TotalFrames     int      `json:"total_frames"`
	ProcessedFrames int      `json:"processed_frames"`
	DetectedFrames  int      `json:"detected_frames"`
	FailedFrames    int      `json:"failed_frames"`
	DetectionRate   float64  `json:"detection_rate"`
	FailedRate      float64  `json:"failed_rate"`
	FPS             float64  `json:"fps"`
	Resolution      string   `json:"resolution"`
	Duration        float64  `json:"duration_seconds"`
	ProcessingTime  float64  `json:"processing_time_seconds"`
	KeypointCount   int      `json:"keypoints_count"`
	AverageVis      *float64 `json:"average_visibility"`
}

// Processor runs analysis jobs. It is stateless across jobs and holds no
// shared mutable state, so one Processor may serve many sequential or
// caller-parallelized jobs; each job exclusively owns its own handles and
// pose session for its lifetime.
type Processor struct {
	cfg *config.Config
	log *logging.Logger

	// Collaborator seams. Production wiring comes from New; tests inject
	// fakes to drive the loop without OpenCV I/O.
	validate   func(path string) (video.Metadata, error)
	openSource func(path string) (video.Source, error)
	openSink   func(path, codec string, fps float64, w, h int) (video.Sink, error)
	probe      video.AvailabilityProbe
	factory    pose.Factory
	sleep      func(time.Duration)
}

// New returns a Processor wired to the gocv-backed collaborators and the
// DNN estimator from cfg.ModelDir.
func New(cfg *config.Config, log *logging.Logger) *Processor {
	return &Processor{
		cfg:        cfg,
		log:        log,
		validate:   video.Validate,
		openSource: video.OpenSource,
		openSink:   video.OpenSink,
		probe:      video.ProbeCodec,
		factory:    pose.DNNFactory(cfg.ModelDir),
		sleep:      time.Sleep,
	}
}

// Process runs one full pipeline pass: validate → negotiate codec → open
// handles → frame loop → verify artifact → aggregate. Per-frame failures
// degrade quality, not completion; only open/validate/verify failures are
// returned, classified by Kind.
func (p *Processor) Process(ctx context.Context, inputPath, outputPath string) (*Result, error) {
	start := time.Now()

	// --- Validate input ---
	md, err := p.validate(inputPath)
	if err != nil {
		return nil, newError(KindInvalidInput, -1, err)
	}
	p.log.Info("Video validated: %s, %.2f fps, %d frames, %.2fs, %.2fMB",
		md.Resolution(), md.FPS, md.FrameCount, md.Duration, md.FileSizeMB)

	// --- Negotiate output codec ---
	sel := video.NegotiateCodec(outputPath, p.probe)
	if sel.Fallback {
		p.log.Warn("No preferred codec available, using fallback %s (%s)", sel.Codec, sel.Ext)
	}
	if sel.OutputPath != outputPath {
		p.log.Info("Adjusted output path to: %s", sel.OutputPath)
	}
	if err := os.MkdirAll(filepath.Dir(sel.OutputPath), 0o755); err != nil {
		return nil, newError(KindResourceInit, -1, fmt.Errorf("create output directory: %w", err))
	}

	// --- Open handles (released on every exit path) ---
	src, err := p.openSource(inputPath)
	if err != nil {
		return nil, newError(KindResourceInit, -1, err)
	}
	defer src.Close()

	sink, err := p.openSink(sel.OutputPath, sel.Codec, md.FPS, md.Width, md.Height)
	if err != nil {
		return nil, newError(KindResourceInit, -1, err)
	}
	defer sink.Close()

	session, err := pose.OpenSession(p.factory, p.cfg.Settings())
	if err != nil {
		return nil, newError(KindResourceInit, -1, err)
	}
	defer session.Close()

	// --- Frame loop ---
	counters := Counters{Total: md.FrameCount}
	var keypoints []pose.FrameKeypoints

	lastFrame, err := p.frameLoop(ctx, md, src, sink, session, &counters, &keypoints)
	if err != nil {
		return nil, err
	}

	// Release before verification so buffered frames are flushed to disk.
	src.Close()
	sink.Close()
	session.Close()

	// --- Verify artifact ---
	fi, statErr := os.Stat(sel.OutputPath)
	if statErr != nil {
		return nil, newError(KindOutputVerification, lastFrame, errors.New("output file was not created"))
	}
	if fi.Size() == 0 {
		return nil, newError(KindOutputVerification, lastFrame, errors.New("output file is empty"))
	}

	// --- Aggregate ---
	stats := Aggregate(counters, keypoints)
	res := &Result{
		Success:         true,
		InputFile:       inputPath,
		OutputFile:      sel.OutputPath,
		OutputSizeMB:    float64(fi.Size()) / (1024 * 1024),
		TotalFrames:     counters.Total,
		ProcessedFrames: counters.Processed,
		DetectedFrames:  counters.Detected,
		FailedFrames:    counters.Failed,
		DetectionRate:   stats.DetectionRate,
		FailedRate:      stats.FailedRate,
		FPS:             md.FPS,
		Resolution:      md.Resolution(),
		Duration:        md.Duration,
		ProcessingTime:  time.Since(start).Seconds(),
		KeypointCount:   len(keypoints),
		AverageVis:      stats.AverageVisibility,
	}

	p.log.Success("Processing complete: %d/%d frames detected in %.2fs",
		counters.Detected, counters.Total, res.ProcessingTime)
	return res, nil
}

// frameLoop is the strictly sequential single pass over the input. Returns
// the last frame index reached (for error context) and a non-nil error only
// on cancellation — every per-frame failure is absorbed into counters.
func (p *Processor) frameLoop(
	ctx context.Context,
	md video.Metadata,
	src video.Source,
	sink video.Sink,
	session *pose.Session,
	counters *Counters,
	keypoints *[]pose.FrameKeypoints,
) (int, error) {
	frame := gocv.NewMat()
	defer frame.Close()
	rgb := gocv.NewMat()
	defer rgb.Close()

	i := -1
	for {
		// Cancellation point: once per iteration, never mid-frame.
		if err := ctx.Err(); err != nil {
			return i, err
		}

		if !src.Read(&frame) {
			p.log.Debug(p.cfg.Verbose, "End of video at frame %d", i+1)
			return i, nil
		}
		i++

		// A decoded-but-empty frame is corrupt: count it, skip the write,
		// keep going. One bad frame must not abort the job.
		if frame.Empty() {
			p.log.Warn("Invalid frame at %d", i)
			counters.Record(OutcomeDecodeFailed)
			continue
		}

		// The writer was opened with the validated dimensions and cannot
		// accept mismatched frames; resize whatever the container claims.
		if frame.Cols() != md.Width || frame.Rows() != md.Height {
			gocv.Resize(frame, &frame, image.Pt(md.Width, md.Height), 0, 0, gocv.InterpolationLinear)
		}

		gocv.CvtColor(frame, &rgb, gocv.ColorBGRToRGB)
		sk, err := session.Process(rgb)
		if err != nil {
			// Estimator fault: write the unannotated frame to preserve
			// frame-count and timing continuity.
			p.log.Warn("Pose estimation failed at frame %d: %v", i, err)
			counters.Record(OutcomeEstimationFailed)
			p.writeFrame(sink, frame, i, counters)
			continue
		}

		detected := sk != nil
		if detected {
			counters.Record(OutcomeDetected)
			*keypoints = append(*keypoints, pose.FrameKeypoints{
				FrameIndex: i,
				Timestamp:  float64(i) / md.FPS,
				Landmarks:  sk.Landmarks[:],
			})
			if err := overlay.DrawSkeleton(&frame, sk); err != nil {
				// Keep the frame; it just loses its skeleton.
				p.log.Warn("Error drawing landmarks at frame %d: %v", i, err)
			}
		} else {
			counters.Record(OutcomeNotDetected)
		}

		overlay.DrawCaption(&frame, i, md.FrameCount, detected)
		p.writeFrame(sink, frame, i, counters)

		if (i+1)%progressInterval == 0 {
			p.log.Info("Processed %d/%d frames", i+1, md.FrameCount)
		}
	}
}

// writeFrame writes one frame and counts it as processed. A write error is
// logged and the frame dropped; a systemically broken writer surfaces later
// as output verification failure.
func (p *Processor) writeFrame(sink video.Sink, frame gocv.Mat, i int, counters *Counters) {
	if err := sink.Write(frame); err != nil {
		p.log.Error("Write failed at frame %d: %v", i, err)
		return
	}
	counters.Processed++
}
