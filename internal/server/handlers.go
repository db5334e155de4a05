package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/backmassage/movetrace/internal/pipeline"
)

// errUploadTooLarge aborts a streaming upload save when the configured cap
// is exceeded.
var errUploadTooLarge = errors.New("upload exceeds size limit")

// analyzeResponse augments the pipeline result with job bookkeeping.
type analyzeResponse struct {
	*pipeline.Result
	JobID            string `json:"job_id"`
	OriginalFilename string `json:"original_filename"`
	DownloadURL      string `json:"download_url"`
	CleanupURL       string `json:"cleanup_url"`
}

// errorResponse is the JSON body for every failure. Message carries the
// classified cause only — never internals or stack traces.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	JobID   string `json:"job_id,omitempty"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "movetrace body-pose analysis API",
		"status":  "operational",
		"endpoints": map[string]string{
			"health":   "/health",
			"analyze":  "/api/analyze (POST)",
			"download": "/api/download/{job_id} (GET)",
			"cleanup":  "/api/cleanup/{job_id} (DELETE)",
			"metrics":  "/metrics",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":              "healthy",
		"service":             "movetrace",
		"upload_dir_writable": dirWritable(s.cfg.UploadDir),
		"output_dir_writable": dirWritable(s.cfg.ResultDir),
	})
}

// handleAnalyze accepts a multipart upload, stores it under a fresh job id,
// runs the retry-wrapped pipeline synchronously, and returns the result.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	maxBytes := s.cfg.MaxUploadMB * 1024 * 1024
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+1)

	file, header, err := r.FormFile("video")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Bad Request", "missing 'video' file field", "")
		return
	}
	defer file.Close()

	ext, ok := AllowedExtension(header.Filename)
	if !ok {
		writeError(w, http.StatusBadRequest, "Bad Request",
			fmt.Sprintf("invalid file type %q (allowed: .mp4, .avi, .mov)", ext), "")
		return
	}

	safeName := SanitizeFilename(header.Filename)
	jobID := uuid.NewString()
	inputPath := s.inputPath(jobID, ext)
	outputPath := s.outputPath(jobID)

	s.log.Info("Processing upload: %s (job: %s)", safeName, jobID)

	written, err := saveUpload(inputPath, file, maxBytes)
	if err != nil {
		os.Remove(inputPath)
		if errors.Is(err, errUploadTooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Payload Too Large",
				fmt.Sprintf("file too large (max %d MB)", s.cfg.MaxUploadMB), jobID)
			return
		}
		s.log.Error("Upload save failed for job %s: %v", jobID, err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error", "could not store upload", jobID)
		return
	}
	s.log.Info("File saved: %.2fMB", float64(written)/(1024*1024))

	s.metrics.JobsStarted.Inc()
	result, err := s.proc.ProcessWithRetry(r.Context(), inputPath, outputPath, s.cfg.MaxRetries)
	if err != nil {
		s.metrics.JobsFailed.Inc()
		s.cleanupJobFiles(jobID)
		status := http.StatusInternalServerError
		label := "Processing Error"
		if kind, ok := pipeline.KindOf(err); ok && kind == pipeline.KindInvalidInput {
			status = http.StatusUnprocessableEntity
			label = "Invalid Video"
		}
		s.log.Error("Job %s failed: %v", jobID, err)
		writeError(w, status, label, err.Error(), jobID)
		return
	}

	s.metrics.JobsSucceeded.Inc()
	s.metrics.FramesProcessed.Add(float64(result.ProcessedFrames))
	s.metrics.FramesDetected.Add(float64(result.DetectedFrames))
	s.metrics.JobSeconds.Observe(result.ProcessingTime)

	s.log.Detect("Job %s: %s detection rate over %d frames",
		jobID, fmt.Sprintf("%.2f%%", result.DetectionRate), result.TotalFrames)

	writeJSON(w, http.StatusOK, analyzeResponse{
		Result:           result,
		JobID:            jobID,
		OriginalFilename: safeName,
		DownloadURL:      "/api/download/" + jobID,
		CleanupURL:       "/api/cleanup/" + jobID,
	})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	jobID := SanitizeJobID(r.PathValue("job"))
	path, ok := s.findArtifact(jobID)
	if !ok {
		writeError(w, http.StatusNotFound, "Not Found",
			fmt.Sprintf("no video for job id %s", jobID), jobID)
		return
	}

	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", "analyzed_"+jobID+filepath.Ext(path)))
	http.ServeFile(w, r, path)
}

func (s *Server) handleCleanup(w http.ResponseWriter, r *http.Request) {
	jobID := SanitizeJobID(r.PathValue("job"))
	deleted := s.cleanupJobFiles(jobID)
	writeJSON(w, http.StatusOK, map[string]any{
		"job_id":        jobID,
		"deleted_files": deleted,
		"count":         len(deleted),
	})
}

// cleanupJobFiles removes every file belonging to jobID and returns the
// paths actually deleted.
func (s *Server) cleanupJobFiles(jobID string) []string {
	deleted := []string{}
	for _, path := range s.jobFiles(jobID) {
		if err := os.Remove(path); err != nil {
			s.log.Warn("Could not delete %s: %v", path, err)
			continue
		}
		deleted = append(deleted, path)
	}
	return deleted
}

// saveUpload streams src to dst, failing once maxBytes is exceeded so an
// oversized upload never lands fully on disk.
func saveUpload(dst string, src io.Reader, maxBytes int64) (int64, error) {
	f, err := os.Create(dst)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	n, err := io.Copy(f, io.LimitReader(src, maxBytes+1))
	if err != nil {
		return n, err
	}
	if n > maxBytes {
		return n, errUploadTooLarge
	}
	return n, nil
}

func dirWritable(dir string) bool {
	f, err := os.CreateTemp(dir, ".probe-*")
	if err != nil {
		return false
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	return true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, label, message, jobID string) {
	writeJSON(w, status, errorResponse{Error: label, Message: message, JobID: jobID})
}
