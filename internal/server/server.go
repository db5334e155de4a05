// Package server exposes the analysis pipeline over HTTP: video upload and
// analysis, artifact download, per-job cleanup, health, and Prometheus
// metrics. Job-id issuance, file placement, and status mapping live here;
// the pipeline itself knows nothing about HTTP.
package server

import (
	"fmt"
	"net/http"
	"os"

	"github.com/backmassage/movetrace/internal/config"
	"github.com/backmassage/movetrace/internal/logging"
	"github.com/backmassage/movetrace/internal/pipeline"
)

// Server wires the pipeline processor to the HTTP surface.
type Server struct {
	cfg     *config.Config
	log     *logging.Logger
	proc    *pipeline.Processor
	metrics *Metrics
	mux     *http.ServeMux
}

// New creates the server and its upload/output directories.
func New(cfg *config.Config, log *logging.Logger, proc *pipeline.Processor) (*Server, error) {
	for _, dir := range []string{cfg.UploadDir, cfg.ResultDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	s := &Server{
		cfg:     cfg,
		log:     log,
		proc:    proc,
		metrics: NewMetrics(),
		mux:     http.NewServeMux(),
	}
	s.routes()
	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /{$}", s.handleRoot)
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("POST /api/analyze", s.handleAnalyze)
	s.mux.HandleFunc("GET /api/download/{job}", s.handleDownload)
	s.mux.HandleFunc("DELETE /api/cleanup/{job}", s.handleCleanup)
	s.mux.Handle("GET /metrics", s.metrics.Handler())
}
