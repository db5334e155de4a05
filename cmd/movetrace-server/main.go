// Command movetrace-server runs the body-pose analysis HTTP service.
//
// Configuration comes from the environment (optionally via a .env file);
// see internal/config.FromEnv for the recognized variables.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/backmassage/movetrace/internal/check"
	"github.com/backmassage/movetrace/internal/config"
	"github.com/backmassage/movetrace/internal/display"
	"github.com/backmassage/movetrace/internal/logging"
	"github.com/backmassage/movetrace/internal/pipeline"
	"github.com/backmassage/movetrace/internal/server"
)

var (
	version = "1.0.0"
	commit  = "unknown"
)

// shutdownGrace bounds how long in-flight requests get to finish after a
// termination signal. Analysis jobs can run for minutes, so this is generous.
const shutdownGrace = 2 * time.Minute

func main() {
	os.Exit(run())
}

func run() int {
	cfg := config.DefaultConfig()
	if err := config.FromEnv(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "movetrace-server: %v\n", err)
		return 1
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "movetrace-server: %v\n", err)
		return 1
	}
	defer log.Close()

	display.PrintBanner()
	log.Info("=== movetrace-server v%s (%s) ===", version, commit)

	if err := check.CheckDeps(&cfg); err != nil {
		log.Error("%v", err)
		return 1
	}

	proc := pipeline.New(&cfg, log)
	srv, err := server.New(&cfg, log, proc)
	if err != nil {
		log.Error("%v", err)
		return 1
	}

	httpSrv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: srv.Handler(),
		// Analysis is synchronous: a large upload plus full processing can
		// legitimately hold a connection for minutes.
		ReadTimeout:       10 * time.Minute,
		WriteTimeout:      15 * time.Minute,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Listening on %s", cfg.ListenAddr)
		errCh <- httpSrv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server error: %v", err)
			return 1
		}
	case sig := <-sigCh:
		log.Warn("Received %s, shutting down…", sig)
		ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := httpSrv.Shutdown(ctx); err != nil {
			log.Error("Shutdown error: %v", err)
			return 1
		}
	}

	log.Success("Server stopped")
	return 0
}
