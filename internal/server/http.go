// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/AccelByte/extend-daily-progression/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
)

// HTTPServer manages the HTTP server serving metrics, health, admin and
// mission routes.
type HTTPServer struct {
	server *http.Server
	port   int
	deps   Dependencies
}

// NewHTTPServer creates a new HTTP server instance.
func NewHTTPServer(port int, deps Dependencies) *HTTPServer {
	return &HTTPServer{
		port: port,
		deps: deps,
	}
}

// NewMetricsRegistry returns a registry with the Go runtime, process and
// progression collectors.
//
// ============================================================
// DEVELOPER: Register custom Prometheus metrics here
// ============================================================
// Define metrics in pkg/metrics and add them to
// metrics.Collectors(); they are registered automatically.
// ============================================================
func NewMetricsRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	registry.MustRegister(metrics.Collectors()...)
	return registry
}

// Setup builds the router.
func (s *HTTPServer) Setup() error {
	if s.deps.Controller == nil || s.deps.Repo == nil || s.deps.Clock == nil {
		return fmt.Errorf("http server requires a controller, a repository and a clock")
	}

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           NewRouter(s.deps, NewMetricsRegistry()),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return nil
}

// Start begins serving on the configured port.
func (s *HTTPServer) Start(ctx context.Context) error {
	go func() {
		logrus.Infof("http server listening on port %d", s.port)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("http server failed: %v", err)
		}
	}()
	return nil
}

// Shutdown gracefully stops the server.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	logrus.Info("shutting down http server...")
	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}
	logrus.Info("http server stopped")
	return nil
}
