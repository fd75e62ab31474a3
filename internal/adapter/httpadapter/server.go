package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/shot-insights-etl/internal/domain"
	"github.com/couchcryptid/shot-insights-etl/internal/insights"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxDeriveBody caps the size of a batch posted to /derive.
const maxDeriveBody = 16 << 20

// Transformer derives one shot batch. pipeline.ShotTransformer implements it.
type Transformer interface {
	Transform(ctx context.Context, raw domain.RawEvent) (domain.OutputEvent, error)
}

// Server exposes health, readiness, metrics, and on-demand derivation
// HTTP endpoints.
type Server struct {
	httpServer  *http.Server
	transformer Transformer
	logger      *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, and /metrics
// routes. When transformer is non-nil, POST /derive runs a shot batch through
// it and returns the derived batch.
func NewServer(addr string, ready sharedobs.ReadinessChecker, transformer Transformer, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		transformer: transformer,
		logger:      logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	if transformer != nil {
		mux.HandleFunc("POST /derive", s.handleDerive)
	}

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// handleDerive accepts the same payloads as the source topic. The
// X-Shot-Source header plays the role of the Kafka "source" header.
func (s *Server) handleDerive(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxDeriveBody))
	if err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		writeError(w, status, err)
		return
	}

	raw := domain.RawEvent{Value: body, Timestamp: time.Now()}
	if src := r.Header.Get("X-Shot-Source"); src != "" {
		raw.Headers = map[string]string{"source": src}
	}

	out, err := s.transformer.Transform(r.Context(), raw)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, insights.ErrInvalidShot) {
			status = http.StatusUnprocessableEntity
		}
		s.logger.Warn("derive request rejected", "error", err, "status", status)
		writeError(w, status, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Batch-Id", string(out.Key))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out.Value)
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
