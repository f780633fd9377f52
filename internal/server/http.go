package server

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/mcq-platform/internal/config"
	"github.com/gokatarajesh/mcq-platform/internal/logging"
	"github.com/gokatarajesh/mcq-platform/internal/mcq"
	httperrors "github.com/gokatarajesh/mcq-platform/pkg/http/errors"
)

// RequestIDHeader echoes the id attached to every request log line.
const RequestIDHeader = "X-Request-Id"

// Pinger checks that an upstream dependency answers.
type Pinger func(ctx context.Context) error

// NewHTTPServer wires base routes (health, metrics, ping) and the /mcq-get/ API.
// authenticate runs in front of the API routes only.
func NewHTTPServer(cfg *config.App, logger zerolog.Logger, pingers map[string]Pinger, mcqHandler *mcq.HTTPHandler, authenticate func(http.Handler) http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           NewHandler(logger, pingers, mcqHandler, authenticate),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// NewHandler builds the routed, logged handler tree served by NewHTTPServer.
func NewHandler(logger zerolog.Logger, pingers map[string]Pinger, mcqHandler *mcq.HTTPHandler, authenticate func(http.Handler) http.Handler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/v1/ping", func(w http.ResponseWriter, r *http.Request) {
		for name, ping := range pingers {
			if err := ping(r.Context()); err != nil {
				logger := logging.FromContext(r.Context())
				logger.Error().Err(err).Str("dependency", name).Msg("dependency ping failed")
				httperrors.RespondError(w, http.StatusBadGateway, httperrors.ErrCodeUpstreamError, "upstream error")
				return
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"pong":true}`))
	})

	if mcqHandler != nil {
		api := http.NewServeMux()
		mcqHandler.Register(api)
		var apiHandler http.Handler = api
		if authenticate != nil {
			apiHandler = authenticate(api)
		}
		mux.Handle("/mcq-get", apiHandler)
		mux.Handle("/mcq-get/", apiHandler)
	}

	return withRequestLogging(logger, mux)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// withRequestLogging tags each request with an id, stores a request-scoped logger in the
// context and logs the outcome once the handler returns.
func withRequestLogging(logger zerolog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)

		reqLogger := logger.With().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Logger()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(logging.IntoContext(r.Context(), reqLogger)))

		event := reqLogger.Info()
		if rec.status >= http.StatusInternalServerError {
			event = reqLogger.Warn()
		}
		event.Int("status", rec.status).Dur("elapsed", time.Since(start)).Msg("request handled")
	})
}
