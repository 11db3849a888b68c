package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"MarketLens/internal/collector"
	"MarketLens/internal/config"
	"MarketLens/internal/metrics"
	"MarketLens/internal/model"
	"MarketLens/internal/recorder"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

const (
	defaultRunsLimit = 20
	maxRunsLimit     = 100
)

type ctxKey string

const requestIDKey ctxKey = "request_id"

// Server exposes the dashboard computations as a read-only JSON API.
type Server struct {
	router    *mux.Router
	server    *http.Server
	collector *collector.Collector
	recorder  recorder.Recorder
	metrics   *metrics.Metrics
	config    *config.Config
	timeout   time.Duration
}

// NewServer creates the server and wires its routes.
func NewServer(cfg *config.Config, col *collector.Collector, rec recorder.Recorder, m *metrics.Metrics) *Server {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	s := &Server{
		router:    mux.NewRouter(),
		collector: col,
		recorder:  rec,
		metrics:   m,
		config:    cfg,
		timeout:   60 * time.Second,
	}
	s.setupRoutes()
	s.server = &http.Server{
		Addr:         cfg.HTTP.ListenAddr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) setupRoutes() {
	s.router.Use(s.requestIDMiddleware)
	s.router.Use(s.requestLoggingMiddleware)

	if s.metrics != nil {
		s.router.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	}

	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.Use(s.timeoutMiddleware)
	api.HandleFunc("/health", s.health).Methods(http.MethodGet)
	api.HandleFunc("/overview", s.overview).Methods(http.MethodGet)
	api.HandleFunc("/compare", s.compare).Methods(http.MethodGet)
	api.HandleFunc("/dashboard/{symbol}", s.dashboard).Methods(http.MethodGet)
	api.HandleFunc("/runs", s.runs).Methods(http.MethodGet)

	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", "no route for "+r.URL.Path)
	})
}

func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.New().String()[:8]
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) requestLoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapper, r)

		requestID, _ := r.Context().Value(requestIDKey).(string)
		log.Info().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", wrapper.statusCode).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

func (s *Server) timeoutMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
		defer cancel()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"source": s.collector.Source.Name(),
		"time":   time.Now().UTC(),
	})
}

func (s *Server) timeframe(r *http.Request) (model.Timeframe, error) {
	if v := r.URL.Query().Get("timeframe"); v != "" {
		return model.ParseTimeframe(v)
	}
	return model.ParseTimeframe(s.config.Schedule.Timeframe)
}

// symbols returns the comma separated ?symbols= list, or fallback.
func symbols(r *http.Request, fallback []string) []string {
	v := r.URL.Query().Get("symbols")
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if sym := strings.ToUpper(strings.TrimSpace(part)); sym != "" {
			out = append(out, sym)
		}
	}
	return out
}

func (s *Server) overview(w http.ResponseWriter, r *http.Request) {
	tf, err := s.timeframe(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	ov, err := s.collector.Overview(r.Context(), symbols(r, s.config.Watchlist), tf)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ov)
}

func (s *Server) compare(w http.ResponseWriter, r *http.Request) {
	tf, err := s.timeframe(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	cmp, err := s.collector.Compare(r.Context(), symbols(r, s.config.Indices), tf)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cmp)
}

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(mux.Vars(r)["symbol"])

	horizon := 0
	if v := r.URL.Query().Get("horizon"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "configuration", "horizon must be an integer")
			return
		}
		horizon = n
	}
	horizon, err := s.config.ClampHorizon(horizon)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	d, err := s.collector.Dashboard(r.Context(), symbol, s.config.Forecast.LookbackDays, horizon)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) runs(w http.ResponseWriter, r *http.Request) {
	limit := defaultRunsLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "configuration", "limit must be a positive integer")
			return
		}
		limit = n
	}
	if limit > maxRunsLimit {
		limit = maxRunsLimit
	}
	runs, err := s.recorder.RecentRuns(limit)
	if err != nil {
		log.Error().Err(err).Msg("list runs")
		writeError(w, http.StatusInternalServerError, "internal", "could not list runs")
		return
	}
	if runs == nil {
		runs = []recorder.Run{}
	}
	writeJSON(w, http.StatusOK, runs)
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	log.Info().Str("addr", s.server.Addr).Msg("starting HTTP server")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("shutting down HTTP server")
	return s.server.Shutdown(ctx)
}
