// Package server exposes the query agent over HTTP.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/extractor"
	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/inspect"
	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/telemetry"
	"github.com/soni-ratnesh/KubernetesQueryAgent/pkg/types"
)

// Span attribute keys for query handling.
const (
	AttrQueryCategory = "query.resource_category"
	AttrQueryType     = "query.resource_type"
	AttrQueryAction   = "query.action"
	AttrErrorType     = "error.type"
)

// Server routes HTTP requests to the extraction service and the query engine.
type Server struct {
	engine    *inspect.Engine
	extractor extractor.Extractor
	mux       *http.ServeMux
	ready     func() bool
	tracer    trace.Tracer
	metrics   *telemetry.Metrics
}

// NewServer creates a server around the given engine, extractor and
// readiness check.
func NewServer(engine *inspect.Engine, ext extractor.Extractor, readyFn func() bool) *Server {
	s := &Server{
		engine:    engine,
		extractor: ext,
		mux:       http.NewServeMux(),
		ready:     readyFn,
		tracer:    otel.Tracer(telemetry.ServiceName),
		metrics:   telemetry.NewMetrics(),
	}
	s.mux.HandleFunc("/query", s.handleQuery)
	s.mux.HandleFunc("/execute", s.handleExecute)
	s.mux.HandleFunc("/healthz", s.handleHealthz)
	s.mux.HandleFunc("/readyz", s.handleReadyz)
	return s
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, "ok")
}

func (s *Server) handleReadyz(w http.ResponseWriter, _ *http.Request) {
	if s.ready != nil && !s.ready() {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = fmt.Fprint(w, "not ready")
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, "ready")
}

// handleQuery takes a natural language question, extracts a structured
// query from it and executes that against the cluster.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req types.QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("failed to decode query request", "error", err)
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Query == "" {
		writeJSONError(w, "query must not be empty", http.StatusBadRequest)
		return
	}

	ctx, span := s.tracer.Start(r.Context(), "query", trace.WithSpanKind(trace.SpanKindServer))
	defer span.End()

	slog.InfoContext(ctx, "query received", "query", req.Query)

	extractStart := time.Now()
	q, err := s.extractor.Extract(ctx, req.Query)
	if s.metrics.ExtractionDuration != nil {
		s.metrics.ExtractionDuration.Record(ctx, time.Since(extractStart).Seconds())
	}
	if err != nil {
		slog.ErrorContext(ctx, "extraction failed", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String(AttrErrorType, "extraction_error"))
		if s.metrics.ErrorsTotal != nil {
			s.metrics.ErrorsTotal.Add(ctx, 1, telemetry.WithAttributes(
				attribute.String(AttrErrorType, "extraction_error"),
			))
		}
		writeJSONError(w, "failed to understand the query", http.StatusBadGateway)
		return
	}

	answer := s.execute(ctx, span, q)
	writeJSON(w, types.QueryResponse{Query: req.Query, Answer: answer}, http.StatusOK)
}

// handleExecute takes an already structured query and skips extraction.
func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var q types.Query
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		slog.Error("failed to decode execute request", "error", err)
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	ctx, span := s.tracer.Start(r.Context(), "execute", trace.WithSpanKind(trace.SpanKindServer))
	defer span.End()

	answer := s.execute(ctx, span, &q)
	writeJSON(w, types.NewExecuteResponse(answer), http.StatusOK)
}

func (s *Server) execute(ctx context.Context, span trace.Span, q *types.Query) string {
	span.SetAttributes(
		attribute.String(AttrQueryCategory, q.ResourceCategory),
		attribute.String(AttrQueryType, q.ResourceType),
		attribute.String(AttrQueryAction, q.Action),
	)

	start := time.Now()
	answer := s.engine.Execute(ctx, q)
	duration := time.Since(start).Seconds()

	attrs := telemetry.WithAttributes(
		attribute.String(AttrQueryCategory, q.ResourceCategory),
		attribute.String(AttrQueryType, q.ResourceType),
		attribute.String(AttrQueryAction, q.Action),
	)
	if s.metrics.QueryDuration != nil {
		s.metrics.QueryDuration.Record(ctx, duration, attrs)
	}
	if s.metrics.QueryCount != nil {
		s.metrics.QueryCount.Add(ctx, 1, attrs)
	}

	slog.InfoContext(ctx, "query executed",
		"category", q.ResourceCategory,
		"type", q.ResourceType,
		"action", q.Action,
		"namespace", q.Namespace,
		"duration_s", duration,
	)
	return answer
}

// ListenAndServe starts the server, blocking until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutting down query server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("query server shutdown error", "error", err)
		}
	}()

	slog.Info("query server starting", "addr", addr)
	return srv.ListenAndServe()
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, v interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, errorResponse{Error: msg}, status)
}
