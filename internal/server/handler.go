// Package server exposes the analyzer over HTTP/1.1 and HTTP/3.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Masterminds/semver/v3"

	"github.com/orizon-lang/goanalyzer/internal/analyzer"
	"github.com/orizon-lang/goanalyzer/internal/logs"
)

// MaxSourceBytes bounds the request body of POST /analyze.
const MaxSourceBytes = 1 << 20

// VersionHeader carries a semver constraint on the report schema. The
// response echoes the schema version under the same name.
const VersionHeader = "X-Report-Version"

var schemaVersion = semver.MustParse(analyzer.SchemaVersion)

type handler struct {
	logger *slog.Logger
}

// NewHandler returns the routes served by goanalyzer:
//
//	POST /analyze   body is Go source, response is the report as JSON
//	GET  /healthz   liveness probe
func NewHandler(logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = logs.Discard()
	}
	h := &handler{logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /analyze", h.analyze)
	mux.HandleFunc("GET /healthz", h.healthz)
	return h.logRequests(mux)
}

func (h *handler) analyze(w http.ResponseWriter, r *http.Request) {
	if c := r.Header.Get(VersionHeader); c != "" {
		constraint, err := semver.NewConstraint(c)
		if err != nil {
			http.Error(w, "invalid "+VersionHeader+": "+err.Error(), http.StatusBadRequest)
			return
		}
		if !constraint.Check(schemaVersion) {
			http.Error(w, "report version "+analyzer.SchemaVersion+" does not satisfy "+c, http.StatusConflict)
			return
		}
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxSourceBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	verbose, _ := strconv.ParseBool(r.URL.Query().Get("verbose"))
	report := analyzer.Analyze(string(body),
		analyzer.WithVerbose(verbose),
		analyzer.WithLogger(h.logger))

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set(VersionHeader, analyzer.SchemaVersion)
	if err := json.NewEncoder(w).Encode(report); err != nil {
		h.logger.Warn("write response", "err", err)
	}
}

func (h *handler) healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok\n")
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (h *handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		h.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"proto", r.Proto,
			"status", rec.status,
			"duration", time.Since(start))
	})
}
