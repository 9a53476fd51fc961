// Package mazeapi exposes a maze.Service over HTTP and provides the
// matching client.
package mazeapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/samdwyer/mazebatch/internal/maze"
)

// MazePath is the route serving single mazes.
const MazePath = "/v1/maze"

// MaxSize bounds the width and height accepted by the server.
const MaxSize = 1024

type errorBody struct {
	Error string `json:"error"`
}

type server struct {
	svc    maze.Service
	logger zerolog.Logger
}

// NewServer returns a handler serving svc:
//
//	GET /v1/maze?width=W&height=H&seed=S&perfect=true
//	GET /healthz
func NewServer(svc maze.Service, logger zerolog.Logger) http.Handler {
	s := &server{svc: svc, logger: logger}

	r := mux.NewRouter()
	r.HandleFunc(MazePath, s.handleMaze).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.Use(s.logRequests)
	return r
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *server) handleMaze(w http.ResponseWriter, r *http.Request) {
	req, err := parseRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	grid, err := s.svc.Generate(r.Context(), req)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, maze.ErrInvalidSize) {
			status = http.StatusBadRequest
		}
		s.logger.Error().Err(err).Int("width", req.Width).Int("height", req.Height).Int64("seed", req.Seed).Msg("maze generation failed")
		writeError(w, status, err)
		return
	}

	writeJSON(w, http.StatusOK, grid)
}

func parseRequest(r *http.Request) (maze.Request, error) {
	q := r.URL.Query()
	req := maze.Request{Perfect: true}

	var err error
	if req.Width, err = intParam(q.Get("width"), "width"); err != nil {
		return req, err
	}
	if req.Height, err = intParam(q.Get("height"), "height"); err != nil {
		return req, err
	}
	if req.Width <= 0 || req.Height <= 0 || req.Width > MaxSize || req.Height > MaxSize {
		return req, fmt.Errorf("width and height must be between 1 and %d", MaxSize)
	}

	if v := q.Get("seed"); v != "" {
		if req.Seed, err = strconv.ParseInt(v, 10, 64); err != nil {
			return req, fmt.Errorf("seed must be an integer, got %q", v)
		}
	}
	if v := q.Get("perfect"); v != "" {
		if req.Perfect, err = strconv.ParseBool(v); err != nil {
			return req, fmt.Errorf("perfect must be a boolean, got %q", v)
		}
	}
	return req, nil
}

func intParam(v, name string) (int, error) {
	if v == "" {
		return 0, fmt.Errorf("%s is required", name)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", name, v)
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorBody{Error: err.Error()})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("query", r.URL.RawQuery).
			Int("status", rec.status).
			Msg("request served")
	})
}
