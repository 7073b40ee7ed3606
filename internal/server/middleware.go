package server

import (
	"bufio"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/url"
	"time"

	builderrors "github.com/conneroisu/pagebuilder/internal/errors"
)

func (s *EditorServer) addMiddleware(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		origin := r.Header.Get("Origin")
		if origin != "" && !sameOrigin(origin, r.Host) {
			if !s.isAllowedOrigin(origin) {
				s.writeError(rec, r, builderrors.ErrInvalidOrigin(origin))
				s.logRequest(r, rec.status, start)
				return
			}
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.Header().Add("Vary", "Origin")
		}

		if r.Method == http.MethodOptions {
			rec.WriteHeader(http.StatusNoContent)
			s.logRequest(r, rec.status, start)
			return
		}

		handler.ServeHTTP(rec, r)
		s.logRequest(r, rec.status, start)
	})
}

func (s *EditorServer) logRequest(r *http.Request, status int, start time.Time) {
	s.logger.Debug(r.Context(), "Request handled",
		"method", r.Method,
		"path", r.URL.Path,
		"status", status,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}

// isAllowedOrigin admits loopback origins and the configured allow list.
func (s *EditorServer) isAllowedOrigin(origin string) bool {
	if origin == "" {
		return false
	}

	u, err := url.Parse(origin)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}
	switch u.Hostname() {
	case "localhost", "127.0.0.1", "::1":
		return true
	}

	for _, allowed := range s.currentConfig().Server.AllowedOrigins {
		if origin == allowed {
			return true
		}
	}
	return false
}

func sameOrigin(origin, host string) bool {
	u, err := url.Parse(origin)
	return err == nil && u.Host == host
}

// statusRecorder captures the response status for request logging. It
// passes Hijack through so websocket upgrades keep working.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(status int) {
	if !r.wroteHeader {
		r.status = status
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return hj.Hijack()
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func (s *EditorServer) writeJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn(r.Context(), err, "Failed to encode response", "path", r.URL.Path)
	}
}

func (s *EditorServer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	s.errorHandler.Handle(r.Context(), err)

	msg := err.Error()
	var be *builderrors.BuilderError
	if errors.As(err, &be) {
		msg = be.Message
	}
	s.writeJSON(w, r, builderrors.HTTPStatus(err), errorResponse{Error: msg, Code: builderrors.CodeOf(err)})
}
