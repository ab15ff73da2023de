// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package middleware

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/stakefactory/stakefactory/log"
)

// maxLoggedBody bounds the part of a request body copied into the log.
const maxLoggedBody = 4096

// StatusRecorder captures the status code written by a handler.
type StatusRecorder struct {
	http.ResponseWriter
	Status int
}

func NewStatusRecorder(w http.ResponseWriter) *StatusRecorder {
	return &StatusRecorder{w, http.StatusOK}
}

func (s *StatusRecorder) WriteHeader(code int) {
	s.Status = code
	s.ResponseWriter.WriteHeader(code)
}

// Hijack exposes the connection of the underlying writer for websocket upgrades.
func (s *StatusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := s.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	s.Status = http.StatusSwitchingProtocols
	return h.Hijack()
}

// RequestLoggerMiddleware logs every request while enabled is set, and requests
// slower than slowQueriesThreshold regardless of it, if the threshold is non-zero.
func RequestLoggerMiddleware(logger log.Logger, enabled *atomic.Bool, slowQueriesThreshold time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !enabled.Load() && slowQueriesThreshold == 0 {
				next.ServeHTTP(w, r)
				return
			}

			var body []byte
			if r.Body != nil && r.Method == http.MethodPost {
				var err error
				if body, err = io.ReadAll(r.Body); err != nil {
					logger.Warn("unexpected body read error", "err", err)
					http.Error(w, "unable to read body", http.StatusBadRequest)
					return
				}
				r.Body = io.NopCloser(bytes.NewReader(body))
			}

			start := time.Now()
			rec := NewStatusRecorder(w)
			next.ServeHTTP(rec, r)
			duration := time.Since(start)

			slow := slowQueriesThreshold > 0 && duration > slowQueriesThreshold
			if !enabled.Load() && !slow {
				return
			}
			if len(body) > maxLoggedBody {
				body = body[:maxLoggedBody]
			}
			logger.Info("API Request",
				"DurationMs", duration.Milliseconds(),
				"URI", r.URL.String(),
				"Method", r.Method,
				"Status", rec.Status,
				"Body", string(body),
				"Slow", slow,
			)
		})
	}
}
