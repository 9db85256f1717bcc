package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const sessionCookie = "movieclub_session"

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Instrument records the request counter and latency histogram, labeled by
// the mux route template rather than the raw path.
func (h *Handler) Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		endpoint := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tmpl, err := route.GetPathTemplate(); err == nil {
				endpoint = tmpl
			}
		}

		timer := prometheus.NewTimer(httpRequestDuration.WithLabelValues(r.Method, endpoint))
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		timer.ObserveDuration()

		httpRequestsTotal.WithLabelValues(r.Method, endpoint, strconv.Itoa(rec.status)).Inc()
	})
}

// LogRequests writes one structured line per request.
func (h *Handler) LogRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		h.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)))
	})
}

// sessionMemberID resolves the logged-in member from the session cookie or
// an Authorization bearer token. Empty string means anonymous.
func (h *Handler) sessionMemberID(r *http.Request) string {
	token := ""
	if c, err := r.Cookie(sessionCookie); err == nil {
		token = c.Value
	}
	if bearer := r.Header.Get("Authorization"); len(bearer) > 7 && bearer[:7] == "Bearer " {
		token = bearer[7:]
	}
	if token == "" {
		return ""
	}
	memberID, err := h.sessions.Verify(token)
	if err != nil {
		return ""
	}
	return memberID
}

// callerMemberID resolves the identity used to decorate listings: an
// explicit memberId query parameter wins, then the session, else anonymous.
func (h *Handler) callerMemberID(r *http.Request) string {
	if id := r.URL.Query().Get("memberId"); id != "" {
		return id
	}
	return h.sessionMemberID(r)
}

// requireSession resolves the logged-in member or writes a 401. An empty
// return means the response has already been written.
func (h *Handler) requireSession(w http.ResponseWriter, r *http.Request) string {
	memberID := h.sessionMemberID(r)
	if memberID == "" {
		h.respondError(w, r, http.StatusUnauthorized, "UNAUTHENTICATED", "로그인이 필요합니다.")
	}
	return memberID
}
