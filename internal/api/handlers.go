package api

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"

	"git2.jad.ru/MeterRS485/vtconnect/internal/config"
	"git2.jad.ru/MeterRS485/vtconnect/internal/session"
)

// Handlers contains HTTP API handlers
type Handlers struct {
	cfg      *config.Config
	sessions *session.Manager
}

// NewHandlers creates new API handlers
func NewHandlers(cfg *config.Config, sessions *session.Manager) *Handlers {
	return &Handlers{cfg: cfg, sessions: sessions}
}

func (h *Handlers) isAuthorized(r *http.Request) bool {
	return checkAuth(r, h.cfg.StatusUser, h.cfg.StatusPass)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Healthz handles liveness probe
func (h *Handlers) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz handles readiness probe
func (h *Handlers) Readyz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// SessionsResponse is the response for GET /api/v1/sessions
type SessionsResponse struct {
	Count    int                   `json:"count"`
	Sessions []session.SessionInfo `json:"sessions"`
}

// ListSessions handles GET /api/v1/sessions
func (h *Handlers) ListSessions(w http.ResponseWriter, r *http.Request) {
	sessions := h.sessions.ListInfo()
	if sessions == nil {
		sessions = []session.SessionInfo{}
	}

	// Hide destinations if not authorized
	if !h.isAuthorized(r) {
		for i := range sessions {
			sessions[i].Destination = maskDestination(sessions[i].Destination)
		}
	}

	writeJSON(w, http.StatusOK, SessionsResponse{Count: len(sessions), Sessions: sessions})
}

// GetSession handles GET /api/v1/sessions/{id}
func (h *Handlers) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessions.Get(mux.Vars(r)["id"])
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	info := sess.Info()
	if !h.isAuthorized(r) {
		info.Destination = maskDestination(info.Destination)
	}
	writeJSON(w, http.StatusOK, info)
}

// TerminateSession handles DELETE /api/v1/sessions/{id}
func (h *Handlers) TerminateSession(w http.ResponseWriter, r *http.Request) {
	if !h.isAuthorized(r) {
		w.Header().Set("WWW-Authenticate", `Basic realm="vtconnect"`)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	if h.sessions.Terminate(mux.Vars(r)["id"]) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "terminated"})
	} else {
		http.Error(w, "session not found", http.StatusNotFound)
	}
}

// StatsResponse is the response for GET /api/v1/stats
type StatsResponse struct {
	SessionsActive int    `json:"sessions_active"`
	SessionsTotal  uint64 `json:"sessions_total"`
	BytesIn        int64  `json:"bytes_in"`
	BytesOut       int64  `json:"bytes_out"`
	Commands       int64  `json:"commands"`
	DecodeErrors   int64  `json:"decode_errors"`
}

// Stats handles GET /api/v1/stats. Byte and command totals cover active
// sessions.
func (h *Handlers) Stats(w http.ResponseWriter, r *http.Request) {
	resp := StatsResponse{SessionsTotal: h.sessions.Total()}
	for _, info := range h.sessions.ListInfo() {
		resp.SessionsActive++
		resp.BytesIn += info.BytesIn
		resp.BytesOut += info.BytesOut
		resp.Commands += info.Commands
		resp.DecodeErrors += info.DecodeErrors
	}
	writeJSON(w, http.StatusOK, resp)
}

// maskDestination keeps the scheme and hides host and path:
// "ssh://root@10.1.2.3:22" -> "ssh://x.x.x.x".
func maskDestination(dest string) string {
	u, err := url.Parse(dest)
	if err != nil || u.Scheme == "" {
		return "x.x.x.x"
	}
	return u.Scheme + "://x.x.x.x"
}
