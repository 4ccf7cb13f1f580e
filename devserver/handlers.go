package devserver

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/sitewright/sitewright/logging"
	"github.com/sitewright/sitewright/render"
)

// StatusBoard supplies live activity statuses. *render.Board implements it.
type StatusBoard interface {
	All() map[string]render.Status
}

// LogSource supplies captured stage logs. *logging.Collector implements it.
type LogSource interface {
	All() map[string][]logging.Entry
}

// BuildState describes the rebuild loop for the status endpoint.
type BuildState struct {
	Building  bool       `json:"building"`
	Rebuilds  int64      `json:"rebuilds"`
	LastBuild *time.Time `json:"last_build,omitempty"`
	LastError string     `json:"last_error,omitempty"`
}

// StatusProvider aggregates what the status endpoint reports beyond the
// activity board.
type StatusProvider interface {
	BuildState() BuildState
	NextPush() *time.Time
}

// NextPushResponse is the JSON response for the next scheduled metrics push.
type NextPushResponse struct {
	Scheduled bool       `json:"scheduled"`
	At        *time.Time `json:"at,omitempty"`
}

// StatusResponse is the consolidated response for /api/status.
type StatusResponse struct {
	Build      BuildState               `json:"build"`
	Activities map[string]render.Status `json:"activities"`
	NextPush   NextPushResponse         `json:"next_push"`
}

// handleHealth is a simple health check handler that returns "ok".
func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

type statusHandler struct {
	board    StatusBoard
	provider StatusProvider
}

func (h *statusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{
		Activities: map[string]render.Status{},
	}
	if h.board != nil {
		resp.Activities = h.board.All()
	}
	if h.provider != nil {
		resp.Build = h.provider.BuildState()
		if next := h.provider.NextPush(); next != nil {
			resp.NextPush = NextPushResponse{Scheduled: true, At: next}
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

type logsHandler struct {
	source LogSource
}

func (h *logsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logs := map[string][]logging.Entry{}
	if h.source != nil {
		logs = h.source.All()
	}
	writeJSON(w, http.StatusOK, logs)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}
