package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	channerics "github.com/niceyeti/channerics/channels"

	"github.com/ifsflame/flameserver/jobengine"
)

type progressEvent struct {
	Status              jobengine.Status `json:"status"`
	Progress            int              `json:"progress"`
	Total               int              `json:"total"`
	IntermediateVersion int              `json:"intermediate_version"`
}

// streamProgress polls the job's progress snapshot every sse_poll_interval_ms
// and writes it as a named SSE frame, closing the connection once a terminal
// status has been flushed.
func (s *Server) streamProgress(w http.ResponseWriter, r *http.Request) {
	jobID := mux.Vars(r)["job_id"]

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	interval := time.Duration(s.Config.SSEPollIntervalMs) * time.Millisecond
	ctx := r.Context()

	for range channerics.NewTicker(ctx.Done(), interval) {
		snap := s.Engine.Progress(ctx, jobID)
		event := eventNameFor(snap.Status)

		if !writeSSEFrame(w, flusher, event, progressEvent{
			Status:              snap.Status,
			Progress:            snap.Progress,
			Total:               snap.Total,
			IntermediateVersion: snap.IntermediateVersion,
		}) {
			return
		}

		if snap.Status == jobengine.StatusCompleted || snap.Status == jobengine.StatusFailed {
			return
		}
	}
}

func eventNameFor(status jobengine.Status) string {
	switch status {
	case jobengine.StatusCompleted:
		return "completed"
	case jobengine.StatusFailed:
		return "failed"
	default:
		return "progress"
	}
}

func writeSSEFrame(w http.ResponseWriter, flusher http.Flusher, event string, payload any) bool {
	body, err := json.Marshal(payload)
	if err != nil {
		return false
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, body); err != nil {
		return false
	}
	flusher.Flush()
	return true
}
