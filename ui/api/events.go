package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/youssefsiam38/admindash/notifier"
)

// keepAliveInterval is how often an idle event stream sends a comment.
const keepAliveInterval = 25 * time.Second

// handleEvents streams data changes as server-sent events. Each change is
// sent as a "change" event with the JSON change as data. Slow readers miss
// changes rather than block writers.
func (rt *router[TTx]) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "sse_not_supported", "SSE not supported")
		return
	}

	changes := make(chan notifier.Change, 16)
	unsubscribe := rt.svc.Client().Subscribe(func(c notifier.Change) {
		select {
		case changes <- c:
		default:
		}
	})
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			_, _ = fmt.Fprint(w, ": keep-alive\n\n")
			flusher.Flush()
		case c := <-changes:
			data, err := json.Marshal(c)
			if err != nil {
				continue
			}
			_, _ = fmt.Fprintf(w, "event: change\ndata: %s\n\n", data)
			flusher.Flush()
		}
	}
}
