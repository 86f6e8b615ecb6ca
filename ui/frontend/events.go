package frontend

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/youssefsiam38/admindash/notifier"
)

const keepAliveInterval = 25 * time.Second

// handleEvents streams data changes to the browser. The page script turns
// each "change" event into an HTMX refresh of the visible widgets.
func (rt *router[TTx]) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	changes := make(chan notifier.Change, 16)
	unsubscribe := rt.client.Subscribe(func(c notifier.Change) {
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
	_, _ = fmt.Fprintf(w, "retry: %d\n\n", rt.config.RefreshInterval.Milliseconds())
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
			data, _ := json.Marshal(c)
			_, _ = fmt.Fprintf(w, "event: change\ndata: %s\n\n", data)
			flusher.Flush()
		}
	}
}
