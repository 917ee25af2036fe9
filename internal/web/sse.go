package web

import (
	"fmt"
	"net/http"
	"time"
)

// speechEvents streams speech commands to one browser tab. Each command is
// an "event: speech" frame whose data is the JSON-encoded command.
func (s *Server) speechEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	id, ch := s.hub.Subscribe()
	defer s.hub.Unsubscribe(id)
	s.log.Info("speech listener %s connected (%d total)", id, s.hub.Listeners())

	fmt.Fprintf(w, "event: connected\ndata: {\"listener\":%q}\n\n", id)
	flusher.Flush()

	ping := time.NewTicker(s.heartbeat)
	defer ping.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			s.log.Info("speech listener %s disconnected", id)
			return
		case <-ping.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case cmd, open := <-ch:
			if !open {
				return
			}
			data, err := cmd.Encode()
			if err != nil {
				s.log.Error("encode speech command: %v", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", "speech", data)
			flusher.Flush()
		}
	}
}
