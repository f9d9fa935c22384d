package server

import (
	"fmt"
	"net/http"
	"time"
)

// handleEvents streams channel messages and the caller's own guess
// reactions over SSE.
func handleEvents(reg *Registry, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token == "" {
			writeError(w, http.StatusUnauthorized, "token query parameter required")
			return
		}

		p, ok := reg.Lookup(token)
		if !ok {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			writeError(w, http.StatusInternalServerError, "streaming not supported")
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")
		flusher.Flush()

		channelCh := broker.Subscribe(channelTopic(DefaultChannel))
		defer broker.Unsubscribe(channelTopic(DefaultChannel), channelCh)

		personalCh := broker.Subscribe(participantTopic(p.ID))
		defer broker.Unsubscribe(participantTopic(p.ID), personalCh)

		ping := time.NewTicker(30 * time.Second)
		defer ping.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case data := <-channelCh:
				fmt.Fprintf(w, "event: channel\ndata: %s\n\n", data)
				flusher.Flush()
			case data := <-personalCh:
				fmt.Fprintf(w, "event: reaction\ndata: %s\n\n", data)
				flusher.Flush()
			case <-ping.C:
				fmt.Fprintf(w, ": ping\n\n")
				flusher.Flush()
			}
		}
	}
}
