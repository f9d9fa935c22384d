package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/playwave/tunequiz/internal/tunequiz"
)

type ctxKey int

const ctxKeyParticipant ctxKey = iota

// participantAuth resolves the Bearer token into a participant.
func participantAuth(reg *Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			token, found := strings.CutPrefix(auth, "Bearer ")
			if !found || token == "" {
				writeError(w, http.StatusUnauthorized, "invalid or missing token")
				return
			}

			p, ok := reg.Lookup(token)
			if !ok {
				writeError(w, http.StatusUnauthorized, "invalid or missing token")
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyParticipant, p)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func participantFrom(r *http.Request) tunequiz.Participant {
	return r.Context().Value(ctxKeyParticipant).(tunequiz.Participant)
}
