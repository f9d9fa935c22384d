package server

import (
	"net/http"
	"strings"
)

type JoinRequest struct {
	Name string `json:"name"`
}

type JoinResponse struct {
	Token         string `json:"token"`
	ParticipantID string `json:"participantId"`
	Name          string `json:"name"`
	Channel       string `json:"channel"`
}

func handleJoin(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req JoinRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" {
			writeError(w, http.StatusBadRequest, "name is required")
			return
		}

		token, p := reg.Join(req.Name)

		writeJSON(w, http.StatusOK, JoinResponse{
			Token:         token,
			ParticipantID: p.ID,
			Name:          p.Name,
			Channel:       DefaultChannel,
		})
	}
}
