package server

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/playwave/tunequiz/internal/quiz"
	"github.com/playwave/tunequiz/internal/tunequiz"
)

type GuessRequest struct {
	Text string `json:"text"`
}

type GuessResponse struct {
	GuessID string `json:"guessId"`
	Result  string `json:"result"`
}

func handleGuess(ctrl *quiz.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := participantFrom(r)

		var req GuessRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		req.Text = strings.TrimSpace(req.Text)
		if req.Text == "" {
			writeError(w, http.StatusBadRequest, "text is required")
			return
		}

		ev := tunequiz.AnswerEvent{
			Participant: p,
			GuessID:     uuid.NewString(),
			Text:        req.Text,
		}

		result := ctrl.SubmitAnswer(r.Context(), DefaultChannel, ev)

		writeJSON(w, http.StatusOK, GuessResponse{
			GuessID: ev.GuessID,
			Result:  string(result),
		})
	}
}
