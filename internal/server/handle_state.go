package server

import (
	"net/http"

	"github.com/playwave/tunequiz/internal/quiz"
)

func handleState(ctrl *quiz.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, ctrl.Status())
	}
}
