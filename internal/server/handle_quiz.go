package server

import (
	"errors"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/playwave/tunequiz/internal/quiz"
	"github.com/playwave/tunequiz/internal/tunequiz"
)

// DefaultChannel and DefaultRoom are the single chat channel and audio
// room this deployment runs. One game at a time, by design.
const (
	DefaultChannel = "main"
	DefaultRoom    = "main"
)

// hostAuth gates the host-only endpoints behind the configured password.
type hostAuth struct {
	hash []byte
}

func newHostAuth(password string) (hostAuth, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return hostAuth{}, err
	}
	return hostAuth{hash: hash}, nil
}

func (h hostAuth) check(password string) bool {
	return bcrypt.CompareHashAndPassword(h.hash, []byte(password)) == nil
}

type QuizJoinRequest struct {
	Password string `json:"password"`
}

type QuizStartRequest struct {
	Password string `json:"password"`
	Songs    int    `json:"songs,omitempty"`
}

type QuizStartResponse struct {
	Status string `json:"status"`
}

// handleQuizJoin binds the session to the channel and audio room without
// starting it, mirroring a bot being pulled into a voice channel.
func handleQuizJoin(ctrl *quiz.Controller, host hostAuth) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req QuizJoinRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if !host.check(req.Password) {
			writeError(w, http.StatusUnauthorized, "invalid password")
			return
		}

		err := ctrl.Bind(r.Context(), DefaultChannel, DefaultRoom)
		if errors.Is(err, tunequiz.ErrAlreadyRunning) {
			writeError(w, http.StatusConflict, "A quiz is already running!")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, QuizStartResponse{Status: "bound"})
	}
}

func handleQuizStart(ctrl *quiz.Controller, host hostAuth, defaultSongs int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req QuizStartRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if !host.check(req.Password) {
			writeError(w, http.StatusUnauthorized, "invalid password")
			return
		}

		songs := req.Songs
		if songs == 0 {
			songs = defaultSongs
		}

		if err := ctrl.Bind(r.Context(), DefaultChannel, DefaultRoom); err != nil {
			if errors.Is(err, tunequiz.ErrAlreadyRunning) {
				writeError(w, http.StatusConflict, "A quiz is already running!")
				return
			}
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		err := ctrl.Start(r.Context(), songs)
		switch {
		case errors.Is(err, tunequiz.ErrAlreadyRunning):
			writeError(w, http.StatusConflict, "A quiz is already running!")
		case errors.Is(err, tunequiz.ErrInvalidArgument):
			writeError(w, http.StatusBadRequest, "songs must be positive")
		case errors.Is(err, tunequiz.ErrNotBound):
			writeError(w, http.StatusConflict, "no audio room bound")
		case err != nil:
			writeError(w, http.StatusInternalServerError, "internal error")
		default:
			writeJSON(w, http.StatusOK, QuizStartResponse{Status: "started"})
		}
	}
}
