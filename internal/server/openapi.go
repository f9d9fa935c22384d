package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/playwave/tunequiz/internal/quiz"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "TuneQuiz API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for the TuneQuiz music trivia game.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// POST /api/join
	postJoin, _ := r.NewOperationContext(http.MethodPost, "/api/join")
	postJoin.SetSummary("Join the channel")
	postJoin.SetDescription("Registers a participant. Returns the bearer token used for guessing.")
	postJoin.AddReqStructure(JoinRequest{})
	postJoin.AddRespStructure(JoinResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postJoin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(postJoin)

	// POST /api/quiz/join
	postQuizJoin, _ := r.NewOperationContext(http.MethodPost, "/api/quiz/join")
	postQuizJoin.SetSummary("Bind the session")
	postQuizJoin.SetDescription("Host-only. Binds the session to the channel and audio room without starting it.")
	postQuizJoin.AddReqStructure(QuizJoinRequest{})
	postQuizJoin.AddRespStructure(QuizStartResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postQuizJoin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	postQuizJoin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postQuizJoin)

	// POST /api/quiz/start
	postStart, _ := r.NewOperationContext(http.MethodPost, "/api/quiz/start")
	postStart.SetSummary("Start a quiz")
	postStart.SetDescription("Host-only. Samples the playlist and begins the first round. 409 when a quiz is already running.")
	postStart.AddReqStructure(QuizStartRequest{})
	postStart.AddRespStructure(QuizStartResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postStart.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	postStart.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postStart)

	// POST /api/quiz/guess
	postGuess, _ := r.NewOperationContext(http.MethodPost, "/api/quiz/guess")
	postGuess.SetSummary("Submit a guess")
	postGuess.SetDescription("Scores a free-text guess against the current round. Requires Bearer token.")
	postGuess.AddReqStructure(GuessRequest{})
	postGuess.AddRespStructure(GuessResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postGuess.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postGuess)

	// GET /api/quiz/state
	getState, _ := r.NewOperationContext(http.MethodGet, "/api/quiz/state")
	getState.SetSummary("Session state")
	getState.SetDescription("Returns the session state and current round winners. Never reveals the playing song.")
	getState.AddRespStructure(quiz.Status{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getState)

	// GET /api/quiz/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/quiz/events")
	getEvents.SetSummary("SSE event stream")
	getEvents.SetDescription("Server-Sent Events stream of channel messages and per-guess reactions. Pass token as query parameter.")
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	// GET /api/quiz/audio
	getAudio, _ := r.NewOperationContext(http.MethodGet, "/api/quiz/audio")
	getAudio.SetSummary("Audio stream")
	getAudio.SetDescription("Upgrades to a WebSocket delivering the playing clip as binary frames.")
	getAudio.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("text/plain"))
	_ = r.AddOperation(getAudio)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.Encode(spec)
	}
}
