package server

import (
	"database/sql"
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"

	"github.com/playwave/tunequiz/internal/quiz"
)

// Deps carries everything the routes need.
type Deps struct {
	DB           *sql.DB
	Registry     *Registry
	Broker       *Broker
	AudioHub     *AudioHub
	Controller   *quiz.Controller
	Host         hostAuth
	DefaultSongs int
}

// NewDeps wires the gateway-side collaborators. The returned ChatGateway
// and AudioHub are what the quiz controller should be built on.
func NewDeps(db *sql.DB, logger *slog.Logger, hostPassword string, defaultSongs int) (Deps, *ChatGateway, *AudioHub, error) {
	host, err := newHostAuth(hostPassword)
	if err != nil {
		return Deps{}, nil, nil, err
	}

	broker := NewBroker()
	hub := NewAudioHub(logger)

	return Deps{
		DB:           db,
		Registry:     NewRegistry(),
		Broker:       broker,
		AudioHub:     hub,
		Host:         host,
		DefaultSongs: defaultSongs,
	}, NewChatGateway(broker), hub, nil
}

func addRoutes(r chi.Router, logger *slog.Logger, deps Deps) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("TuneQuiz API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(logger, deps.DB))

	r.Post("/api/join", handleJoin(deps.Registry))

	r.Route("/api/quiz", func(r chi.Router) {
		r.Post("/join", handleQuizJoin(deps.Controller, deps.Host))
		r.Post("/start", handleQuizStart(deps.Controller, deps.Host, deps.DefaultSongs))
		r.With(participantAuth(deps.Registry)).Post("/guess", handleGuess(deps.Controller))
		r.Get("/state", handleState(deps.Controller))
		r.Get("/events", handleEvents(deps.Registry, deps.Broker))
		r.Get("/audio", handleAudio(deps.AudioHub, logger))
	})
}
