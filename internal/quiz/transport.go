package quiz

import (
	"context"
	"io"
	"time"
)

// ChatTransport is the narrow capability the session needs from the chat
// platform: channel-wide reports and per-guess reactions.
type ChatTransport interface {
	SendMessage(ctx context.Context, channel string, msg Message) error
	SendReaction(ctx context.Context, channel string, reaction Reaction) error
}

// Message is a channel-wide report.
type Message struct {
	Kind   string
	Text   string
	Report *RoundReport
}

// Message kinds sent by the controller.
const (
	MessageQuizBegan     = "quiz_began"
	MessageQuizEnded     = "quiz_ended"
	MessageRoundReport   = "round_report"
	MessageRoundComplete = "round_complete"
	MessageMediaError    = "media_error"
)

// RoundReport is the structured outcome of a closed round.
type RoundReport struct {
	Round       int    `json:"round"`
	Total       int    `json:"total"`
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	TitleWonBy  string `json:"titleWonBy"`
	ArtistWonBy string `json:"artistWonBy"`
}

// Reaction acknowledges a single guess back to its author.
type Reaction struct {
	ParticipantID string
	GuessID       string
	OK            bool
}

// AudioTransport establishes audio destinations.
type AudioTransport interface {
	Connect(ctx context.Context, target string) (AudioConn, error)
}

// AudioConn is an established audio destination that can play one stream
// at a time.
type AudioConn interface {
	Play(ctx context.Context, stream io.Reader) (Playback, error)
	Leave() error
}

// Playback is an in-flight stream. Stop is idempotent.
type Playback interface {
	Stop()
}

// MediaSource resolves a song's opaque media reference into a byte stream,
// already positioned at the requested offset. Failures surface as
// tunequiz.ErrMediaUnavailable.
type MediaSource interface {
	ResolveStream(ctx context.Context, mediaRef string, seek time.Duration) (io.ReadCloser, error)
}
