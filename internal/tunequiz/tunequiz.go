// Package tunequiz defines the core domain types and errors.
package tunequiz

import (
	"errors"
	"time"
)

// Song is an immutable catalog entry. MediaRef is an opaque identifier
// understood by the media resolver (a YouTube watch code in the seed data).
type Song struct {
	ID          string
	Title       string
	Artist      string
	Genre       string
	StartOffset time.Duration
	MediaRef    string
}

// Participant identifies a player in the channel.
type Participant struct {
	ID   string
	Name string
}

// Category is one of the two independently scored guess targets of a round.
type Category string

const (
	CategoryTitle  Category = "title"
	CategoryArtist Category = "artist"
)

// Round holds per-round scoring state. Index is 1-based. A winner field,
// once set, is never overwritten.
type Round struct {
	Index       int
	TitleWonBy  *Participant
	ArtistWonBy *Participant
}

// Complete reports whether both categories have been won.
func (r Round) Complete() bool {
	return r.TitleWonBy != nil && r.ArtistWonBy != nil
}

// SessionState is the lifecycle state of the single live session.
type SessionState string

const (
	StateIdle   SessionState = "idle"
	StateActive SessionState = "active"
	StateEnded  SessionState = "ended"
)

// AnswerEvent is an ephemeral inbound guess. GuessID lets the transport
// correlate the reaction back to the originating message.
type AnswerEvent struct {
	Participant Participant
	GuessID     string
	Text        string
}

var (
	// ErrAlreadyRunning is returned when a start or join arrives while a
	// session is active. Benign: reported to the requester, never fatal.
	ErrAlreadyRunning = errors.New("a quiz is already running")

	// ErrNotBound is returned when a start arrives before the session has
	// been bound to a channel and audio destination.
	ErrNotBound = errors.New("not bound to a channel and audio destination")

	// ErrMediaUnavailable wraps any failure to resolve or stream a song.
	ErrMediaUnavailable = errors.New("media unavailable")

	// ErrInvalidArgument is returned for malformed catalog sample requests.
	ErrInvalidArgument = errors.New("invalid argument")
)
