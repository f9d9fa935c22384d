// Package quiz implements the quiz session state machine: round lifecycle,
// concurrent answer-race resolution, and playback-timing orchestration.
package quiz

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/playwave/tunequiz/internal/match"
	"github.com/playwave/tunequiz/internal/tunequiz"
)

// Catalog is the slice of the song catalog the session needs.
type Catalog interface {
	Sample(n int) ([]tunequiz.Song, error)
}

// GuessResult tells the transport how a guess was handled.
type GuessResult string

const (
	// GuessIgnored: no active session, or the guess came from an unbound
	// channel. Not an error; the guess is silently dropped.
	GuessIgnored GuessResult = "ignored"
	// GuessNoMatch: neither title nor artist was close enough.
	GuessNoMatch GuessResult = "no_match"
	// GuessTooLate: close enough, but every matching category was already
	// won. Not credited, no reaction.
	GuessTooLate   GuessResult = "too_late"
	GuessWonTitle  GuessResult = "won_title"
	GuessWonArtist GuessResult = "won_artist"
)

// Controller owns the single live session and drives it from Idle through
// Active to Ended. All mutation of currentIndex and the playlist funnels
// through its mutex; scoring races are resolved inside the RoundLedger.
type Controller struct {
	logger  *slog.Logger
	catalog Catalog
	chat    ChatTransport
	audio   AudioTransport
	sched   *PlaybackScheduler

	mu           sync.Mutex
	state        tunequiz.SessionState
	generation   uint64
	channel      string
	voiceTarget  string
	conn         AudioConn
	playlist     []tunequiz.Song
	currentIndex int
	ledger       *RoundLedger
}

func NewController(logger *slog.Logger, catalog Catalog, chat ChatTransport, audio AudioTransport, sched *PlaybackScheduler) *Controller {
	return &Controller{
		logger:       logger,
		catalog:      catalog,
		chat:         chat,
		audio:        audio,
		sched:        sched,
		state:        tunequiz.StateIdle,
		currentIndex: -1,
		ledger:       NewRoundLedger(),
	}
}

// Bind establishes where reports and audio go. Valid only while no session
// is active; rebinding replaces a previous idle binding.
func (c *Controller) Bind(ctx context.Context, channel, voiceTarget string) error {
	if channel == "" || voiceTarget == "" {
		return tunequiz.ErrNotBound
	}

	c.mu.Lock()
	if c.state == tunequiz.StateActive {
		c.mu.Unlock()
		return tunequiz.ErrAlreadyRunning
	}
	c.mu.Unlock()

	conn, err := c.audio.Connect(ctx, voiceTarget)
	if err != nil {
		return fmt.Errorf("connecting to %q: %w", voiceTarget, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == tunequiz.StateActive {
		conn.Leave()
		return tunequiz.ErrAlreadyRunning
	}
	if c.conn != nil {
		c.conn.Leave()
	}
	c.channel = channel
	c.voiceTarget = voiceTarget
	c.conn = conn
	return nil
}

// Start samples n songs and begins the first round. The previous session's
// results, if any, are discarded.
func (c *Controller) Start(ctx context.Context, n int) error {
	c.mu.Lock()
	if c.state == tunequiz.StateActive {
		c.mu.Unlock()
		return tunequiz.ErrAlreadyRunning
	}
	if c.channel == "" || c.conn == nil {
		c.mu.Unlock()
		return tunequiz.ErrNotBound
	}

	songs, err := c.catalog.Sample(n)
	if err != nil {
		c.mu.Unlock()
		return err
	}

	c.playlist = songs
	c.currentIndex = -1
	c.ledger = NewRoundLedger()
	c.state = tunequiz.StateActive
	c.generation++
	gen := c.generation
	channel := c.channel
	c.mu.Unlock()

	c.logger.Info("session started", "songs", len(songs), "channel", channel)
	c.send(ctx, channel, Message{Kind: MessageQuizBegan, Text: "Quiz began"})

	c.advance(ctx, gen, false)
	return nil
}

// advance is the single round boundary: it closes the previous round,
// moves currentIndex forward, and either ends the session or opens the
// next playback window. Elapse callbacks from a replaced session carry a
// stale generation and fall through without touching anything.
func (c *Controller) advance(ctx context.Context, gen uint64, announce bool) {
	c.mu.Lock()
	if c.state != tunequiz.StateActive || gen != c.generation {
		c.mu.Unlock()
		return
	}

	var report *RoundReport
	if announce && c.currentIndex >= 0 {
		report = newRoundReport(
			c.playlist[c.currentIndex],
			c.ledger.Snapshot(c.currentIndex+1),
			len(c.playlist),
		)
	}

	c.currentIndex++
	channel := c.channel

	if c.currentIndex >= len(c.playlist) {
		c.state = tunequiz.StateEnded
		conn := c.conn
		c.conn = nil
		c.channel = ""
		c.voiceTarget = ""
		total := len(c.playlist)
		c.mu.Unlock()

		if report != nil {
			c.send(ctx, channel, Message{Kind: MessageRoundReport, Report: report})
		}
		c.send(ctx, channel, Message{Kind: MessageQuizEnded, Text: "Quiz ended"})
		if conn != nil {
			conn.Leave()
		}
		c.logger.Info("session ended", "rounds", total)
		return
	}

	song := c.playlist[c.currentIndex]
	round := c.currentIndex + 1
	total := len(c.playlist)
	conn := c.conn
	c.mu.Unlock()

	if report != nil {
		c.send(ctx, channel, Message{Kind: MessageRoundReport, Report: report})
	}

	c.logger.Debug("round started", "round", round, "total", total,
		"title", song.Title, "artist", song.Artist)

	err := c.sched.Begin(ctx, conn, song, func() {
		c.advance(context.Background(), gen, true)
	})
	if err != nil {
		c.logger.Error("playback failed", "round", round, "error", err)
		c.send(ctx, channel, Message{Kind: MessageMediaError, Text: fmt.Sprintf("Error: %v", err)})
		// The round is abandoned, not retried: close its window now so
		// the session reports it with no winners and moves on.
		c.sched.Cancel()
	}
}

// SubmitAnswer scores one guess against the current round. Guesses from an
// unbound channel, or while no session is active, are silently ignored.
// Title is checked before artist, so a guess matching both can only win
// the title slot.
func (c *Controller) SubmitAnswer(ctx context.Context, channel string, ev tunequiz.AnswerEvent) GuessResult {
	c.mu.Lock()
	if c.state != tunequiz.StateActive || channel != c.channel ||
		c.currentIndex < 0 || c.currentIndex >= len(c.playlist) {
		c.mu.Unlock()
		return GuessIgnored
	}
	song := c.playlist[c.currentIndex]
	round := c.currentIndex + 1
	ledger := c.ledger
	c.mu.Unlock()

	titleOK := match.IsMatch(song.Title, ev.Text)
	artistOK := match.IsMatch(song.Artist, ev.Text)

	if !titleOK && !artistOK {
		c.react(ctx, channel, Reaction{ParticipantID: ev.Participant.ID, GuessID: ev.GuessID, OK: false})
		return GuessNoMatch
	}

	result := GuessTooLate
	switch {
	case titleOK && ledger.RecordIfFirst(round, tunequiz.CategoryTitle, ev.Participant):
		result = GuessWonTitle
	case artistOK && ledger.RecordIfFirst(round, tunequiz.CategoryArtist, ev.Participant):
		result = GuessWonArtist
	}
	if result == GuessTooLate {
		// Already won by someone else. Not credited, no reaction.
		return result
	}

	c.react(ctx, channel, Reaction{ParticipantID: ev.Participant.ID, GuessID: ev.GuessID, OK: true})
	c.logger.Info("category won", "round", round, "result", string(result),
		"participant", ev.Participant.Name)

	if ledger.CompleteOnce(round) {
		// Both categories taken. The playback window still runs out.
		c.send(ctx, channel, Message{Kind: MessageRoundComplete, Text: "Yes! Perfektně! Enjoy the rest of the song."})
	}
	return result
}

// Status is a read-only view for reporting. Winner names only — never the
// current song's title or artist while the round is open.
type Status struct {
	State       tunequiz.SessionState `json:"state"`
	Round       int                   `json:"round"`
	Total       int                   `json:"total"`
	TitleWonBy  string                `json:"titleWonBy,omitempty"`
	ArtistWonBy string                `json:"artistWonBy,omitempty"`
}

func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := Status{State: c.state, Total: len(c.playlist)}
	if c.state == tunequiz.StateActive && c.currentIndex >= 0 {
		st.Round = c.currentIndex + 1
		snap := c.ledger.Snapshot(st.Round)
		if snap.TitleWonBy != nil {
			st.TitleWonBy = snap.TitleWonBy.Name
		}
		if snap.ArtistWonBy != nil {
			st.ArtistWonBy = snap.ArtistWonBy.Name
		}
	}
	return st
}

// Shutdown cancels any in-flight playback window and ends the session.
// Safe to call at any time; the cancellation is synchronous, and a stale
// elapse can never act on the discarded session thanks to the generation
// bump.
func (c *Controller) Shutdown(ctx context.Context) {
	c.mu.Lock()
	if c.state != tunequiz.StateActive {
		conn := c.conn
		c.conn = nil
		c.mu.Unlock()
		if conn != nil {
			conn.Leave()
		}
		return
	}

	c.generation++
	c.state = tunequiz.StateEnded
	channel := c.channel
	conn := c.conn
	c.conn = nil
	c.channel = ""
	c.voiceTarget = ""
	c.mu.Unlock()

	c.sched.Cancel()
	c.send(ctx, channel, Message{Kind: MessageQuizEnded, Text: "Quiz ended"})
	if conn != nil {
		conn.Leave()
	}
	c.logger.Info("session shut down")
}

func newRoundReport(song tunequiz.Song, snap tunequiz.Round, total int) *RoundReport {
	rep := &RoundReport{
		Round:       snap.Index,
		Total:       total,
		Title:       song.Title,
		Artist:      song.Artist,
		TitleWonBy:  "Nobody",
		ArtistWonBy: "Nobody",
	}
	if snap.TitleWonBy != nil {
		rep.TitleWonBy = snap.TitleWonBy.Name
	}
	if snap.ArtistWonBy != nil {
		rep.ArtistWonBy = snap.ArtistWonBy.Name
	}
	return rep
}

func (c *Controller) send(ctx context.Context, channel string, msg Message) {
	if err := c.chat.SendMessage(ctx, channel, msg); err != nil {
		c.logger.Error("sending message failed", "kind", msg.Kind, "error", err)
	}
}

func (c *Controller) react(ctx context.Context, channel string, r Reaction) {
	if err := c.chat.SendReaction(ctx, channel, r); err != nil {
		c.logger.Error("sending reaction failed", "guess", r.GuessID, "error", err)
	}
}
