package quiz

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/playwave/tunequiz/internal/tunequiz"
)

// RoundDuration is how long each song plays and guesses are accepted.
const RoundDuration = 25 * time.Second

// PlaybackScheduler runs one timed playback window at a time. The window's
// onElapsed callback fires exactly once, either when the duration expires
// or when Cancel closes the window early.
type PlaybackScheduler struct {
	media  MediaSource
	logger *slog.Logger
	window time.Duration

	mu      sync.Mutex
	current *playWindow
}

type playWindow struct {
	timer    *time.Timer
	once     sync.Once
	elapsed  func()
	playback Playback
	stream   io.ReadCloser
}

func NewPlaybackScheduler(media MediaSource, logger *slog.Logger) *PlaybackScheduler {
	return &PlaybackScheduler{
		media:  media,
		logger: logger,
		window: RoundDuration,
	}
}

// Begin starts the playback window for song and schedules onElapsed.
// Returns tunequiz.ErrAlreadyRunning if a window is active. A media or
// playback failure is returned to the caller, but the window stays armed:
// the round still closes on schedule, with no winners.
func (s *PlaybackScheduler) Begin(ctx context.Context, conn AudioConn, song tunequiz.Song, onElapsed func()) error {
	s.mu.Lock()
	if s.current != nil {
		s.mu.Unlock()
		return tunequiz.ErrAlreadyRunning
	}
	w := &playWindow{elapsed: onElapsed}
	s.current = w
	// Arm before touching media: a failed resolve must not leave the
	// round open forever.
	w.timer = time.AfterFunc(s.window, func() { s.fire(w) })
	s.mu.Unlock()

	s.logger.Debug("playback window opened",
		"title", song.Title, "artist", song.Artist, "offset", song.StartOffset)

	stream, err := s.media.ResolveStream(ctx, song.MediaRef, song.StartOffset)
	if err != nil {
		return fmt.Errorf("resolving %q: %w", song.MediaRef, err)
	}

	playback, err := conn.Play(ctx, stream)
	if err != nil {
		stream.Close()
		return fmt.Errorf("playing %q: %w", song.MediaRef, err)
	}

	s.mu.Lock()
	if s.current == w {
		w.playback = playback
		w.stream = stream
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	// The window closed while we were resolving. Do not resume playback.
	playback.Stop()
	stream.Close()
	return nil
}

// Cancel closes the active window early. onElapsed still fires, exactly
// once and before Cancel returns, so the caller runs its usual
// round-closing logic; playback itself does not resume. No-op when no
// window is active.
func (s *PlaybackScheduler) Cancel() {
	s.mu.Lock()
	w := s.current
	s.mu.Unlock()

	if w != nil {
		s.fire(w)
	}
}

func (s *PlaybackScheduler) fire(w *playWindow) {
	w.once.Do(func() {
		w.timer.Stop()

		s.mu.Lock()
		if s.current == w {
			s.current = nil
		}
		playback, stream := w.playback, w.stream
		s.mu.Unlock()

		if playback != nil {
			playback.Stop()
		}
		if stream != nil {
			stream.Close()
		}

		w.elapsed()
	})
}
