package quiz

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/playwave/tunequiz/internal/tunequiz"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubCatalog struct {
	songs []tunequiz.Song
}

func (s stubCatalog) Sample(n int) ([]tunequiz.Song, error) {
	if n <= 0 {
		return nil, tunequiz.ErrInvalidArgument
	}
	if n > len(s.songs) {
		n = len(s.songs)
	}
	return s.songs[:n], nil
}

type fakeChat struct {
	mu        sync.Mutex
	messages  []Message
	reactions []Reaction
}

func (c *fakeChat) SendMessage(_ context.Context, _ string, msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, msg)
	return nil
}

func (c *fakeChat) SendReaction(_ context.Context, _ string, r Reaction) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reactions = append(c.reactions, r)
	return nil
}

func (c *fakeChat) kinds() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.messages))
	for i, m := range c.messages {
		out[i] = m.Kind
	}
	return out
}

func (c *fakeChat) reports() []*RoundReport {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []*RoundReport
	for _, m := range c.messages {
		if m.Kind == MessageRoundReport {
			out = append(out, m.Report)
		}
	}
	return out
}

func (c *fakeChat) reactionCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.reactions)
}

type fakeMedia struct {
	mu       sync.Mutex
	fail     map[string]bool
	resolved []string
}

func (m *fakeMedia) ResolveStream(_ context.Context, ref string, _ time.Duration) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resolved = append(m.resolved, ref)
	if m.fail[ref] {
		return nil, fmt.Errorf("%w: stream rejected", tunequiz.ErrMediaUnavailable)
	}
	return io.NopCloser(strings.NewReader("audio-bytes")), nil
}

type fakeAudio struct {
	mu    sync.Mutex
	conns []*fakeConn
}

func (a *fakeAudio) Connect(_ context.Context, target string) (AudioConn, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	conn := &fakeConn{target: target}
	a.conns = append(a.conns, conn)
	return conn, nil
}

type fakeConn struct {
	mu     sync.Mutex
	target string
	plays  int
	left   bool
}

func (c *fakeConn) Play(_ context.Context, _ io.Reader) (Playback, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.plays++
	return &fakePlayback{}, nil
}

func (c *fakeConn) Leave() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.left = true
	return nil
}

type fakePlayback struct {
	mu      sync.Mutex
	stopped bool
}

func (p *fakePlayback) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopped = true
}
