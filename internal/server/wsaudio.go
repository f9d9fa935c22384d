package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"nhooyr.io/websocket"

	"github.com/playwave/tunequiz/internal/quiz"
)

const audioFrameBytes = 4096

// AudioHub implements quiz.AudioTransport. Each target is a room; listeners
// attach to a room over a websocket and receive the playing clip as binary
// frames.
type AudioHub struct {
	logger *slog.Logger

	mu    sync.Mutex
	rooms map[string]*AudioRoom
}

func NewAudioHub(logger *slog.Logger) *AudioHub {
	return &AudioHub{
		logger: logger,
		rooms:  make(map[string]*AudioRoom),
	}
}

func (h *AudioHub) Connect(_ context.Context, target string) (quiz.AudioConn, error) {
	return h.room(target), nil
}

func (h *AudioHub) room(target string) *AudioRoom {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[target]
	if !ok {
		room = &AudioRoom{
			name:      target,
			logger:    h.logger,
			listeners: make(map[chan []byte]struct{}),
		}
		h.rooms[target] = room
	}
	return room
}

// AudioRoom fans one audio stream out to every attached listener.
type AudioRoom struct {
	name   string
	logger *slog.Logger

	mu        sync.RWMutex
	listeners map[chan []byte]struct{}
}

func (r *AudioRoom) subscribe() chan []byte {
	ch := make(chan []byte, 64)
	r.mu.Lock()
	r.listeners[ch] = struct{}{}
	r.mu.Unlock()
	return ch
}

func (r *AudioRoom) unsubscribe(ch chan []byte) {
	r.mu.Lock()
	delete(r.listeners, ch)
	r.mu.Unlock()
}

func (r *AudioRoom) broadcast(frame []byte) {
	r.mu.RLock()
	for ch := range r.listeners {
		select {
		case ch <- frame:
		default:
			// Drop the frame for a slow listener rather than stalling
			// everyone else.
		}
	}
	r.mu.RUnlock()
}

// Play copies stream to all listeners until it drains or Stop is called.
func (r *AudioRoom) Play(ctx context.Context, stream io.Reader) (quiz.Playback, error) {
	pb := &playback{done: make(chan struct{})}
	go r.pump(ctx, stream, pb)
	return pb, nil
}

// Leave detaches the session from the room. Listeners stay connected; they
// just stop receiving frames until the next game plays.
func (r *AudioRoom) Leave() error { return nil }

func (r *AudioRoom) pump(ctx context.Context, stream io.Reader, pb *playback) {
	buf := make([]byte, audioFrameBytes)
	for {
		select {
		case <-pb.done:
			return
		case <-ctx.Done():
			return
		default:
		}

		n, err := stream.Read(buf)
		if n > 0 {
			frame := make([]byte, n)
			copy(frame, buf[:n])
			r.broadcast(frame)
		}
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			r.logger.Debug("audio stream ended", "room", r.name, "error", err)
			return
		}
	}
}

type playback struct {
	done chan struct{}
	once sync.Once
}

func (p *playback) Stop() {
	p.once.Do(func() { close(p.done) })
}

// handleAudio upgrades a listener to a websocket and pushes audio frames.
func handleAudio(hub *AudioHub, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target := r.URL.Query().Get("room")
		if target == "" {
			target = DefaultRoom
		}
		room := hub.room(target)

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			logger.Error("websocket accept failed", "error", err)
			return
		}
		defer conn.CloseNow()

		// Server-push only: CloseRead cancels the context when the client
		// goes away.
		ctx := conn.CloseRead(r.Context())

		ch := room.subscribe()
		defer room.unsubscribe(ch)

		for {
			select {
			case <-ctx.Done():
				return
			case frame := <-ch:
				if err := conn.Write(ctx, websocket.MessageBinary, frame); err != nil {
					logger.Debug("websocket write failed", "error", err)
					return
				}
			}
		}
	}
}
