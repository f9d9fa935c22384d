package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/playwave/tunequiz/internal/catalog"
	"github.com/playwave/tunequiz/internal/database"
	"github.com/playwave/tunequiz/internal/quiz"
	"github.com/playwave/tunequiz/internal/tunequiz"
)

const testPassword = "secret"

type stubMedia struct{}

func (stubMedia) ResolveStream(_ context.Context, _ string, _ time.Duration) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("audio-bytes")), nil
}

func newTestRouter(t *testing.T) *chi.Mux {
	t.Helper()
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := database.Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("opening db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	deps, chat, hub, err := NewDeps(db, logger, testPassword, 2)
	if err != nil {
		t.Fatalf("wiring deps: %v", err)
	}

	songs := catalog.New([]tunequiz.Song{
		{ID: "1", Title: "Song A", Artist: "Artist A", MediaRef: "a"},
		{ID: "2", Title: "Song B", Artist: "Artist B", MediaRef: "b"},
	})
	sched := quiz.NewPlaybackScheduler(stubMedia{}, logger)
	ctrl := quiz.NewController(logger, songs, chat, hub, sched)
	deps.Controller = ctrl
	t.Cleanup(func() { ctrl.Shutdown(context.Background()) })

	r := chi.NewRouter()
	addRoutes(r, logger, deps)
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func joinParticipant(t *testing.T, r http.Handler, name string) JoinResponse {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/join", "", JoinRequest{Name: name})
	if w.Code != http.StatusOK {
		t.Fatalf("join: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp JoinResponse
	json.NewDecoder(w.Body).Decode(&resp)
	return resp
}

func TestJoinRequiresName(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/join", "", JoinRequest{Name: "  "})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestGuessRequiresToken(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/quiz/guess", "", GuessRequest{Text: "song a"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestGuessIgnoredWhenNoSession(t *testing.T) {
	r := newTestRouter(t)
	p := joinParticipant(t, r, "Maria")

	w := doJSON(t, r, http.MethodPost, "/api/quiz/guess", p.Token, GuessRequest{Text: "song a"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp GuessResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Result != string(quiz.GuessIgnored) {
		t.Fatalf("result = %q, want %q", resp.Result, quiz.GuessIgnored)
	}
}

func TestStartRejectsWrongPassword(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/quiz/start", "", QuizStartRequest{Password: "nope"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestStartAndAlreadyRunning(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/quiz/start", "", QuizStartRequest{Password: testPassword})
	if w.Code != http.StatusOK {
		t.Fatalf("start: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	// A second start while active is benign but rejected.
	w = doJSON(t, r, http.MethodPost, "/api/quiz/start", "", QuizStartRequest{Password: testPassword})
	if w.Code != http.StatusConflict {
		t.Fatalf("second start: expected 409, got %d", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/api/quiz/state", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("state: expected 200, got %d", w.Code)
	}
	var st quiz.Status
	json.NewDecoder(w.Body).Decode(&st)
	if st.State != tunequiz.StateActive {
		t.Fatalf("state = %q, want active", st.State)
	}
	if st.Total != 2 || st.Round != 1 {
		t.Fatalf("round/total = %d/%d, want 1/2", st.Round, st.Total)
	}
}

func TestQuizJoinBindsWithoutStarting(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/quiz/join", "", QuizJoinRequest{Password: testPassword})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, "/api/quiz/state", "", nil)
	var st quiz.Status
	json.NewDecoder(w.Body).Decode(&st)
	if st.State != tunequiz.StateIdle {
		t.Fatalf("state = %q, want idle after bind", st.State)
	}
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/healthz", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"ok"`) {
		t.Fatalf("body = %s, want sqlite ok", w.Body.String())
	}
}
