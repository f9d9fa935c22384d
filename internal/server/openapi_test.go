package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHandleOpenAPI(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/openapi.json", nil)
	w := httptest.NewRecorder()

	handleOpenAPI()(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("content type = %q", ct)
	}

	body := w.Body.String()
	for _, want := range []string{"TuneQuiz API", "/api/join", "/api/quiz/guess", "/api/quiz/state"} {
		if !strings.Contains(body, want) {
			t.Errorf("spec missing %q", want)
		}
	}
}
