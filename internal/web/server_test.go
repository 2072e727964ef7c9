package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riverfjs/mathchat-go/internal/backend"
)

type stubBackend struct {
	mu        sync.Mutex
	answer    string
	regen     string
	feedbacks []backend.FeedbackRequest
}

func (s *stubBackend) Ask(context.Context, string, string) (string, error) {
	return s.answer, nil
}

func (s *stubBackend) Feedback(_ context.Context, req backend.FeedbackRequest) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feedbacks = append(s.feedbacks, req)
	return s.regen, nil
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(data)
}

func setup(t *testing.T, b *stubBackend) (*Server, *httptest.Server) {
	t.Helper()
	s := New(Options{Backend: b})
	ts := httptest.NewServer(s.Router())
	t.Cleanup(ts.Close)
	return s, ts
}

func TestIndex_NewSession(t *testing.T) {
	s, ts := setup(t, &stubBackend{})
	client := newClient(t)

	resp, err := client.Get(ts.URL + "/")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	page := body(t, resp)
	assert.Contains(t, page, "Hello! I am your Math Professor.")
	assert.Contains(t, page, `action="/send"`)
	assert.Equal(t, 1, s.Sessions())

	// 同一 cookie 复用会话
	resp, err = client.Get(ts.URL + "/")
	require.NoError(t, err)
	body(t, resp)
	assert.Equal(t, 1, s.Sessions())

	resp, err = newClient(t).Get(ts.URL + "/")
	require.NoError(t, err)
	body(t, resp)
	assert.Equal(t, 2, s.Sessions())
}

func TestSendAndFeedback(t *testing.T) {
	b := &stubBackend{answer: "The area is $$\\pi r^2$$", regen: "Area: $A = \\pi r^2$"}
	_, ts := setup(t, b)
	client := newClient(t)

	resp, err := client.PostForm(ts.URL+"/send", url.Values{"question": {"Area of a circle?"}})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	page := body(t, resp)
	assert.Contains(t, page, "Area of a circle?")
	assert.Contains(t, page, `<div class="math math-block" data-tex="\pi r^2">π r²</div>`)
	assert.Contains(t, page, `action="/feedback/2/incorrect"`)
	// 问候语不显示评价按钮
	assert.NotContains(t, page, `action="/feedback/0/`)

	resp, err = client.Post(ts.URL+"/feedback/2/incorrect", "", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	page = body(t, resp)
	assert.Contains(t, page, "message assistant regenerated")
	assert.Contains(t, page, "A = π r²")
	assert.Contains(t, page, `class="selected">❌ Incorrect`)
	assert.NotContains(t, page, `action="/feedback/3/`)

	require.Len(t, b.feedbacks, 1)
	assert.Equal(t, "Area of a circle?", b.feedbacks[0].Question)
	assert.Equal(t, backend.FeedbackIncorrect, b.feedbacks[0].Feedback)
}

func TestSend_Empty(t *testing.T) {
	_, ts := setup(t, &stubBackend{})
	client := newClient(t)

	resp, err := client.PostForm(ts.URL+"/send", url.Values{"question": {"   "}})
	require.NoError(t, err)
	page := body(t, resp)
	assert.Contains(t, page, "Please type a question first.")
	assert.Equal(t, 1, strings.Count(page, "<article "))
}

func TestFeedback_BadRequest(t *testing.T) {
	_, ts := setup(t, &stubBackend{answer: "4"})
	client := newClient(t)

	resp, err := client.PostForm(ts.URL+"/send", url.Values{"question": {"2+2?"}})
	require.NoError(t, err)
	body(t, resp)

	for _, path := range []string{"/feedback/0/correct", "/feedback/1/correct", "/feedback/x/correct", "/feedback/2/great", "/feedback/9/correct"} {
		resp, err := client.Post(ts.URL+path, "", nil)
		require.NoError(t, err)
		body(t, resp)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, path)
	}
}

func TestHealthz(t *testing.T) {
	_, ts := setup(t, &stubBackend{})

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var got backend.HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "ok", got.Status)
}

func TestSessionSweep(t *testing.T) {
	s := New(Options{Backend: &stubBackend{}, SessionTTL: time.Minute})
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}
	assert.Equal(t, 3, s.Sessions())

	now = now.Add(2 * time.Minute)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, 1, s.Sessions())
}
