package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(Options{BaseURL: srv.URL, Timeout: 5 * time.Second})
	require.NoError(t, err)
	return c
}

func TestAsk(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/ask", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))

		var req AskRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "what is 2+2?", req.Question)
		assert.Equal(t, "session-abc123def", req.SessionID)

		_ = json.NewEncoder(w).Encode(map[string]string{"answer": "It is $4$."})
	})

	answer, err := c.Ask(context.Background(), "what is 2+2?", "session-abc123def")
	require.NoError(t, err)
	assert.Equal(t, "It is $4$.", answer)
}

func TestAsk_StatusError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"boom"}`, http.StatusInternalServerError)
	})

	_, err := c.Ask(context.Background(), "q", "")
	require.Error(t, err)
	var serr *StatusError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, http.StatusInternalServerError, serr.Code)
	assert.Contains(t, serr.Body, "boom")
	assert.Equal(t, CodeStatus, Classify(err))
	assert.Equal(t, "Request failed with status code 500", Describe(err))
}

func TestAsk_Malformed(t *testing.T) {
	for name, body := range map[string]string{
		"not json":       "<html>oops</html>",
		"missing answer": `{"text":"hi"}`,
	} {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			})
			_, err := c.Ask(context.Background(), "q", "")
			require.ErrorIs(t, err, ErrMalformedResponse)
			assert.Equal(t, CodeProtocol, Classify(err))
		})
	}
}

func TestAsk_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := New(Options{BaseURL: url})
	require.NoError(t, err)
	_, err = c.Ask(context.Background(), "q", "")
	require.Error(t, err)
	assert.Equal(t, CodeNetwork, Classify(err))
	assert.Contains(t, Describe(err), "Network Error")
}

func TestAsk_Canceled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Ask(ctx, "q", "")
	require.Error(t, err)
	assert.Equal(t, CodeCancel, Classify(err))
}

func TestFeedback(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/feedback", r.URL.Path)
		var req FeedbackRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, FeedbackRequest{
			SessionID: "s",
			Question:  "q",
			Answer:    "a",
			Feedback:  FeedbackIncorrect,
		}, req)
		if req.Feedback == FeedbackIncorrect {
			_ = json.NewEncoder(w).Encode(FeedbackResponse{RegeneratedAnswer: "better"})
			return
		}
		_, _ = w.Write([]byte(`{}`))
	})

	regen, err := c.Feedback(context.Background(), FeedbackRequest{SessionID: "s", Question: "q", Answer: "a", Feedback: FeedbackIncorrect})
	require.NoError(t, err)
	assert.Equal(t, "better", regen)
}

func TestHealth(t *testing.T) {
	healthy := func(status string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/", r.URL.Path)
			_ = json.NewEncoder(w).Encode(HealthResponse{Status: status})
		}
	}
	require.NoError(t, newTestClient(t, healthy("ok")).Health(context.Background()))

	err := newTestClient(t, healthy("degraded")).Health(context.Background())
	require.ErrorIs(t, err, ErrUnhealthy)
	assert.Equal(t, CodeProtocol, Classify(err))
}

func TestNew_InvalidURL(t *testing.T) {
	_, err := New(Options{BaseURL: "ftp://example.com"})
	require.Error(t, err)

	c, err := New(Options{})
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, c.BaseURL())
}

func TestRateLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"answer":"x"}`))
	}))
	defer srv.Close()

	c, err := New(Options{BaseURL: srv.URL, RequestsPerSecond: 20})
	require.NoError(t, err)

	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := c.Ask(context.Background(), "q", "")
		require.NoError(t, err)
	}
	// 突发为 1：三次请求至少间隔两个周期
	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
}

func TestParseFeedback(t *testing.T) {
	f, err := ParseFeedback(" Clarify ")
	require.NoError(t, err)
	assert.Equal(t, FeedbackClarify, f)

	_, err = ParseFeedback("maybe")
	require.Error(t, err)
}
