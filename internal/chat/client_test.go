package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"brokee-go/internal/config"
	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// setupTestServer creates a new test server and a Client configured to use it.
func setupTestServer(handler http.Handler) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)

	c := &Client{
		client: resty.New().SetBaseURL(server.URL),
		cfg: &config.Chat{
			ApiKey:      "test_api_key",
			Model:       "gpt-3.5-turbo",
			Temperature: 0.7,
			MaxTokens:   500,
		},
		logger:  zap.NewNop(),
		limiter: rate.NewLimiter(rate.Inf, 1), // Allow all requests in tests
	}

	return c, server
}

func TestComplete(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/chat/completions", r.URL.Path)
			assert.Equal(t, "Bearer test_api_key", r.Header.Get("Authorization"))

			var req completionRequest
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "gpt-3.5-turbo", req.Model)
			// System prompt first, then the mapped history.
			assert.Len(t, req.Messages, 3)
			assert.Equal(t, "system", req.Messages[0].Role)
			assert.Equal(t, "user", req.Messages[1].Role)
			assert.Equal(t, "assistant", req.Messages[2].Role)

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Compound interest grows your money over time."}}]}`))
		})

		c, server := setupTestServer(handler)
		defer server.Close()

		// Act
		reply, err := c.Complete(context.Background(), []Message{
			{Text: "What is compound interest?", Sender: "user"},
			{Text: "Great question!", Sender: "bot"},
		})

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, "Compound interest grows your money over time.", reply)
	})

	t.Run("NotConfigured", func(t *testing.T) {
		c, server := setupTestServer(http.NotFoundHandler())
		defer server.Close()
		c.cfg.ApiKey = ""

		_, err := c.Complete(context.Background(), nil)
		assert.ErrorIs(t, err, ErrNotConfigured)
	})

	t.Run("RetriesOnServerError", func(t *testing.T) {
		// Arrange: fail once, then succeed.
		calls := 0
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			if calls == 1 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`))
		})

		c, server := setupTestServer(handler)
		defer server.Close()

		// Act
		reply, err := c.Complete(context.Background(), []Message{{Text: "hi", Sender: "user"}})

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, "ok", reply)
		assert.Equal(t, 2, calls)
	})

	t.Run("EmptyChoices", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"choices":[]}`))
		})

		c, server := setupTestServer(handler)
		defer server.Close()

		reply, err := c.Complete(context.Background(), nil)
		assert.NoError(t, err)
		assert.Equal(t, "Sorry, I could not generate a response.", reply)
	})
}
