package chat

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"brokee-go/internal/config"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const systemPrompt = `You are a helpful AI assistant for Brokee, a platform that helps students learn micro-investing through gamified learning, mini-courses, and virtual practice investing.

Your role is to:
- Help users learn about micro-investing concepts
- Answer questions about Brokee's features (courses, virtual practice, gamification)
- Guide users on how to get started
- Provide educational information about investing basics
- Be friendly, encouraging, and student-focused

Keep responses concise, clear, and helpful. If asked about something outside your knowledge, politely redirect to relevant Brokee features or suggest they contact support.`

// ErrNotConfigured is returned when no API key is set.
var ErrNotConfigured = errors.New("chat API key is not configured")

// Message is one entry of the widget's conversation history.
type Message struct {
	Text   string `json:"text"`
	Sender string `json:"sender"` // "user" or "bot"
}

// ClientInterface defines the interface for the chat-completion API client.
type ClientInterface interface {
	Complete(ctx context.Context, history []Message) (string, error)
}

// Client calls an OpenAI-compatible chat-completion endpoint.
// It implements the ClientInterface.
type Client struct {
	client  *resty.Client
	cfg     *config.Chat
	logger  *zap.Logger
	limiter *rate.Limiter
}

// ensure Client implements the interface
var _ ClientInterface = (*Client)(nil)

// NewClient creates a new chat-completion API client.
func NewClient(cfg *config.Chat, logger *zap.Logger) *Client {
	client := resty.New().SetBaseURL(cfg.BaseURL)

	// Initialize the rate limiter
	// rate.Limit is requests per second.
	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimitBurst)

	return &Client{
		client:  client,
		cfg:     cfg,
		logger:  logger.Named("chat"),
		limiter: limiter,
	}
}

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string       `json:"model"`
	Messages    []apiMessage `json:"messages"`
	Temperature float64      `json:"temperature"`
	MaxTokens   int          `json:"max_tokens"`
}

type completionResponse struct {
	Choices []struct {
		Message apiMessage `json:"message"`
	} `json:"choices"`
}

// Complete sends the conversation history and returns the assistant's reply.
// The tutoring system prompt is always prepended.
func (c *Client) Complete(ctx context.Context, history []Message) (string, error) {
	if c.cfg.ApiKey == "" {
		return "", ErrNotConfigured
	}

	messages := make([]apiMessage, 0, len(history)+1)
	messages = append(messages, apiMessage{Role: "system", Content: systemPrompt})
	for _, msg := range history {
		role := "assistant"
		if msg.Sender == "user" {
			role = "user"
		}
		messages = append(messages, apiMessage{Role: role, Content: msg.Text})
	}

	body := completionRequest{
		Model:       c.cfg.Model,
		Messages:    messages,
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	}

	req := c.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+c.cfg.ApiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(&completionResponse{})

	resp, err := c.doRequest(ctx, "POST", "/chat/completions", req)
	if err != nil {
		c.logger.Error("Chat completion failed", zap.Error(err))
		return "", fmt.Errorf("failed to get chat completion: %w", err)
	}

	result := resp.Result().(*completionResponse)
	if len(result.Choices) == 0 {
		return "Sorry, I could not generate a response.", nil
	}
	return result.Choices[0].Message.Content, nil
}

// doRequest handles the actual request execution with rate limiting and retry logic.
func (c *Client) doRequest(ctx context.Context, method, url string, req *resty.Request) (*resty.Response, error) {
	var resp *resty.Response
	var err error
	const maxRetries = 3

	for i := 0; i < maxRetries; i++ {
		// Wait for the rate limiter
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait failed: %w", err)
		}

		c.logger.Debug("Executing request", zap.String("method", method), zap.String("url", c.client.BaseURL+url))
		resp, err = req.Execute(method, url)

		if err == nil && !resp.IsError() {
			return resp, nil // Success
		}

		// Analyze error and decide whether to retry
		shouldRetry := false
		var retryAfter time.Duration

		if resp != nil && resp.StatusCode() != 0 {
			statusCode := resp.StatusCode()
			if statusCode == http.StatusTooManyRequests {
				shouldRetry = true
				retryAfterHeader := resp.Header().Get("Retry-After")
				if seconds, err := strconv.Atoi(retryAfterHeader); err == nil {
					retryAfter = time.Duration(seconds) * time.Second
				}
			} else if statusCode >= 500 { // Server errors
				shouldRetry = true
			}
		} else { // Network or other client-side errors
			shouldRetry = true
		}

		if !shouldRetry {
			return nil, fmt.Errorf("request failed with status %s: %s", resp.Status(), resp.String())
		}

		// If we should retry, calculate wait time
		if retryAfter == 0 {
			// Exponential backoff: 1s, 2s, 4s
			retryAfter = time.Duration(math.Pow(2, float64(i))) * time.Second
		}

		c.logger.Warn("Request failed, retrying...",
			zap.Int("attempt", i+1),
			zap.Duration("retry_after", retryAfter),
			zap.Error(err),
		)

		select {
		case <-time.After(retryAfter):
			continue
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, fmt.Errorf("request failed after %d attempts: %w", maxRetries, err)
}
