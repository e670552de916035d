// Package client performs the single round trip of one invocation:
// build the request body with the provider adapter, POST it to the
// resolved endpoint, classify the status, and hand back the generated
// text. Exactly one attempt per call; retrying, backoff, and policy
// live behind the gateway, not here.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/pkoukk/tiktoken-go"

	"github.com/aetherlabs/aethergo/providers"
	"github.com/aetherlabs/aethergo/routing"
	"github.com/aetherlabs/aethergo/utils"
)

// DefaultTimeout bounds one round trip when no timeout is configured.
const DefaultTimeout = 60 * time.Second

// Client drives one provider adapter. It holds no conversation state;
// every Chat call is independent.
type Client struct {
	provider   providers.Provider
	httpClient *http.Client
	logger     utils.Logger

	encodingOnce sync.Once
	encoding     *tiktoken.Tiktoken
}

// Option adjusts a Client at construction time.
type Option func(*Client)

// WithTimeout bounds the whole round trip. Cancellation beyond that is
// the caller's context.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithLogger replaces the default logger on the client and its
// adapter.
func WithLogger(logger utils.Logger) Option {
	return func(c *Client) {
		c.logger = logger
		c.provider.SetLogger(logger)
	}
}

// WithHTTPClient replaces the underlying HTTP client, mainly for
// tests.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// New creates a client around an already-built provider adapter.
func New(provider providers.Provider, opts ...Option) *Client {
	c := &Client{
		provider:   provider,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     utils.NewLogger(utils.LogLevelWarn),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Provider returns the adapter this client drives.
func (c *Client) Provider() providers.Provider {
	return c.provider
}

// Chat sends one prompt and returns the generated text. Failures come
// back as routing errors so the caller can tell a missing key from a
// failed call; nothing is retried.
func (c *Client) Chat(ctx context.Context, prompt string) (string, error) {
	reqBody, err := c.provider.PrepareRequest(prompt)
	if err != nil {
		return "", routing.NewError(routing.ErrorTypeRequest, "failed to prepare request", err)
	}

	endpoint := c.provider.Endpoint()
	c.logger.Debug("Sending request",
		"provider", c.provider.Name(),
		"endpoint", endpoint,
		"prompt_tokens_estimate", c.estimateTokens(prompt))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return "", routing.NewError(routing.ErrorTypeRequest, "failed to create request", err)
	}
	for k, v := range c.provider.Headers() {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", routing.NewError(routing.ErrorTypeProvider, "failed to send request", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", routing.NewError(routing.ErrorTypeResponse, "failed to read response body", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		message := providers.APIErrorMessage(body)
		c.logger.Error("API error",
			"provider", c.provider.Name(), "status", resp.StatusCode, "message", message)
		return "", routing.NewError(classifyStatus(resp.StatusCode),
			fmt.Sprintf("status %d: %s", resp.StatusCode, message), nil)
	}

	text, err := c.provider.ParseResponse(body)
	if err != nil {
		return "", err
	}

	c.logger.Info("LLM response received", "provider", c.provider.Name(), "chars", len(text))
	return text, nil
}

func classifyStatus(status int) routing.ErrorType {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return routing.ErrorTypeAuthentication
	case http.StatusTooManyRequests:
		return routing.ErrorTypeRateLimit
	default:
		return routing.ErrorTypeAPI
	}
}

// estimateTokens gives a best-effort prompt token count for the debug
// log. Encoding setup may need a network fetch, so failures just turn
// the estimate off.
func (c *Client) estimateTokens(prompt string) int {
	c.encodingOnce.Do(func() {
		encoding, err := tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			c.logger.Debug("Token estimate unavailable", "error", err)
			return
		}
		c.encoding = encoding
	})
	if c.encoding == nil {
		return -1
	}
	return len(c.encoding.Encode(prompt, nil, nil))
}
