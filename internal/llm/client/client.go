package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"reportgen/internal/llm/stream"
	"reportgen/internal/logging"
)

// DefaultBaseURL is the OpenRouter OpenAI-compatible API root.
const DefaultBaseURL = "https://openrouter.ai/api/v1"

const maxErrorBodyBytes = 4 * 1024

type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the chat-completions body. Stream is forced to true by StreamChat.
type ChatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
}

// StatusError is a non-2xx response, detected before any streaming starts.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API 请求失败: %d", e.StatusCode)
}

// RequestError is a failure to send the request or receive response headers.
type RequestError struct {
	Err error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("API 请求失败: %v", e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

var ErrMissingAPIKey = errors.New("api key is required")

// ErrTimeout is reported when a request deadline elapses, including the
// configured request timeout.
var ErrTimeout = errors.New("请求超时")

type Options struct {
	BaseURL string
	// Referer is sent as HTTP-Referer to identify the calling app.
	Referer string
	Title   string
	// Timeout bounds the whole request including streaming; zero means none.
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client talks to an OpenAI-compatible chat completions endpoint.
type Client struct {
	baseURL    string
	referer    string
	title      string
	timeout    time.Duration
	httpClient *http.Client
}

func New(opts Options) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL:    baseURL,
		referer:    opts.Referer,
		title:      opts.Title,
		timeout:    opts.Timeout,
		httpClient: httpClient,
	}
}

func (c *Client) Endpoint() string {
	return c.baseURL + "/chat/completions"
}

// StreamChat issues exactly one streaming request and feeds the response body to
// the stream assembler. fn is called once per delta, in arrival order.
func (c *Client) StreamChat(ctx context.Context, apiKey string, req ChatRequest, fn stream.DeltaFunc) error {
	if apiKey == "" {
		return ErrMissingAPIKey
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req.Stream = true
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create chat request: %w", err)
	}
	c.setHeaders(httpReq, apiKey)

	log := logging.Get().With("model", req.Model, "key", MaskKey(apiKey))
	started := time.Now()

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return deadline(ctx, ctxErr)
		}
		log.Warnw("chat request failed", "error", err)
		return &RequestError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		log.Warnw("chat request rejected", "status", resp.StatusCode)
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	log.Debugw("chat stream opened", "status", resp.StatusCode, "ttfb", time.Since(started))
	return deadline(ctx, stream.Consume(ctx, resp.Body, fn))
}

// deadline reports err as a timeout once ctx has expired. Cancellation passes through.
func deadline(ctx context.Context, err error) error {
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &RequestError{Err: ErrTimeout}
	}
	return err
}

func (c *Client) setHeaders(req *http.Request, apiKey string) {
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	if c.referer != "" {
		req.Header.Set("HTTP-Referer", c.referer)
	}
	if c.title != "" {
		req.Header.Set("X-Title", c.title)
	}
}

// MaskKey keeps enough of a key to recognise it in logs.
func MaskKey(key string) string {
	if len(key) <= 12 {
		return strings.Repeat("*", len(key))
	}
	return key[:6] + "…" + key[len(key)-4:]
}
