package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamChat_SendsRequestAndStreamsDeltas(t *testing.T) {
	var captured ChatRequest
	var headers http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/chat/completions", r.URL.Path)
		headers = r.Header.Clone()
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"A\"}}]}\n")
		flusher.Flush()
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"B\"}}]}\n\ndata: [DONE]\n")
	}))
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL + "/api/v1/", Referer: "https://app.example", Title: "AI Report Generator"})

	var got []string
	err := c.StreamChat(context.Background(), "sk-or-v1-secret", ChatRequest{
		Model: "deepseek/deepseek-chat",
		Messages: []Message{
			{Role: RoleSystem, Content: "sys"},
			{Role: RoleUser, Content: "brief"},
		},
	}, func(delta string) error {
		got = append(got, delta)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, got)
	assert.Equal(t, "Bearer sk-or-v1-secret", headers.Get("Authorization"))
	assert.Equal(t, "application/json", headers.Get("Content-Type"))
	assert.Equal(t, "https://app.example", headers.Get("HTTP-Referer"))
	assert.Equal(t, "AI Report Generator", headers.Get("X-Title"))
	assert.True(t, captured.Stream)
	assert.Equal(t, "deepseek/deepseek-chat", captured.Model)
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, RoleSystem, captured.Messages[0].Role)
	assert.Equal(t, RoleUser, captured.Messages[1].Role)
}

func TestStreamChat_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"invalid key"}}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	called := false
	err := New(Options{BaseURL: srv.URL}).StreamChat(context.Background(), "bad", ChatRequest{Model: "m"}, func(string) error {
		called = true
		return nil
	})

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	assert.Equal(t, "API 请求失败: 401", err.Error())
	assert.Contains(t, statusErr.Body, "invalid key")
	assert.False(t, called)
}

func TestStreamChat_RequestError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	err := New(Options{BaseURL: url}).StreamChat(context.Background(), "key", ChatRequest{Model: "m"}, func(string) error { return nil })

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.True(t, strings.HasPrefix(err.Error(), "API 请求失败"))
}

func TestStreamChat_TimeoutBeforeHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	err := c.StreamChat(context.Background(), "key", ChatRequest{Model: "m"}, func(string) error { return nil })

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, "API 请求失败: 请求超时", err.Error())
}

func TestStreamChat_TimeoutMidStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"部分\"}}]}\n")
		w.(http.Flusher).Flush()
		<-r.Context().Done()
	}))
	defer srv.Close()

	var got []string
	c := New(Options{BaseURL: srv.URL, Timeout: 200 * time.Millisecond})
	err := c.StreamChat(context.Background(), "key", ChatRequest{Model: "m"}, func(d string) error {
		got = append(got, d)
		return nil
	})

	assert.ErrorIs(t, err, ErrTimeout)
	assert.NotContains(t, err.Error(), "deadline")
	assert.Equal(t, []string{"部分"}, got)
}

func TestStreamChat_CancelIsNotTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	c := New(Options{BaseURL: srv.URL, Timeout: 5 * time.Second})
	err := c.StreamChat(ctx, "key", ChatRequest{Model: "m"}, func(string) error { return nil })

	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrTimeout)
}

func TestStreamChat_RequiresKey(t *testing.T) {
	err := New(Options{}).StreamChat(context.Background(), "", ChatRequest{}, func(string) error { return nil })
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestNew_DefaultsBaseURL(t *testing.T) {
	assert.Equal(t, "https://openrouter.ai/api/v1/chat/completions", New(Options{}).Endpoint())
}

func TestMaskKey(t *testing.T) {
	assert.Equal(t, "sk-or-…cdef", MaskKey("sk-or-v1-0123456789abcdef"))
	assert.Equal(t, "*****", MaskKey("short"))
}
