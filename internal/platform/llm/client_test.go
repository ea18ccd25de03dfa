// Copyright (c) 2026 Study Partner. All rights reserved.

package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studypartner/api/internal/platform/apperr"
)

func newTestClient(serverURL string) *Client {
	return NewClient(serverURL, "test-key", "test-model")
}

func TestComplete_ReturnsAssistantReply(t *testing.T) {
	var received completionRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Paris"}}]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	reply, err := client.Complete(context.Background(), []Message{
		{Role: "user", Content: "Capital of France?"},
	})

	require.NoError(t, err)
	assert.Equal(t, "Paris", reply)
	assert.Equal(t, "test-model", received.Model)
	require.Len(t, received.Messages, 1)
	assert.Equal(t, "Capital of France?", received.Messages[0].Content)
}

func TestComplete_MissingAPIKeyIsUpstreamFailure(t *testing.T) {
	client := NewClient("http://localhost:0", "", "test-model")

	_, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}})

	require.Error(t, err)
	assert.Equal(t, 502, apperr.As(err).HTTPStatus)
}

func TestComplete_NonSuccessStatusIsUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limit","type":"rate_limit_error"}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}})

	require.Error(t, err)
	assert.Equal(t, 502, apperr.As(err).HTTPStatus)
}

func TestComplete_ErrorObjectInBodyIsUpstreamFailure(t *testing.T) {
	// Some gateways answer 200 with an error object instead of a non-2xx status.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":{"message":"model overloaded","type":"server_error"}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}})

	require.Error(t, err)
	assert.Equal(t, 502, apperr.As(err).HTTPStatus)
}

func TestComplete_EmptyChoiceListIsUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}})

	require.Error(t, err)
	assert.Equal(t, 502, apperr.As(err).HTTPStatus)
}

func TestComplete_UnreachableProviderIsUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close() // refuse connections

	client := newTestClient(server.URL)

	_, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}})

	require.Error(t, err)
	assert.Equal(t, 502, apperr.As(err).HTTPStatus)
}
