// Copyright (c) 2026 Study Partner. All rights reserved.

/*
Package llm provides a minimal client for OpenAI-compatible chat completion APIs.

The client speaks the /chat/completions wire format, which is supported by
OpenAI itself and by most self-hosted inference gateways, so deployments can
repoint the base URL without code changes.

Core Responsibilities:

  - Transport: HTTP request/response handling with strict timeouts.
  - Faithfulness: Upstream failures surface as 502 responses, never 500.
  - Isolation: Domain services depend on the small [Completer] interface,
    keeping prompt construction out of this package.
*/
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/studypartner/api/internal/platform/apperr"
	"github.com/studypartner/api/internal/platform/constants"
)

// Message is a single turn in a chat completion conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Completer is the interface domain services use to request completions.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// Client calls an OpenAI-compatible chat completion endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewClient builds a completion client for the given endpoint and model.
func NewClient(baseURL, apiKey, model string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: constants.LLMRequestTimeout,
		},
	}
}

// # Wire Format

type completionRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

type completionResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Complete sends the conversation to the model and returns the assistant reply.
//
// All failure modes (network, non-2xx status, empty choice list) map to an
// UPSTREAM_FAILURE application error so handlers respond with 502.
func (c *Client) Complete(ctx context.Context, messages []Message) (string, error) {
	if c.apiKey == "" {
		return "", apperr.Upstream("AI features are not configured", nil)
	}

	payload, err := json.Marshal(completionRequest{
		Model:    c.model,
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("llm: failed to encode request: %w", err)
	}

	requestCtx, cancel := context.WithTimeout(ctx, constants.LLMRequestTimeout)
	defer cancel()

	request, err := http.NewRequestWithContext(requestCtx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("llm: failed to build request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Authorization", "Bearer "+c.apiKey)

	response, err := c.httpClient.Do(request)
	if err != nil {
		return "", apperr.Upstream("AI provider is unreachable", err)
	}
	defer func() { _ = response.Body.Close() }()

	// Bound the response read; completion payloads are small relative to this cap.
	body, err := io.ReadAll(io.LimitReader(response.Body, 4<<20))
	if err != nil {
		return "", apperr.Upstream("AI provider response could not be read", err)
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return "", apperr.Upstream("AI provider rejected the request",
			fmt.Errorf("llm: status %d: %s", response.StatusCode, truncate(string(body), 512)))
	}

	var parsed completionResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", apperr.Upstream("AI provider returned malformed JSON", err)
	}

	if parsed.Error != nil {
		return "", apperr.Upstream("AI provider reported an error",
			fmt.Errorf("llm: %s: %s", parsed.Error.Type, parsed.Error.Message))
	}

	if len(parsed.Choices) == 0 {
		return "", apperr.Upstream("AI provider returned no completion", nil)
	}

	return parsed.Choices[0].Message.Content, nil
}

// truncate clips diagnostic strings so upstream error bodies can't flood logs.
func truncate(value string, max int) string {
	if len(value) <= max {
		return value
	}
	return value[:max] + "…"
}
