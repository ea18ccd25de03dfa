// Copyright (c) 2026 Study Partner. All rights reserved.

package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON_BareArray(t *testing.T) {
	payload, err := extractJSON(`[{"question":"Q1"}]`)

	require.NoError(t, err)
	assert.JSONEq(t, `[{"question":"Q1"}]`, payload)
}

func TestExtractJSON_MarkdownFence(t *testing.T) {
	completion := "Here is your quiz:\n```json\n[{\"question\":\"Q1\"}]\n```\nEnjoy!"

	payload, err := extractJSON(completion)

	require.NoError(t, err)
	assert.JSONEq(t, `[{"question":"Q1"}]`, payload)
}

func TestExtractJSON_ProseWrapped(t *testing.T) {
	completion := `Sure! The quiz follows. [{"question":"Q1","options":["a","b"]}] Let me know if you need more.`

	payload, err := extractJSON(completion)

	require.NoError(t, err)
	assert.JSONEq(t, `[{"question":"Q1","options":["a","b"]}]`, payload)
}

func TestExtractJSON_BracketsInsideStrings(t *testing.T) {
	completion := `[{"question":"What does [x] mean?","answer":"a \"quoted\" [thing]"}] trailing`

	payload, err := extractJSON(completion)

	require.NoError(t, err)
	assert.JSONEq(t, `[{"question":"What does [x] mean?","answer":"a \"quoted\" [thing]"}]`, payload)
}

func TestExtractJSON_ObjectPayload(t *testing.T) {
	payload, err := extractJSON(`{"questions":[{"question":"Q1"}]}`)

	require.NoError(t, err)
	assert.JSONEq(t, `{"questions":[{"question":"Q1"}]}`, payload)
}

func TestExtractJSON_NoJSON(t *testing.T) {
	_, err := extractJSON("I could not generate a quiz for this document.")

	require.Error(t, err)
}

func TestExtractJSON_Unbalanced(t *testing.T) {
	_, err := extractJSON(`[{"question":"Q1"`)

	require.Error(t, err)
}
