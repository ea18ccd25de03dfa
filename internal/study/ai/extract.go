// Copyright (c) 2026 Study Partner. All rights reserved.

package ai

import (
	"encoding/json"
	"strings"

	"github.com/studypartner/api/internal/platform/apperr"
)

// extractJSON pulls a JSON document out of a model completion.
//
// Models rarely answer with bare JSON even when told to: the payload often
// arrives inside a markdown fence or wrapped in prose. The strategy is to
// strip a fence when present, then scan for the first bracket and cut at its
// balanced partner, respecting string literals and escapes.
func extractJSON(completion string) (string, error) {
	text := strings.TrimSpace(completion)

	if fenced := stripFence(text); fenced != "" {
		text = fenced
	}

	start := strings.IndexAny(text, "[{")
	if start < 0 {
		return "", apperr.Upstream("AI response contained no JSON", nil)
	}

	candidate := balancedSlice(text[start:])
	if candidate == "" {
		return "", apperr.Upstream("AI response contained malformed JSON", nil)
	}

	if !json.Valid([]byte(candidate)) {
		return "", apperr.Upstream("AI response contained malformed JSON", nil)
	}

	return candidate, nil
}

// stripFence returns the body of the first markdown code fence, or "".
func stripFence(text string) string {
	open := strings.Index(text, "```")
	if open < 0 {
		return ""
	}

	body := text[open+3:]
	// Drop an optional language tag like "json" on the fence line.
	if newline := strings.IndexByte(body, '\n'); newline >= 0 {
		body = body[newline+1:]
	}

	if close := strings.Index(body, "```"); close >= 0 {
		body = body[:close]
	}

	return strings.TrimSpace(body)
}

// balancedSlice returns the prefix of text up to the bracket matching its
// first character, or "" when the text ends unbalanced.
func balancedSlice(text string) string {
	var closer byte
	switch text[0] {
	case '[':
		closer = ']'
	case '{':
		closer = '}'
	default:
		return ""
	}
	opener := text[0]

	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(text); i++ {
		ch := text[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case opener:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return text[:i+1]
			}
		}
	}

	return ""
}
