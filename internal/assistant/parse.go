package assistant

import (
	"encoding/json"
	"fmt"
	"strings"

	"sales_pipeline_backend/platform/apperr"
)

// ParseStage records which step of parseOrFallback produced the value.
type ParseStage int

const (
	StageDirect ParseStage = iota
	StageEscaped
	StageFallback
)

func (s ParseStage) String() string {
	switch s {
	case StageDirect:
		return "direct"
	case StageEscaped:
		return "escaped"
	default:
		return "fallback"
	}
}

// parseOrFallback decodes model output into T. It strips Markdown code
// fences, then tries a direct decode, then a decode with raw control
// characters inside strings escaped. When both fail it returns fallback and
// a MalformedResponse error describing the last failure.
func parseOrFallback[T any](raw string, fallback T) (T, ParseStage, error) {
	text := stripCodeFences(raw)

	var out T
	if err := json.Unmarshal([]byte(text), &out); err == nil {
		return out, StageDirect, nil
	}

	var escaped T
	err := json.Unmarshal([]byte(escapeControlChars(text)), &escaped)
	if err == nil {
		return escaped, StageEscaped, nil
	}

	return fallback, StageFallback, apperr.MalformedResponse(fmt.Errorf("decode model output: %w", err))
}

// stripCodeFences removes ```json and ``` markers anywhere in s.
func stripCodeFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```JSON", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// escapeControlChars escapes raw control characters that appear inside JSON
// string literals. Characters outside strings are left alone.
func escapeControlChars(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 16)

	inString := false
	escaped := false
	for _, r := range s {
		if !inString {
			if r == '"' {
				inString = true
			}
			sb.WriteRune(r)
			continue
		}

		switch {
		case escaped:
			escaped = false
			sb.WriteRune(r)
		case r == '\\':
			escaped = true
			sb.WriteRune(r)
		case r == '"':
			inString = false
			sb.WriteRune(r)
		case r == '\n':
			sb.WriteString(`\n`)
		case r == '\r':
			sb.WriteString(`\r`)
		case r == '\t':
			sb.WriteString(`\t`)
		case r < 0x20:
			fmt.Fprintf(&sb, `\u%04x`, r)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
