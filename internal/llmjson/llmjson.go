// Package llmjson recovers JSON documents from noisy LLM completions.
// Models routinely wrap their output in markdown code fences or surround it
// with explanatory prose; these helpers slice out the JSON payload before
// any unmarshalling happens.
package llmjson

import (
	"errors"
	"strings"
)

// ErrNoJSON is returned when no JSON document can be located in the text.
var ErrNoJSON = errors.New("llmjson: no JSON document found in response")

// StripFences removes a leading/trailing markdown code fence, including an
// optional language tag such as ```json.
func StripFences(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	start := 3
	if idx := strings.Index(content[start:], "\n"); idx != -1 {
		start += idx + 1
	}
	if end := strings.Index(content[start:], "```"); end != -1 {
		content = content[start : start+end]
	} else {
		content = content[start:]
	}
	return strings.TrimSpace(content)
}

// ExtractObject returns the outermost {...} span of the response, excising
// any preamble or postamble the model added around it.
func ExtractObject(content string) (string, error) {
	return extractSpan(StripFences(content), '{', '}')
}

// ExtractArray returns the outermost [...] span of the response.
func ExtractArray(content string) (string, error) {
	return extractSpan(StripFences(content), '[', ']')
}

func extractSpan(content string, open, close byte) (string, error) {
	start := strings.IndexByte(content, open)
	end := strings.LastIndexByte(content, close)
	if start == -1 || end == -1 || end <= start {
		return "", ErrNoJSON
	}
	return content[start : end+1], nil
}
