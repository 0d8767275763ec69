package gemini

import (
	"encoding/json"
	"strings"
)

// StripFences removes the ```json markdown fences models like to wrap
// around their output.
func StripFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// DecodeLenient decodes model output into the structured guess. Output
// that is not valid JSON even after fence stripping becomes a raw-text
// passthrough object under the "raw_text_output" key, preserving the
// original text (fences included) for downstream inspection.
func DecodeLenient(raw string) map[string]any {
	var m map[string]any
	if err := json.Unmarshal([]byte(StripFences(raw)), &m); err != nil {
		return map[string]any{"raw_text_output": raw}
	}
	return m
}
