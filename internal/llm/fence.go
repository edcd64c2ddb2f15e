package llm

import (
	"regexp"
	"strings"
)

var codeFence = regexp.MustCompile("```(?:json)?\\n?|\\n?```")

// StripCodeFences removes markdown code fences that models wrap around JSON.
func StripCodeFences(raw string) string {
	return strings.TrimSpace(codeFence.ReplaceAllString(raw, ""))
}
