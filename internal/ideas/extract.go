package ideas

import (
	"regexp"
	"strings"
)

var fencePattern = regexp.MustCompile("(?s)```(?i:json)?\\s*(.*?)```")

// ExtractPayload returns the interior of the first fenced block in text, or
// the whole text when there is none. The result is always trimmed.
func ExtractPayload(text string) string {
	if m := fencePattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(text)
}
