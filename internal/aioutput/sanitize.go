// Package aioutput turns free-form language model text into validated
// structured values.
package aioutput

import (
	"regexp"
	"strings"
)

var fenceRe = regexp.MustCompile("```[A-Za-z0-9_-]*")

// Sanitize strips code fences and surrounding prose from model output so that
// only the JSON payload remains. It never fails and is idempotent.
func Sanitize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	// removing one fence can join stray backticks into a new one
	for strings.Contains(text, "```") {
		text = fenceRe.ReplaceAllString(text, "")
	}

	if start, end := jsonSpan(text); start >= 0 {
		text = text[start : end+1]
	}

	return collapseLines(text)
}

// jsonSpan returns the outermost span starting at the first opening bracket
// and ending at the last closing bracket, or -1 when there is none.
func jsonSpan(text string) (int, int) {
	start := strings.IndexAny(text, "{[")
	end := strings.LastIndexAny(text, "}]")
	if start < 0 || end <= start {
		return -1, -1
	}
	return start, end
}

func collapseLines(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		line = strings.TrimRight(line, " \t\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}
