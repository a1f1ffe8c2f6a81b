package prompt

import (
	"regexp"
	"strings"
)

var (
	wrappingFence = regexp.MustCompile("(?s)^\\s*```[\\w-]*[ \\t]*\\n(.*?)\\n?[ \\t]*```\\s*$")
	blankLines    = regexp.MustCompile(`\n\s*\n`)
	bulletMarker  = regexp.MustCompile(`\n\s*- `)
	numberMarker  = regexp.MustCompile(`\n\s*\d+\. `)
)

// Clean normalizes model output for chat rendering. Numbered items are all
// rewritten to "1. ". Clean(Clean(s)) == Clean(s).
func Clean(raw string) string {
	s := raw
	for {
		m := wrappingFence.FindStringSubmatch(s)
		if m == nil {
			break
		}
		s = m[1]
	}
	s = blankLines.ReplaceAllString(s, "")
	s = bulletMarker.ReplaceAllString(s, "\n- ")
	s = numberMarker.ReplaceAllString(s, "\n1. ")
	return strings.TrimSpace(s)
}

// StripFences removes every ``` marker (with an optional language tag) from s.
func StripFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}
