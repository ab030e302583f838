package recipe

import (
	"regexp"
	"strings"
)

// whitespaceRegex matches one or more whitespace characters
var whitespaceRegex = regexp.MustCompile(`\s+`)

// CollapseSpace trims s and collapses internal whitespace runs to a single
// space. Used for titles and search queries.
func CollapseSpace(s string) string {
	return whitespaceRegex.ReplaceAllString(strings.TrimSpace(s), " ")
}

// NormalizeText normalizes free text descriptions:
// 1. CRLF and CR line endings become LF
// 2. Trailing spaces and tabs are dropped from each line
// 3. Leading and trailing blank lines are removed
func NormalizeText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}

	return strings.Trim(strings.Join(lines, "\n"), "\n")
}
