package normalizer

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

var titleCaser = cases.Title(language.English)

// CleanText trims, collapses internal whitespace to single spaces, and
// title-cases each word. Missing input cleans to "", never a placeholder.
func CleanText(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	s = whitespaceRun.ReplaceAllString(s, " ")
	return titleCaser.String(s)
}
