package utils

import (
	"regexp"
	"strings"
)

var (
	slugWhitespace = regexp.MustCompile(`\s+`)
	slugInvalid    = regexp.MustCompile(`[^\w-]`)
	slugHyphenRun  = regexp.MustCompile(`-{2,}`)
)

// Slugify turns a title into a URL-safe identifier. It lower-cases and trims
// the input, collapses whitespace runs into single hyphens, drops everything
// that is not a word character or hyphen, collapses hyphen runs and trims
// hyphens from both ends. Whitespace-only input yields an empty string, which
// callers must suffix themselves.
func Slugify(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = slugWhitespace.ReplaceAllString(s, "-")
	s = slugInvalid.ReplaceAllString(s, "")
	s = slugHyphenRun.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Truncate returns the first length runes of s, with "..." appended when s is
// longer than that.
func Truncate(s string, length int) string {
	runes := []rune(s)
	if len(runes) <= length {
		return s
	}
	return string(runes[:length]) + "..."
}
