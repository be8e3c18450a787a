// Package sanitize strips formatting markup from model replies before
// they reach speech synthesis, so markers are never read aloud.
package sanitize

import (
	"regexp"
	"strings"
)

var (
	emphasisMarkers = regexp.MustCompile("[*_`~]")
	leadingHeading  = regexp.MustCompile(`(?m)^#+\s+`)
)

// Strip removes markdown emphasis markers anywhere in the text and
// heading markers at the start of a line, then trims surrounding
// whitespace. A hash inside a line ("issue #42") is left alone.
// Pure and idempotent.
func Strip(text string) string {
	text = emphasisMarkers.ReplaceAllString(text, "")
	text = leadingHeading.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}
