package generation

import (
	"regexp"
	"strings"
)

var headingPrefix = regexp.MustCompile(`^#+\s+`)

// ParseDraft splits raw model output on blank lines: the first block is the
// title (markdown heading marks removed), the second the excerpt. Content
// keeps the whole text unchanged.
func ParseDraft(raw string) Draft {
	sections := strings.Split(raw, "\n\n")

	d := Draft{
		Title:   headingPrefix.ReplaceAllString(sections[0], ""),
		Content: raw,
	}
	if len(sections) > 1 {
		d.Excerpt = sections[1]
	}
	return d
}
