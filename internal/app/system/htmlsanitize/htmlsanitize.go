// Package htmlsanitize strips unsafe HTML from user-supplied rich text.
// Shop descriptions accept basic formatting; everything scriptable is
// removed before the value is stored.
package htmlsanitize

import "github.com/microcosm-cc/bluemonday"

// ugc allows the usual user-generated-content tags (paragraphs, emphasis,
// lists, links) and nothing executable. Links get rel="nofollow".
var ugc = bluemonday.UGCPolicy()

// strict strips all markup, leaving plain text.
var strict = bluemonday.StrictPolicy()

// Sanitize returns s with unsafe HTML removed. Safe formatting tags are
// preserved.
func Sanitize(s string) string {
	return ugc.Sanitize(s)
}

// StripTags returns s with all HTML removed, for fields that are plain
// text only.
func StripTags(s string) string {
	return strict.Sanitize(s)
}
