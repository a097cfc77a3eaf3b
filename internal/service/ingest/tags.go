package ingest

import (
	"regexp"
	"strings"
)

var tagPattern = regexp.MustCompile(`#\w+`)

// Recognized tags that trigger memory capture.
const (
	TagTips      = "#tips"
	TagNextSteps = "#nextsteps"
	TagWarnings  = "#warnings"
)

var recognizedTags = map[string]struct{}{
	TagTips:      {},
	TagNextSteps: {},
	TagWarnings:  {},
}

// ExtractTag scans content for marker tokens and concatenates every match
// into one composite token. A message with several tags therefore yields a
// token like "#tips#warnings" which never matches the recognized set; this
// mirrors the upstream product behavior and must not be collapsed to
// first-match semantics.
func ExtractTag(content string) string {
	matches := tagPattern.FindAllString(content, -1)
	if matches == nil {
		return ""
	}
	return strings.Join(matches, "")
}

// IsRecognized reports whether the tag triggers memory capture.
func IsRecognized(tag string) bool {
	_, ok := recognizedTags[tag]
	return ok
}
