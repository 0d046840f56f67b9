package store

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Mode selects how strictly stored commentary is judged complete.
type Mode string

const (
	// ModeStrict requires a completion marker and no sentinel suffix.
	ModeStrict Mode = "strict"
	// ModeLenient only rejects content ending in the sentinel.
	ModeLenient Mode = "lenient"
)

// NoContentSentinel ends content for which the generator produced nothing usable.
const NoContentSentinel = "[NO_CONTENT]"

// CompletionMarkers appear near the end of a commentary that finished
// normally. The closing invitation is listed with both apostrophes.
var CompletionMarkers = []string{
	"Conclusion",
	"Summary",
	"If you'd like",
	"If you’d like",
}

// ParseMode converts a config string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeStrict:
		return ModeStrict, nil
	case ModeLenient:
		return ModeLenient, nil
	default:
		return "", fmt.Errorf("unknown acceptability mode %q", s)
	}
}

// Acceptable classifies stored content under mode. An acceptable record is
// skipped by later generation passes.
func Acceptable(mode Mode, content string) bool {
	content = norm.NFC.String(content)
	if strings.HasSuffix(strings.TrimSpace(content), NoContentSentinel) {
		return false
	}
	if mode == ModeLenient {
		return true
	}
	return HasCompletionMarker(content)
}

// HasCompletionMarker reports whether any CompletionMarkers entry occurs in content.
func HasCompletionMarker(content string) bool {
	for _, m := range CompletionMarkers {
		if strings.Contains(content, m) {
			return true
		}
	}
	return false
}
