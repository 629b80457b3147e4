package downloader

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	maxNameRunes    = 100
	placeholderName = "photo-of-the-day"
)

var (
	hazardous      = regexp.MustCompile(`[\p{Cc}\p{Z}\s\\/:*?"<>|]`)
	underscoreRuns = regexp.MustCompile(`_{2,}`)
	orderingPrefix = regexp.MustCompile(`^\d+[-_]+`)
)

// Sanitize turns a photo title into a safe filename stem.
func Sanitize(title string) string {
	name := hazardous.ReplaceAllString(title, "_")
	name = underscoreRuns.ReplaceAllString(name, "_")
	name = strings.TrimLeft(name, "._")

	if runes := []rune(name); len(runes) > maxNameRunes {
		name = string(runes[:maxNameRunes])
	}
	if name == "" {
		return placeholderName
	}
	return name
}

// orderedName prefixes a collection entry with its 1-based position. A
// numeric prefix already present in the stem is replaced, not stacked.
func orderedName(position int, stem string) string {
	if trimmed := orderingPrefix.ReplaceAllString(stem, ""); trimmed != "" {
		stem = trimmed
	}
	return fmt.Sprintf("%02d-%s", position, Sanitize(stem))
}
