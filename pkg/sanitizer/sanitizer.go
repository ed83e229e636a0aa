package sanitizer

import (
	"regexp"
	"strings"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var (
	reKeepLettersOnly = regexp.MustCompile(`[^\p{L}]+`)
	reMultiSpace      = regexp.MustCompile(`\s+`)
	reTrimUnderscores = regexp.MustCompile(`_+`)
)

func trimAndLower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func collapseSpaces(s string) string {
	return reMultiSpace.ReplaceAllString(s, " ")
}

func collapseUnderscores(s string) string {
	s = reTrimUnderscores.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// SanitizeDestination normalizes a destination for both store filters and
// cache keys, so "  Tel Aviv " and "tel aviv" address the same entry.
func SanitizeDestination(input string) string {
	p := Pipeline{
		trimAndLower,
		func(s string) string { return reKeepLettersOnly.ReplaceAllString(s, "_") },
		collapseUnderscores,
	}
	return p.Apply(input)
}

// SanitizeGuestName trims and collapses whitespace without touching case;
// guest names are display data, not keys.
func SanitizeGuestName(input string) string {
	p := Pipeline{
		func(s string) string { return strings.TrimSpace(s) },
		collapseSpaces,
	}
	return p.Apply(input)
}

func SanitizeEmail(input string) string {
	return trimAndLower(input)
}
