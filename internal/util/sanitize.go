package util

import (
	"html"
	"regexp"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"

	"go-vidtube/pkg/apierror"
)

var invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]`)

// strictPolicy strips every tag; user text is stored and returned as plain text.
var strictPolicy = bluemonday.StrictPolicy()

// SanitizeFilename cleans a client-supplied upload name so it can be used as
// part of a temp file name. Hidden names and path separators are rejected or replaced.
func SanitizeFilename(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", apierror.BadRequest("filename cannot be empty", "")
	}

	builder := strings.Builder{}
	builder.Grow(len(trimmed))
	for _, char := range trimmed {
		if unicode.IsControl(char) || isInvisibleUnicode(char) {
			continue
		}
		builder.WriteRune(char)
	}

	cleaned := strings.TrimSpace(invalidFilenameChars.ReplaceAllString(builder.String(), "_"))
	if cleaned == "" || cleaned == "." || cleaned == ".." {
		return "", apierror.BadRequest("filename is invalid after sanitization", trimmed)
	}

	// Truncate by runes (not bytes) to avoid splitting multi-byte characters.
	runes := []rune(cleaned)
	if len(runes) > 255 {
		runes = runes[:255]
	}
	cleaned = string(runes)

	if strings.HasPrefix(cleaned, ".") {
		return "", apierror.BadRequest("hidden filenames are not allowed", cleaned)
	}

	return cleaned, nil
}

// SanitizeText removes markup from free text such as comments, tweets and
// descriptions and returns plain text: "Tom & Jerry" stays as typed, tags
// (entity-encoded ones included) are dropped. Clients escape it when rendering.
func SanitizeText(input string) string {
	stripped := strictPolicy.Sanitize(html.UnescapeString(input))
	return strings.TrimSpace(html.UnescapeString(stripped))
}

// isInvisibleUnicode returns true for zero-width, formatting, and other
// invisible Unicode characters that should be stripped from filenames.
func isInvisibleUnicode(r rune) bool {
	switch r {
	case
		'\u200B', // Zero-Width Space
		'\u200C', // Zero-Width Non-Joiner
		'\u200D', // Zero-Width Joiner
		'\u2060', // Word Joiner
		'\uFEFF': // Zero-Width No-Break Space / BOM
		return true
	}

	return unicode.Is(unicode.Cf, r)
}
