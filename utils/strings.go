package utils

import (
	"regexp"
	"strings"
)

// NormalizeName converts a name to lowercase for storage consistency
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// FormatNameForDisplay converts a normalized name to title case for display
func FormatNameForDisplay(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}

	name = strings.ToLower(name)
	return strings.ToUpper(string(name[0])) + name[1:]
}

// CleanFileName removes invalid characters from filename
func CleanFileName(filename string) string {
	// Replace invalid characters with underscore
	reg := regexp.MustCompile(`[<>:"/\\|?*]`)
	cleaned := reg.ReplaceAllString(filename, "_")

	// Remove extra spaces and trim
	cleaned = strings.TrimSpace(cleaned)
	cleaned = regexp.MustCompile(`\s+`).ReplaceAllString(cleaned, "_")

	return cleaned
}
