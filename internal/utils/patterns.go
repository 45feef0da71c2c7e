package utils

import "strings"

const globMetacharacters = `*?[]{}\`

// DeduplicatePatterns removes duplicate patterns from a slice while preserving order.
// The first occurrence of each unique pattern is kept.
func DeduplicatePatterns(patterns []string) []string {
	if patterns == nil {
		return nil
	}
	encounteredPatterns := make(map[string]struct{}, len(patterns))
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if _, exists := encounteredPatterns[pattern]; exists {
			continue
		}
		encounteredPatterns[pattern] = struct{}{}
		result = append(result, pattern)
	}
	return result
}

// EscapeGlob backslash-escapes doublestar metacharacters so text matches only itself.
func EscapeGlob(text string) string {
	var builder strings.Builder
	for _, character := range text {
		if strings.ContainsRune(globMetacharacters, character) {
			builder.WriteByte('\\')
		}
		builder.WriteRune(character)
	}
	return builder.String()
}
