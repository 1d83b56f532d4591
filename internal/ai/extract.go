package ai

import "strings"

// extractJSON returns the substring bounded by the first '{' and the last
// '}' of text. Model responses are not trusted to be pure JSON even in
// structured-output mode, so this greedy brace-span match is applied to
// every response before parsing. Pure: identical input yields identical
// output.
func extractJSON(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return text[start : end+1], true
}
