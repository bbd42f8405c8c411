package agent

import "strings"

// DeveloperQuestion reports whether input asks who built the assistant.
// Input is trimmed and lowercased; any trigger found as a substring matches.
func DeveloperQuestion(input string, triggers []string) bool {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return false
	}
	for _, q := range triggers {
		q = strings.ToLower(strings.TrimSpace(q))
		if q != "" && strings.Contains(normalized, q) {
			return true
		}
	}
	return false
}
