package question

import "strings"

// NoMatch is the sentinel returned by FilterWildcard when nothing
// matches. Callers must special-case it; it is never a real suggestion.
const NoMatch = "-"

// MatchPrefix returns the de-duplicated, order-preserving subset of
// texts that start with buffer[:cursor]. It is a pure function: calling
// it repeatedly with unchanged arguments yields the same result, and
// appending characters to the buffer never grows the result.
func MatchPrefix(texts []string, buffer string, cursor int) []string {
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(buffer) {
		cursor = len(buffer)
	}
	prefix := buffer[:cursor]

	matched := make([]string, 0, len(texts))
	seen := make(map[string]struct{}, len(texts))
	for _, t := range texts {
		if !strings.HasPrefix(t, prefix) {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		matched = append(matched, t)
	}
	return matched
}

// FilterWildcard filters texts against a buffer that may contain the
// wildcard '*'. The buffer is split on '*': a text matches when it
// starts with the first segment and contains every later non-empty
// segment (order beyond the prefix is not enforced). An empty buffer or
// a bare "*" matches everything. Matching is case-insensitive.
//
// When nothing matches the result is the single-element NoMatch
// sentinel, never an empty slice.
func FilterWildcard(buffer string, texts []string) []string {
	buffer = strings.TrimSpace(buffer)

	if buffer == "" || buffer == "*" {
		return append([]string(nil), texts...)
	}

	var matched []string
	if strings.Contains(buffer, "*") {
		parts := strings.Split(strings.ToLower(buffer), "*")
		prefix := parts[0]
		for _, t := range texts {
			lower := strings.ToLower(t)
			if !strings.HasPrefix(lower, prefix) {
				continue
			}
			ok := true
			for _, part := range parts[1:] {
				if part != "" && !strings.Contains(lower, part) {
					ok = false
					break
				}
			}
			if ok {
				matched = append(matched, t)
			}
		}
	} else {
		lower := strings.ToLower(buffer)
		for _, t := range texts {
			if strings.HasPrefix(strings.ToLower(t), lower) {
				matched = append(matched, t)
			}
		}
	}

	if len(matched) == 0 {
		return []string{NoMatch}
	}
	return matched
}

// IsNoMatch reports whether suggestions is exactly the NoMatch sentinel.
func IsNoMatch(suggestions []string) bool {
	return len(suggestions) == 1 && suggestions[0] == NoMatch
}
