package topology

import (
	"fmt"
	"strings"
)

// Topic routing keys are "."-separated words. In binding patterns "*"
// matches exactly one word and "#" matches zero or more words.

// checkTopicPattern returns a description of what is wrong with a topic
// binding pattern, or "" when it is well formed.
func checkTopicPattern(pattern string) string {
	if pattern == "" {
		return "topic binding pattern is empty"
	}
	for i, w := range strings.Split(pattern, ".") {
		switch {
		case w == "":
			return fmt.Sprintf("topic binding pattern %q has an empty word at position %d", pattern, i+1)
		case w == "*" || w == "#":
		case strings.ContainsAny(w, "*#"):
			return fmt.Sprintf("topic binding pattern %q uses a wildcard inside word %q; wildcards must be whole words", pattern, w)
		}
	}
	return ""
}

// matchTopic reports whether a published routing key matches a binding
// pattern.
func matchTopic(pattern, key string) bool {
	return matchWords(strings.Split(pattern, "."), strings.Split(key, "."))
}

func matchWords(pattern, key []string) bool {
	for len(pattern) > 0 {
		switch pattern[0] {
		case "#":
			rest := pattern[1:]
			if len(rest) == 0 {
				return true
			}
			for i := 0; i <= len(key); i++ {
				if matchWords(rest, key[i:]) {
					return true
				}
			}
			return false
		case "*":
			if len(key) == 0 {
				return false
			}
		default:
			if len(key) == 0 || key[0] != pattern[0] {
				return false
			}
		}
		pattern, key = pattern[1:], key[1:]
	}
	return len(key) == 0
}
