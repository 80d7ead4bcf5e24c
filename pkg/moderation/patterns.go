package moderation

import (
	"regexp"
	"strings"
)

// ParsePatternList splits a raw multi-line keyword blob into trimmed,
// non-empty patterns, preserving their order.
func ParsePatternList(raw string) []string {
	if raw == "" {
		return nil
	}

	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")
	patterns := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns
}

// Match reports which pattern hit and in which field.
type Match struct {
	Pattern string `json:"pattern"`
	Field   string `json:"field"`
}

// FindMatch tests every pattern, in list order, against the fields in
// FieldOrder and returns the first hit. Patterns are matched as
// case-insensitive literal substrings; characters with a regex meaning
// are escaped first. A pattern that still fails to compile is skipped
// rather than aborting the scan.
func FindMatch(fields Fields, patterns []string) (Match, bool) {
	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}

		re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(pattern))
		if err != nil {
			continue
		}

		for _, name := range FieldOrder {
			value := fields[name]
			if value == "" {
				continue
			}
			if re.MatchString(value) {
				return Match{Pattern: pattern, Field: name}, true
			}
		}
	}
	return Match{}, false
}
