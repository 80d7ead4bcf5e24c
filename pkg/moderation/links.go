package moderation

import "regexp"

var linkPattern = regexp.MustCompile(`(?i)(https?|ftp)://`)

// CountLinks returns the number of http, https and ftp scheme prefixes
// present in content. Occurrences are counted non-overlapping and
// case-insensitively; nothing else about the surrounding text is
// required to look like a URL.
func CountLinks(content string) int {
	return len(linkPattern.FindAllStringIndex(content, -1))
}
