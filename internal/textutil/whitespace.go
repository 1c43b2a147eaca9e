package textutil

import "strings"

// CollapseWhitespace replaces every run of Unicode whitespace with a single
// space and trims leading and trailing whitespace. Markup extraction applies
// it to text nodes, which frequently carry layout newlines and tabs.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
