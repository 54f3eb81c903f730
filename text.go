package modwiki

import (
	"strings"

	"github.com/rivo/uniseg"
)

// ellipsis is appended to truncated text.
const ellipsis = "..."

// Truncate shortens s to at most maxLen user-perceived characters
// (grapheme clusters), appending "..." when text was cut. It never splits
// a multi-byte sequence or a multi-codepoint cluster such as an emoji
// with modifiers.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if uniseg.GraphemeClusterCount(s) <= maxLen {
		return s
	}
	if maxLen <= len(ellipsis) {
		return ellipsis[:maxLen]
	}

	keep := maxLen - len(ellipsis)
	var b strings.Builder
	g := uniseg.NewGraphemes(s)
	for i := 0; i < keep && g.Next(); i++ {
		b.WriteString(g.Str())
	}
	return strings.TrimRight(b.String(), " ") + ellipsis
}
