// Package text has helpers for single line display text: goody
// descriptions, summaries and the like. Nothing here is safe to apply to
// snippet source, which must keep its formatting.
package text

import (
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
)

// SquashWhitespace trims s and collapses every interior run of whitespace
// into a single space. Input is walked by extended grapheme clusters, so
// emoji and other multi code point sequences are never split or glued to
// their neighbours.
func SquashWhitespace(s string) string {
	if s == "" {
		return ""
	}

	var (
		b       strings.Builder
		cluster string
		pending bool
		state   = -1
	)
	b.Grow(len(s))

	rest := s
	for len(rest) > 0 {
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)

		if !strings.ContainsFunc(cluster, unicode.IsSpace) {
			if pending {
				b.WriteByte(' ')
				pending = false
			}
			b.WriteString(cluster)
			continue
		}
		// whitespace inside of a cluster (space carrying combining marks,
		// prepended space) is squashed like any other, the rest stays
		for _, r := range cluster {
			if unicode.IsSpace(r) {
				pending = pending || b.Len() > 0
				continue
			}
			if pending {
				b.WriteByte(' ')
				pending = false
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}
