package goody

import (
	"slices"
	"strings"

	"apack/common"
)

// Compose merges goodies into a single source document for the language.
//
// Goodies are processed in ordinal order of their names regardless of the
// order they were passed in, repeated names are processed once and goodies
// of other languages are ignored. Header lines of all goodies come first,
// exact duplicates removed and first seen order kept, then a blank line,
// then goody bodies separated by a blank line. Empty selection produces
// empty document.
//
// Compose does not look for symbols declared by more than one body. Two
// goodies declaring the same top level function end up in the document as
// they are and the result fails to compile - such goodies are not meant to
// be equipped together.
func Compose(lang common.Language, goodies []*Goody) string {
	selected := selection(lang, goodies)
	if len(selected) == 0 {
		return ""
	}

	var (
		headers []string
		seen    = make(map[string]struct{})
		bodies  = make([]string, 0, len(selected))
	)
	for _, g := range selected {
		f := g.Fragment()
		for _, h := range f.Headers {
			if _, dup := seen[h]; dup {
				continue
			}
			seen[h] = struct{}{}
			headers = append(headers, h)
		}
		if f.Body != "" {
			bodies = append(bodies, f.Body)
		}
	}

	var b strings.Builder
	b.WriteString(strings.Join(headers, "\n"))
	if len(headers) > 0 && len(bodies) > 0 {
		b.WriteString("\n\n")
	}
	b.WriteString(strings.Join(bodies, "\n\n"))
	return b.String()
}

// selection returns goodies of the language sorted by name with repeated
// names removed.
func selection(lang common.Language, goodies []*Goody) []*Goody {
	selected := make([]*Goody, 0, len(goodies))
	for _, g := range goodies {
		if g != nil && g.Language == lang {
			selected = append(selected, g)
		}
	}
	sortByName(selected)
	return slices.CompactFunc(selected, func(a, b *Goody) bool {
		return a.Name == b.Name
	})
}
