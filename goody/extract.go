package goody

import (
	"strings"
	"unicode"

	"apack/common"
)

// Extract splits snippet source into header lines and body. Classification
// is lexical and best effort: anything not recognized as a header line is
// body, so Extract never fails. Body keeps original formatting including
// indentation of its first line, only leading blank lines and trailing
// whitespace are trimmed. Duplicate header lines within the
// snippet are dropped, first occurrence wins.
func Extract(lang common.Language, source string) Fragment {
	rule, ok := headerRules[lang]
	if !ok {
		return Fragment{Body: trimBlankLines(source)}
	}

	lines := strings.Split(source, "\n")

	var (
		headers []string
		seen    = make(map[string]struct{})
		body    = make([]string, 0, len(lines))
		inside  = -1
	)
	for _, line := range lines {
		if inside < 0 {
			if h, ok := rule.header(line); ok {
				if _, dup := seen[h]; !dup {
					seen[h] = struct{}{}
					headers = append(headers, h)
				}
				continue
			}
		}
		inside = rule.advance(line, inside)
		body = append(body, line)
	}

	if len(headers) == 0 {
		return Fragment{Body: trimBlankLines(source)}
	}
	return Fragment{Headers: headers, Body: trimBlankLines(strings.Join(body, "\n"))}
}

// trimBlankLines drops whitespace only lines at the start of s and any
// trailing whitespace.
func trimBlankLines(s string) string {
	first := strings.IndexFunc(s, func(r rune) bool { return !unicode.IsSpace(r) })
	if first < 0 {
		return ""
	}
	if nl := strings.LastIndexByte(s[:first], '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	return strings.TrimRightFunc(s, unicode.IsSpace)
}
