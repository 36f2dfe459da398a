package goody

import (
	"apack/common"
	"apack/utils/debug"
)

// Describe returns readable trace of how Compose sees the selection: goodies
// in processing order with their header lines and bodies, followed by the
// merged header set. It exists for debug reports.
func Describe(lang common.Language, goodies []*Goody) string {
	tw := debug.NewTreeWriter()

	selected := selection(lang, goodies)
	tw.Line(0, "Composition %s: %d goodies", lang, len(selected))

	var (
		merged []string
		seen   = make(map[string]struct{})
	)
	for _, g := range selected {
		f := g.Fragment()
		tw.Line(1, "Goody[%q] headers[%d] body[%d bytes]", g.Name, len(f.Headers), len(f.Body))
		for _, h := range f.Headers {
			tw.TextBlock(2, "header", h)
			if _, dup := seen[h]; !dup {
				seen[h] = struct{}{}
				merged = append(merged, h)
			}
		}
		tw.Source(2, "body", f.Body)
	}

	tw.Line(0, "Merged headers: %d", len(merged))
	for _, h := range merged {
		tw.TextBlock(1, "header", h)
	}
	return tw.String()
}
