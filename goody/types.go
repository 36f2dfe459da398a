// Package goody is the composition core: catalog model, header extraction,
// merging of equipped goodies into one source document and memoization of
// merged documents.
package goody

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"apack/common"
	"apack/text"
)

// Goody is a named, language tagged code fragment. Name is unique within
// its language. Goody must not be modified after it was added to a Catalog.
type Goody struct {
	Name        string
	Language    common.Language
	Source      string
	Description string

	once     sync.Once
	fragment Fragment
}

// Fragment returns header/body split of goody source. It is computed on
// first use and memoized for the life of the goody.
func (g *Goody) Fragment() Fragment {
	g.once.Do(func() {
		g.fragment = Extract(g.Language, g.Source)
	})
	return g.fragment
}

// Summary returns first sentence of the goody description.
func (g *Goody) Summary() string {
	return text.Summary(g.Description)
}

// Fragment is a goody source split into header lines (imports and their
// equivalents) and body. Headers slice is shared, callers must not modify it.
type Fragment struct {
	Headers []string
	Body    string
}

// Catalog maps language to goodies of that language. It is immutable once
// built, reloading produces a new Catalog.
type Catalog struct {
	byLanguage map[common.Language]map[string]*Goody
	count      int
}

// NewCatalog builds catalog from the list of goodies. Goodies with invalid
// language or empty name and duplicate names within a language are errors.
func NewCatalog(goodies ...*Goody) (*Catalog, error) {
	c := &Catalog{byLanguage: make(map[common.Language]map[string]*Goody)}
	for _, g := range goodies {
		if g == nil {
			continue
		}
		if !g.Language.IsValid() {
			return nil, fmt.Errorf("goody %q: %q is %w", g.Name, g.Language, common.ErrInvalidLanguage)
		}
		if g.Name == "" {
			return nil, fmt.Errorf("%s goody without name", g.Language)
		}
		byName, ok := c.byLanguage[g.Language]
		if !ok {
			byName = make(map[string]*Goody)
			c.byLanguage[g.Language] = byName
		}
		if _, exists := byName[g.Name]; exists {
			return nil, fmt.Errorf("duplicate %s goody %q", g.Language, g.Name)
		}
		byName[g.Name] = g
		c.count++
	}
	return c, nil
}

// Len returns total number of goodies in the catalog.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return c.count
}

// Languages returns languages present in the catalog, sorted.
func (c *Catalog) Languages() []common.Language {
	if c == nil {
		return nil
	}
	langs := make([]common.Language, 0, len(c.byLanguage))
	for l := range c.byLanguage {
		langs = append(langs, l)
	}
	slices.Sort(langs)
	return langs
}

// Get looks up single goody.
func (c *Catalog) Get(lang common.Language, name string) (*Goody, bool) {
	if c == nil {
		return nil, false
	}
	g, ok := c.byLanguage[lang][name]
	return g, ok
}

// Goodies returns all goodies for the language ordered by name.
func (c *Catalog) Goodies(lang common.Language) []*Goody {
	if c == nil {
		return nil
	}
	byName := c.byLanguage[lang]
	goodies := make([]*Goody, 0, len(byName))
	for _, g := range byName {
		goodies = append(goodies, g)
	}
	sortByName(goodies)
	return goodies
}

// Lookup resolves names to goodies of the language. Names absent from the
// catalog are skipped.
func (c *Catalog) Lookup(lang common.Language, names []string) []*Goody {
	if c == nil {
		return nil
	}
	goodies := make([]*Goody, 0, len(names))
	for _, name := range names {
		if g, ok := c.byLanguage[lang][name]; ok {
			goodies = append(goodies, g)
		}
	}
	return goodies
}

// EquippedSet is a set of goody names selected for a language. It has no
// order, use Names to get a stable view.
type EquippedSet map[string]struct{}

func NewEquippedSet(names ...string) EquippedSet {
	s := make(EquippedSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

func (s EquippedSet) Add(name string) {
	s[name] = struct{}{}
}

func (s EquippedSet) Remove(name string) {
	delete(s, name)
}

func (s EquippedSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Names returns set members sorted in ordinal order.
func (s EquippedSet) Names() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

func sortByName(goodies []*Goody) {
	slices.SortFunc(goodies, func(a, b *Goody) int {
		return strings.Compare(a.Name, b.Name)
	})
}
