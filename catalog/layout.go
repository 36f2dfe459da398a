package catalog

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"apack/common"
	"apack/goody"
)

const descriptionExt = ".md"

// layout accumulates catalog stored as a tree: <language>/<Name><ext> holds
// goody source and optional <language>/<Name>.md its description.
type layout struct {
	log          *zap.Logger
	sources      map[common.Language]map[string]string
	descriptions map[common.Language]map[string]string
	unsupported  map[string]struct{}
	errs         error
}

func newLayout(log *zap.Logger) *layout {
	return &layout{
		log:          log,
		sources:      make(map[common.Language]map[string]string),
		descriptions: make(map[common.Language]map[string]string),
		unsupported:  make(map[string]struct{}),
	}
}

// add registers file with slash separated path rel (relative to catalog
// root). Files which do not fit the layout are ignored.
func (l *layout) add(rel string, data []byte) {
	dir, file := path.Split(rel)
	dir = strings.TrimSuffix(dir, "/")
	if dir == "" || strings.Contains(dir, "/") {
		l.log.Debug("Skipping file outside of language directory", zap.String("path", rel))
		return
	}

	lang, err := common.ParseLanguage(dir)
	if err != nil {
		if _, warned := l.unsupported[dir]; !warned {
			l.unsupported[dir] = struct{}{}
			l.log.Warn("Skipping goodies for unsupported language", zap.String("language", dir))
		}
		return
	}

	ext := path.Ext(file)
	name := strings.TrimSuffix(file, ext)
	if name == "" {
		return
	}

	var target map[common.Language]map[string]string
	switch ext {
	case lang.Ext():
		target = l.sources
	case descriptionExt:
		target = l.descriptions
	default:
		if other, ok := common.LanguageFromExt(ext); ok {
			l.log.Warn("Skipping goody stored under wrong language", zap.String("path", rel), zap.Stringer("language", other))
		} else {
			l.log.Debug("Skipping file with unexpected extension", zap.String("path", rel))
		}
		return
	}

	text, err := decodeText(data)
	if err != nil {
		l.errs = multierr.Append(l.errs, fmt.Errorf("unable to decode %q: %w", rel, err))
		return
	}
	byName, ok := target[lang]
	if !ok {
		byName = make(map[string]string)
		target[lang] = byName
	}
	if _, dup := byName[name]; dup {
		l.errs = multierr.Append(l.errs, fmt.Errorf("duplicate %s goody %q (%s)", lang, name, rel))
		return
	}
	byName[name] = text
}

// fail records error which is not bound to a single file.
func (l *layout) fail(err error) {
	l.errs = multierr.Append(l.errs, err)
}

// catalog builds catalog out of accumulated files. Descriptions without
// matching source are ignored.
func (l *layout) catalog() (*goody.Catalog, error) {
	if l.errs != nil {
		return nil, l.errs
	}
	var goodies []*goody.Goody
	for lang, byName := range l.sources {
		for name, src := range byName {
			goodies = append(goodies, &goody.Goody{
				Name:        name,
				Language:    lang,
				Source:      src,
				Description: l.descriptions[lang][name],
			})
		}
	}
	for lang, byName := range l.descriptions {
		for name := range byName {
			if _, ok := l.sources[lang][name]; !ok {
				l.log.Warn("Description without goody source", zap.Stringer("language", lang), zap.String("name", name))
			}
		}
	}
	return goody.NewCatalog(goodies...)
}

// loadDir reads catalog from <dir>/<language>/ subdirectories.
func loadDir(ctx context.Context, dir string, log *zap.Logger) (*goody.Catalog, error) {
	l := newLayout(log)

	langDirs, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("unable to read catalog directory: %w", err)
	}
	for _, ld := range langDirs {
		if !ld.IsDir() {
			continue
		}
		files, err := os.ReadDir(filepath.Join(dir, ld.Name()))
		if err != nil {
			l.fail(fmt.Errorf("unable to read catalog directory: %w", err))
			continue
		}
		for _, f := range files {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if !f.Type().IsRegular() {
				continue
			}
			rel := path.Join(ld.Name(), f.Name())
			data, err := os.ReadFile(filepath.Join(dir, ld.Name(), f.Name()))
			if err != nil {
				l.fail(fmt.Errorf("unable to read %q: %w", rel, err))
				continue
			}
			l.add(rel, data)
		}
	}
	return l.catalog()
}
