// Package catalog loads goody catalogs from disk and keeps track of catalog
// loading state.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/h2non/filetype"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"gopkg.in/yaml.v3"

	"apack/common"
	"apack/goody"
)

// Load reads catalog from src which could be a catalog file (json or yaml),
// a directory with per language subdirectories or a zip archive of such
// directory. Any broken entry fails the whole load.
func Load(ctx context.Context, src string, log *zap.Logger) (cat *goody.Catalog, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fi, err := os.Stat(src)
	if err != nil {
		return nil, fmt.Errorf("unable to access catalog source: %w", err)
	}

	defer func(start time.Time) {
		if err == nil {
			log.Debug("Catalog loaded", zap.String("source", src), zap.Int("goodies", cat.Len()), zap.Duration("elapsed", time.Since(start)))
		}
	}(time.Now())

	if fi.IsDir() {
		return loadDir(ctx, src, log)
	}
	if !fi.Mode().IsRegular() {
		return nil, fmt.Errorf("unexpected catalog source mode (%s)", src)
	}

	archive, err := isArchiveFile(src)
	if err != nil {
		return nil, fmt.Errorf("unable to check catalog type: %w", err)
	}
	if archive {
		return loadArchive(ctx, src, log)
	}

	switch ext := strings.ToLower(filepath.Ext(src)); ext {
	case ".json", ".yaml", ".yml":
		data, err := os.ReadFile(src)
		if err != nil {
			return nil, fmt.Errorf("unable to read catalog file: %w", err)
		}
		return decodeCatalog(data, log)
	default:
		return nil, fmt.Errorf("catalog source was not recognized (%s)", src)
	}
}

// entry is a single goody as it is stored in catalog file.
type entry struct {
	Name        string `yaml:"name"`
	Code        string `yaml:"code"`
	Description string `yaml:"description"`
}

// decodeCatalog parses catalog file of the form
// {language: {name: {name, code, description}}}. JSON is accepted since
// it is valid YAML.
func decodeCatalog(data []byte, log *zap.Logger) (*goody.Catalog, error) {
	text, err := decodeText(data)
	if err != nil {
		return nil, fmt.Errorf("unable to decode catalog file: %w", err)
	}

	var doc map[string]map[string]entry
	dec := yaml.NewDecoder(strings.NewReader(text))
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unable to parse catalog file: %w", err)
	}

	var (
		goodies []*goody.Goody
		errs    error
	)
	for key, entries := range doc {
		lang, err := common.ParseLanguage(key)
		if err != nil {
			log.Warn("Skipping goodies for unsupported language", zap.String("language", key))
			continue
		}
		for name, e := range entries {
			if e.Name != "" && e.Name != name {
				errs = multierr.Append(errs, fmt.Errorf("%s goody %q is stored under %q", lang, e.Name, name))
				continue
			}
			goodies = append(goodies, &goody.Goody{
				Name:        name,
				Language:    lang,
				Source:      e.Code,
				Description: e.Description,
			})
		}
	}
	if errs != nil {
		return nil, errs
	}
	return goody.NewCatalog(goodies...)
}

// decodeText converts file content to string honoring UTF-8 and UTF-16 byte
// order marks. Content without BOM is taken as UTF-8.
func decodeText(data []byte) (string, error) {
	out, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func isArchiveFile(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	// enough to recognize any signature filetype knows about
	head := make([]byte, 262)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return false, err
	}
	return filetype.Is(head[:n], "zip"), nil
}
