package compose

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"apack/common"
	"apack/config"
	"apack/state"
)

// resolveDestination decides where composed document goes. Empty result
// means STDOUT. Existing directory (or path ending with separator) gets file
// name generated from configured template, anything else is used as is.
func resolveDestination(dst string, lang common.Language, names []string, env *state.LocalEnv) (string, error) {
	if dst == "" || dst == "-" {
		return "", nil
	}
	isDir := strings.HasSuffix(dst, string(os.PathSeparator)) || strings.HasSuffix(dst, "/")
	if fi, err := os.Stat(dst); err == nil && fi.IsDir() {
		isDir = true
	}
	dst, err := filepath.Abs(dst)
	if err != nil {
		return "", err
	}
	if !isDir {
		return dst, nil
	}
	return buildOutputPath(lang, names, dst, env), nil
}

// buildOutputPath returns output file path for composed document. Name is
// either default one or expanded from user template, which may contain
// subdirectories. Path segments are cleaned and transliterated if requested.
func buildOutputPath(lang common.Language, names []string, outDir string, env *state.LocalEnv) string {
	defaultFile := cleanPathSegment(lang.String(), env) + lang.Ext()

	if env.Cfg.Output.NameTemplate == "" {
		return filepath.Join(outDir, defaultFile)
	}

	expanded, err := expandTemplate(config.NameTemplateFieldName, env.Cfg.Output.NameTemplate, lang, names)
	if err != nil {
		env.Log.Warn("Unable to prepare output filename", zap.Error(err))
		return filepath.Join(outDir, defaultFile)
	}

	segments := splitPath(expanded)
	if len(segments) == 0 {
		return filepath.Join(outDir, defaultFile)
	}

	parts := make([]string, 0, len(segments)+1)
	parts = append(parts, outDir)
	for _, s := range segments {
		parts = append(parts, cleanPathSegment(s, env))
	}
	parts[len(parts)-1] += lang.Ext()
	return filepath.Join(parts...)
}

// splitPath breaks expanded name into non empty segments, both slash kinds
// are treated as separators.
func splitPath(p string) []string {
	return strings.FieldsFunc(p, func(r rune) bool {
		return r == '/' || r == '\\' || r == os.PathSeparator
	})
}

func cleanPathSegment(segment string, env *state.LocalEnv) string {
	segment = strings.TrimSpace(segment)
	if env.Cfg.Output.Transliterate {
		segment = slug.Make(segment)
	}
	return config.CleanFileName(segment)
}
