package catalog

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	fixzip "github.com/hidez8891/zip"
	"go.uber.org/zap"

	"apack/common"
	"apack/goody"
)

// loadArchive reads catalog from zip archive with the same layout as catalog
// directory. The whole tree may be put under single top level folder.
func loadArchive(ctx context.Context, archive string, log *zap.Logger) (*goody.Catalog, error) {
	r, err := fixzip.OpenReader(archive)
	if err != nil {
		return nil, fmt.Errorf("unable to read archive file (%s): %w", archive, err)
	}
	defer r.Close()

	var files []*fixzip.File
	for _, f := range r.File {
		name := f.FileHeader.Name
		if !isSafePath(name) {
			return nil, fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", name)
		}
		if !f.FileInfo().IsDir() {
			files = append(files, f)
		}
	}

	prefix := commonRoot(files)
	l := newLayout(log)
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rel := strings.TrimPrefix(f.FileHeader.Name, prefix)
		data, err := readEntry(f)
		if err != nil {
			l.fail(fmt.Errorf("unable to read zip entry %q: %w", f.FileHeader.Name, err))
			continue
		}
		l.add(rel, data)
	}
	return l.catalog()
}

func readEntry(f *fixzip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// commonRoot returns "<folder>/" when every entry lives under the same top
// level folder which is not a language directory itself.
func commonRoot(files []*fixzip.File) string {
	var root string
	for i, f := range files {
		first, _, found := strings.Cut(f.FileHeader.Name, "/")
		if !found {
			return ""
		}
		if i == 0 {
			root = first
		} else if first != root {
			return ""
		}
	}
	if root == "" {
		return ""
	}
	if _, err := common.ParseLanguage(root); err == nil {
		return ""
	}
	return root + "/"
}

// isSafePath returns false for paths that could escape the catalog root:
// absolute paths and those containing ".." components.
func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, `\`) {
		return false
	}
	for part := range strings.SplitSeq(name, "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
