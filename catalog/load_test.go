package catalog

import (
	"archive/zip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"apack/common"
	"apack/goody"
)

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

func writeZip(t *testing.T, path string, files map[string]string) {
	t.Helper()
	zf, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}
	defer zf.Close()

	w := zip.NewWriter(zf)
	for name, content := range files {
		fw, err := w.Create(name)
		if err != nil {
			t.Fatalf("Failed to create file %s in zip: %v", name, err)
		}
		if _, err := fw.Write([]byte(content)); err != nil {
			t.Fatalf("Failed to write content for %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close zip writer: %v", err)
	}
}

func mustGet(t *testing.T, c *goody.Catalog, lang common.Language, name string) *goody.Goody {
	t.Helper()
	g, ok := c.Get(lang, name)
	if !ok {
		t.Fatalf("goody %s/%s not found", lang, name)
	}
	return g
}

const jsonCatalog = `{
  "typescript": {
    "A": {"name": "A", "code": "import { foo } from 'lib';\nfunction a() {}", "description": "First."},
    "B": {"name": "B", "code": "import { foo } from 'lib';\nfunction b() {}"}
  },
  "python3": {
    "heap": {"name": "heap", "code": "import heapq"}
  },
  "rust": {
    "nope": {"name": "nope", "code": "fn main() {}"}
  }
}`

func TestLoad_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "goodies.json")
	writeFile(t, path, []byte(jsonCatalog))

	c, err := Load(context.Background(), path, zap.NewNop())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}
	a := mustGet(t, c, common.LanguageTypescript, "A")
	if a.Description != "First." || !strings.HasSuffix(a.Source, "function a() {}") {
		t.Errorf("unexpected goody %+v", a)
	}

	doc := goody.Compose(common.LanguageTypescript, c.Goodies(common.LanguageTypescript))
	if doc != "import { foo } from 'lib';\n\nfunction a() {}\n\nfunction b() {}" {
		t.Errorf("Compose() = %q", doc)
	}
}

func TestLoad_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "goodies.yaml")
	writeFile(t, path, []byte(`
kotlin:
  Pair:
    code: |
      import kotlin.math.max

      data class P(val a: Int)
    description: >
      Pair of ints.
      Nothing else.
`))

	c, err := Load(context.Background(), path, zap.NewNop())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	g := mustGet(t, c, common.LanguageKotlin, "Pair")
	if got := g.Fragment().Headers; len(got) != 1 || got[0] != "import kotlin.math.max" {
		t.Errorf("Headers = %q", got)
	}
	if g.Summary() != "Pair of ints." {
		t.Errorf("Summary() = %q", g.Summary())
	}
}

func TestLoad_FileErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    string
	}{
		{"name mismatch", "c.json", `{"java": {"A": {"name": "B", "code": "class B {}"}}}`, `java goody "B" is stored under "A"`},
		{"broken", "c.json", `{"java": [`, "unable to parse catalog file"},
		{"unknown extension", "c.txt", `{}`, "was not recognized"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			writeFile(t, path, []byte(tt.content))
			_, err := Load(context.Background(), path, zap.NewNop())
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load() error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "absent.json"), zap.NewNop())
	if err == nil || !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load() error = %v, want not exist", err)
	}
}

func TestLoad_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Load(ctx, t.TempDir(), zap.NewNop()); err != context.Canceled {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}

func TestLoad_Directory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "java", "DSU.java"), []byte("import java.util.*;\nclass DSU {}\n"))
	writeFile(t, filepath.Join(dir, "java", "DSU.md"), []byte("Disjoint set union. Fast."))
	writeFile(t, filepath.Join(dir, "java", "notes.txt"), []byte("ignored"))
	writeFile(t, filepath.Join(dir, "java", "Orphan.md"), []byte("no source"))
	writeFile(t, filepath.Join(dir, "python3", "heap.py"), []byte("import heapq\n"))
	writeFile(t, filepath.Join(dir, "python3", "wrong.java"), []byte("class Wrong {}"))
	writeFile(t, filepath.Join(dir, "cobol", "X.cob"), []byte("DISPLAY 'X'."))
	writeFile(t, filepath.Join(dir, "README.md"), []byte("top level"))

	c, err := Load(context.Background(), dir, zap.NewNop())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
	dsu := mustGet(t, c, common.LanguageJava, "DSU")
	if dsu.Description != "Disjoint set union. Fast." {
		t.Errorf("Description = %q", dsu.Description)
	}
	if dsu.Fragment().Body != "class DSU {}" {
		t.Errorf("Body = %q", dsu.Fragment().Body)
	}
	mustGet(t, c, common.LanguagePython3, "heap")
	if _, ok := c.Get(common.LanguagePython3, "wrong"); ok {
		t.Error("file with foreign extension loaded")
	}
}

func TestLoad_DirectoryWrongLanguage(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "python3", "heap.py"), []byte("import heapq\n"))
	writeFile(t, filepath.Join(dir, "python3", "Graph.java"), []byte("class Graph {}"))
	writeFile(t, filepath.Join(dir, "python3", "notes.txt"), []byte("ignored"))

	core, logs := observer.New(zapcore.DebugLevel)
	c, err := Load(context.Background(), dir, zap.New(core))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}

	warned := logs.FilterMessage("Skipping goody stored under wrong language").All()
	if len(warned) != 1 {
		t.Fatalf("wrong language warnings = %d, want 1", len(warned))
	}
	if fields := warned[0].ContextMap(); fields["language"] != "java" || fields["path"] != "python3/Graph.java" {
		t.Errorf("warning fields = %v", fields)
	}
	if n := logs.FilterMessage("Skipping file with unexpected extension").Len(); n != 1 {
		t.Errorf("unexpected extension messages = %d, want 1", n)
	}
}

func TestLoad_DirectoryEncodings(t *testing.T) {
	dir := t.TempDir()
	// UTF-8 with BOM
	writeFile(t, filepath.Join(dir, "javascript", "bom.js"), append([]byte{0xef, 0xbb, 0xbf}, "import x from 'x';\nx();"...))
	// UTF-16LE with BOM
	utf16 := []byte{0xff, 0xfe}
	for _, r := range "import os\nos.sep" {
		utf16 = append(utf16, byte(r), 0)
	}
	writeFile(t, filepath.Join(dir, "python3", "wide.py"), utf16)

	c, err := Load(context.Background(), dir, zap.NewNop())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := mustGet(t, c, common.LanguageJavascript, "bom").Fragment().Headers; len(got) != 1 || got[0] != "import x from 'x';" {
		t.Errorf("bom headers = %q", got)
	}
	if got := mustGet(t, c, common.LanguagePython3, "wide").Source; got != "import os\nos.sep" {
		t.Errorf("wide source = %q", got)
	}
}

func TestLoad_Archive(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
	}{
		{
			name: "flat",
			files: map[string]string{
				"java/Graph.java": "class Graph {}",
				"java/Graph.md":   "Adjacency list graph.",
				"kotlin/Max.kt":   "fun max3(a: Int, b: Int, c: Int) = maxOf(a, b, c)",
			},
		},
		{
			name: "top level folder",
			files: map[string]string{
				"goodies/java/Graph.java": "class Graph {}",
				"goodies/java/Graph.md":   "Adjacency list graph.",
				"goodies/kotlin/Max.kt":   "fun max3(a: Int, b: Int, c: Int) = maxOf(a, b, c)",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// extension does not matter, archive is recognized by content
			path := filepath.Join(t.TempDir(), "catalog.bin")
			writeZip(t, path, tt.files)

			c, err := Load(context.Background(), path, zap.NewNop())
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if c.Len() != 2 {
				t.Errorf("Len() = %d, want 2", c.Len())
			}
			if g := mustGet(t, c, common.LanguageJava, "Graph"); g.Description != "Adjacency list graph." {
				t.Errorf("Description = %q", g.Description)
			}
			mustGet(t, c, common.LanguageKotlin, "Max")
		})
	}
}

func TestLoad_ArchiveUnsafePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "evil.zip")
	writeZip(t, path, map[string]string{
		"java/Graph.java":   "class Graph {}",
		"../java/Evil.java": "class Evil {}",
	})
	_, err := Load(context.Background(), path, zap.NewNop())
	if err == nil || !strings.Contains(err.Error(), "unsafe path") {
		t.Errorf("Load() error = %v, want unsafe path", err)
	}
}

func TestLoad_ArchiveDuplicate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dup.zip")
	zf, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}
	w := zip.NewWriter(zf)
	for _, body := range []string{"class A {}", "class A2 {}"} {
		fw, err := w.Create("java/A.java")
		if err != nil {
			t.Fatalf("Failed to create entry: %v", err)
		}
		fw.Write([]byte(body))
	}
	w.Close()
	zf.Close()

	_, err = Load(context.Background(), path, zap.NewNop())
	if err == nil || !strings.Contains(err.Error(), `duplicate java goody "A"`) {
		t.Errorf("Load() error = %v, want duplicate", err)
	}
}

func TestIsSafePath(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"java/A.java", true},
		{"top/java/A.java", true},
		{"a..b/c", true},
		{"/etc/passwd", false},
		{`\windows\system32`, false},
		{"../escape", false},
		{"java/../../escape", false},
	}
	for _, tt := range tests {
		if got := isSafePath(tt.name); got != tt.want {
			t.Errorf("isSafePath(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestIsArchiveFile(t *testing.T) {
	dir := t.TempDir()

	text := filepath.Join(dir, "plain.zip")
	writeFile(t, text, []byte("not a real zip file"))
	if got, err := isArchiveFile(text); err != nil || got {
		t.Errorf("isArchiveFile(text) = %v, %v", got, err)
	}

	empty := filepath.Join(dir, "empty")
	writeFile(t, empty, nil)
	if got, err := isArchiveFile(empty); err != nil || got {
		t.Errorf("isArchiveFile(empty) = %v, %v", got, err)
	}

	archive := filepath.Join(dir, "real.dat")
	writeZip(t, archive, map[string]string{"java/A.java": "class A {}"})
	if got, err := isArchiveFile(archive); err != nil || !got {
		t.Errorf("isArchiveFile(zip) = %v, %v", got, err)
	}

	if _, err := isArchiveFile(filepath.Join(dir, "absent")); err == nil {
		t.Error("isArchiveFile(absent) should fail")
	}
}
