package catalog

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"apack/common"
	"apack/goody"
)

type reload struct {
	catalog *goody.Catalog
	err     error
}

func startWatcher(t *testing.T, src string) <-chan reload {
	t.Helper()
	results := make(chan reload, 16)
	w, err := NewWatcher(src, 50*time.Millisecond, func(c *goody.Catalog, err error) {
		select {
		case results <- reload{c, err}:
		default:
		}
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Error("watcher did not stop")
		}
	})
	return results
}

// waitReload returns first reload accepted by match. Single save may be
// seen as several bursts so earlier reloads are skipped.
func waitReload(t *testing.T, results <-chan reload, match func(reload) bool) reload {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case r := <-results:
			if match(r) {
				return r
			}
		case <-timeout:
			t.Fatal("catalog was not reloaded")
			return reload{}
		}
	}
}

func TestWatcher_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "goodies.json")
	writeFile(t, path, []byte(`{"java": {"A": {"code": "class A {}"}}}`))
	results := startWatcher(t, path)

	writeFile(t, path, []byte(`{"java": {"A": {"code": "class A {}"}, "B": {"code": "class B {}"}}}`))
	waitReload(t, results, func(r reload) bool {
		return r.err == nil && r.catalog.Len() == 2
	})

	writeFile(t, path, []byte(`{"java": [`))
	r := waitReload(t, results, func(r reload) bool { return r.err != nil })
	if r.catalog != nil {
		t.Error("failed reload returned catalog")
	}
}

func TestWatcher_Directory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "java", "A.java"), []byte("class A {}"))
	results := startWatcher(t, dir)

	writeFile(t, filepath.Join(dir, "java", "B.java"), []byte("class B {}"))
	waitReload(t, results, func(r reload) bool {
		_, ok := r.catalog.Get(common.LanguageJava, "B")
		return r.err == nil && ok
	})
}

func TestNewWatcher_Missing(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "absent"), 0, func(*goody.Catalog, error) {}, zap.NewNop())
	if err == nil {
		t.Error("NewWatcher() should fail for missing source")
	}
}
