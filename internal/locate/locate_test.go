package locate

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// writeExecutable drops a runnable script named name into dir.
func writeExecutable(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLocateNotFound(t *testing.T) {
	l := NewWithOptions(WithShellProbe(func() string { return "" }))

	_, err := l.Locate(context.Background(), "wachter-test-tool-that-does-not-exist")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Locate() error = %v, want ErrNotFound", err)
	}
}

func TestLocateDirectHit(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not executable on windows")
	}

	dir := t.TempDir()
	writeExecutable(t, dir, "wachter-test-direct")
	t.Setenv("PATH", dir)

	l := NewWithOptions(WithShellProbe(func() string { return "" }))

	res, err := l.Locate(context.Background(), "wachter-test-direct")
	if err != nil {
		t.Fatalf("Locate() error = %v", err)
	}
	if res.Provenance != ProvenanceDirect {
		t.Errorf("Provenance = %s, want direct", res.Provenance)
	}
	if res.Path != "wachter-test-direct" {
		t.Errorf("Path = %q, want bare name for direct hits", res.Path)
	}
}

func TestLocateFallsThroughWhenDirectMisses(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not executable on windows")
	}

	dir := t.TempDir()
	want := writeExecutable(t, dir, "wachter-test-scan")
	t.Setenv("PATH", t.TempDir())

	l := NewWithOptions(
		WithShellProbe(func() string { return "" }),
		WithExtraDirs(dir),
	)

	// The extra dir is off the process PATH, so the direct strategy misses
	// and the tool is found through the merged PATH.
	res, err := l.Locate(context.Background(), "wachter-test-scan")
	if err != nil {
		t.Fatalf("Locate() error = %v", err)
	}
	if res.Provenance == ProvenanceDirect {
		t.Errorf("Provenance = %s, want a fallback strategy", res.Provenance)
	}
	if res.Path != want {
		t.Errorf("Path = %q, want %q", res.Path, want)
	}
}

func TestTryDirScan(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not executable on windows")
	}

	dir := t.TempDir()
	want := writeExecutable(t, dir, "wachter-test-dirscan")

	l := NewWithOptions(WithExtraDirs(dir))

	path, prov := l.tryDirScan("wachter-test-dirscan")
	if path != want {
		t.Errorf("tryDirScan() path = %q, want %q", path, want)
	}
	if prov != ProvenanceKnownDir {
		t.Errorf("tryDirScan() provenance = %s, want known-dir", prov)
	}
}

func TestLocateSkipsNonExecutable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits not meaningful on windows")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "wachter-test-noexec")
	if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", t.TempDir())

	l := NewWithOptions(
		WithShellProbe(func() string { return "" }),
		WithExtraDirs(dir),
	)

	if _, err := l.Locate(context.Background(), "wachter-test-noexec"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Locate() error = %v, want ErrNotFound for non-executable file", err)
	}
}

func TestLocateMissNotCached(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not executable on windows")
	}

	dir := t.TempDir()
	t.Setenv("PATH", t.TempDir())

	l := NewWithOptions(
		WithShellProbe(func() string { return "" }),
		WithExtraDirs(dir),
	)

	if _, err := l.Locate(context.Background(), "wachter-test-late"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("first Locate() error = %v, want ErrNotFound", err)
	}

	writeExecutable(t, dir, "wachter-test-late")

	if _, err := l.Locate(context.Background(), "wachter-test-late"); err != nil {
		t.Fatalf("second Locate() error = %v, tool installed after first miss", err)
	}
}

func TestMergedPathDedupes(t *testing.T) {
	t.Setenv("PATH", "/usr/bin"+string(os.PathListSeparator)+"/usr/bin")

	l := NewWithOptions(WithShellProbe(func() string {
		return "/shell/bin" + string(os.PathListSeparator) + "/usr/bin"
	}))

	entries := filepath.SplitList(l.MergedPath())

	seen := make(map[string]int)
	for _, e := range entries {
		seen[e]++
	}
	for e, n := range seen {
		if n > 1 {
			t.Errorf("entry %q appears %d times", e, n)
		}
	}

	if entries[0] != "/shell/bin" {
		t.Errorf("first entry = %q, want shell PATH first", entries[0])
	}
}

func TestMergedPathMemoized(t *testing.T) {
	calls := 0
	l := NewWithOptions(WithShellProbe(func() string {
		calls++
		return "/probe/bin"
	}))

	first := l.MergedPath()
	second := l.MergedPath()

	if calls != 1 {
		t.Errorf("shell probe ran %d times, want 1", calls)
	}
	if first != second {
		t.Errorf("MergedPath() changed between calls: %q then %q", first, second)
	}
	if !strings.Contains(first, "/probe/bin") {
		t.Errorf("MergedPath() = %q, want probe result included", first)
	}
}

func TestDedupe(t *testing.T) {
	got := dedupe([]string{"/a", "", "/b", "/a", "/c", "/b"})
	want := []string{"/a", "/b", "/c"}
	if len(got) != len(want) {
		t.Fatalf("dedupe() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestShellQuote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"claude", "'claude'"},
		{"a b", "'a b'"},
		{"o'brien", `'o'\''brien'`},
	}
	for _, tt := range tests {
		if got := shellQuote(tt.in); got != tt.want {
			t.Errorf("shellQuote(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
