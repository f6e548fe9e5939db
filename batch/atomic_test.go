// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package batch

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
)

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "f.ts")
	if err := os.WriteFile(name, []byte("old"), 0640); err != nil {
		t.Fatal(err)
	}
	if err := WriteFile(name, []byte("new")); err != nil {
		t.Fatal(err)
	}
	if got := readFile(t, name); got != "new" {
		t.Errorf("content = %q", got)
	}
	if runtime.GOOS != "windows" {
		info, err := os.Stat(name)
		if err != nil {
			t.Fatal(err)
		}
		if info.Mode().Perm() != 0640 {
			t.Errorf("mode = %v, want 0640", info.Mode().Perm())
		}
	}
	assertNoTemp(t, dir)
}

func TestWriteFileMissing(t *testing.T) {
	dir := t.TempDir()
	err := WriteFile(filepath.Join(dir, "gone.ts"), []byte("x"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("WriteFile on missing file: %v", err)
	}
	assertNoTemp(t, dir)
}

func TestWriteFileDirectory(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "d")
	if err := os.MkdirAll(filepath.Join(target, "x"), 0777); err != nil {
		t.Fatal(err)
	}
	if err := WriteFile(target, []byte("x")); err == nil {
		t.Fatal("WriteFile over a directory succeeded")
	}
	assertNoTemp(t, dir)
}

func TestWriteFileReadOnly(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "f.ts")
	if err := os.WriteFile(name, []byte("old"), 0444); err != nil {
		t.Fatal(err)
	}
	if err := WriteFile(name, []byte("new")); !errors.Is(err, fs.ErrPermission) {
		t.Errorf("WriteFile on read-only file: %v", err)
	}
	if got := readFile(t, name); got != "old" {
		t.Errorf("read-only file rewritten: %q", got)
	}
	assertNoTemp(t, dir)
}

// makeLink creates a symbolic link named link pointing at target,
// skipping the test where links cannot be made.
func makeLink(t *testing.T, target, link string) {
	t.Helper()
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("cannot create symlink: %v", err)
	}
}

func TestWriteFileSymlink(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target.ts")
	link := filepath.Join(dir, "link.ts")
	if err := os.WriteFile(target, []byte("old"), 0600); err != nil {
		t.Fatal(err)
	}
	makeLink(t, "target.ts", link)

	if err := WriteFile(link, []byte("new")); err != nil {
		t.Fatal(err)
	}
	info, err := os.Lstat(link)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode()&fs.ModeSymlink == 0 {
		t.Errorf("link replaced by %v", info.Mode())
	}
	if got := readFile(t, target); got != "new" {
		t.Errorf("target = %q, want %q", got, "new")
	}
	assertNoTemp(t, dir)
}

func TestWriteFileSymlinkOtherDir(t *testing.T) {
	dir := t.TempDir()
	other := t.TempDir()
	target := filepath.Join(other, "target.ts")
	link := filepath.Join(dir, "link.ts")
	if err := os.WriteFile(target, []byte("old"), 0666); err != nil {
		t.Fatal(err)
	}
	makeLink(t, target, link)

	if err := WriteFile(link, []byte("new")); err != nil {
		t.Fatal(err)
	}
	if got := readFile(t, target); got != "new" {
		t.Errorf("target = %q, want %q", got, "new")
	}
	assertNoTemp(t, dir)
	assertNoTemp(t, other)
}

// TestWriteFileReaders checks that a concurrent reader only ever
// observes complete old or new content.
func TestWriteFileReaders(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("readers may hit sharing violations during rename on Windows")
	}
	dir := t.TempDir()
	name := filepath.Join(dir, "f.ts")
	a := bytes.Repeat([]byte("a"), 1<<16)
	b := bytes.Repeat([]byte("b"), 1<<17)
	if err := os.WriteFile(name, a, 0666); err != nil {
		t.Fatal(err)
	}

	done := make(chan struct{})
	var wg sync.WaitGroup
	defer func() {
		close(done)
		wg.Wait()
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
			}
			data, err := os.ReadFile(name)
			if err != nil {
				t.Errorf("read: %v", err)
				return
			}
			if !bytes.Equal(data, a) && !bytes.Equal(data, b) {
				t.Errorf("reader saw %d bytes of mixed content", len(data))
				return
			}
		}
	}()

	for i := 0; i < 50; i++ {
		next := a
		if i%2 == 0 {
			next = b
		}
		if err := WriteFile(name, next); err != nil {
			t.Fatal(err)
		}
	}
	assertNoTemp(t, dir)
}

func assertNoTemp(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if isTemp(e.Name()) {
			t.Errorf("temporary file left behind: %s", e.Name())
		}
	}
}
