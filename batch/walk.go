// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package batch

import (
	"context"
	"fmt"
	"io/fs"
	"iter"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// An Enumerator supplies candidate file paths.
// An error paired with a path reports a problem enumerating that path;
// the runner records it and continues.
type Enumerator interface {
	Paths(ctx context.Context) iter.Seq2[string, error]
}

// Paths is an Enumerator over a fixed list of paths.
type Paths []string

func (p Paths) Paths(ctx context.Context) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for _, name := range p {
			if ctx.Err() != nil {
				return
			}
			if !yield(name, nil) {
				return
			}
		}
	}
}

// DefaultSkipDirs are directory names a Walker skips when SkipDirs is nil.
var DefaultSkipDirs = []string{".git", ".hg", "node_modules", "vendor", "dist", "build"}

// A Walker enumerates the regular files under a list of roots,
// in lexical order. A root that is itself a file is yielded as is.
type Walker struct {
	Roots []string

	// SkipDirs lists directory base names not to descend into.
	// If nil, DefaultSkipDirs is used.
	SkipDirs []string

	// Exclude lists doublestar glob patterns, such as "**/*.gen.ts" or
	// "src/legacy/**", matched against slash-separated paths relative to
	// each root. Matching files are not yielded and matching directories
	// are not entered.
	Exclude []string
}

// excluded reports whether path, found under root, matches an Exclude pattern.
func (w *Walker) excluded(root, path string) bool {
	if len(w.Exclude) == 0 || path == root {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, pat := range w.Exclude {
		if ok, err := doublestar.Match(pat, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// ValidatePatterns reports the first malformed Exclude pattern.
func ValidatePatterns(patterns []string) error {
	for _, pat := range patterns {
		if !doublestar.ValidatePattern(pat) {
			return fmt.Errorf("invalid exclude pattern %q", pat)
		}
	}
	return nil
}

func (w *Walker) Paths(ctx context.Context) iter.Seq2[string, error] {
	skip := make(map[string]bool)
	dirs := w.SkipDirs
	if dirs == nil {
		dirs = DefaultSkipDirs
	}
	for _, d := range dirs {
		skip[d] = true
	}

	return func(yield func(string, error) bool) {
		for _, root := range w.Roots {
			stop := false
			filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
				if err := ctx.Err(); err != nil {
					stop = true
					return err
				}
				if err != nil {
					if !yield(path, err) {
						stop = true
						return filepath.SkipAll
					}
					if d != nil && d.IsDir() {
						return filepath.SkipDir
					}
					return nil
				}
				if d.IsDir() {
					if path != root && skip[d.Name()] || w.excluded(root, path) {
						return filepath.SkipDir
					}
					return nil
				}
				if !d.Type().IsRegular() || isTemp(d.Name()) || w.excluded(root, path) {
					return nil
				}
				if !yield(path, nil) {
					stop = true
					return filepath.SkipAll
				}
				return nil
			})
			if stop {
				return
			}
		}
	}
}

// ValidateSuffixes reports the first suffix that is not a file
// extension: each must start with a dot and name at least one character.
func ValidateSuffixes(suffixes []string) error {
	for _, s := range suffixes {
		if len(s) < 2 || s[0] != '.' {
			return fmt.Errorf("suffix %q is not of the form .ext", s)
		}
	}
	return nil
}

// HasSuffix reports whether name ends in one of suffixes.
// The comparison is on raw text, so callers should check suffixes with
// ValidateSuffixes first. An empty suffix list accepts every name.
func HasSuffix(name string, suffixes []string) bool {
	if len(suffixes) == 0 {
		return true
	}
	for _, s := range suffixes {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}
