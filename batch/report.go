// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package batch

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// A FileError is a failure confined to one file.
// Op is "walk", "read", "rewrite", or "write".
type FileError struct {
	Path string
	Op   string
	Err  error
}

func (e *FileError) Error() string {
	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *FileError) Unwrap() error {
	return e.Err
}

func (e *FileError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Path  string `json:"path"`
		Op    string `json:"op"`
		Error string `json:"error"`
	}{e.Path, e.Op, e.Err.Error()})
}

// A Report summarizes a run over a corpus.
type Report struct {
	RuleSet string `json:"rule_set"`
	DryRun  bool   `json:"dry_run"`

	// Examined counts the candidate files that were read successfully,
	// including those whose rewrite or write then failed.
	// A file that could not be read is counted only in Errors.
	Examined int `json:"files_examined"`

	// Changed counts the files whose content changed
	// (or would have changed, in a dry run).
	Changed int `json:"files_changed"`

	// ChangedFiles lists the changed files, sorted.
	ChangedFiles []string `json:"changed_files,omitempty"`

	// Rules maps rule name to total replacements across the corpus.
	Rules map[string]int `json:"rule_totals"`

	// Errors lists per-file failures, sorted by path.
	Errors []*FileError `json:"errors,omitempty"`
}

// Occurrences returns the total number of replacements across all rules.
func (r *Report) Occurrences() int {
	n := 0
	for _, k := range r.Rules {
		n += k
	}
	return n
}

func (r *Report) String() string {
	return fmt.Sprintf("%s: %d files examined, %d changed, %d replacements, %d errors",
		r.RuleSet, r.Examined, r.Changed, r.Occurrences(), len(r.Errors))
}

// A collector accumulates a Report from concurrent file tasks.
type collector struct {
	mu  sync.Mutex
	rep Report
}

func newCollector(set string, dryRun bool) *collector {
	return &collector{rep: Report{RuleSet: set, DryRun: dryRun, Rules: make(map[string]int)}}
}

func (c *collector) examined(path string, counts map[string]int, changed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rep.Examined++
	if !changed {
		return
	}
	c.rep.Changed++
	c.rep.ChangedFiles = append(c.rep.ChangedFiles, path)
	for name, n := range counts {
		c.rep.Rules[name] += n
	}
}

func (c *collector) fail(e *FileError) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rep.Errors = append(c.rep.Errors, e)
}

// report returns the finished report, with lists in a deterministic order
// regardless of how the work was scheduled.
func (c *collector) report() Report {
	c.mu.Lock()
	defer c.mu.Unlock()
	rep := c.rep
	sort.Strings(rep.ChangedFiles)
	sort.SliceStable(rep.Errors, func(i, j int) bool {
		return rep.Errors[i].Path < rep.Errors[j].Path
	})
	return rep
}
