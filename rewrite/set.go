// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rewrite

import (
	"bytes"
	"context"
	"fmt"

	"golang.org/x/mod/semver"
)

// A Set is an ordered sequence of rules applied by sequential composition:
// each rule sees the buffer produced by the rules before it.
// A Set is immutable and safe for concurrent use.
type Set struct {
	id    string
	rules []*Rule
}

// A ChangeRecord describes what one application of a Set did to a buffer.
type ChangeRecord struct {
	// Counts maps rule name to the number of replacements it made.
	// Rules that did not fire are absent.
	Counts map[string]int

	// Offsets maps rule name to the start offsets of its replacements,
	// in the buffer as that rule saw it.
	Offsets map[string][]int

	// Changed reports whether Output differs from the input.
	Changed bool

	Output []byte
}

// Total returns the total number of replacements.
func (c *ChangeRecord) Total() int {
	n := 0
	for _, k := range c.Counts {
		n += k
	}
	return n
}

// NewSet returns a Set applying rules in order, after checking that the
// rules are distinctly named and that the set is idempotent on the probe
// buffers derived from each rule. See Check.
func NewSet(id string, rules ...*Rule) (*Set, error) {
	s := &Set{id: id, rules: append([]*Rule(nil), rules...)}
	var errs ErrorList
	seen := make(map[string]bool)
	for _, r := range s.rules {
		if seen[r.name] {
			errs.Add(&RuleDefinitionError{Rule: r.name, Reason: "duplicate rule name in set " + id})
		}
		seen[r.name] = true
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	if err := s.Check(); err != nil {
		return nil, err
	}
	return s, nil
}

// ID returns the set's identifier.
func (s *Set) ID() string { return s.id }

// Rules returns the rules in application order.
func (s *Set) Rules() []*Rule {
	return append([]*Rule(nil), s.rules...)
}

// Since returns the subset of s holding only rules added after revision rev,
// for re-running just the rules appended since a previous run.
// Rules without a revision are always included.
func (s *Set) Since(rev string) (*Set, error) {
	if !semver.IsValid(rev) {
		return nil, fmt.Errorf("invalid revision %q", rev)
	}
	var keep []*Rule
	for _, r := range s.rules {
		if r.since == "" || semver.Compare(r.since, rev) > 0 {
			keep = append(keep, r)
		}
	}
	return NewSet(s.id, keep...)
}

// Apply applies each rule of s in order to buf.
func (s *Set) Apply(buf []byte) ([]byte, *ChangeRecord) {
	out, rec, _ := s.apply(context.Background(), buf, nil)
	return out, rec
}

// apply is Apply with cancellation between rules.
// If cur is not nil, *cur is set to the name of each rule before it runs.
func (s *Set) apply(ctx context.Context, buf []byte, cur *string) ([]byte, *ChangeRecord, error) {
	rec := &ChangeRecord{
		Counts:  make(map[string]int),
		Offsets: make(map[string][]int),
	}
	out := buf
	for _, r := range s.rules {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		if cur != nil {
			*cur = r.name
		}
		var offsets []int
		out, offsets = r.apply(out)
		if len(offsets) > 0 {
			rec.Counts[r.name] += len(offsets)
			rec.Offsets[r.name] = append(rec.Offsets[r.name], offsets...)
		}
	}
	rec.Changed = !bytes.Equal(out, buf)
	rec.Output = out
	return out, rec, nil
}

// Check reports whether s is free of rule interactions that would make
// repeated runs change files again. Using the probe buffers of every rule,
// for each pair of rules A before B it requires that
//
//   - B finds no more matches in A's output than in A's input, and
//   - after A then B, A finds nothing more to rewrite;
//
// and for the whole set, that a second application rewrites nothing.
// A violation is reported as *UnstableRuleSetError.
func (s *Set) Check() error {
	var probes []string
	seen := make(map[string]bool)
	for _, r := range s.rules {
		for _, p := range r.probes() {
			if !seen[p] {
				seen[p] = true
				probes = append(probes, p)
			}
		}
	}

	for i, a := range s.rules {
		for _, p := range probes {
			in := []byte(p)
			mid, n := a.Apply(in)
			if n == 0 {
				continue
			}
			for _, b := range s.rules[i+1:] {
				if b.pat.count(mid) > b.pat.count(in) {
					return &UnstableRuleSetError{Set: s.id, First: a.name, Second: b.name, Probe: p}
				}
				after, _ := b.Apply(mid)
				if a.pat.count(after) > 0 {
					return &UnstableRuleSetError{Set: s.id, First: b.name, Second: a.name, Probe: string(mid)}
				}
			}
		}
	}

	for _, p := range probes {
		once, _ := s.Apply([]byte(p))
		if _, rec := s.Apply(once); rec.Total() > 0 {
			return &UnstableRuleSetError{Set: s.id, Probe: p}
		}
	}
	return nil
}
