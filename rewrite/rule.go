// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rewrite

import (
	"errors"
	"fmt"
	"iter"
	"regexp"
	"strings"

	"golang.org/x/mod/semver"
)

var errZeroWidth = errors.New("zero-width match")

// A Def describes a rule before it is compiled.
// Exactly one of Pattern and Literal must be set.
type Def struct {
	Name string

	// Pattern is an RE2 regular expression. Replace may refer to its
	// capture groups as $1, ${1}, $name or ${name}; $0 is the whole match.
	Pattern string

	// Literal is matched exactly, and Replace is used verbatim.
	Literal string

	Replace string
	Guards  Guards

	// Since is the rule set revision (a semantic version such as v1.2.0)
	// in which the rule was added. It may be empty.
	Since string

	// Examples are inputs the rule is expected to rewrite.
	// They are used, along with strings derived from the pattern,
	// to check that the rule does not match its own output.
	Examples []string
}

// A Rule is a named, compiled pattern-to-replacement transformation.
// Rules are immutable and safe for concurrent use.
type Rule struct {
	name     string
	pat      *Pattern
	tmpl     template
	since    string
	examples []string
}

// NewRule compiles d. All problems are reported as *RuleDefinitionError.
func NewRule(d Def) (*Rule, error) {
	fail := func(reason string, err error) (*Rule, error) {
		return nil, &RuleDefinitionError{Rule: d.Name, Reason: reason, Err: err}
	}
	if strings.TrimSpace(d.Name) == "" {
		return fail("missing name", nil)
	}
	if (d.Pattern == "") == (d.Literal == "") {
		return fail("exactly one of pattern and literal is required", nil)
	}
	if d.Since != "" && !semver.IsValid(d.Since) {
		return fail(fmt.Sprintf("invalid since revision %q", d.Since), nil)
	}

	expr := d.Pattern
	if d.Literal != "" {
		expr = regexp.QuoteMeta(d.Literal)
	}
	pat, err := compilePattern(expr, d.Guards)
	if err == errZeroWidth {
		return fail(errZeroWidth.Error(), nil)
	}
	if err != nil {
		return fail("bad pattern", err)
	}

	tmpl := literalTemplate(d.Replace)
	if d.Literal == "" {
		tmpl, err = parseTemplate(d.Replace, pat.re)
		if err != nil {
			return fail("bad replacement", err)
		}
	}

	r := &Rule{
		name:     d.Name,
		pat:      pat,
		tmpl:     tmpl,
		since:    d.Since,
		examples: append([]string(nil), d.Examples...),
	}
	for _, ex := range d.Examples {
		if pat.count([]byte(ex)) == 0 {
			return fail(fmt.Sprintf("example %q does not match", ex), nil)
		}
	}
	for _, p := range r.probes() {
		out, n := r.Apply([]byte(p))
		if n == 0 {
			continue
		}
		if _, again := r.Apply(out); again > 0 {
			return fail(fmt.Sprintf("rule matches its own replacement: %q -> %q", p, out), nil)
		}
	}
	return r, nil
}

// MustRule is like NewRule but panics if the rule is invalid.
// It is intended for rules defined in Go source.
func MustRule(d Def) *Rule {
	r, err := NewRule(d)
	if err != nil {
		panic(err)
	}
	return r
}

// Name returns the rule's name.
func (r *Rule) Name() string { return r.name }

// Since returns the revision in which the rule was added, or "".
func (r *Rule) Since() string { return r.since }

// Pattern returns the rule's compiled pattern.
func (r *Rule) Pattern() *Pattern { return r.pat }

// Matches returns the matches of r in buf, in left-to-right order.
// The sequence is a pure function of r and buf and may be iterated repeatedly.
func (r *Rule) Matches(buf []byte) iter.Seq[Match] {
	return func(yield func(Match) bool) {
		for loc := range r.pat.locate(buf) {
			m := Match{
				Start:       loc[0],
				End:         loc[1],
				Text:        buf[loc[0]:loc[1]],
				Replacement: r.tmpl.expand(nil, buf, loc),
			}
			if !yield(m) {
				return
			}
		}
	}
}

// Find returns all matches of r in buf.
func (r *Rule) Find(buf []byte) []Match {
	var ms []Match
	for m := range r.Matches(buf) {
		ms = append(ms, m)
	}
	return ms
}

// Apply returns buf with every match of r replaced, and the number of
// replacements made. If there are no matches, Apply returns buf itself.
func (r *Rule) Apply(buf []byte) ([]byte, int) {
	out, offsets := r.apply(buf)
	return out, len(offsets)
}

// apply is Apply, reporting the start offset of each replaced match.
func (r *Rule) apply(buf []byte) ([]byte, []int) {
	var out []byte
	var offsets []int
	last := 0
	for loc := range r.pat.locate(buf) {
		if out == nil {
			out = make([]byte, 0, len(buf)+len(buf)/8)
		}
		out = append(out, buf[last:loc[0]]...)
		out = r.tmpl.expand(out, buf, loc)
		last = loc[1]
		offsets = append(offsets, loc[0])
	}
	if offsets == nil {
		return buf, nil
	}
	out = append(out, buf[last:]...)
	return out, offsets
}

func (r *Rule) String() string {
	return r.name
}
