// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rewrite

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// A RuleDefinitionError reports a structurally invalid rule:
// a malformed pattern, a dangling capture reference in the replacement,
// a pattern that can match the empty string, or a rule that matches its own output.
type RuleDefinitionError struct {
	Rule   string
	Reason string
	Err    error
}

func (e *RuleDefinitionError) Error() string {
	msg := "rule " + strconv.Quote(e.Rule) + ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *RuleDefinitionError) Unwrap() error {
	return e.Err
}

// An UnstableRuleSetError reports that a rule set is not idempotent as a whole.
// When First and Second are set, applying First introduced text that Second
// then matched (or, when Second runs before First, that Second recreated a
// match for First). When they are empty, the set as a whole failed to reach a
// fixed point after one application.
type UnstableRuleSetError struct {
	Set    string
	First  string
	Second string
	Probe  string
}

func (e *UnstableRuleSetError) Error() string {
	if e.First == "" {
		return fmt.Sprintf("rule set %s: not idempotent on %q", e.Set, e.Probe)
	}
	return fmt.Sprintf("rule set %s: unstable rule pair %s, %s: %s rewrites %q into text matched by %s",
		e.Set, e.First, e.Second, e.First, e.Probe, e.Second)
}

// A NonIdempotentError reports that re-applying a rule set to its own output
// for one buffer produced further occurrences. The buffer must not be written.
type NonIdempotentError struct {
	Path   string
	Counts map[string]int
}

func (e *NonIdempotentError) Error() string {
	var names []string
	for name := range e.Counts {
		names = append(names, name)
	}
	sort.Strings(names)
	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s×%d", name, e.Counts[name])
	}
	return fmt.Sprintf("%s: rewrite not idempotent: second pass matched %s", e.Path, b.String())
}

// ErrorList is a set of errors. It is also an error itself. The zero value is
// an empty list, ready to use.
type ErrorList struct {
	errs []error
	set  map[string]bool
}

// Add adds err to l. If err is an ErrorList, its errors are merged into l.
// Duplicate errors (same message) are suppressed.
func (l *ErrorList) Add(err error) {
	switch err := err.(type) {
	case nil:
		return
	case *ErrorList:
		for _, e := range err.errs {
			l.Add(e)
		}
		return
	}

	k := err.Error()
	if l.set[k] {
		return
	}
	if l.set == nil {
		l.set = make(map[string]bool)
	}
	l.set[k] = true
	l.errs = append(l.errs, err)
}

// Errors returns the errors in the order they were added.
func (l *ErrorList) Errors() []error {
	return l.errs
}

// Error returns a "\n" separated list of the errors.
// The result does not end in "\n".
func (l *ErrorList) Error() string {
	if len(l.errs) == 0 {
		return "no errors"
	}
	buf := new(strings.Builder)
	for _, e := range l.errs {
		if buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(e.Error())
	}
	return buf.String()
}

// Unwrap lets errors.As and errors.Is see every error in the list.
func (l *ErrorList) Unwrap() []error {
	return l.errs
}

// Err returns an error equivalent to this error list.
// If the list is empty, Err returns nil.
func (l *ErrorList) Err() error {
	if len(l.errs) == 0 {
		return nil
	}
	return l
}
