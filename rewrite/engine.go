// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rewrite

import (
	"context"
	"fmt"
)

// An Engine applies a rule set to in-memory buffers.
// It never reads or writes storage, so the same engine serves
// write-back, dry-run, and diff preview alike.
type Engine struct {
	set *Set
}

// A Result is the outcome of running the engine on one buffer.
type Result struct {
	Path    string
	Changed bool
	Old     []byte
	New     []byte
	Record  *ChangeRecord
}

// NewEngine returns an engine applying s.
func NewEngine(s *Set) *Engine {
	return &Engine{set: s}
}

// Set returns the engine's rule set.
func (e *Engine) Set() *Set { return e.set }

// Run applies the rule set once to buf, the content of the file at path,
// then applies it again to the output to confirm that nothing further would
// change. If the second application rewrites anything, Run returns the
// result together with a *NonIdempotentError, and the result must not be
// written. A panic in a rule is returned as a *RuleDefinitionError.
func (e *Engine) Run(ctx context.Context, path string, buf []byte) (res *Result, err error) {
	var cur string
	defer func() {
		if p := recover(); p != nil {
			res = nil
			err = &RuleDefinitionError{Rule: cur, Reason: "failed on " + path, Err: fmt.Errorf("panic: %v", p)}
		}
	}()

	out, rec, err := e.set.apply(ctx, buf, &cur)
	if err != nil {
		return nil, err
	}
	res = &Result{
		Path:    path,
		Changed: rec.Changed,
		Old:     buf,
		New:     out,
		Record:  rec,
	}
	if rec.Total() == 0 {
		return res, nil
	}

	_, again, err := e.set.apply(ctx, out, &cur)
	if err != nil {
		return nil, err
	}
	if again.Total() > 0 {
		return res, &NonIdempotentError{Path: path, Counts: again.Counts}
	}
	return res, nil
}
