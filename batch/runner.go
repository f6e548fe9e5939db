// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package batch drives a rewrite engine over a corpus of files.
package batch

import (
	"context"
	"fmt"
	"log"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"rsc.io/rw/rewrite"
)

// A Runner applies an engine to every candidate file an Enumerator yields.
type Runner struct {
	Engine     *rewrite.Engine
	Enumerator Enumerator

	// Suffixes restricts candidates to names with one of these suffixes.
	// If empty, every enumerated file is a candidate.
	Suffixes []string

	// DryRun rewrites and reports without writing anything back.
	DryRun bool

	// Strict stops the run at the first per-file error.
	// Files already being written finish their (atomic) write.
	Strict bool

	// Jobs is the number of files processed concurrently.
	// If zero, runtime.GOMAXPROCS(0) is used.
	Jobs int

	// Storage reads and writes files. If nil, OS{} is used.
	Storage Storage

	// Log, if not nil, receives a line per changed file and per error.
	Log *log.Logger

	// Metrics, if not nil, records run statistics.
	Metrics *Metrics

	// OnChange, if not nil, is called for each file that changed
	// (or would change, in a dry run). Calls are serialized.
	OnChange func(*rewrite.Result)

	mu sync.Mutex
}

// Run processes the corpus and returns its report.
// Per-file failures are recorded in the report, not returned,
// unless r.Strict is set; in that case the first one ends the run and is
// returned along with the report so far. Run also returns ctx's error if ctx
// is canceled before the corpus is exhausted.
func (r *Runner) Run(ctx context.Context) (Report, error) {
	c := newCollector(r.Engine.Set().ID(), r.DryRun)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.jobs())

	var walkErr error
	for path, err := range r.Enumerator.Paths(gctx) {
		if gctx.Err() != nil {
			break
		}
		if err != nil {
			if walkErr = r.fail(c, path, "walk", err); walkErr != nil {
				break
			}
			continue
		}
		if !HasSuffix(path, r.Suffixes) {
			continue
		}
		g.Go(func() error {
			return r.file(gctx, c, path)
		})
	}

	err := g.Wait()
	if err == nil {
		err = walkErr
	}
	if err == nil {
		err = ctx.Err()
	}
	r.Metrics.finish(time.Now())
	return c.report(), err
}

func (r *Runner) jobs() int {
	if r.Jobs > 0 {
		return r.Jobs
	}
	return runtime.GOMAXPROCS(0)
}

func (r *Runner) storage() Storage {
	if r.Storage == nil {
		return OS{}
	}
	return r.Storage
}

// file processes one candidate. A non-nil error stops the run.
func (r *Runner) file(ctx context.Context, c *collector, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()
	data, err := r.storage().ReadFile(path)
	if err != nil {
		return r.fail(c, path, "read", err)
	}
	// From here on the file counts as examined, even if a later step fails.
	examined := func(counts map[string]int, changed bool) {
		c.examined(path, counts, changed)
		r.Metrics.file(counts, changed, time.Since(start))
	}

	res, err := r.Engine.Run(ctx, path, data)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		examined(nil, false)
		return r.fail(c, path, "rewrite", err)
	}

	if res.Changed && !r.DryRun {
		// Never start a write once the run is being torn down.
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.storage().WriteFile(path, res.New); err != nil {
			examined(nil, false)
			return r.fail(c, path, "write", err)
		}
	}

	examined(res.Record.Counts, res.Changed)
	if res.Changed {
		r.logf("%s: %s", path, summarize(res.Record.Counts))
		if r.OnChange != nil {
			r.mu.Lock()
			r.OnChange(res)
			r.mu.Unlock()
		}
	}
	return nil
}

func (r *Runner) fail(c *collector, path, op string, err error) error {
	fe := &FileError{Path: path, Op: op, Err: err}
	c.fail(fe)
	r.Metrics.fail(op)
	r.logf("%v", fe)
	if r.Strict {
		return fe
	}
	return nil
}

func (r *Runner) logf(format string, args ...any) {
	if r.Log != nil {
		r.Log.Printf(format, args...)
	}
}

// summarize formats rule counts as "a×2, b×1", sorted by rule name.
func summarize(counts map[string]int) string {
	var names []string
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)
	var parts []string
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s×%d", name, counts[name]))
	}
	return strings.Join(parts, ", ")
}
