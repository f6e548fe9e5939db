// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rewrite

import (
	"context"
	"errors"
	"testing"
)

func newEngine(t *testing.T, defs ...Def) *Engine {
	t.Helper()
	s, err := NewSet("test", rules(t, defs...)...)
	if err != nil {
		t.Fatal(err)
	}
	return NewEngine(s)
}

func TestEngineRun(t *testing.T) {
	e := newEngine(t, Def{Name: "cast", Literal: "foo.bar", Replace: "(foo as T).bar"})
	ctx := context.Background()

	res, err := e.Run(ctx, "a.ts", []byte("x = foo.bar + 1"))
	if err != nil {
		t.Fatal(err)
	}
	if !res.Changed || string(res.New) != "x = (foo as T).bar + 1" || res.Record.Counts["cast"] != 1 {
		t.Errorf("Run: changed=%v new=%q counts=%v", res.Changed, res.New, res.Record.Counts)
	}
	if res.Path != "a.ts" || string(res.Old) != "x = foo.bar + 1" {
		t.Errorf("Run: path=%q old=%q", res.Path, res.Old)
	}

	again, err := e.Run(ctx, "a.ts", res.New)
	if err != nil {
		t.Fatal(err)
	}
	if again.Changed || again.Record.Total() != 0 || string(again.New) != string(res.New) {
		t.Errorf("second Run: changed=%v counts=%v", again.Changed, again.Record.Counts)
	}
}

func TestEngineNoMatch(t *testing.T) {
	e := newEngine(t, Def{Name: "cast", Literal: "foo.bar", Replace: "(foo as T).bar"})
	for _, in := range []string{"", "nothing here", "foo . bar"} {
		res, err := e.Run(context.Background(), "f", []byte(in))
		if err != nil {
			t.Fatal(err)
		}
		if res.Changed || string(res.New) != in || res.Record.Total() != 0 {
			t.Errorf("Run(%q): changed=%v new=%q", in, res.Changed, res.New)
		}
	}
}

func TestEngineNonIdempotent(t *testing.T) {
	// Each pass removes one leading a; fine on "aab" but not on "aaab".
	e := newEngine(t, Def{Name: "shrink", Literal: "aab", Replace: "ab"})

	res, err := e.Run(context.Background(), "f.txt", []byte("aaab"))
	var nie *NonIdempotentError
	if !errors.As(err, &nie) {
		t.Fatalf("Run: err = %v, want NonIdempotentError", err)
	}
	if nie.Path != "f.txt" || nie.Counts["shrink"] != 1 {
		t.Errorf("Run: %+v", nie)
	}
	if res == nil || string(res.New) != "aab" {
		t.Errorf("Run: result %+v", res)
	}
}

func TestEngineCanceled(t *testing.T) {
	e := newEngine(t, Def{Name: "x", Literal: "x", Replace: "y"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := e.Run(ctx, "f", []byte("x")); !errors.Is(err, context.Canceled) {
		t.Errorf("Run with canceled context: err = %v", err)
	}
}

func TestEngineDeterministic(t *testing.T) {
	e := newEngine(t,
		Def{Name: "station", Pattern: `\btrpc\.station\.(\w+)`, Replace: "trpc.stations.$1"},
		Def{Name: "insert", Pattern: `\bresult\.insertId\b`, Replace: "(result as any).insertId"},
	)
	in := []byte("const id = result.insertId;\nawait trpc.station.list.fetch();\nresult.insertId\n")
	first, err := e.Run(context.Background(), "f", in)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		res, err := e.Run(context.Background(), "f", in)
		if err != nil {
			t.Fatal(err)
		}
		if string(res.New) != string(first.New) {
			t.Fatalf("run %d: %q, want %q", i, res.New, first.New)
		}
	}
	if first.Record.Counts["insert"] != 2 || first.Record.Counts["station"] != 1 {
		t.Errorf("counts = %v", first.Record.Counts)
	}
}
