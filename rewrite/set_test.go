// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rewrite

import (
	"errors"
	"reflect"
	"testing"
)

func rules(t *testing.T, defs ...Def) []*Rule {
	t.Helper()
	var rs []*Rule
	for _, d := range defs {
		r, err := NewRule(d)
		if err != nil {
			t.Fatal(err)
		}
		rs = append(rs, r)
	}
	return rs
}

func TestSetOrder(t *testing.T) {
	short := Def{Name: "short", Literal: "ab", Replace: "X"}
	long := Def{Name: "long", Literal: "abd", Replace: "Y"}

	s, err := NewSet("ab", rules(t, short, long)...)
	if err != nil {
		t.Fatal(err)
	}
	out, rec := s.Apply([]byte("abd"))
	if string(out) != "Xd" || !reflect.DeepEqual(rec.Counts, map[string]int{"short": 1}) {
		t.Errorf("short first: %q %v", out, rec.Counts)
	}

	s, err = NewSet("ba", rules(t, long, short)...)
	if err != nil {
		t.Fatal(err)
	}
	out, rec = s.Apply([]byte("abd"))
	if string(out) != "Y" || !reflect.DeepEqual(rec.Counts, map[string]int{"long": 1}) {
		t.Errorf("long first: %q %v", out, rec.Counts)
	}
}

func TestSetUnstablePair(t *testing.T) {
	cast := Def{Name: "cast", Literal: "foo.bar", Replace: "(foo as T).bar"}
	retype := Def{Name: "retype", Literal: "as T", Replace: "as U"}

	_, err := NewSet("forward", rules(t, cast, retype)...)
	var ue *UnstableRuleSetError
	if !errors.As(err, &ue) {
		t.Fatalf("NewSet: err = %v, want UnstableRuleSetError", err)
	}
	if ue.Set != "forward" || ue.First != "cast" || ue.Second != "retype" {
		t.Errorf("NewSet: %+v, want pair cast, retype", ue)
	}

	// In the other order each rule is fine within one pass,
	// but a second run would retype what cast produced.
	_, err = NewSet("backward", rules(t, retype, cast)...)
	if !errors.As(err, &ue) {
		t.Fatalf("NewSet: err = %v, want UnstableRuleSetError", err)
	}
	if ue.Set != "backward" {
		t.Errorf("NewSet: %+v", ue)
	}
}

func TestSetRecreatesEarlierMatch(t *testing.T) {
	// dash turns "ol-d" into "old", which rename then wants again.
	rename := Def{Name: "rename", Literal: "old", Replace: "new", Examples: []string{"old ol-d"}}
	dash := Def{Name: "dash", Literal: "ol-d", Replace: "old"}

	_, err := NewSet("s", rules(t, rename, dash)...)
	var ue *UnstableRuleSetError
	if !errors.As(err, &ue) {
		t.Fatalf("NewSet: err = %v, want UnstableRuleSetError", err)
	}
	if ue.First != "dash" || ue.Second != "rename" {
		t.Errorf("NewSet: %+v, want dash recreating rename's match", ue)
	}
}

func TestSetDuplicateName(t *testing.T) {
	a := Def{Name: "dup", Literal: "a", Replace: "b"}
	c := Def{Name: "dup", Literal: "c", Replace: "d"}
	_, err := NewSet("s", rules(t, a, c)...)
	var rde *RuleDefinitionError
	if !errors.As(err, &rde) || rde.Rule != "dup" {
		t.Errorf("NewSet: err = %v, want duplicate rule error", err)
	}
}

func TestSetSince(t *testing.T) {
	s, err := NewSet("s", rules(t,
		Def{Name: "old", Literal: "a1", Replace: "b1", Since: "v1.0.0"},
		Def{Name: "new", Literal: "a2", Replace: "b2", Since: "v1.1.0"},
		Def{Name: "always", Literal: "a3", Replace: "b3"},
	)...)
	if err != nil {
		t.Fatal(err)
	}

	sub, err := s.Since("v1.0.0")
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, r := range sub.Rules() {
		names = append(names, r.Name())
	}
	if want := []string{"new", "always"}; !reflect.DeepEqual(names, want) {
		t.Errorf("Since(v1.0.0) = %v, want %v", names, want)
	}

	if _, err := s.Since("latest"); err == nil {
		t.Errorf("Since(latest): no error")
	}
}

var idempotenceInputs = []string{
	"",
	"nothing to see here",
	"x = foo.bar + 1\ny = foo.bar.baz\n",
	"trpc.station.list.useQuery(); trpc.stations.list.useQuery()",
	"(meter as any).stsMeterId + meter.stsMeterId + meter.businessId",
	"\tconst r = await db.sql(q)\n\t// @ts-ignore\n\tconst s = await db.sql(q)\n",
	"foo.barfoo.bar(foo.bar)",
}

func TestSetIdempotent(t *testing.T) {
	s, err := NewSet("ts", rules(t,
		Def{Name: "cast", Literal: "foo.bar", Replace: "(foo as T).bar"},
		Def{Name: "station", Pattern: `\btrpc\.station\.`, Replace: "trpc.stations."},
		Def{Name: "meter", Pattern: `\bmeter\.(stsMeterId|businessId)\b`, Replace: "(meter as any).$1"},
		Def{
			Name:    "ignore",
			Pattern: `(?m)^([ \t]*)([^\n]*\bdb\.sql\()`,
			Replace: "${1}// @ts-ignore\n${1}${2}",
			Guards:  Guards{NotBefore: `@ts-ignore[ \t]*\n`},
		},
	)...)
	if err != nil {
		t.Fatal(err)
	}
	for _, in := range idempotenceInputs {
		once, rec1 := s.Apply([]byte(in))
		twice, rec2 := s.Apply(once)
		if rec2.Total() != 0 || string(twice) != string(once) {
			t.Errorf("Apply(Apply(%q)): %v more replacements, %q -> %q", in, rec2.Counts, once, twice)
		}
		again, rec3 := s.Apply([]byte(in))
		if string(again) != string(once) || !reflect.DeepEqual(rec1.Counts, rec3.Counts) {
			t.Errorf("Apply(%q) not deterministic", in)
		}
		if rec1.Total() == 0 && (rec1.Changed || string(once) != in) {
			t.Errorf("Apply(%q): no matches but buffer changed", in)
		}
	}
}

func TestChangeRecordOffsets(t *testing.T) {
	s, err := NewSet("s", rules(t,
		Def{Name: "a", Literal: "cat", Replace: "dog"},
		Def{Name: "b", Literal: "dogs", Replace: "wolves"},
	)...)
	if err != nil {
		t.Fatal(err)
	}
	out, rec := s.Apply([]byte("cat dogs cat"))
	if string(out) != "dog wolves dog" {
		t.Errorf("Apply = %q", out)
	}
	want := map[string][]int{"a": {0, 9}, "b": {4}}
	if !reflect.DeepEqual(rec.Offsets, want) {
		t.Errorf("Offsets = %v, want %v", rec.Offsets, want)
	}
	if !rec.Changed || rec.Total() != 3 {
		t.Errorf("Changed = %v, Total = %d", rec.Changed, rec.Total())
	}
}
