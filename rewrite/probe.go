// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rewrite

import (
	"regexp/syntax"
	"strings"
	"unicode"
)

// maxSamples caps the number of strings synthesized per pattern.
const maxSamples = 8

// synthesize returns short strings that re can match,
// one or more per alternative, without verifying them.
func synthesize(re *syntax.Regexp) []string {
	switch re.Op {
	case syntax.OpNoMatch:
		return nil
	case syntax.OpEmptyMatch, syntax.OpBeginLine, syntax.OpEndLine,
		syntax.OpBeginText, syntax.OpEndText,
		syntax.OpWordBoundary, syntax.OpNoWordBoundary,
		syntax.OpStar, syntax.OpQuest:
		return []string{""}
	case syntax.OpLiteral:
		return []string{string(re.Rune)}
	case syntax.OpAnyChar, syntax.OpAnyCharNotNL:
		return []string{"x"}
	case syntax.OpCharClass:
		if r, ok := pickRune(re.Rune); ok {
			return []string{string(r)}
		}
		return nil
	case syntax.OpCapture, syntax.OpPlus:
		return synthesize(re.Sub[0])
	case syntax.OpRepeat:
		if re.Min == 0 {
			return []string{""}
		}
		sub := synthesize(re.Sub[0])
		out := make([]string, 0, len(sub))
		for _, s := range sub {
			out = append(out, strings.Repeat(s, re.Min))
		}
		return out
	case syntax.OpConcat:
		out := []string{""}
		for _, sub := range re.Sub {
			next := synthesize(sub)
			if len(next) == 0 {
				return nil
			}
			var prod []string
			for _, a := range out {
				for _, b := range next {
					if len(prod) < maxSamples {
						prod = append(prod, a+b)
					}
				}
			}
			out = prod
		}
		return out
	case syntax.OpAlternate:
		var out []string
		for _, sub := range re.Sub {
			for _, s := range synthesize(sub) {
				if len(out) < maxSamples {
					out = append(out, s)
				}
			}
		}
		return out
	}
	return nil
}

// pickRune chooses a representative rune from a character class given as
// [lo, hi] pairs, preferring ordinary identifier characters.
func pickRune(ranges []rune) (rune, bool) {
	if len(ranges) == 0 {
		return 0, false
	}
	for _, want := range []rune{'x', 'a', 'A', '0', '_', ' '} {
		for i := 0; i+1 < len(ranges); i += 2 {
			if ranges[i] <= want && want <= ranges[i+1] {
				return want, true
			}
		}
	}
	for i := 0; i+1 < len(ranges); i += 2 {
		for r := ranges[i]; r <= ranges[i+1] && r-ranges[i] < 256; r++ {
			if unicode.IsPrint(r) {
				return r, true
			}
		}
	}
	return ranges[0], true
}

// probes returns the buffers used to check r for idempotence and
// interaction with other rules: the rule's declared examples plus
// strings synthesized from its pattern, each kept only if r matches it.
func (r *Rule) probes() []string {
	var cands []string
	cands = append(cands, r.examples...)
	if syn, err := syntax.Parse(r.pat.src, syntax.Perl); err == nil {
		for _, s := range synthesize(syn.Simplify()) {
			cands = append(cands, s, " "+s+" ", "\n"+s+"\n")
		}
	}

	seen := make(map[string]bool)
	var out []string
	for _, c := range cands {
		if seen[c] {
			continue
		}
		seen[c] = true
		if r.pat.count([]byte(c)) > 0 {
			out = append(out, c)
		}
	}
	return out
}
