// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rewrite

import (
	"iter"
	"regexp"
	"regexp/syntax"
)

// A Match is one located occurrence of a rule's pattern in a buffer.
// Start and End are byte offsets of the half-open interval [Start, End).
type Match struct {
	Start       int
	End         int
	Text        []byte
	Replacement []byte
}

// A Pattern is a compiled match specification: a regular expression
// plus the guards that veto candidates by their surrounding text.
type Pattern struct {
	src    string
	re     *regexp.Regexp
	guards guards

	// lookBehind reports whether the pattern has an assertion that
	// depends on the text before a match position: ^, \A, \b, or \B.
	lookBehind bool
}

// compilePattern compiles expr and its guards.
// It rejects patterns that can match without consuming input,
// since those would fire at every position of every buffer.
func compilePattern(expr string, g Guards) (*Pattern, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	syn, err := syntax.Parse(expr, syntax.Perl)
	if err != nil {
		return nil, err
	}
	if minLen(syn.Simplify()) == 0 {
		return nil, errZeroWidth
	}
	gs, err := compileGuards(g)
	if err != nil {
		return nil, err
	}
	return &Pattern{src: expr, re: re, guards: gs, lookBehind: looksBehind(syn)}, nil
}

// looksBehind reports whether re contains an assertion on preceding text.
func looksBehind(re *syntax.Regexp) bool {
	switch re.Op {
	case syntax.OpBeginLine, syntax.OpBeginText,
		syntax.OpWordBoundary, syntax.OpNoWordBoundary:
		return true
	}
	for _, sub := range re.Sub {
		if looksBehind(sub) {
			return true
		}
	}
	return false
}

// String returns the source text of the pattern.
func (p *Pattern) String() string {
	return p.src
}

// NumSubexp returns the number of capture groups in the pattern.
func (p *Pattern) NumSubexp() int {
	return p.re.NumSubexp()
}

// locate returns the submatch indices of the matches of p in buf,
// leftmost-first, each starting at or after the end of the previous one.
// Candidates vetoed by a guard are dropped.
// Matches are found as the sequence is consumed, and it may be iterated again.
func (p *Pattern) locate(buf []byte) iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		if len(buf) == 0 {
			return
		}
		for loc := range p.scan(buf) {
			if p.guards.veto(buf, loc[0], loc[1]) {
				continue
			}
			if !yield(loc) {
				return
			}
		}
	}
}

// scan yields the unguarded matches of p in buf, searching for each
// one only when the previous one has been consumed.
func (p *Pattern) scan(buf []byte) iter.Seq[[]int] {
	if p.lookBehind {
		return p.scanBatches(buf)
	}
	return func(yield func([]int) bool) {
		// Without assertions on preceding text, a search of buf[pos:]
		// finds exactly the match a search of buf from pos would.
		// Patterns never match empty text, so pos always advances.
		for pos := 0; pos < len(buf); {
			loc := p.re.FindSubmatchIndex(buf[pos:])
			if loc == nil {
				return
			}
			for i := range loc {
				if loc[i] >= 0 {
					loc[i] += pos
				}
			}
			if !yield(loc) {
				return
			}
			pos = loc[1]
		}
	}
}

// scanBatches is scan for patterns whose assertions need the text before
// the search position. The regexp package can only search a whole buffer,
// so it asks for a doubling number of matches, yielding only the new ones.
func (p *Pattern) scanBatches(buf []byte) iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		done := 0
		for n := 4; ; n *= 2 {
			locs := p.re.FindAllSubmatchIndex(buf, n)
			for _, loc := range locs[done:] {
				if !yield(loc) {
					return
				}
			}
			if len(locs) < n {
				return
			}
			done = len(locs)
		}
	}
}

// count returns the number of matches of p in buf.
func (p *Pattern) count(buf []byte) int {
	n := 0
	for range p.locate(buf) {
		n++
	}
	return n
}

// minLen returns the length in bytes of the shortest string re can match.
func minLen(re *syntax.Regexp) int {
	switch re.Op {
	case syntax.OpNoMatch:
		return 1
	case syntax.OpEmptyMatch, syntax.OpBeginLine, syntax.OpEndLine,
		syntax.OpBeginText, syntax.OpEndText,
		syntax.OpWordBoundary, syntax.OpNoWordBoundary:
		return 0
	case syntax.OpLiteral:
		n := 0
		for _, r := range re.Rune {
			n += runeLen(r)
		}
		return n
	case syntax.OpCharClass, syntax.OpAnyChar, syntax.OpAnyCharNotNL:
		return 1
	case syntax.OpCapture, syntax.OpPlus:
		return minLen(re.Sub[0])
	case syntax.OpStar, syntax.OpQuest:
		return 0
	case syntax.OpRepeat:
		return re.Min * minLen(re.Sub[0])
	case syntax.OpConcat:
		n := 0
		for _, sub := range re.Sub {
			n += minLen(sub)
		}
		return n
	case syntax.OpAlternate:
		n := -1
		for _, sub := range re.Sub {
			if m := minLen(sub); n < 0 || m < n {
				n = m
			}
		}
		if n < 0 {
			return 0
		}
		return n
	}
	return 0
}

func runeLen(r rune) int {
	switch {
	case r < 0x80:
		return 1
	case r < 0x800:
		return 2
	case r < 0x10000:
		return 3
	}
	return 4
}
