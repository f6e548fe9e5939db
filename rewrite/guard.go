// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rewrite

import (
	"bytes"
	"fmt"
	"regexp"
)

// guardWindow bounds how much context a guard inspects on each side of a match.
const guardWindow = 512

// Guards are context conditions that veto an otherwise matching candidate.
// They stand in for the negative lookaround RE2 lacks, and are how a rule
// declares that its own output must not match again.
//
// Each field is a regular expression; an empty field is ignored.
type Guards struct {
	// NotBefore vetoes a match when the text ending at the match start
	// matches it. For example, `\(\s*$` skips expressions already
	// opened by a parenthesis.
	NotBefore string

	// NotAfter vetoes a match when the text starting at the match end
	// matches it.
	NotAfter string

	// SkipLine vetoes a match when the line containing the match start
	// matches it anywhere.
	SkipLine string
}

type guards struct {
	before *regexp.Regexp
	after  *regexp.Regexp
	line   *regexp.Regexp
}

func compileGuards(g Guards) (guards, error) {
	var gs guards
	var err error
	if g.NotBefore != "" {
		if gs.before, err = regexp.Compile(`(?:` + g.NotBefore + `)\z`); err != nil {
			return guards{}, fmt.Errorf("not-before guard: %w", err)
		}
	}
	if g.NotAfter != "" {
		if gs.after, err = regexp.Compile(`\A(?:` + g.NotAfter + `)`); err != nil {
			return guards{}, fmt.Errorf("not-after guard: %w", err)
		}
	}
	if g.SkipLine != "" {
		if gs.line, err = regexp.Compile(g.SkipLine); err != nil {
			return guards{}, fmt.Errorf("skip-line guard: %w", err)
		}
	}
	return gs, nil
}

// veto reports whether the candidate buf[start:end] is excluded by a guard.
func (gs guards) veto(buf []byte, start, end int) bool {
	if gs.before != nil && gs.before.Match(buf[max(0, start-guardWindow):start]) {
		return true
	}
	if gs.after != nil && gs.after.Match(buf[end:min(len(buf), end+guardWindow)]) {
		return true
	}
	if gs.line != nil {
		lo := bytes.LastIndexByte(buf[:start], '\n') + 1
		hi := bytes.IndexByte(buf[start:], '\n')
		if hi < 0 {
			hi = len(buf)
		} else {
			hi += start
		}
		if gs.line.Match(buf[lo:hi]) {
			return true
		}
	}
	return false
}
