// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rules

import (
	"fmt"
	"strconv"
	"strings"
)

// A SyntaxError reports a malformed line in a rule script.
type SyntaxError struct {
	File string
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Msg)
}

// ParseScript parses a rule script. Each non-blank line is one of
//
//	version <semver>
//	set <id> [suffix ...]
//	<name>: <pattern> -> <replacement> [option value ...]
//
// A pattern written /like this/ is a regular expression (\/ is a slash);
// any other pattern is matched literally. Quoted tokens use Go string
// syntax, so "a b" and `a\b` are single tokens. The options are
// not-before, not-after, skip-line, since, and example; example may repeat.
// Text from # to the end of the line is a comment, and a line ending
// in a backslash continues on the next line.
func ParseScript(file, text string) (*File, error) {
	f := new(File)
	var cur *SetDef
	lineno := 0
	for text != "" {
		var line string
		line, text, _ = strings.Cut(text, "\n")
		lineno++
		start := lineno
		line = trimComments(line)
		for strings.HasSuffix(line, `\`) && text != "" {
			var l string
			l, text, _ = strings.Cut(text, "\n")
			lineno++
			line = line[:len(line)-1] + " " + trimComments(l)
		}
		if line == "" {
			continue
		}
		errorf := func(format string, args ...any) error {
			return &SyntaxError{File: file, Line: start, Msg: fmt.Sprintf(format, args...)}
		}

		toks, err := tokenize(line)
		if err != nil {
			return nil, errorf("%v", err)
		}
		switch verb := toks[0]; {
		case verb.bare("version"):
			if len(toks) != 2 {
				return nil, errorf("usage: version <semver>")
			}
			if f.Version != "" {
				return nil, errorf("version already set")
			}
			f.Version = toks[1].text

		case verb.bare("set"):
			if len(toks) < 2 {
				return nil, errorf("usage: set <id> [suffix ...]")
			}
			cur = &SetDef{ID: toks[1].text}
			for _, t := range toks[2:] {
				cur.Suffixes = append(cur.Suffixes, t.text)
			}
			f.Sets = append(f.Sets, cur)

		case verb.kind == bareTok && strings.HasSuffix(verb.text, ":"):
			if cur == nil {
				return nil, errorf("rule before first set")
			}
			r, err := parseRule(toks)
			if err != nil {
				return nil, errorf("%v", err)
			}
			cur.Rules = append(cur.Rules, r)

		default:
			return nil, errorf("unknown command %s", verb.text)
		}
	}
	return f, nil
}

func parseRule(toks []token) (*RuleDef, error) {
	if len(toks) < 4 || !toks[2].bare("->") {
		return nil, fmt.Errorf("usage: name: pattern -> replacement [option value ...]")
	}
	r := &RuleDef{Name: strings.TrimSuffix(toks[0].text, ":")}
	if toks[1].kind == regexpTok {
		r.Pattern = toks[1].text
	} else {
		r.Literal = toks[1].text
	}
	r.Replace = toks[3].text

	opts := toks[4:]
	for len(opts) > 0 {
		key := opts[0].text
		if len(opts) < 2 {
			return nil, fmt.Errorf("missing value for %s", key)
		}
		val := opts[1].text
		opts = opts[2:]
		switch key {
		case "not-before":
			r.NotBefore = val
		case "not-after":
			r.NotAfter = val
		case "skip-line":
			r.SkipLine = val
		case "since":
			r.Since = val
		case "example":
			r.Examples = append(r.Examples, val)
		default:
			return nil, fmt.Errorf("unknown option %s", key)
		}
	}
	return r, nil
}

// trimComments cuts line at a # comment outside quoted text or a /regexp/.
func trimComments(line string) string {
	var q byte
	for i := 0; i < len(line); i++ {
		switch c := line[i]; {
		case q != 0:
			if c == q {
				q = 0
			} else if c == '\\' && q != '`' {
				i++
			}
		case c == '"' || c == '`':
			q = c
		case c == '/' && atTokenStart(line, i):
			q = c
		case c == '#':
			return strings.TrimSpace(line[:i])
		}
	}
	return strings.TrimSpace(line)
}

func atTokenStart(s string, i int) bool {
	return i == 0 || s[i-1] == ' ' || s[i-1] == '\t'
}

type tokenKind int

const (
	bareTok tokenKind = iota
	quotedTok
	regexpTok
)

type token struct {
	kind tokenKind
	text string
}

func (t token) bare(s string) bool {
	return t.kind == bareTok && t.text == s
}

func tokenize(line string) ([]token, error) {
	var toks []token
	for {
		line = strings.TrimLeft(line, " \t")
		if line == "" {
			return toks, nil
		}
		switch line[0] {
		case '"', '`':
			q, err := strconv.QuotedPrefix(line)
			if err != nil {
				return nil, fmt.Errorf("malformed quoted string: %.20s", line)
			}
			s, err := strconv.Unquote(q)
			if err != nil {
				return nil, fmt.Errorf("malformed quoted string %s", q)
			}
			toks = append(toks, token{quotedTok, s})
			line = line[len(q):]

		case '/':
			var b strings.Builder
			i := 1
			for ; i < len(line) && line[i] != '/'; i++ {
				if line[i] == '\\' && i+1 < len(line) {
					if line[i+1] != '/' {
						b.WriteByte('\\')
					}
					i++
				}
				b.WriteByte(line[i])
			}
			if i >= len(line) {
				return nil, fmt.Errorf("unterminated regexp: %.20s", line)
			}
			toks = append(toks, token{regexpTok, b.String()})
			line = line[i+1:]

		default:
			i := strings.IndexAny(line, " \t")
			if i < 0 {
				i = len(line)
			}
			toks = append(toks, token{bareTok, line[:i]})
			line = line[i:]
		}
	}
}
