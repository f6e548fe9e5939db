// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rewrite

import (
	"fmt"
	"regexp"
	"strconv"
)

// A template is a parsed replacement string.
// Each part is either literal text (group < 0) or a capture group reference.
type template struct {
	parts []part
}

type part struct {
	text  string
	group int
}

// literalTemplate returns a template that always expands to s.
func literalTemplate(s string) template {
	return template{parts: []part{{text: s, group: -1}}}
}

// parseTemplate parses a replacement in the syntax of regexp.Expand:
// $1, ${1}, $name, ${name}, and $$ for a literal dollar sign.
// Unlike Expand, a reference to a group the pattern does not define is an error.
func parseTemplate(s string, re *regexp.Regexp) (template, error) {
	var t template
	lit := make([]byte, 0, len(s))
	flush := func() {
		if len(lit) > 0 {
			t.parts = append(t.parts, part{text: string(lit), group: -1})
			lit = lit[:0]
		}
	}
	for i := 0; i < len(s); {
		c := s[i]
		if c != '$' || i+1 == len(s) {
			lit = append(lit, c)
			i++
			continue
		}
		if s[i+1] == '$' {
			lit = append(lit, '$')
			i += 2
			continue
		}
		name, n, ok := refName(s[i+1:])
		if !ok {
			// Malformed reference: copy the dollar sign, as Expand does.
			lit = append(lit, c)
			i++
			continue
		}
		g, err := resolveGroup(name, re)
		if err != nil {
			return template{}, err
		}
		flush()
		t.parts = append(t.parts, part{group: g})
		i += 1 + n
	}
	flush()
	return t, nil
}

// refName extracts the group name following a '$'.
// It returns the name and the number of bytes consumed.
func refName(s string) (name string, n int, ok bool) {
	if s[0] == '{' {
		for i := 1; i < len(s); i++ {
			if s[i] == '}' {
				if i == 1 {
					return "", 0, false
				}
				return s[1:i], i + 1, true
			}
			if !isNameByte(s[i]) {
				return "", 0, false
			}
		}
		return "", 0, false
	}
	i := 0
	for i < len(s) && isNameByte(s[i]) {
		i++
	}
	if i == 0 {
		return "", 0, false
	}
	return s[:i], i, true
}

func isNameByte(c byte) bool {
	return c == '_' || '0' <= c && c <= '9' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

func resolveGroup(name string, re *regexp.Regexp) (int, error) {
	if n, err := strconv.Atoi(name); err == nil {
		if n < 0 || n > re.NumSubexp() {
			return 0, fmt.Errorf("replacement references group $%s but pattern has %d", name, re.NumSubexp())
		}
		return n, nil
	}
	if i := re.SubexpIndex(name); i >= 0 {
		return i, nil
	}
	return 0, fmt.Errorf("replacement references undefined group ${%s}", name)
}

// expand appends the template, instantiated with the submatch indices loc
// into src, to dst.
func (t template) expand(dst, src []byte, loc []int) []byte {
	for _, p := range t.parts {
		if p.group < 0 {
			dst = append(dst, p.text...)
			continue
		}
		if 2*p.group+1 < len(loc) && loc[2*p.group] >= 0 {
			dst = append(dst, src[loc[2*p.group]:loc[2*p.group+1]]...)
		}
	}
	return dst
}
