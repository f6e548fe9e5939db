// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rules

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// WriteScript writes f to w in rule script syntax.
// Set descriptions are written as comments; ParseScript of the output
// yields f without them.
func WriteScript(w io.Writer, f *File) error {
	b := bufio.NewWriter(w)
	if f.Version != "" {
		b.WriteString("version " + f.Version + "\n")
	}
	for i, s := range f.Sets {
		if i > 0 || f.Version != "" {
			b.WriteString("\n")
		}
		if s.Description != "" {
			b.WriteString("# " + strings.ReplaceAll(s.Description, "\n", "\n# ") + "\n")
		}
		b.WriteString("set " + scriptToken(s.ID))
		for _, suf := range s.Suffixes {
			b.WriteString(" " + scriptToken(suf))
		}
		b.WriteString("\n")
		for _, r := range s.Rules {
			writeRule(b, r)
		}
	}
	return b.Flush()
}

func writeRule(b *bufio.Writer, r *RuleDef) {
	b.WriteString(r.Name + ": ")
	if r.Pattern != "" {
		b.WriteString(regexpToken(r.Pattern))
	} else {
		b.WriteString(scriptToken(r.Literal))
	}
	b.WriteString(" -> " + scriptToken(r.Replace))
	opt := func(key, val string) {
		if val != "" {
			b.WriteString(" \\\n\t" + key + " " + scriptToken(val))
		}
	}
	opt("not-before", r.NotBefore)
	opt("not-after", r.NotAfter)
	opt("skip-line", r.SkipLine)
	opt("since", r.Since)
	for _, ex := range r.Examples {
		opt("example", ex)
	}
	b.WriteString("\n")
}

// scriptToken returns s as a single script token: bare if possible,
// otherwise quoted. A leading slash is quoted so that it does not
// read back as a regexp.
func scriptToken(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t\n\"`#\\") && s[0] != '/' && s != "->" {
		return s
	}
	if strconv.CanBackquote(s) {
		return "`" + s + "`"
	}
	return strconv.Quote(s)
}

// regexpToken returns expr as a /regexp/ token, escaping bare slashes.
func regexpToken(expr string) string {
	var b strings.Builder
	b.WriteByte('/')
	for i := 0; i < len(expr); i++ {
		switch c := expr[i]; c {
		case '\\':
			b.WriteByte(c)
			if i+1 < len(expr) {
				i++
				b.WriteByte(expr[i])
			}
		case '/':
			b.WriteString(`\/`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('/')
	return b.String()
}
