// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rules

import (
	_ "embed"
	"sync"
)

//go:embed builtin.yaml
var builtinYAML []byte

var builtin = sync.OnceValue(func() *File {
	f, err := Parse("builtin.yaml", builtinYAML)
	if err != nil {
		panic(err)
	}
	return f
})

// Builtin returns the rule sets compiled into rw.
// Callers must not modify the result.
func Builtin() *File {
	return builtin()
}
