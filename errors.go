// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import "fmt"

// errUsage indicates a malformed command line. Usage errors are
// independent of the rules and of the files being rewritten.
type errUsage struct {
	err string
}

func newErrUsage(f string, args ...any) *errUsage {
	return &errUsage{fmt.Sprintf(f, args...)}
}

func (e *errUsage) Error() string {
	return "usage: " + e.err
}

// errConfig indicates that the rule file or the selected rule set cannot
// be used. It is reported before any file is read.
type errConfig struct {
	err error
}

func (e *errConfig) Error() string {
	return e.err.Error()
}

func (e *errConfig) Unwrap() error {
	return e.err
}
