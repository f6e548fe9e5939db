// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rewrite applies ordered sets of textual rewrite rules to buffers.
//
// A Rule pairs a regular expression (or literal) with a replacement template
// and optional Guards. A Set composes rules sequentially and, when built,
// checks that the composition is idempotent: a second application to its own
// output must rewrite nothing. An Engine applies a Set to one buffer at a
// time and verifies that property again on the actual output.
//
// Nothing in this package reads or writes files.
package rewrite
