// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Rw applies rule-based textual rewrites to a source tree.
//
// Usage:
//
//	rw [flags] [root ...]
//	rw list [--rules id] [--rules-file file]
//	rw check [--rules id] [--rules-file file]
//
// Rw walks each root (default ".") and applies an ordered rule set to every
// file whose name ends in one of the set's suffixes. Changed files are
// written back atomically, and their names are printed. For example, to
// escape loosely typed property accesses in a TypeScript tree:
//
//	rw --rules ts-escape src
//
// The --dry-run flag reports what would change without writing anything.
// The --diff flag prints a unified diff of the changes instead of file names,
// and --json prints the run report.
//
// # Rules
//
// A rule is a regular expression (RE2 syntax) or literal string and a
// replacement. Replacements may refer to capture groups as $1, ${1}, $name,
// or ${name}; $$ is a literal dollar sign. Rules in a set apply in order,
// each to the output of the one before.
//
// Every rule must be idempotent: applied to its own output, it must find
// nothing more to do. Since RE2 has no lookaround, rules say what they must
// not match again with guards, regular expressions matched against the
// text before the match (not-before), after it (not-after), or anywhere on
// its line (skip-line). Rw checks each rule and each set when it is loaded
// and refuses to run an unstable set; it checks every rewritten file again
// before writing it.
//
// Rule sets come from a YAML file or a rule script named by --rules-file,
// or from the built-in sets. Rw list prints the sets in rule script syntax:
//
//	version v1.1.0
//
//	set ts-escape .ts .tsx
//	meter-ids: /\bmeter\.(stsMeterId|businessId)\b/ -> `(meter as any).$1` \
//		since v1.1.0
//
// Each rule may record the revision of the rule file that added it.
// The --since flag applies only rules added after a given revision,
// so a tree already rewritten by an older rule file needs only the new rules.
//
// # Exit status
//
// Rw exits 0 if nothing needed changing, 1 if files changed (or would
// change, with --dry-run), and 2 if the command line or rules were invalid
// or any file could not be read, rewritten, or written.
// A file that fails leaves the others unaffected unless --strict is given.
package main
