// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"testing"

	"golang.org/x/tools/txtar"
)

// TestRun runs the test cases in testdata/*.txt.
// The archive comment, if any, is written to rules.rw.
// The files args, chmod, stdout, stderr, and exit give the command line,
// file modes to set ("0444 name" per line), the expected output, and the
// expected exit status (default 0). Each want/name file gives the
// expected content of name after the run. Every other file is written to
// the directory in which rw runs.
func TestRun(t *testing.T) {
	files, err := filepath.Glob("testdata/*.txt")
	if err != nil {
		t.Fatal(err)
	}
	if len(files) == 0 {
		t.Fatal("no test cases")
	}

	for _, file := range files {
		t.Run(filepath.Base(file), func(t *testing.T) {
			ar, err := txtar.ParseFile(file)
			if err != nil {
				t.Fatal(err)
			}
			dir := t.TempDir()
			if len(bytes.TrimSpace(ar.Comment)) > 0 {
				if err := os.WriteFile(filepath.Join(dir, "rules.rw"), ar.Comment, 0666); err != nil {
					t.Fatal(err)
				}
			}

			var args []string
			var chmod, wantStdout, wantStderr []byte
			wantExit := 0
			want := make(map[string][]byte)
			for _, f := range ar.Files {
				switch {
				case f.Name == "args":
					args = strings.Fields(string(f.Data))
				case f.Name == "chmod":
					chmod = f.Data
				case f.Name == "stdout":
					wantStdout = f.Data
				case f.Name == "stderr":
					wantStderr = f.Data
				case f.Name == "exit":
					wantExit, err = strconv.Atoi(strings.TrimSpace(string(f.Data)))
					if err != nil {
						t.Fatal(err)
					}
				case strings.HasPrefix(f.Name, "want/"):
					want[strings.TrimPrefix(f.Name, "want/")] = f.Data
				default:
					targ := filepath.Join(dir, f.Name)
					if err := os.MkdirAll(filepath.Dir(targ), 0777); err != nil {
						t.Fatal(err)
					}
					if err := os.WriteFile(targ, f.Data, 0666); err != nil {
						t.Fatal(err)
					}
				}
			}
			for _, line := range strings.Split(strings.TrimSpace(string(chmod)), "\n") {
				mode, name, ok := strings.Cut(line, " ")
				if !ok {
					continue
				}
				m, err := strconv.ParseUint(mode, 8, 32)
				if err != nil {
					t.Fatal(err)
				}
				if err := os.Chmod(filepath.Join(dir, name), os.FileMode(m)); err != nil {
					t.Fatal(err)
				}
			}
			if slices.Contains(args, "--diff") {
				if _, err := exec.LookPath("diff"); err != nil {
					t.Skip("diff not installed")
				}
			}

			t.Chdir(dir)
			var stdout, stderr bytes.Buffer
			code := run(context.Background(), args, &stdout, &stderr)

			cmp := func(name string, have, want []byte) {
				have = trimSpace(have)
				want = trimSpace(want)
				if !bytes.Equal(have, want) {
					t.Errorf("%s:\n%s", name, have)
					t.Errorf("want:\n%s", want)
				}
			}
			cmp("stderr", stderr.Bytes(), wantStderr)
			cmp("stdout", stdout.Bytes(), wantStdout)
			if code != wantExit {
				t.Errorf("exit status %d, want %d", code, wantExit)
			}
			for name, data := range want {
				have, err := os.ReadFile(name)
				if err != nil {
					t.Error(err)
					continue
				}
				cmp(name, have, data)
			}
		})
	}
}

func trimSpace(data []byte) []byte {
	lines := bytes.Split(data, []byte("\n"))
	for i, line := range lines {
		lines[i] = bytes.TrimRight(line, " ")
	}
	return bytes.TrimRight(bytes.Join(lines, []byte("\n")), "\n")
}

func TestMetricsFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.ts"), []byte("trpc.station.list()\n"), 0666); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)
	prom := filepath.Join(t.TempDir(), "rw.prom")
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"--rules", "trpc-paths", "--metrics-file", prom}, &stdout, &stderr)
	if code != exitChanged {
		t.Fatalf("exit status %d, stderr:\n%s", code, stderr.Bytes())
	}
	data, err := os.ReadFile(prom)
	if err != nil {
		t.Fatal(err)
	}
	for _, line := range []string{
		`rw_files_changed_total{rule_set="trpc-paths"} 1`,
		`rw_rule_occurrences_total{rule="stations-router",rule_set="trpc-paths"} 1`,
	} {
		if !bytes.Contains(data, []byte(line)) {
			t.Errorf("metrics file missing %s:\n%s", line, data)
		}
	}
}
