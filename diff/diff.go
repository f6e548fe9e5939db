// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package diff produces unified diffs of rewritten files
// using the system diff tool.
package diff

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
)

// Diff returns a unified diff from old to new, with the file headers
// labeled a/name and b/name. It returns nil if old and new are equal.
func Diff(ctx context.Context, name string, old, new []byte) ([]byte, error) {
	if bytes.Equal(old, new) {
		return nil, nil
	}
	f1, err := writeTemp(old)
	if err != nil {
		return nil, err
	}
	defer os.Remove(f1)

	f2, err := writeTemp(new)
	if err != nil {
		return nil, err
	}
	defer os.Remove(f2)

	// diff exits 1 when the inputs differ.
	data, err := exec.CommandContext(ctx, "diff", "-u", f1, f2).CombinedOutput()
	if err != nil && len(data) == 0 {
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	// Replace the temporary file names in the --- and +++ lines.
	hunks := bytes.Index(data, []byte("\n@@"))
	if hunks < 0 {
		return data, nil
	}
	hdr := fmt.Sprintf("diff a/%s b/%s\n--- a/%s\n+++ b/%s\n", name, name, name, name)
	return append([]byte(hdr), data[hunks+1:]...), nil
}

func writeTemp(data []byte) (string, error) {
	f, err := os.CreateTemp("", "rw-diff")
	if err != nil {
		return "", err
	}
	_, err = f.Write(data)
	if err1 := f.Close(); err == nil {
		err = err1
	}
	if err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}
