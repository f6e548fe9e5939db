// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"rsc.io/rw/rules"
)

func (c *command) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate rule sets without touching any file",
		Long: "Check compiles the rule sets in the rule file, or just the one selected\n" +
			"by --rules, reporting invalid rules and unstable rule combinations.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := c.load()
			if err != nil {
				return err
			}
			defs := f.Sets
			if c.ruleSet != "" {
				def, err := f.Set(c.ruleSet)
				if err != nil {
					return &errConfig{err}
				}
				defs = []*rules.SetDef{def}
			}
			for _, def := range defs {
				set, err := c.compile(def)
				if err != nil {
					c.logErr(def.ID+": ", err)
					c.code = exitError
					continue
				}
				fmt.Fprintf(c.stdout, "%s: %d rules ok\n", set.ID(), len(set.Rules()))
			}
			return nil
		},
	}
}
