// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/spf13/cobra"
	"rsc.io/rw/rules"
)

func (c *command) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the rule sets as a rule script",
		Long: "List prints the rule sets in the rule file, or just the one selected\n" +
			"by --rules, in rule script syntax.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := c.load()
			if err != nil {
				return err
			}
			if c.ruleSet != "" {
				def, err := f.Set(c.ruleSet)
				if err != nil {
					return &errConfig{err}
				}
				f = &rules.File{Version: f.Version, Sets: []*rules.SetDef{def}}
			}
			return rules.WriteScript(c.stdout, f)
		},
	}
}
