// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"golang.org/x/mod/semver"
	"rsc.io/rw/batch"
	"rsc.io/rw/diff"
	"rsc.io/rw/rewrite"
	"rsc.io/rw/rules"
)

// Exit codes.
const (
	exitClean   = 0 // nothing to change
	exitChanged = 1 // files changed, or would change in a dry run
	exitError   = 2 // usage, rule, or per-file errors
)

func main() {
	log.SetPrefix("rw: ")
	log.SetFlags(0)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run runs the rw command line args and returns the exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	rw := &command{
		stdout: stdout,
		stderr: stderr,
		log:    log.New(stderr, "rw: ", 0),
	}
	root := rw.rootCmd()
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		rw.logErr("", err)
		return exitError
	}
	return rw.code
}

// logErr logs err, one line per error if it is a list.
func (c *command) logErr(prefix string, err error) {
	var list *rewrite.ErrorList
	if errors.As(err, &list) {
		for _, e := range list.Errors() {
			c.log.Print(prefix, e)
		}
		return
	}
	c.log.Print(prefix, err)
}

// A command holds the flags and outputs of one rw invocation.
type command struct {
	stdout io.Writer
	stderr io.Writer
	log    *log.Logger
	code   int

	ruleSet     string
	rulesFile   string
	dryRun      bool
	suffixes    []string
	exclude     []string
	since       string
	jobs        int
	strict      bool
	showDiff    bool
	json        bool
	metricsFile string
	verbose     bool
}

func (c *command) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "rw [flags] [root ...]",
		Short: "Apply a rule set of textual rewrites to a source tree",
		Long: "Rw applies an ordered set of regular expression rewrite rules to every\n" +
			"matching file under the given roots (default \".\"), writing changed files\n" +
			"back atomically.",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          c.rewrite,
	}
	root.SetOut(c.stdout)
	root.SetErr(c.stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return newErrUsage("%v", err)
	})

	pf := root.PersistentFlags()
	pf.StringVar(&c.ruleSet, "rules", "", "rule set `id` (default: first set in the rule file)")
	pf.StringVar(&c.rulesFile, "rules-file", "", "rule `file`, YAML or rule script (default: built-in rule sets)")
	pf.StringVar(&c.since, "since", "", "apply only rules added after `revision`")

	f := root.Flags()
	f.BoolVar(&c.dryRun, "dry-run", false, "report changes without writing files")
	f.StringSliceVar(&c.suffixes, "suffix", nil, "rewrite only files ending in this `suffix`, such as .ts (default: the rule set's suffixes)")
	f.StringSliceVar(&c.exclude, "exclude", nil, "skip paths matching this glob `pattern` (** matches any directories)")
	f.IntVar(&c.jobs, "jobs", 0, "number of files to process concurrently (default: GOMAXPROCS)")
	f.BoolVar(&c.strict, "strict", false, "stop at the first per-file error")
	f.BoolVar(&c.showDiff, "diff", false, "print a unified diff of the changes")
	f.BoolVar(&c.json, "json", false, "print the run report as JSON")
	f.StringVar(&c.metricsFile, "metrics-file", "", "write Prometheus metrics to `file`")
	f.BoolVarP(&c.verbose, "verbose", "v", false, "log each changed file and a summary")

	root.AddCommand(c.listCmd(), c.checkCmd())
	return root
}

// load loads the rule file named by --rules-file, or the built-in rule sets.
func (c *command) load() (*rules.File, error) {
	if c.rulesFile == "" {
		return rules.Builtin(), nil
	}
	f, err := rules.Load(c.rulesFile)
	if err != nil {
		return nil, &errConfig{err}
	}
	return f, nil
}

// compile builds the rule set def, restricted by --since.
func (c *command) compile(def *rules.SetDef) (*rewrite.Set, error) {
	if c.since != "" && !semver.IsValid(c.since) {
		return nil, newErrUsage("--since %s: not a semantic version", c.since)
	}
	set, err := def.Compile()
	if err != nil {
		return nil, &errConfig{err}
	}
	if c.since != "" {
		if set, err = set.Since(c.since); err != nil {
			return nil, &errConfig{err}
		}
	}
	return set, nil
}

func (c *command) rewrite(cmd *cobra.Command, args []string) error {
	if c.jobs < 0 {
		return newErrUsage("--jobs %d: must not be negative", c.jobs)
	}
	if err := batch.ValidatePatterns(c.exclude); err != nil {
		return newErrUsage("--exclude: %v", err)
	}
	if err := batch.ValidateSuffixes(c.suffixes); err != nil {
		return newErrUsage("--suffix: %v", err)
	}
	f, err := c.load()
	if err != nil {
		return err
	}
	def, err := f.Set(c.ruleSet)
	if err != nil {
		return &errConfig{err}
	}
	set, err := c.compile(def)
	if err != nil {
		return err
	}

	roots := args
	if len(roots) == 0 {
		roots = []string{"."}
	}
	suffixes := c.suffixes
	if len(suffixes) == 0 {
		suffixes = def.Suffixes
	}
	r := &batch.Runner{
		Engine:     rewrite.NewEngine(set),
		Enumerator: &batch.Walker{Roots: roots, Exclude: c.exclude},
		Suffixes:   suffixes,
		DryRun:     c.dryRun,
		Strict:     c.strict,
		Jobs:       c.jobs,
	}
	if c.verbose {
		r.Log = c.log
	}
	if c.metricsFile != "" {
		r.Metrics = batch.NewMetrics(set.ID())
	}
	var changed []*rewrite.Result
	if c.showDiff {
		r.OnChange = func(res *rewrite.Result) {
			changed = append(changed, res)
		}
	}

	rep, runErr := r.Run(cmd.Context())

	if c.showDiff {
		sort.Slice(changed, func(i, j int) bool { return changed[i].Path < changed[j].Path })
		for _, res := range changed {
			d, err := diff.Diff(cmd.Context(), filepath.ToSlash(res.Path), res.Old, res.New)
			if err != nil {
				return err
			}
			c.stdout.Write(d)
		}
	}
	if r.Metrics != nil {
		if err := r.Metrics.WriteFile(c.metricsFile); err != nil {
			return err
		}
	}
	if !c.verbose {
		for _, e := range rep.Errors {
			c.log.Print(e)
		}
	}

	switch {
	case c.json:
		enc := json.NewEncoder(c.stdout)
		enc.SetIndent("", "\t")
		if err := enc.Encode(&rep); err != nil {
			return err
		}
	case !c.showDiff:
		for _, path := range rep.ChangedFiles {
			fmt.Fprintln(c.stdout, filepath.ToSlash(path))
		}
	}
	if c.verbose {
		c.log.Print(&rep)
	}

	if runErr != nil {
		var fe *batch.FileError
		if errors.As(runErr, &fe) {
			// Already reported.
			c.code = exitError
			return nil
		}
		return runErr
	}
	switch {
	case len(rep.Errors) > 0:
		c.code = exitError
	case rep.Changed > 0:
		c.code = exitChanged
	default:
		c.code = exitClean
	}
	return nil
}
