// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rules loads rule set definitions from files.
//
// Two formats are accepted. Files named *.yaml or *.yml hold a YAML document:
//
//	version: v1.1.0
//	sets:
//	  - id: ts-escape
//	    suffixes: [.ts, .tsx]
//	    rules:
//	      - name: meter-ids
//	        pattern: '\bmeter\.(stsMeterId|businessId)\b'
//	        replace: '(meter as any).$1'
//	        since: v1.1.0
//
// Any other file is a rule script, one command per line:
//
//	version v1.1.0
//	set ts-escape .ts .tsx
//	meter-ids: /\bmeter\.(stsMeterId|businessId)\b/ -> "(meter as any).$1" since v1.1.0
//
// See ParseScript for the script syntax.
package rules

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
	"rsc.io/rw/rewrite"
)

// A File is a collection of rule sets.
type File struct {
	// Version is the revision of the file, a semantic version.
	// Rules record in Since the revision that added them.
	Version string    `yaml:"version,omitempty"`
	Sets    []*SetDef `yaml:"sets"`
}

// A SetDef defines one rule set.
type SetDef struct {
	ID          string     `yaml:"id"`
	Description string     `yaml:"description,omitempty"`
	Suffixes    []string   `yaml:"suffixes,omitempty"`
	Rules       []*RuleDef `yaml:"rules"`
}

// A RuleDef defines one rule. See rewrite.Def for the meaning of the fields.
type RuleDef struct {
	Name      string   `yaml:"name"`
	Pattern   string   `yaml:"pattern,omitempty"`
	Literal   string   `yaml:"literal,omitempty"`
	Replace   string   `yaml:"replace"`
	NotBefore string   `yaml:"not_before,omitempty"`
	NotAfter  string   `yaml:"not_after,omitempty"`
	SkipLine  string   `yaml:"skip_line,omitempty"`
	Since     string   `yaml:"since,omitempty"`
	Examples  []string `yaml:"examples,omitempty"`
}

// Load reads and parses the rule file name.
func Load(name string) (*File, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	return Parse(name, data)
}

// Parse parses data, choosing the format from name's extension.
func Parse(name string, data []byte) (*File, error) {
	var f *File
	var err error
	switch filepath.Ext(name) {
	case ".yaml", ".yml":
		f, err = parseYAML(data)
	default:
		f, err = ParseScript(name, string(data))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if err := f.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return f, nil
}

func parseYAML(data []byte) (*File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	f := new(File)
	if err := dec.Decode(f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("no rule sets")
		}
		return nil, err
	}
	return f, nil
}

func (f *File) validate() error {
	if len(f.Sets) == 0 {
		return errors.New("no rule sets")
	}
	if f.Version != "" && !semver.IsValid(f.Version) {
		return fmt.Errorf("invalid version %q", f.Version)
	}
	seen := make(map[string]bool)
	for _, s := range f.Sets {
		if s.ID == "" {
			return errors.New("rule set without id")
		}
		if seen[s.ID] {
			return fmt.Errorf("duplicate rule set %s", s.ID)
		}
		seen[s.ID] = true
		for _, suf := range s.Suffixes {
			if suf == "" {
				return fmt.Errorf("rule set %s: empty suffix", s.ID)
			}
			if len(suf) < 2 || suf[0] != '.' {
				return fmt.Errorf("rule set %s: suffix %q is not of the form .ext", s.ID, suf)
			}
		}
		if f.Version == "" {
			continue
		}
		for _, r := range s.Rules {
			if semver.IsValid(r.Since) && semver.Compare(r.Since, f.Version) > 0 {
				return fmt.Errorf("rule set %s: rule %s added in %s, after file version %s", s.ID, r.Name, r.Since, f.Version)
			}
		}
	}
	return nil
}

// IDs returns the ids of the rule sets in f, in file order.
func (f *File) IDs() []string {
	var ids []string
	for _, s := range f.Sets {
		ids = append(ids, s.ID)
	}
	return ids
}

// Set returns the rule set with the given id.
// An empty id selects the first set in the file.
func (f *File) Set(id string) (*SetDef, error) {
	if id == "" {
		return f.Sets[0], nil
	}
	for _, s := range f.Sets {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, fmt.Errorf("unknown rule set %s (have %s)", id, strings.Join(f.IDs(), ", "))
}

// Compile compiles every rule in s and builds the rule set.
// Every invalid rule is reported, as a *rewrite.ErrorList of
// *rewrite.RuleDefinitionError; an unstable combination of valid rules
// is reported as *rewrite.UnstableRuleSetError.
func (s *SetDef) Compile() (*rewrite.Set, error) {
	var errs rewrite.ErrorList
	var rs []*rewrite.Rule
	for _, d := range s.Rules {
		r, err := rewrite.NewRule(d.def())
		if err != nil {
			errs.Add(err)
			continue
		}
		rs = append(rs, r)
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	return rewrite.NewSet(s.ID, rs...)
}

func (d *RuleDef) def() rewrite.Def {
	return rewrite.Def{
		Name:    d.Name,
		Pattern: d.Pattern,
		Literal: d.Literal,
		Replace: d.Replace,
		Guards: rewrite.Guards{
			NotBefore: d.NotBefore,
			NotAfter:  d.NotAfter,
			SkipLine:  d.SkipLine,
		},
		Since:    d.Since,
		Examples: d.Examples,
	}
}
