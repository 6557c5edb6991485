// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sarif

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"golang.org/x/lockaudit/advisory"
	"golang.org/x/lockaudit/lockfile"
	"golang.org/x/lockaudit/report"
)

const (
	errorLevel         = "error"
	warningLevel       = "warning"
	informationalLevel = "note"

	srcRoot = "%SRCROOT%"
)

// Write writes r, computed for the lockfile at lockPath, to w as
// indented SARIF.
func Write(w io.Writer, r *report.Report, lockPath string) error {
	b, err := json.MarshalIndent(FromReport(r, lockPath), "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}

// FromReport converts r to a SARIF log. Each vulnerability is an error
// result and each warning a warning result, or a note for notices.
// Rules are sorted by advisory ID. Results keep the report order:
// vulnerabilities first, then warnings by kind.
func FromReport(r *report.Report, lockPath string) Log {
	loc := Location{
		PhysicalLocation: PhysicalLocation{
			ArtifactLocation: ArtifactLocation{
				URI:       filepath.ToSlash(lockPath),
				URIBaseID: srcRoot,
			},
		},
	}
	rules := map[advisory.ID]Rule{}
	var results []Result
	add := func(md *advisory.Metadata, pkg lockfile.Package, level, msg string) {
		if _, ok := rules[md.ID]; !ok {
			rules[md.ID] = rule(md)
		}
		results = append(results, Result{
			RuleID:    string(md.ID),
			Level:     level,
			Message:   Description{Text: fmt.Sprintf("%s %s: %s", pkg.Name, pkg.Version, msg)},
			Locations: []Location{loc},
		})
	}
	for _, v := range r.Vulnerabilities.List {
		add(&v.Advisory, v.Package, errorLevel, "vulnerable to "+string(v.Advisory.ID))
	}
	for _, kind := range r.Warnings.Kinds() {
		level := warningLevel
		if kind == report.KindNotice {
			level = informationalLevel
		}
		for _, w := range r.Warnings[kind] {
			add(w.Advisory, w.Package, level, fmt.Sprintf("%s (%s)", w.Advisory.ID, kind))
		}
	}

	ids := maps.Keys(rules)
	slices.Sort(ids)
	var rs []Rule
	for _, id := range ids {
		rs = append(rs, rules[id])
	}
	run := Run{
		Tool: Tool{
			Driver: Driver{
				Name:           "lockaudit",
				InformationURI: "https://pkg.go.dev/golang.org/x/lockaudit/cmd/lockaudit",
				Properties:     r.Settings,
				Rules:          rs,
			},
		},
		Results:    results,
		URIBaseIDs: map[string]ArtifactLocation{srcRoot: {URI: "file:///"}},
	}
	return Log{
		Version: "2.1.0",
		Schema:  "https://json.schemastore.org/sarif-2.1.0.json",
		Runs:    []Run{run},
	}
}

func rule(md *advisory.Metadata) Rule {
	// Short description is the title if it exists, or the
	// description otherwise.
	s := md.Title
	if s == "" {
		s = md.Description
	}
	var aliases []string
	for _, a := range md.Aliases {
		aliases = append(aliases, string(a))
	}
	help := md.Description
	if len(aliases) > 0 {
		help += fmt.Sprintf("\n\nAlso known as %s.", list(aliases))
	}
	uri := md.URL
	if uri == "" && md.ID.Kind() == advisory.KindRustSec {
		uri = "https://rustsec.org/advisories/" + string(md.ID)
	}
	return Rule{
		ID:               string(md.ID),
		ShortDescription: Description{Text: fmt.Sprintf("[%s] %s", md.ID, s)},
		FullDescription:  Description{Text: s},
		Help:             Description{Text: help},
		HelpURI:          uri,
		Properties:       RuleTags{Tags: aliases},
	}
}
