// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package openvex

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"golang.org/x/exp/slices"
	"golang.org/x/lockaudit/advisory"
	"golang.org/x/lockaudit/report"
)

// Write writes the OpenVEX document for r, issued at now, to w.
func Write(w io.Writer, r *report.Report, now time.Time) error {
	out, err := json.MarshalIndent(FromReport(r, now), "", "  ")
	if err != nil {
		return err
	}
	out = append(out, '\n')
	_, err = w.Write(out)
	return err
}

// FromReport returns a document with one affected statement per
// advisory in the vulnerabilities of r, listing the affected crates as
// subcomponents. Statements are sorted by advisory ID. Warnings are not
// included.
func FromReport(r *report.Report, now time.Time) Document {
	doc := Document{
		Context:    ContextURI,
		Author:     DefaultAuthor,
		Timestamp:  now.UTC(),
		Version:    1,
		Tooling:    Tooling,
		Statements: statements(r),
	}
	doc.ID = "lockaudit/vex:" + hashVex(doc)
	return doc
}

func statements(r *report.Report) []Statement {
	byID := map[advisory.ID]*Statement{}
	var ids []advisory.ID
	for _, v := range r.Vulnerabilities.List {
		md := v.Advisory
		s, ok := byID[md.ID]
		if !ok {
			var aliases []string
			for _, a := range md.Aliases {
				aliases = append(aliases, string(a))
			}
			description := md.Title
			if description == "" {
				description = md.Description
			}
			s = &Statement{
				Vulnerability: Vulnerability{
					ID:          vulnIRI(md),
					Name:        string(md.ID),
					Description: description,
					Aliases:     aliases,
				},
				Products:        []Product{{Component: Component{ID: DefaultPID}}},
				Status:          StatusAffected,
				ActionStatement: ActionStatement,
			}
			byID[md.ID] = s
			ids = append(ids, md.ID)
		}
		sub := Subcomponent{Component{ID: purl(v.Package.Name, v.Package.Version)}}
		if !slices.Contains(s.Products[0].Subcomponents, sub) {
			s.Products[0].Subcomponents = append(s.Products[0].Subcomponents, sub)
		}
	}
	slices.Sort(ids)
	var ss []Statement
	for _, id := range ids {
		ss = append(ss, *byID[id])
	}
	return ss
}

func vulnIRI(md advisory.Metadata) string {
	if md.ID.Kind() == advisory.KindRustSec {
		return "https://rustsec.org/advisories/" + string(md.ID)
	}
	if md.URL != "" {
		return md.URL
	}
	return string(md.ID)
}

// hashVex returns a digest of doc that ignores its ID and timestamp.
func hashVex(doc Document) string {
	d := Document{
		Context:    doc.Context,
		Author:     doc.Author,
		Version:    doc.Version,
		Tooling:    doc.Tooling,
		Statements: doc.Statements,
	}
	// Document holds only strings, ints and slices of them, so
	// json.Marshal cannot fail.
	out, err := json.Marshal(d)
	if err != nil {
		panic(err)
	}
	return fmt.Sprintf("%x", sha256.Sum256(out))
}
