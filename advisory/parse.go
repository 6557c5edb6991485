// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package advisory

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"golang.org/x/lockaudit/internal/cvss"
	"golang.org/x/lockaudit/internal/derrors"
	"golang.org/x/lockaudit/internal/semver"
)

const (
	frontMatterStart = "```toml\n"
	frontMatterEnd   = "\n```"
)

// Parse parses the advisory file name with contents data.
//
// Files ending in ".md" hold a fenced ```toml front matter block
// followed by a Markdown body, whose first "# " heading is the title
// and whose remaining text is the description. Files ending in ".toml"
// hold the TOML document alone.
//
// The collection is taken from the first element of name ("crates" or
// "rust"), defaulting to Crates.
func Parse(name string, data []byte) (_ *Advisory, err error) {
	defer derrors.Wrap(&err, "advisory.Parse(%q)", name)

	src := strings.ReplaceAll(string(data), "\r\n", "\n")
	var doc, body string
	switch path.Ext(name) {
	case ".md":
		if !strings.HasPrefix(src, frontMatterStart) {
			return nil, fmt.Errorf("%w: missing toml front matter", ErrInvalid)
		}
		rest := src[len(frontMatterStart):]
		end := strings.Index(rest, frontMatterEnd)
		if end < 0 {
			return nil, fmt.Errorf("%w: unterminated toml front matter", ErrInvalid)
		}
		doc, body = rest[:end+1], rest[end+len(frontMatterEnd):]
	case ".toml":
		doc = src
	default:
		return nil, fmt.Errorf("%w: unsupported file extension", ErrInvalid)
	}

	var a Advisory
	md, err := toml.Decode(doc, &a)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if un := md.Undecoded(); len(un) > 0 {
		return nil, fmt.Errorf("%w: unknown field %q", ErrInvalid, un[0].String())
	}
	title, desc := splitBody(body)
	if a.Metadata.Title == "" {
		a.Metadata.Title = title
	}
	if a.Metadata.Description == "" {
		a.Metadata.Description = desc
	}
	a.Metadata.Collection = collectionOf(name)
	a.normalize()
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return &a, nil
}

// splitBody returns the first level-one heading of a Markdown body and
// the text that follows it.
func splitBody(body string) (title, description string) {
	body = strings.TrimSpace(body)
	if !strings.HasPrefix(body, "# ") {
		return "", body
	}
	line, rest, _ := strings.Cut(body, "\n")
	return strings.TrimSpace(strings.TrimPrefix(line, "# ")), strings.TrimSpace(rest)
}

func collectionOf(name string) Collection {
	first, _, _ := strings.Cut(path.Clean(strings.TrimPrefix(name, "/")), "/")
	if Collection(first) == Rust {
		return Rust
	}
	return Crates
}

// normalize replaces nil lists by empty ones so every advisory
// serializes the same way regardless of its source.
func (a *Advisory) normalize() {
	m := &a.Metadata
	for _, ids := range []*[]ID{&m.Aliases, &m.Related} {
		if *ids == nil {
			*ids = []ID{}
		}
	}
	for _, ss := range []*[]string{&m.Categories, &m.Keywords, &m.References, &a.Versions.Patched, &a.Versions.Unaffected} {
		if *ss == nil {
			*ss = []string{}
		}
	}
}

// Validate reports whether a is well formed: it has an id, a package,
// a valid date, a scorable CVSS vector if any, and parseable version
// requirements.
func (a *Advisory) Validate() error {
	m := &a.Metadata
	if m.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalid)
	}
	if m.Package == "" {
		return fmt.Errorf("%w: %s: missing package", ErrInvalid, m.ID)
	}
	if _, err := time.Parse(time.DateOnly, m.Date); err != nil {
		return fmt.Errorf("%w: %s: invalid date %q", ErrInvalid, m.ID, m.Date)
	}
	if m.Withdrawn != "" {
		if _, err := time.Parse(time.DateOnly, m.Withdrawn); err != nil {
			return fmt.Errorf("%w: %s: invalid withdrawn date %q", ErrInvalid, m.ID, m.Withdrawn)
		}
	}
	if m.CVSS != "" {
		if _, err := cvss.Parse(m.CVSS); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalid, m.ID, err)
		}
	}
	reqs := append(append([]string{}, a.Versions.Patched...), a.Versions.Unaffected...)
	if a.Affected != nil {
		for _, rs := range a.Affected.Functions {
			reqs = append(reqs, rs...)
		}
	}
	for _, r := range reqs {
		if _, err := semver.ParseRequirement(r); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalid, m.ID, err)
		}
	}
	return nil
}
