// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package advisory implements the security advisory format used by
// RustSec-style advisory databases.
//
// An advisory describes a known issue in one crate: its identity and
// descriptive metadata, the version requirements that are not affected,
// and optionally the platforms and functions it is restricted to.
// Informational advisories describe a non-exploit status such as an
// unmaintained crate instead of a vulnerability.
package advisory

import (
	"errors"
	"strconv"
	"strings"

	"golang.org/x/lockaudit/internal/cvss"
	"golang.org/x/lockaudit/internal/semver"
	"golang.org/x/lockaudit/platform"
)

// ErrInvalid is returned, wrapped, for advisories that cannot be
// parsed or fail validation.
var ErrInvalid = errors.New("invalid advisory")

// ID is an advisory identifier, such as "RUSTSEC-2021-0001" or an
// alias like "CVE-2021-1234" or "GHSA-xxxx-xxxx-xxxx".
type ID string

// IDKind is the issuing namespace of an ID.
type IDKind string

const (
	KindRustSec IDKind = "rustsec"
	KindCVE     IDKind = "cve"
	KindGHSA    IDKind = "ghsa"
	KindOther   IDKind = "other"
)

// Kind reports the namespace of id.
func (id ID) Kind() IDKind {
	switch {
	case strings.HasPrefix(string(id), "RUSTSEC-"):
		return KindRustSec
	case strings.HasPrefix(string(id), "CVE-"):
		return KindCVE
	case strings.HasPrefix(string(id), "GHSA-"):
		return KindGHSA
	default:
		return KindOther
	}
}

// Year returns the year component of RUSTSEC and CVE identifiers.
func (id ID) Year() (int, bool) {
	switch id.Kind() {
	case KindRustSec, KindCVE:
	default:
		return 0, false
	}
	parts := strings.Split(string(id), "-")
	if len(parts) != 3 {
		return 0, false
	}
	y, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}
	return y, true
}

// Collection is the part of the database an advisory belongs to.
type Collection string

const (
	// Crates holds advisories for third-party crates.
	Crates Collection = "crates"
	// Rust holds advisories for the Rust toolchain and standard library.
	Rust Collection = "rust"
)

// Informational is the category of an informational advisory.
// Values other than the constants below are allowed and kept verbatim.
type Informational string

const (
	// Notice is a security notice about a crate that is not a
	// vulnerability in itself.
	Notice Informational = "notice"
	// Unmaintained marks a crate that is no longer maintained.
	Unmaintained Informational = "unmaintained"
	// Unsound marks a crate with soundness bugs.
	Unsound Informational = "unsound"
)

// IsOther reports whether i is not one of the known categories.
func (i Informational) IsOther() bool {
	switch i {
	case Notice, Unmaintained, Unsound:
		return false
	}
	return true
}

// Metadata is the descriptive part of an advisory.
type Metadata struct {
	ID            ID            `json:"id" toml:"id"`
	Package       string        `json:"package" toml:"package"`
	Title         string        `json:"title" toml:"title"`
	Description   string        `json:"description" toml:"description"`
	Date          string        `json:"date" toml:"date"`
	Aliases       []ID          `json:"aliases" toml:"aliases"`
	Related       []ID          `json:"related" toml:"related"`
	Collection    Collection    `json:"collection,omitempty" toml:"-"`
	Categories    []string      `json:"categories" toml:"categories"`
	Keywords      []string      `json:"keywords" toml:"keywords"`
	CVSS          string        `json:"cvss,omitempty" toml:"cvss"`
	Informational Informational `json:"informational,omitempty" toml:"informational"`
	References    []string      `json:"references" toml:"references"`
	URL           string        `json:"url,omitempty" toml:"url"`
	Withdrawn     string        `json:"withdrawn,omitempty" toml:"withdrawn"`
	License       string        `json:"license,omitempty" toml:"license"`
}

// Severity returns the qualitative severity derived from the
// advisory's CVSS vector. It reports false if the advisory has no
// vector or the vector cannot be scored.
func (m *Metadata) Severity() (Severity, bool) {
	if m.CVSS == "" {
		return 0, false
	}
	v, err := cvss.Parse(m.CVSS)
	if err != nil {
		return 0, false
	}
	return FromScore(v.BaseScore()), true
}

// IsWithdrawn reports whether the advisory has been withdrawn.
func (m *Metadata) IsWithdrawn() bool { return m.Withdrawn != "" }

// Versions describes which versions of the package are not affected.
// Each entry is a Cargo version requirement such as ">= 1.2.3" or
// "^0.4.2".
type Versions struct {
	Patched    []string `json:"patched" toml:"patched"`
	Unaffected []string `json:"unaffected" toml:"unaffected"`
}

// IsVulnerable reports whether version satisfies none of the patched
// and unaffected requirements.
func (v *Versions) IsVulnerable(version string) bool {
	for _, reqs := range [][]string{v.Patched, v.Unaffected} {
		for _, r := range reqs {
			req, err := semver.ParseRequirement(r)
			if err != nil {
				continue
			}
			if req.Matches(version) {
				return false
			}
		}
	}
	return true
}

// Affected narrows an advisory to specific platforms and functions.
type Affected struct {
	Arch      []platform.Arch     `json:"arch" toml:"arch"`
	OS        []platform.OS       `json:"os" toml:"os"`
	Functions map[string][]string `json:"functions" toml:"functions"`
}

// AffectsArch reports whether a is affected. An empty list affects
// every architecture.
func (a *Affected) AffectsArch(arch platform.Arch) bool {
	if a == nil || len(a.Arch) == 0 {
		return true
	}
	for _, x := range a.Arch {
		if x == arch {
			return true
		}
	}
	return false
}

// AffectsOS reports whether os is affected. An empty list affects
// every operating system.
func (a *Affected) AffectsOS(os platform.OS) bool {
	if a == nil || len(a.OS) == 0 {
		return true
	}
	for _, x := range a.OS {
		if x == os {
			return true
		}
	}
	return false
}

// Advisory is a complete advisory record.
type Advisory struct {
	Metadata Metadata  `json:"advisory" toml:"advisory"`
	Affected *Affected `json:"affected" toml:"affected"`
	Versions Versions  `json:"versions" toml:"versions"`
}

// Clone returns a deep copy of a.
func (a *Advisory) Clone() *Advisory {
	c := *a
	c.Metadata = a.Metadata.Clone()
	c.Versions = a.Versions.Clone()
	if a.Affected != nil {
		af := *a.Affected
		af.Arch = append([]platform.Arch(nil), a.Affected.Arch...)
		af.OS = append([]platform.OS(nil), a.Affected.OS...)
		if a.Affected.Functions != nil {
			af.Functions = make(map[string][]string, len(a.Affected.Functions))
			for k, v := range a.Affected.Functions {
				af.Functions[k] = append([]string(nil), v...)
			}
		}
		c.Affected = &af
	}
	return &c
}

// Clone returns a deep copy of m.
func (m Metadata) Clone() Metadata {
	m.Aliases = cloneSlice(m.Aliases)
	m.Related = cloneSlice(m.Related)
	m.Categories = cloneSlice(m.Categories)
	m.Keywords = cloneSlice(m.Keywords)
	m.References = cloneSlice(m.References)
	return m
}

// Clone returns a deep copy of v.
func (v Versions) Clone() Versions {
	v.Patched = cloneSlice(v.Patched)
	v.Unaffected = cloneSlice(v.Unaffected)
	return v
}

// cloneSlice copies s, preserving an empty non-nil slice so the JSON
// form stays a list.
func cloneSlice[S ~[]E, E any](s S) S {
	if s == nil {
		return nil
	}
	return append(make(S, 0, len(s)), s...)
}
