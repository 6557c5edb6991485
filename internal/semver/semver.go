// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package semver provides shared utilities for manipulating
// Cargo-style semantic versions and version requirements.
package semver

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

// addSemverPrefix adds a 'v' prefix to s if it isn't already prefixed
// with 'v'. This allows us to test bare Cargo versions with
// golang.org/x/mod/semver.
func addSemverPrefix(s string) string {
	if !strings.HasPrefix(s, "v") {
		return "v" + s
	}
	return s
}

// removeSemverPrefix removes the 'v' prefix from s.
func removeSemverPrefix(s string) string {
	return strings.TrimPrefix(s, "v")
}

// canonicalizeSemverPrefix turns a SEMVER string into the canonical
// representation using the 'v' prefix and no surrounding space.
// Input may be a bare SEMVER ("1.2.3") or already canonical ("v1.2.3").
func canonicalizeSemverPrefix(s string) string {
	return addSemverPrefix(removeSemverPrefix(strings.TrimSpace(s)))
}

// Valid reports whether v is a complete semantic version,
// with or without a 'v' prefix.
func Valid(v string) bool {
	c := canonicalizeSemverPrefix(v)
	core := c
	if i := strings.IndexAny(core, "-+"); i >= 0 {
		core = core[:i]
	}
	return semver.IsValid(c) && strings.Count(core, ".") == 2
}

// Compare returns an integer comparing two versions according to
// semantic version precedence. Build metadata is ignored.
// An invalid version is considered less than all valid versions.
func Compare(v1, v2 string) int {
	return semver.Compare(canonicalizeSemverPrefix(v1), canonicalizeSemverPrefix(v2))
}

// Less returns whether v1 < v2, where v1 and v2 are
// semver versions with either a "v" or no prefix.
func Less(v1, v2 string) bool {
	return Compare(v1, v2) < 0
}

// A Requirement is a Cargo version requirement such as ">= 1.2.3, < 2"
// or "^0.4". A version satisfies a Requirement when it satisfies every
// comma-separated comparator.
type Requirement struct {
	raw   string
	comps []comparator
}

// comparator is the half-open or closed interval a single comparator
// admits. Empty bounds are unbounded.
type comparator struct {
	lo, hi         string
	loIncl, hiIncl bool
}

// ParseRequirement parses a Cargo version requirement.
func ParseRequirement(s string) (Requirement, error) {
	r := Requirement{raw: strings.TrimSpace(s)}
	if r.raw == "" {
		return Requirement{}, fmt.Errorf("empty version requirement")
	}
	for _, part := range strings.Split(r.raw, ",") {
		c, err := parseComparator(strings.TrimSpace(part))
		if err != nil {
			return Requirement{}, fmt.Errorf("version requirement %q: %v", s, err)
		}
		r.comps = append(r.comps, c)
	}
	return r, nil
}

// MustParseRequirement is like ParseRequirement but panics on error.
func MustParseRequirement(s string) Requirement {
	r, err := ParseRequirement(s)
	if err != nil {
		panic(err)
	}
	return r
}

// String returns the requirement as it was written.
func (r Requirement) String() string { return r.raw }

// Matches reports whether the version v satisfies r.
// Invalid versions satisfy no requirement.
func (r Requirement) Matches(v string) bool {
	if !Valid(v) || len(r.comps) == 0 {
		return false
	}
	v = canonicalizeSemverPrefix(v)
	for _, c := range r.comps {
		if !c.matches(v) {
			return false
		}
	}
	return true
}

func (c comparator) matches(v string) bool {
	if c.lo != "" {
		n := semver.Compare(v, c.lo)
		if n < 0 || (n == 0 && !c.loIncl) {
			return false
		}
	}
	if c.hi != "" {
		n := semver.Compare(v, c.hi)
		if n > 0 || (n == 0 && !c.hiIncl) {
			return false
		}
	}
	return true
}

// partial is a possibly incomplete version such as "1", "1.2" or
// "1.2.3-rc.1". Missing components are -1. wildcard is set when the
// last present component is followed by "*", "x" or "X".
type partial struct {
	major, minor, patch int
	pre                 string
	wildcard            bool
}

func (p partial) version() string {
	minor, patch := p.minor, p.patch
	if minor < 0 {
		minor = 0
	}
	if patch < 0 {
		patch = 0
	}
	v := fmt.Sprintf("v%d.%d.%d", p.major, minor, patch)
	if p.pre != "" {
		v += "-" + p.pre
	}
	return v
}

// next returns the smallest version above every version p describes,
// bumping the last component that is present.
func (p partial) next() string {
	switch {
	case p.minor < 0:
		return fmt.Sprintf("v%d.0.0", p.major+1)
	case p.patch < 0:
		return fmt.Sprintf("v%d.%d.0", p.major, p.minor+1)
	default:
		return fmt.Sprintf("v%d.%d.%d", p.major, p.minor, p.patch+1)
	}
}

func (p partial) complete() bool { return p.patch >= 0 }

func parseComparator(s string) (comparator, error) {
	if s == "*" || s == "x" || s == "X" {
		return comparator{}, nil
	}
	op := ""
	for _, o := range []string{">=", "<=", "=", ">", "<", "^", "~"} {
		if strings.HasPrefix(s, o) {
			op = o
			s = strings.TrimSpace(s[len(o):])
			break
		}
	}
	p, err := parsePartial(s)
	if err != nil {
		return comparator{}, err
	}
	lo := p.version()
	switch op {
	case "=":
		if p.complete() {
			return comparator{lo: lo, hi: lo, loIncl: true, hiIncl: true}, nil
		}
		return comparator{lo: lo, hi: p.next(), loIncl: true}, nil
	case ">":
		if p.complete() {
			return comparator{lo: lo}, nil
		}
		return comparator{lo: p.next(), loIncl: true}, nil
	case ">=":
		return comparator{lo: lo, loIncl: true}, nil
	case "<":
		return comparator{hi: lo}, nil
	case "<=":
		if p.complete() {
			return comparator{hi: lo, hiIncl: true}, nil
		}
		return comparator{hi: p.next()}, nil
	case "~":
		if p.minor < 0 {
			return comparator{lo: lo, hi: p.next(), loIncl: true}, nil
		}
		return comparator{lo: lo, hi: fmt.Sprintf("v%d.%d.0", p.major, p.minor+1), loIncl: true}, nil
	default:
		// "1.2.*" matches exactly the 1.2 series.
		if p.wildcard {
			return comparator{lo: lo, hi: p.next(), loIncl: true}, nil
		}
		// A bare version is a caret requirement.
		return comparator{lo: lo, hi: caretUpper(p), loIncl: true}, nil
	}
}

func caretUpper(p partial) string {
	switch {
	case p.major > 0 || p.minor < 0:
		return fmt.Sprintf("v%d.0.0", p.major+1)
	case p.minor > 0 || p.patch < 0:
		return fmt.Sprintf("v0.%d.0", p.minor+1)
	default:
		return fmt.Sprintf("v0.0.%d", p.patch+1)
	}
}

func parsePartial(s string) (partial, error) {
	p := partial{major: -1, minor: -1, patch: -1}
	if s == "" {
		return p, fmt.Errorf("missing version")
	}
	s = removeSemverPrefix(s)
	if i := strings.IndexByte(s, '+'); i >= 0 {
		s = s[:i]
	}
	if i := strings.IndexByte(s, '-'); i >= 0 {
		p.pre = s[i+1:]
		s = s[:i]
		if p.pre == "" {
			return p, fmt.Errorf("empty pre-release in %q", s)
		}
	}
	fields := strings.Split(s, ".")
	if len(fields) > 3 {
		return p, fmt.Errorf("too many components in %q", s)
	}
	nums := []*int{&p.major, &p.minor, &p.patch}
	for i, f := range fields {
		if f == "*" || f == "x" || f == "X" {
			if i == 0 {
				return p, fmt.Errorf("wildcard major version in %q", s)
			}
			p.wildcard = true
			break
		}
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 {
			return p, fmt.Errorf("invalid version component %q", f)
		}
		*nums[i] = n
	}
	if p.pre != "" && !p.complete() {
		return p, fmt.Errorf("pre-release on partial version %q", s)
	}
	return p, nil
}
