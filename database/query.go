// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package database

import (
	"strconv"
	"strings"

	"golang.org/x/lockaudit/advisory"
	"golang.org/x/lockaudit/platform"
)

// A Query selects advisories from a database.
//
// Queries are immutable: every method returns a modified copy and
// leaves the receiver unchanged. The zero Query matches every
// advisory.
type Query struct {
	collection     advisory.Collection
	packageName    string
	packageVersion string
	severity       *advisory.Severity
	targetArch     *platform.Arch
	targetOS       *platform.OS
	year           int
	withdrawn      *bool
	informational  *bool
}

// NewQuery returns a query that matches every advisory.
func NewQuery() Query {
	return Query{}
}

// CrateScope returns a query over the crates collection that excludes
// withdrawn and informational advisories.
func CrateScope() Query {
	return NewQuery().Collection(advisory.Crates).Withdrawn(false).Informational(false)
}

// Collection restricts q to advisories in collection c.
func (q Query) Collection(c advisory.Collection) Query {
	q.collection = c
	return q
}

// PackageName restricts q to advisories for the named package.
func (q Query) PackageName(name string) Query {
	q.packageName = name
	return q
}

// PackageVersion restricts q to advisories that affect version.
func (q Query) PackageVersion(version string) Query {
	q.packageVersion = version
	return q
}

// Severity restricts q to advisories of at least severity s.
// Advisories without a severity still match.
func (q Query) Severity(s advisory.Severity) Query {
	q.severity = &s
	return q
}

// TargetArch restricts q to advisories that affect arch.
func (q Query) TargetArch(arch platform.Arch) Query {
	q.targetArch = &arch
	return q
}

// TargetOS restricts q to advisories that affect os.
func (q Query) TargetOS(os platform.OS) Query {
	q.targetOS = &os
	return q
}

// Year restricts q to advisories published in year.
func (q Query) Year(year int) Query {
	q.year = year
	return q
}

// Withdrawn selects withdrawn advisories if w is true, and excludes them
// if w is false.
func (q Query) Withdrawn(w bool) Query {
	q.withdrawn = &w
	return q
}

// Informational selects only informational advisories if i is true,
// and only non-informational ones if i is false.
func (q Query) Informational(i bool) Query {
	q.informational = &i
	return q
}

// IsInformational reports whether q selects informational advisories.
func (q Query) IsInformational() bool {
	return q.informational != nil && *q.informational
}

// Matches reports whether a satisfies every restriction of q.
func (q Query) Matches(a *advisory.Advisory) bool {
	m := &a.Metadata
	if q.collection != "" && m.Collection != q.collection {
		return false
	}
	if q.packageName != "" && m.Package != q.packageName {
		return false
	}
	if q.packageVersion != "" && !a.Versions.IsVulnerable(q.packageVersion) {
		return false
	}
	if q.severity != nil {
		if s, ok := m.Severity(); ok && s < *q.severity {
			return false
		}
	}
	if q.targetArch != nil && !a.Affected.AffectsArch(*q.targetArch) {
		return false
	}
	if q.targetOS != nil && !a.Affected.AffectsOS(*q.targetOS) {
		return false
	}
	if q.year != 0 && dateYear(m.Date) != q.year {
		return false
	}
	if q.withdrawn != nil && m.IsWithdrawn() != *q.withdrawn {
		return false
	}
	if q.informational != nil && (m.Informational != "") != *q.informational {
		return false
	}
	return true
}

func dateYear(date string) int {
	y, _, _ := strings.Cut(date, "-")
	n, err := strconv.Atoi(y)
	if err != nil {
		return 0
	}
	return n
}
