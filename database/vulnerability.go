// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package database

import (
	"golang.org/x/lockaudit/advisory"
	"golang.org/x/lockaudit/lockfile"
)

// A Vulnerability is an advisory matched against a package in a
// lockfile.
type Vulnerability struct {
	Advisory advisory.Metadata  `json:"advisory"`
	Versions advisory.Versions  `json:"versions"`
	Affected *advisory.Affected `json:"affected"`
	Package  lockfile.Package   `json:"package"`
}

func newVulnerability(a *advisory.Advisory, pkg lockfile.Package) *Vulnerability {
	c := a.Clone()
	return &Vulnerability{
		Advisory: c.Metadata,
		Versions: c.Versions,
		Affected: c.Affected,
		Package:  pkg,
	}
}

// QueryVulnerabilities returns the advisories matching q for each
// package in lf. Results are ordered by the position of the package in
// lf, then by advisory ID. The package name and version restrictions of
// q are replaced by those of each package.
func (db *Database) QueryVulnerabilities(lf *lockfile.Lockfile, q Query) []*Vulnerability {
	var vulns []*Vulnerability
	for _, pkg := range lf.Packages {
		pq := q.PackageName(pkg.Name).PackageVersion(pkg.Version)
		for _, a := range db.byPackage[pkg.Name] {
			if pq.Matches(a) {
				vulns = append(vulns, newVulnerability(a, pkg))
			}
		}
	}
	return vulns
}
