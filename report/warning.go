// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"golang.org/x/lockaudit/advisory"
	"golang.org/x/lockaudit/database"
	"golang.org/x/lockaudit/lockfile"
)

// WarningKind is the kind of a warning.
type WarningKind string

const (
	// KindNotice is a security notice about a crate.
	KindNotice WarningKind = "notice"
	// KindUnmaintained is an unmaintained crate.
	KindUnmaintained WarningKind = "unmaintained"
	// KindUnsound is a crate with soundness bugs.
	KindUnsound WarningKind = "unsound"
	// KindYanked is a crate version that was yanked from its registry.
	// No informational category maps to it.
	KindYanked WarningKind = "yanked"
)

// warningKind returns the kind reported for informational category i.
// Categories other than notice, unmaintained and unsound have none.
func warningKind(i advisory.Informational) (WarningKind, bool) {
	switch i {
	case advisory.Notice:
		return KindNotice, true
	case advisory.Unmaintained:
		return KindUnmaintained, true
	case advisory.Unsound:
		return KindUnsound, true
	}
	return "", false
}

// A Warning is an informational advisory that matched a package.
type Warning struct {
	Kind     WarningKind        `json:"kind"`
	Package  lockfile.Package   `json:"package"`
	Advisory *advisory.Metadata `json:"advisory"`
	Versions *advisory.Versions `json:"versions"`
}

// WarningInfo groups warnings by kind. Within a kind, warnings are in
// the order the database returned their matches.
type WarningInfo map[WarningKind][]*Warning

func (wi WarningInfo) add(w *Warning) {
	wi[w.Kind] = append(wi[w.Kind], w)
}

// Kinds returns the kinds present in wi, sorted.
func (wi WarningInfo) Kinds() []WarningKind {
	ks := maps.Keys(wi)
	slices.Sort(ks)
	return ks
}

// Len returns the total number of warnings.
func (wi WarningInfo) Len() int {
	n := 0
	for _, ws := range wi {
		n += len(ws)
	}
	return n
}

// A Classification is the outcome of sorting informational matches
// into warnings. Matches that did not become warnings are counted by
// the reason they were dropped.
type Classification struct {
	Warnings WarningInfo

	// Ignored counts matches whose advisory is ignored.
	Ignored int
	// Unrequested counts matches whose category was not requested.
	Unrequested int
	// Unmapped counts matches whose category has no warning kind.
	Unmapped int
}

// FindWarnings returns the warnings for the informational advisories
// that match lf.
func FindWarnings(db Database, lf *lockfile.Lockfile, settings *Settings) WarningInfo {
	return Classify(db, lf, settings).Warnings
}

// Classify queries db for informational advisories affecting lf and
// turns each match into a warning if its advisory is not ignored, its
// category was requested, and the category has a warning kind.
//
// It panics if the database returns a match without an informational
// category.
func Classify(db Database, lf *lockfile.Lockfile, settings *Settings) Classification {
	c := Classification{Warnings: WarningInfo{}}
	q := settings.Query().Informational(true)
	for _, m := range db.QueryVulnerabilities(lf, q) {
		if settings.IsIgnored(m.Advisory.ID) {
			c.Ignored++
			continue
		}
		category := m.Advisory.Informational
		if category == "" {
			panic(fmt.Sprintf("informational query matched %s, which has no informational category", m.Advisory.ID))
		}
		if !settings.wantsWarning(category) {
			c.Unrequested++
			continue
		}
		kind, ok := warningKind(category)
		if !ok {
			c.Unmapped++
			continue
		}
		c.Warnings.add(newWarning(kind, m))
	}
	return c
}

func newWarning(kind WarningKind, v *database.Vulnerability) *Warning {
	md := v.Advisory.Clone()
	versions := v.Versions.Clone()
	return &Warning{
		Kind:     kind,
		Package:  v.Package,
		Advisory: &md,
		Versions: &versions,
	}
}
