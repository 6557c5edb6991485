// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"golang.org/x/exp/slices"
	"golang.org/x/lockaudit/advisory"
	"golang.org/x/lockaudit/database"
	"golang.org/x/lockaudit/platform"
)

// Settings configure which advisories a report includes.
type Settings struct {
	// TargetArch, if set, excludes advisories restricted to other
	// architectures.
	TargetArch *platform.Arch `json:"target_arch"`

	// TargetOS, if set, excludes advisories restricted to other
	// operating systems.
	TargetOS *platform.OS `json:"target_os"`

	// Severity, if set, excludes advisories with a lower severity.
	// Advisories without a severity are kept.
	Severity *advisory.Severity `json:"severity"`

	// Ignore lists advisories to leave out of the report.
	Ignore []advisory.ID `json:"ignore"`

	// InformationalWarnings lists the informational categories to
	// report as warnings.
	InformationalWarnings []advisory.Informational `json:"informational_warnings"`
}

// Query returns the database query selected by s: all crates, narrowed
// by target and minimum severity. It does not exclude ignored
// advisories.
func (s *Settings) Query() database.Query {
	q := database.CrateScope()
	if s.TargetArch != nil {
		q = q.TargetArch(*s.TargetArch)
	}
	if s.TargetOS != nil {
		q = q.TargetOS(*s.TargetOS)
	}
	if s.Severity != nil {
		q = q.Severity(*s.Severity)
	}
	return q
}

// IsIgnored reports whether id is in the ignore list.
func (s *Settings) IsIgnored(id advisory.ID) bool {
	return slices.Contains(s.Ignore, id)
}

// wantsWarning reports whether warnings were requested for category i.
func (s *Settings) wantsWarning(i advisory.Informational) bool {
	return slices.Contains(s.InformationalWarnings, i)
}

// Clone returns a deep copy of s. Nil lists become empty.
func (s *Settings) Clone() Settings {
	c := Settings{
		Ignore:                append([]advisory.ID{}, s.Ignore...),
		InformationalWarnings: append([]advisory.Informational{}, s.InformationalWarnings...),
	}
	if s.TargetArch != nil {
		a := *s.TargetArch
		c.TargetArch = &a
	}
	if s.TargetOS != nil {
		o := *s.TargetOS
		c.TargetOS = &o
	}
	if s.Severity != nil {
		sev := *s.Severity
		c.Severity = &sev
	}
	return c
}
