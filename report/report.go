// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package report builds audit reports for a lockfile from an advisory
// database.
//
// A report lists the vulnerabilities affecting the packages in the
// lockfile, the informational advisories requested as warnings, and
// the provenance of the database and lockfile it was computed from.
// Generate is a pure function of its inputs.
package report

import (
	"time"

	"golang.org/x/lockaudit/database"
	"golang.org/x/lockaudit/lockfile"
)

// Database is the advisory database a report is computed from.
type Database interface {
	// QueryVulnerabilities returns the matches of q against the packages
	// of lf, in an order that is stable across calls.
	QueryVulnerabilities(lf *lockfile.Lockfile, q database.Query) []*database.Vulnerability

	// AdvisoryCount returns the number of advisories in the database.
	AdvisoryCount() int
}

// History is implemented by databases that know the commit they were
// loaded from.
type History interface {
	// LatestCommit returns the commit, or false if it is unknown.
	LatestCommit() (*database.Commit, bool)
}

// Report is the result of auditing a lockfile.
type Report struct {
	// Database is always emitted; without history its commit fields are null.
	Database        DatabaseInfo      `json:"database"`
	Lockfile        LockfileInfo      `json:"lockfile"`
	Settings        Settings          `json:"settings"`
	Vulnerabilities VulnerabilityInfo `json:"vulnerabilities"`
	Warnings        WarningInfo       `json:"warnings"`
}

// HasVulnerabilities reports whether any vulnerabilities were found.
func (r *Report) HasVulnerabilities() bool {
	return r.Vulnerabilities.Found
}

// Generate audits lf against db.
func Generate(db Database, lf *lockfile.Lockfile, settings *Settings) *Report {
	var vulns []*database.Vulnerability
	for _, v := range db.QueryVulnerabilities(lf, settings.Query()) {
		if !settings.IsIgnored(v.Advisory.ID) {
			vulns = append(vulns, v)
		}
	}
	return &Report{
		Database:        NewDatabaseInfo(db),
		Lockfile:        NewLockfileInfo(lf),
		Settings:        settings.Clone(),
		Vulnerabilities: NewVulnerabilityInfo(vulns),
		Warnings:        FindWarnings(db, lf, settings),
	}
}

// VulnerabilityInfo summarizes the vulnerabilities in a report.
type VulnerabilityInfo struct {
	Found bool                      `json:"found"`
	Count int                       `json:"count"`
	List  []*database.Vulnerability `json:"list"`
}

// NewVulnerabilityInfo summarizes list, keeping its order.
func NewVulnerabilityInfo(list []*database.Vulnerability) VulnerabilityInfo {
	if list == nil {
		list = []*database.Vulnerability{}
	}
	return VulnerabilityInfo{
		Found: len(list) > 0,
		Count: len(list),
		List:  list,
	}
}

// DatabaseInfo describes the database a report was computed from.
// LastCommit and LastUpdated are nil unless the database implements
// History and knows its commit.
type DatabaseInfo struct {
	AdvisoryCount int        `json:"advisory-count"`
	LastCommit    *string    `json:"last-commit"`
	LastUpdated   *time.Time `json:"last-updated"`
}

// NewDatabaseInfo returns the provenance of db.
func NewDatabaseInfo(db Database) DatabaseInfo {
	info := DatabaseInfo{AdvisoryCount: db.AdvisoryCount()}
	if h, ok := db.(History); ok {
		if c, ok := h.LatestCommit(); ok {
			id, ts := c.ID, c.Timestamp
			info.LastCommit = &id
			info.LastUpdated = &ts
		}
	}
	return info
}

// LockfileInfo describes the lockfile a report was computed from.
type LockfileInfo struct {
	DependencyCount int `json:"dependency-count"`
}

// NewLockfileInfo returns the provenance of lf.
func NewLockfileInfo(lf *lockfile.Lockfile) LockfileInfo {
	return LockfileInfo{DependencyCount: lf.Len()}
}
