// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/lockaudit/advisory"
	"golang.org/x/lockaudit/database"
	"golang.org/x/lockaudit/internal/test"
	"golang.org/x/lockaudit/lockfile"
	"golang.org/x/lockaudit/platform"
)

const (
	cvssCritical = "CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H" // 9.8
	cvssHigh     = "CVSS:3.1/AV:L/AC:L/PR:L/UI:N/S:U/C:H/I:H/A:H" // 7.8
	cvssLow      = "CVSS:3.1/AV:L/AC:H/PR:H/UI:R/S:U/C:L/I:N/A:N" // 1.8
)

func adv(id advisory.ID, pkg, cvss string, info advisory.Informational) *advisory.Advisory {
	return &advisory.Advisory{
		Metadata: advisory.Metadata{
			ID:            id,
			Package:       pkg,
			Date:          "2024-01-01",
			Collection:    advisory.Crates,
			CVSS:          cvss,
			Informational: info,
		},
	}
}

var testLockfile = &lockfile.Lockfile{
	Version: 3,
	Packages: []lockfile.Package{
		{Name: "foo", Version: "1.0.0"},
		{Name: "bar", Version: "2.0.0"},
		{Name: "baz", Version: "0.1.0"},
	},
}

func newDB(t *testing.T, advisories ...*advisory.Advisory) *database.Database {
	t.Helper()
	db, err := database.New(advisories...)
	if err != nil {
		t.Fatal(err)
	}
	return db
}

func vulnIDs(vi VulnerabilityInfo) []advisory.ID {
	var ids []advisory.ID
	for _, v := range vi.List {
		ids = append(ids, v.Advisory.ID)
	}
	return ids
}

// warningPackages returns the package names of the warnings, by kind.
func warningPackages(wi WarningInfo) map[WarningKind][]string {
	m := map[WarningKind][]string{}
	for k, ws := range wi {
		for _, w := range ws {
			m[k] = append(m[k], w.Package.Name)
		}
	}
	return m
}

func TestImports(t *testing.T) {
	test.VerifyImports(t,
		"golang.org/x/exp/maps",
		"golang.org/x/exp/slices",
		"golang.org/x/lockaudit/advisory",
		"golang.org/x/lockaudit/database",
		"golang.org/x/lockaudit/lockfile",
		"golang.org/x/lockaudit/platform",
	)
}

func TestSettingsQuery(t *testing.T) {
	arch := platform.AArch64
	os := platform.Linux
	sev := advisory.SeverityHigh
	for _, test := range []struct {
		name     string
		settings Settings
		want     database.Query
	}{
		{
			name: "empty",
			want: database.CrateScope(),
		},
		{
			name: "all",
			settings: Settings{
				TargetArch: &arch,
				TargetOS:   &os,
				Severity:   &sev,
				Ignore:     []advisory.ID{"RUSTSEC-2020-0001"},
				InformationalWarnings: []advisory.Informational{
					advisory.Unmaintained,
				},
			},
			want: database.CrateScope().TargetArch(arch).TargetOS(os).Severity(sev),
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			got := test.settings.Query()
			if diff := cmp.Diff(test.want, got, cmp.AllowUnexported(database.Query{})); diff != "" {
				t.Errorf("mismatch (-want, +got):\n%s", diff)
			}
			if got.IsInformational() {
				t.Error("base query is in informational mode")
			}
		})
	}
}

func TestSettingsClone(t *testing.T) {
	sev := advisory.SeverityLow
	s := &Settings{Severity: &sev, Ignore: []advisory.ID{"A"}}
	c := s.Clone()
	if diff := cmp.Diff(Settings{
		Severity:              &sev,
		Ignore:                []advisory.ID{"A"},
		InformationalWarnings: []advisory.Informational{},
	}, c); diff != "" {
		t.Errorf("mismatch (-want, +got):\n%s", diff)
	}
	*c.Severity = advisory.SeverityCritical
	c.Ignore[0] = "B"
	if *s.Severity != advisory.SeverityLow || s.Ignore[0] != "A" {
		t.Error("modifying the clone changed the original")
	}
}

func TestNewVulnerabilityInfo(t *testing.T) {
	for _, n := range []int{0, 1, 3} {
		var list []*database.Vulnerability
		for i := 0; i < n; i++ {
			list = append(list, &database.Vulnerability{
				Advisory: advisory.Metadata{ID: advisory.ID(fmt.Sprintf("ADV-%03d", n-i))},
			})
		}
		vi := NewVulnerabilityInfo(list)
		if vi.Count != len(vi.List) || vi.Found != (vi.Count > 0) || vi.Count != n {
			t.Errorf("n=%d: inconsistent %+v", n, vi)
		}
		for i := range list {
			if vi.List[i] != list[i] {
				t.Errorf("n=%d: list reordered at %d", n, i)
			}
		}
	}
}

// Example 1: ignored advisories are removed from the vulnerability list.
func TestGenerateIgnore(t *testing.T) {
	db := newDB(t,
		adv("ADV-001", "foo", cvssHigh, ""),
		adv("ADV-002", "bar", cvssLow, ""),
	)
	r := Generate(db, testLockfile, &Settings{Ignore: []advisory.ID{"ADV-001"}})
	want := VulnerabilityInfo{Found: true, Count: 1}
	got := r.Vulnerabilities
	if got.Found != want.Found || got.Count != want.Count {
		t.Errorf("got found=%t count=%d, want found=%t count=%d", got.Found, got.Count, want.Found, want.Count)
	}
	if diff := cmp.Diff([]advisory.ID{"ADV-002"}, vulnIDs(got)); diff != "" {
		t.Errorf("mismatch (-want, +got):\n%s", diff)
	}
	if !r.HasVulnerabilities() {
		t.Error("HasVulnerabilities() = false")
	}
}

// Example 2: only requested categories become warnings.
func TestFindWarningsRequested(t *testing.T) {
	db := newDB(t,
		adv("ADV-010", "foo", "", advisory.Unmaintained),
		adv("ADV-011", "bar", "", advisory.Unsound),
	)
	settings := &Settings{InformationalWarnings: []advisory.Informational{advisory.Unmaintained}}
	wi := FindWarnings(db, testLockfile, settings)
	want := map[WarningKind][]string{KindUnmaintained: {"foo"}}
	if diff := cmp.Diff(want, warningPackages(wi)); diff != "" {
		t.Errorf("mismatch (-want, +got):\n%s", diff)
	}
	w := wi[KindUnmaintained][0]
	if w.Kind != KindUnmaintained || w.Advisory.ID != "ADV-010" || w.Versions == nil {
		t.Errorf("unexpected warning %+v", w)
	}
}

// Example 3: the severity filter applies to both passes.
func TestGenerateSeverity(t *testing.T) {
	db := newDB(t,
		adv("ADV-020", "foo", cvssCritical, ""),
		adv("ADV-021", "bar", cvssLow, ""),
		adv("ADV-022", "baz", cvssLow, advisory.Unmaintained),
		adv("ADV-023", "foo", "", advisory.Unmaintained),
	)
	sev := advisory.SeverityMedium
	r := Generate(db, testLockfile, &Settings{
		Severity:              &sev,
		InformationalWarnings: []advisory.Informational{advisory.Unmaintained},
	})
	if diff := cmp.Diff([]advisory.ID{"ADV-020"}, vulnIDs(r.Vulnerabilities)); diff != "" {
		t.Errorf("vulnerabilities mismatch (-want, +got):\n%s", diff)
	}
	want := map[WarningKind][]string{KindUnmaintained: {"foo"}}
	if diff := cmp.Diff(want, warningPackages(r.Warnings)); diff != "" {
		t.Errorf("warnings mismatch (-want, +got):\n%s", diff)
	}
}

func TestClassify(t *testing.T) {
	db := newDB(t,
		adv("ADV-030", "foo", "", advisory.Unmaintained),
		adv("ADV-031", "foo", "", advisory.Notice),
		adv("ADV-032", "bar", "", advisory.Unmaintained),
		adv("ADV-033", "bar", "", "deprecated"),
		adv("ADV-034", "baz", "", advisory.Unsound),
		adv("ADV-035", "baz", "", advisory.Unmaintained),
		adv("ADV-036", "baz", cvssHigh, ""),
	)
	settings := &Settings{
		Ignore: []advisory.ID{"ADV-032"},
		InformationalWarnings: []advisory.Informational{
			advisory.Unmaintained, advisory.Unsound, "deprecated",
		},
	}
	c := Classify(db, testLockfile, settings)
	want := map[WarningKind][]string{
		KindUnmaintained: {"foo", "baz"},
		KindUnsound:      {"baz"},
	}
	if diff := cmp.Diff(want, warningPackages(c.Warnings)); diff != "" {
		t.Errorf("mismatch (-want, +got):\n%s", diff)
	}
	if c.Ignored != 1 || c.Unrequested != 1 || c.Unmapped != 1 {
		t.Errorf("got ignored=%d unrequested=%d unmapped=%d, want 1 each", c.Ignored, c.Unrequested, c.Unmapped)
	}
	if got, want := c.Warnings.Len(), 3; got != want {
		t.Errorf("Len() = %d, want %d", got, want)
	}
	if diff := cmp.Diff([]WarningKind{KindUnmaintained, KindUnsound}, c.Warnings.Kinds()); diff != "" {
		t.Errorf("Kinds() mismatch (-want, +got):\n%s", diff)
	}

	// Each match is classified exactly once.
	matches := len(db.QueryVulnerabilities(testLockfile, settings.Query().Informational(true)))
	if total := c.Warnings.Len() + c.Ignored + c.Unrequested + c.Unmapped; total != matches {
		t.Errorf("classified %d matches, want %d", total, matches)
	}
}

func TestWarningInclusionLaw(t *testing.T) {
	db := newDB(t,
		adv("ADV-040", "foo", "", advisory.Notice),
		adv("ADV-041", "bar", "", advisory.Unmaintained),
		adv("ADV-042", "baz", "", advisory.Unsound),
		adv("ADV-043", "baz", "", "other"),
	)
	lists := [][]advisory.Informational{
		nil,
		{advisory.Notice},
		{advisory.Unmaintained, advisory.Unsound},
		{advisory.Notice, advisory.Unmaintained, advisory.Unsound, "other"},
	}
	ignores := [][]advisory.ID{nil, {"ADV-040"}, {"ADV-041", "ADV-042"}}
	for _, infos := range lists {
		for _, ignore := range ignores {
			settings := &Settings{Ignore: ignore, InformationalWarnings: infos}
			wi := FindWarnings(db, testLockfile, settings)
			seen := map[advisory.ID]int{}
			for k, ws := range wi {
				for _, w := range ws {
					if w.Kind != k {
						t.Errorf("warning of kind %q filed under %q", w.Kind, k)
					}
					seen[w.Advisory.ID]++
				}
			}
			for _, a := range db.Iter() {
				m := a.Metadata
				_, mapped := warningKind(m.Informational)
				want := 0
				if !settings.IsIgnored(m.ID) && settings.wantsWarning(m.Informational) && mapped {
					want = 1
				}
				if seen[m.ID] != want {
					t.Errorf("ignore=%v warn=%v: %s produced %d warnings, want %d", ignore, infos, m.ID, seen[m.ID], want)
				}
			}
		}
	}
}

func TestIgnoreLaw(t *testing.T) {
	db := newDB(t,
		adv("ADV-050", "foo", cvssHigh, ""),
		adv("ADV-051", "foo", cvssLow, ""),
		adv("ADV-052", "bar", "", ""),
		adv("ADV-053", "baz", cvssCritical, ""),
	)
	all := db.QueryVulnerabilities(testLockfile, database.CrateScope())
	for _, ignore := range [][]advisory.ID{nil, {"ADV-050"}, {"ADV-051", "ADV-053"}, {"ADV-050", "ADV-051", "ADV-052", "ADV-053"}} {
		settings := &Settings{Ignore: ignore}
		r := Generate(db, testLockfile, settings)
		var want []advisory.ID
		for _, v := range all {
			if !settings.IsIgnored(v.Advisory.ID) {
				want = append(want, v.Advisory.ID)
			}
		}
		if diff := cmp.Diff(want, vulnIDs(r.Vulnerabilities)); diff != "" {
			t.Errorf("ignore=%v: mismatch (-want, +got):\n%s", ignore, diff)
		}
		vi := r.Vulnerabilities
		if vi.Count != len(vi.List) || vi.Found != (vi.Count > 0) {
			t.Errorf("ignore=%v: inconsistent %+v", ignore, vi)
		}
	}
}

func TestGenerateIdempotent(t *testing.T) {
	db := newDB(t,
		adv("ADV-060", "foo", cvssHigh, ""),
		adv("ADV-061", "bar", "", advisory.Unsound),
	)
	settings := &Settings{InformationalWarnings: []advisory.Informational{advisory.Unsound}}
	r1 := Generate(db, testLockfile, settings)
	r2 := Generate(db, testLockfile, settings)
	if diff := cmp.Diff(r1, r2); diff != "" {
		t.Errorf("reports differ (-first, +second):\n%s", diff)
	}
}

// historyDB is a database that knows its commit.
type historyDB struct {
	*database.Database
	commit *database.Commit
}

func (h historyDB) LatestCommit() (*database.Commit, bool) {
	return h.commit, h.commit != nil
}

// plainDB is a database without history.
type plainDB struct {
	Database
}

func TestNewDatabaseInfo(t *testing.T) {
	db := newDB(t, adv("ADV-070", "foo", "", ""), adv("ADV-071", "bar", "", ""))
	when := time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC)
	commit := &database.Commit{ID: "0123456789abcdef0123456789abcdef01234567", Timestamp: when}
	id := commit.ID

	for _, test := range []struct {
		name string
		db   Database
		want DatabaseInfo
	}{
		{"no history", plainDB{db}, DatabaseInfo{AdvisoryCount: 2}},
		{"history unknown", db, DatabaseInfo{AdvisoryCount: 2}},
		{"history", historyDB{db, commit}, DatabaseInfo{AdvisoryCount: 2, LastCommit: &id, LastUpdated: &when}},
	} {
		t.Run(test.name, func(t *testing.T) {
			if diff := cmp.Diff(test.want, NewDatabaseInfo(test.db)); diff != "" {
				t.Errorf("mismatch (-want, +got):\n%s", diff)
			}
		})
	}
	if got := NewLockfileInfo(testLockfile); got.DependencyCount != 3 {
		t.Errorf("DependencyCount = %d, want 3", got.DependencyCount)
	}
}

func TestReportJSON(t *testing.T) {
	db := newDB(t, adv("ADV-080", "foo", cvssHigh, ""))
	r := Generate(db, testLockfile, &Settings{})
	b, err := json.Marshal(r)
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]any
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatal(err)
	}
	want := map[string]any{
		"database": map[string]any{
			"advisory-count": 1.0,
			"last-commit":    nil,
			"last-updated":   nil,
		},
		"lockfile": map[string]any{"dependency-count": 3.0},
		"settings": map[string]any{
			"target_arch":            nil,
			"target_os":              nil,
			"severity":               nil,
			"ignore":                 []any{},
			"informational_warnings": []any{},
		},
		"warnings": map[string]any{},
	}
	vulns, ok := got["vulnerabilities"].(map[string]any)
	if !ok {
		t.Fatalf("vulnerabilities = %v", got["vulnerabilities"])
	}
	delete(got, "vulnerabilities")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want, +got):\n%s", diff)
	}
	if vulns["found"] != true || vulns["count"] != 1.0 {
		t.Errorf("vulnerabilities = %v", vulns)
	}
	list, _ := vulns["list"].([]any)
	if len(list) != 1 {
		t.Fatalf("list = %v", vulns["list"])
	}
	v := list[0].(map[string]any)
	for _, key := range []string{"advisory", "versions", "affected", "package"} {
		if _, ok := v[key]; !ok {
			t.Errorf("vulnerability has no %q field", key)
		}
	}

	// A database that cannot report history still gets a database block.
	b, err = json.Marshal(Generate(plainDB{db}, testLockfile, &Settings{}))
	if err != nil {
		t.Fatal(err)
	}
	var plain struct {
		Database map[string]any `json:"database"`
	}
	if err := json.Unmarshal(b, &plain); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want["database"], plain.Database); diff != "" {
		t.Errorf("database block without history mismatch (-want, +got):\n%s", diff)
	}
}

// brokenDB returns the same matches for every query.
type brokenDB struct {
	vulns []*database.Vulnerability
}

func (b brokenDB) QueryVulnerabilities(*lockfile.Lockfile, database.Query) []*database.Vulnerability {
	return b.vulns
}

func (b brokenDB) AdvisoryCount() int { return len(b.vulns) }

func TestClassifyPanicsWithoutCategory(t *testing.T) {
	db := brokenDB{[]*database.Vulnerability{{
		Advisory: advisory.Metadata{ID: "ADV-090", Package: "foo"},
		Package:  lockfile.Package{Name: "foo", Version: "1.0.0"},
	}}}
	settings := &Settings{InformationalWarnings: []advisory.Informational{advisory.Unmaintained}}

	// An ignored match is dropped before its category is examined.
	ignoring := &Settings{Ignore: []advisory.ID{"ADV-090"}}
	if c := Classify(db, testLockfile, ignoring); c.Ignored != 1 {
		t.Errorf("Ignored = %d, want 1", c.Ignored)
	}

	defer func() {
		if recover() == nil {
			t.Error("Classify did not panic")
		}
	}()
	Classify(db, testLockfile, settings)
}
