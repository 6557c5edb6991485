// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package lockfile reads Cargo.lock files.
//
// Only the information needed to audit a project is kept: the resolved
// packages, in file order, with their sources, checksums and
// dependency edges.
package lockfile

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/lockaudit/internal/derrors"
)

// ErrInvalid is returned, wrapped, for lockfiles that cannot be parsed
// or lack required fields.
var ErrInvalid = errors.New("invalid lockfile")

// Lockfile is a parsed Cargo.lock.
type Lockfile struct {
	// Version is the lockfile format version, 1 through 4.
	Version int
	// Packages are the resolved packages in file order.
	Packages []Package
}

// Package is one resolved package.
type Package struct {
	Name         string       `json:"name"`
	Version      string       `json:"version"`
	Source       string       `json:"source,omitempty"`
	Checksum     string       `json:"checksum,omitempty"`
	Dependencies []Dependency `json:"dependencies"`
}

// Dependency is an edge to another package in the lockfile. Version
// and Source are only recorded when the name alone is ambiguous.
type Dependency struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
	Source  string `json:"source,omitempty"`
}

func (d Dependency) String() string {
	s := d.Name
	if d.Version != "" {
		s += " " + d.Version
	}
	if d.Source != "" {
		s += " (" + d.Source + ")"
	}
	return s
}

// Len returns the number of packages in the lockfile.
func (lf *Lockfile) Len() int { return len(lf.Packages) }

// rawLockfile mirrors the TOML layout of a Cargo.lock.
type rawLockfile struct {
	Version  int               `toml:"version"`
	Packages []rawPackage      `toml:"package"`
	Metadata map[string]string `toml:"metadata"`
}

type rawPackage struct {
	Name         string   `toml:"name"`
	Version      string   `toml:"version"`
	Source       string   `toml:"source"`
	Checksum     string   `toml:"checksum"`
	Dependencies []string `toml:"dependencies"`
}

// Load reads and parses the lockfile at path.
func Load(path string) (_ *Lockfile, err error) {
	defer derrors.Wrap(&err, "lockfile.Load(%q)", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse parses the contents of a Cargo.lock.
func Parse(data []byte) (_ *Lockfile, err error) {
	defer derrors.Wrap(&err, "lockfile.Parse")

	var raw rawLockfile
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	lf := &Lockfile{Version: raw.Version}
	if lf.Version == 0 {
		// Only version 3 and later record the version; version 1 is
		// recognizable by its checksum metadata table.
		lf.Version = 2
		if len(raw.Metadata) > 0 {
			lf.Version = 1
		}
	}
	for i, rp := range raw.Packages {
		if rp.Name == "" || rp.Version == "" {
			return nil, fmt.Errorf("%w: package %d: missing name or version", ErrInvalid, i)
		}
		p := Package{
			Name:         rp.Name,
			Version:      rp.Version,
			Source:       rp.Source,
			Checksum:     rp.Checksum,
			Dependencies: []Dependency{},
		}
		for _, d := range rp.Dependencies {
			dep, err := parseDependency(d)
			if err != nil {
				return nil, fmt.Errorf("%w: package %s: %v", ErrInvalid, rp.Name, err)
			}
			p.Dependencies = append(p.Dependencies, dep)
		}
		if p.Checksum == "" {
			p.Checksum = raw.Metadata[checksumKey(p)]
		}
		lf.Packages = append(lf.Packages, p)
	}
	return lf, nil
}

// checksumKey is the key of a package in the version 1 [metadata] table.
func checksumKey(p Package) string {
	return fmt.Sprintf("checksum %s %s (%s)", p.Name, p.Version, p.Source)
}

// parseDependency parses "name", "name version" or
// "name version (source)".
func parseDependency(s string) (Dependency, error) {
	var d Dependency
	rest := strings.TrimSpace(s)
	if i := strings.IndexByte(rest, '('); i >= 0 {
		if !strings.HasSuffix(rest, ")") {
			return d, fmt.Errorf("malformed dependency %q", s)
		}
		d.Source = rest[i+1 : len(rest)-1]
		rest = strings.TrimSpace(rest[:i])
	}
	fields := strings.Fields(rest)
	switch len(fields) {
	case 1:
		d.Name = fields[0]
	case 2:
		d.Name, d.Version = fields[0], fields[1]
	default:
		return d, fmt.Errorf("malformed dependency %q", s)
	}
	return d, nil
}
