// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package database provides an in-memory, queryable advisory database.
//
// A database is loaded from a directory laid out like the RustSec
// advisory-db repository: advisory files live under crates/<name>/ and
// rust/<name>/, as Markdown files with TOML front matter or as plain
// TOML. When the directory is a git repository, the advisories are read
// from the HEAD commit and the commit is kept as provenance.
package database

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"golang.org/x/exp/slices"
	"golang.org/x/lockaudit/advisory"
	"golang.org/x/lockaudit/internal/derrors"
	"golang.org/x/lockaudit/internal/gitrepo"
	"golang.org/x/lockaudit/internal/log"
	"golang.org/x/sync/errgroup"
)

// ErrDuplicate is returned, wrapped, when two advisories share an ID.
var ErrDuplicate = errors.New("duplicate advisory")

// maxParsers bounds the number of advisory files parsed at once.
const maxParsers = 10

// Commit identifies the commit a database was loaded from.
type Commit struct {
	ID        string
	Timestamp time.Time
}

// A Database holds a set of advisories indexed by ID and package.
// It is safe for concurrent use once constructed.
type Database struct {
	byID      map[advisory.ID]*advisory.Advisory
	sorted    []*advisory.Advisory            // by ID
	byPackage map[string][]*advisory.Advisory // by ID within each package
	commit    *Commit
}

// New returns a database holding advisories. Each advisory must be
// valid, and no two may have the same ID.
func New(advisories ...*advisory.Advisory) (_ *Database, err error) {
	defer derrors.Wrap(&err, "database.New")

	db := &Database{
		byID:      make(map[advisory.ID]*advisory.Advisory, len(advisories)),
		byPackage: make(map[string][]*advisory.Advisory),
	}
	for _, a := range advisories {
		if err := a.Validate(); err != nil {
			return nil, err
		}
		id := a.Metadata.ID
		if _, ok := db.byID[id]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicate, id)
		}
		db.byID[id] = a
		db.sorted = append(db.sorted, a)
	}
	slices.SortFunc(db.sorted, func(a, b *advisory.Advisory) int {
		return strings.Compare(string(a.Metadata.ID), string(b.Metadata.ID))
	})
	for _, a := range db.sorted {
		db.byPackage[a.Metadata.Package] = append(db.byPackage[a.Metadata.Package], a)
	}
	return db, nil
}

// Open loads the database in the directory dir.
//
// If dir is a git repository, the advisories are read from its HEAD
// commit, as by FromRepo. Otherwise the files in dir are read and the
// database has no history.
func Open(ctx context.Context, dir string) (_ *Database, err error) {
	defer derrors.Wrap(&err, "database.Open(%q)", dir)

	repo, err := gitrepo.Open(ctx, dir)
	if err == nil {
		return FromRepo(ctx, repo)
	}
	if !gitrepo.IsNotRepo(err) {
		return nil, err
	}
	log.Debugf(ctx, "%s is not a git repository; reading files", dir)
	files, err := readDir(dir)
	if err != nil {
		return nil, err
	}
	db, err := load(ctx, files)
	if err != nil {
		return nil, err
	}
	log.Infof(ctx, "Loaded %d advisories from %s", db.AdvisoryCount(), dir)
	return db, nil
}

// FromRepo loads the database at the HEAD commit of repo.
func FromRepo(ctx context.Context, repo *git.Repository) (_ *Database, err error) {
	defer derrors.Wrap(&err, "database.FromRepo")

	commit, err := gitrepo.HeadCommit(repo)
	if err != nil {
		return nil, err
	}
	root, err := commit.Tree()
	if err != nil {
		return nil, err
	}
	var files []file
	err = gitrepo.WalkFiles(root, func(path string, contents []byte) error {
		if isAdvisoryFile(path) {
			files = append(files, file{path, contents})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	db, err := load(ctx, files)
	if err != nil {
		return nil, err
	}
	db.commit = &Commit{
		ID:        commit.Hash.String(),
		Timestamp: commit.Committer.When.UTC(),
	}
	log.Infof(ctx, "Loaded %d advisories at commit %s", db.AdvisoryCount(), db.commit.ID)
	return db, nil
}

type file struct {
	path     string // slash-separated, relative to the database root
	contents []byte
}

// isAdvisoryFile reports whether the slash-separated path names an
// advisory: a .md or .toml file inside a package directory of a
// collection.
func isAdvisoryFile(p string) bool {
	parts := strings.Split(p, "/")
	if len(parts) != 3 {
		return false
	}
	switch advisory.Collection(parts[0]) {
	case advisory.Crates, advisory.Rust:
	default:
		return false
	}
	switch path.Ext(p) {
	case ".md", ".toml":
		return true
	}
	return false
}

func readDir(dir string) ([]file, error) {
	var files []file
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if !isAdvisoryFile(rel) {
			return nil
		}
		contents, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		files = append(files, file{rel, contents})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// load parses files concurrently and builds a database from the
// results. The outcome does not depend on the order in which the files
// are parsed.
func load(ctx context.Context, files []file) (*Database, error) {
	advisories := make([]*advisory.Advisory, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParsers)
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			a, err := advisory.Parse(f.path, f.contents)
			if err != nil {
				return err
			}
			advisories[i] = a
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return New(advisories...)
}

// Get returns the advisory with the given ID.
func (db *Database) Get(id advisory.ID) (*advisory.Advisory, bool) {
	a, ok := db.byID[id]
	return a, ok
}

// Iter returns all advisories, sorted by ID.
func (db *Database) Iter() []*advisory.Advisory {
	return slices.Clone(db.sorted)
}

// AdvisoryCount returns the number of advisories in db.
func (db *Database) AdvisoryCount() int {
	return len(db.sorted)
}

// Query returns the advisories that match q, sorted by ID.
func (db *Database) Query(q Query) []*advisory.Advisory {
	candidates := db.sorted
	if q.packageName != "" {
		candidates = db.byPackage[q.packageName]
	}
	var as []*advisory.Advisory
	for _, a := range candidates {
		if q.Matches(a) {
			as = append(as, a)
		}
	}
	return as
}

// LatestCommit returns the commit db was loaded from. It reports false
// if db was not loaded from a git repository.
func (db *Database) LatestCommit() (*Commit, bool) {
	if db.commit == nil {
		return nil, false
	}
	c := *db.commit
	return &c, true
}
