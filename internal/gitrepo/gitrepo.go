// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gitrepo provides operations on git repos.
package gitrepo

import (
	"context"
	"errors"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"golang.org/x/lockaudit/internal/derrors"
	"golang.org/x/lockaudit/internal/log"
)

// Open returns a repo by opening the repo at the local path dirpath.
// It returns git.ErrRepositoryNotExists, wrapped, if dirpath is not
// the root of a git repository.
func Open(ctx context.Context, dirpath string) (repo *git.Repository, err error) {
	defer derrors.Wrap(&err, "gitrepo.Open(%q)", dirpath)
	log.Debugf(ctx, "Opening %q...", dirpath)
	repo, err = git.PlainOpen(dirpath)
	if err != nil {
		return nil, err
	}
	return repo, nil
}

// IsNotRepo reports whether err means a directory holds no git
// repository.
func IsNotRepo(err error) bool {
	return errors.Is(err, git.ErrRepositoryNotExists)
}

// HeadCommit returns the commit at the repo HEAD.
func HeadCommit(repo *git.Repository) (commit *object.Commit, err error) {
	defer derrors.Wrap(&err, "gitrepo.HeadCommit")
	ref, err := repo.Reference(plumbing.HEAD, true)
	if err != nil {
		return nil, err
	}
	return repo.CommitObject(ref.Hash())
}

// WalkFiles calls f with the slash-separated path and contents of each
// file in root, recursively, in tree order. It stops at the first error.
func WalkFiles(root *object.Tree, f func(path string, contents []byte) error) (err error) {
	defer derrors.Wrap(&err, "gitrepo.WalkFiles")
	return root.Files().ForEach(func(file *object.File) error {
		contents, err := file.Contents()
		if err != nil {
			return err
		}
		return f(file.Name, []byte(contents))
	})
}
