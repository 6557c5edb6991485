// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package test holds helpers shared by the lockaudit tests.
package test

import (
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
	"golang.org/x/lockaudit/internal/derrors"
	"golang.org/x/tools/txtar"
)

// ReadTxtarRepo converts a txtar file to a single-commit
// repo, committed at the given time.
func ReadTxtarRepo(filename string, when time.Time) (_ *git.Repository, err error) {
	defer derrors.Wrap(&err, "ReadTxtarRepo(%q)", filename)

	ar, err := txtar.ParseFile(filename)
	if err != nil {
		return nil, err
	}
	return TxtarRepo(ar, when)
}

// TxtarRepo converts a txtar archive to a single-commit repo
// held in memory.
func TxtarRepo(ar *txtar.Archive, when time.Time) (_ *git.Repository, err error) {
	defer derrors.Wrap(&err, "TxtarRepo")

	mfs := memfs.New()
	for _, f := range ar.Files {
		file, err := mfs.Create(f.Name)
		if err != nil {
			return nil, err
		}
		if _, err := file.Write(f.Data); err != nil {
			return nil, err
		}
		if err := file.Close(); err != nil {
			return nil, err
		}
	}

	repo, err := git.Init(memory.NewStorage(), mfs)
	if err != nil {
		return nil, err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, err
	}
	for _, f := range ar.Files {
		if _, err := wt.Add(f.Name); err != nil {
			return nil, err
		}
	}
	_, err = wt.Commit("import advisories", &git.CommitOptions{All: true, Author: &object.Signature{
		Name:  "Joe Random",
		Email: "joe@example.com",
		When:  when,
	}})
	if err != nil {
		return nil, err
	}
	return repo, nil
}
