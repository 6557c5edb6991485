// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package testenv reports what the test environment can do.
package testenv

import (
	"bytes"
	"errors"
	"os/exec"
	"runtime"
	"sync"
	"testing"
)

// HasExec reports whether the current system can start new processes.
func HasExec() bool {
	switch runtime.GOOS {
	case "ios", "js", "wasip1":
		return false
	}
	return true
}

// HasGoBuild reports whether the go command, with a compiler, is
// available. The error explains why it is not.
func HasGoBuild() (bool, error) {
	hasGoBuildOnce.Do(func() {
		if !HasExec() {
			hasGoBuildErr = errors.New("cannot exec subprocesses on " + runtime.GOOS)
			return
		}
		cmd := exec.Command("go", "tool", "-n", "compile")
		out, err := cmd.Output()
		if err != nil {
			hasGoBuildErr = err
			return
		}
		if _, err := exec.LookPath(string(bytes.TrimSpace(out))); err != nil {
			hasGoBuildErr = err
			return
		}
		hasGoBuild = true
	})
	return hasGoBuild, hasGoBuildErr
}

var (
	hasGoBuildOnce sync.Once
	hasGoBuild     bool
	hasGoBuildErr  error
)

// NeedsGoBuild skips t if the go command cannot build packages.
func NeedsGoBuild(t testing.TB) {
	if ok, err := HasGoBuild(); !ok {
		t.Helper()
		t.Skipf("skipping test: 'go build' not supported on %s/%s: %v", runtime.GOOS, runtime.GOARCH, err)
	}
}
