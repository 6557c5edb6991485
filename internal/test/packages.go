// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package test

import (
	"strings"
	"testing"

	"golang.org/x/lockaudit/internal/testenv"
	"golang.org/x/tools/go/packages"
)

// VerifyImports checks that the package in the current directory
// imports nothing outside the standard library except the packages in
// allowed.
func VerifyImports(t *testing.T, allowed ...string) {
	t.Helper()
	testenv.NeedsGoBuild(t)

	cfg := &packages.Config{Mode: packages.NeedName | packages.NeedImports}
	pkgs, err := packages.Load(cfg, ".")
	if err != nil {
		t.Fatal(err)
	}
	check := map[string]bool{}
	for _, imp := range allowed {
		check[imp] = true
	}
	for _, p := range pkgs {
		for _, imp := range p.Imports {
			// Approximate stdlib check: standard import paths have no dot
			// in their first element.
			first, _, _ := strings.Cut(imp.PkgPath, "/")
			if !strings.ContainsRune(first, '.') {
				continue
			}
			if !check[imp.PkgPath] {
				t.Errorf("%s: import of %s is not allowed", p.PkgPath, imp.PkgPath)
			}
		}
	}
}
