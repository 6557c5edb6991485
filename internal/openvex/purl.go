// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package openvex

import (
	"net/url"
	"strings"
)

// The PURL is printed as: pkg:cargo/NAME@VERSION
// See https://github.com/package-url/purl-spec/blob/master/PURL-TYPES.rst#cargo.

// purl returns the package URL of version of the named crate.
func purl(name, version string) string {
	var b strings.Builder
	b.WriteString("pkg:cargo/")
	b.WriteString(url.PathEscape(name))
	b.WriteString("@" + url.PathEscape(version))
	return b.String()
}
