// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package platform

import "testing"

func TestParse(t *testing.T) {
	if a, err := ParseArch("aarch64"); err != nil || a != AArch64 {
		t.Errorf("ParseArch(aarch64) = %q, %v", a, err)
	}
	if _, err := ParseArch("amd64"); err == nil {
		t.Error("ParseArch(amd64) succeeded, want error")
	}
	if o, err := ParseOS("macos"); err != nil || o != MacOS {
		t.Errorf("ParseOS(macos) = %q, %v", o, err)
	}
	if _, err := ParseOS("darwin"); err == nil {
		t.Error("ParseOS(darwin) succeeded, want error")
	}
}
