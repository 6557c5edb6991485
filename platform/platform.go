// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package platform identifies the target CPU architectures and
// operating systems an advisory can be restricted to.
package platform

import "fmt"

// Arch is a target CPU architecture, as named in Rust target triples.
type Arch string

const (
	X86_64    Arch = "x86_64"
	X86       Arch = "x86"
	AArch64   Arch = "aarch64"
	Arm       Arch = "arm"
	RiscV64   Arch = "riscv64"
	Wasm32    Arch = "wasm32"
	PowerPC64 Arch = "powerpc64"
	S390x     Arch = "s390x"
	Mips64    Arch = "mips64"
)

var arches = []Arch{X86_64, X86, AArch64, Arm, RiscV64, Wasm32, PowerPC64, S390x, Mips64}

// OS is a target operating system.
type OS string

const (
	Linux   OS = "linux"
	Windows OS = "windows"
	MacOS   OS = "macos"
	FreeBSD OS = "freebsd"
	NetBSD  OS = "netbsd"
	OpenBSD OS = "openbsd"
	Android OS = "android"
	IOS     OS = "ios"
	WASI    OS = "wasi"
	None    OS = "none"
)

var oses = []OS{Linux, Windows, MacOS, FreeBSD, NetBSD, OpenBSD, Android, IOS, WASI, None}

// ParseArch returns the Arch named s, or an error if s is not a
// known architecture.
func ParseArch(s string) (Arch, error) {
	for _, a := range arches {
		if string(a) == s {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown target architecture %q", s)
}

// ParseOS returns the OS named s, or an error if s is not a known
// operating system.
func ParseOS(s string) (OS, error) {
	for _, o := range oses {
		if string(o) == s {
			return o, nil
		}
	}
	return "", fmt.Errorf("unknown target OS %q", s)
}
