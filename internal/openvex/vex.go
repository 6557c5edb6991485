// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package openvex renders the vulnerabilities of an audit report as an
// OpenVEX document.
//
// See https://github.com/openvex/spec for the format.
package openvex

import "time"

type Status string

const (
	StatusNotAffected        Status = "not_affected"
	StatusAffected           Status = "affected"
	StatusFixed              Status = "fixed"
	StatusUnderInvestigation Status = "under_investigation"
)

const (
	ContextURI    = "https://openvex.dev/ns/v0.2.0"
	Tooling       = "lockaudit"
	DefaultAuthor = "Unknown Author"
	DefaultPID    = "Unknown Product"

	// ActionStatement is the action_statement of affected statements.
	ActionStatement = "Upgrade the crate to a patched version or remove the dependency."
)

// Document is the top-level struct for a VEX document.
type Document struct {
	// Context is an IRI pointing to the version of openVEX being used by the doc
	Context string `json:"@context,omitempty"`

	// ID is the identifying string for the VEX document.
	ID string `json:"@id,omitempty"`

	// Author is the identifier for the author of the VEX statement.
	Author string `json:"author,omitempty"`

	// Timestamp defines the time at which the document was issued.
	Timestamp time.Time `json:"timestamp,omitempty"`

	// Version is the document version. It must be incremented when any
	// content within the VEX document changes.
	Version int `json:"version,omitempty"`

	// Tooling expresses how the VEX document and contained VEX statements
	// were generated.
	Tooling string `json:"tooling,omitempty"`

	// Statements are all statements for a given document.
	Statements []Statement `json:"statements,omitempty"`
}

// Statement conveys a single status for a single vulnerability for one
// or more products.
type Statement struct {
	// Vulnerability is the vulnerability statement is about.
	Vulnerability Vulnerability `json:"vulnerability,omitempty"`

	// Products are the products associated with the given vulnerability
	// in the statement.
	Products []Product `json:"products,omitempty"`

	// The status of the vulnerability in the products.
	Status Status `json:"status"`

	// ActionStatement describes what to do about an affected product.
	ActionStatement string `json:"action_statement,omitempty"`
}

type Vulnerability struct {
	// ID is an IRI to reference the vulnerability in the statement.
	ID string `json:"@id,omitempty"`

	// Name is the main identifier of the vulnerability.
	Name string `json:"name,omitempty"`

	// Description is a short free form text description of the
	// vulnerability.
	Description string `json:"description,omitempty"`

	// Aliases is a list of other vulnerability identifier strings that
	// locate the vulnerability in other tracking systems.
	Aliases []string `json:"aliases,omitempty"`
}

type Component struct {
	// ID is an IRI identifying the component.
	ID string `json:"@id,omitempty"`
}

type Product struct {
	Component
	Subcomponents []Subcomponent `json:"subcomponents,omitempty"`
}

type Subcomponent struct {
	Component
}
