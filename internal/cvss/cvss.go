// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cvss parses CVSS v3.0 and v3.1 vector strings and computes
// their base score.
//
// The scoring formulas are those of the CVSS v3.1 specification,
// https://www.first.org/cvss/v3.1/specification-document, section 7.
package cvss

import (
	"fmt"
	"math"
	"strings"
)

// A Vector is a parsed CVSS v3 vector string.
type Vector struct {
	raw     string
	version string
	metrics map[string]string
}

var baseMetrics = map[string][]string{
	"AV": {"N", "A", "L", "P"},
	"AC": {"L", "H"},
	"PR": {"N", "L", "H"},
	"UI": {"N", "R"},
	"S":  {"U", "C"},
	"C":  {"H", "L", "N"},
	"I":  {"H", "L", "N"},
	"A":  {"H", "L", "N"},
}

// Temporal and environmental metrics are accepted but do not
// contribute to the base score.
var otherMetrics = map[string]bool{
	"E": true, "RL": true, "RC": true,
	"CR": true, "IR": true, "AR": true,
	"MAV": true, "MAC": true, "MPR": true, "MUI": true, "MS": true,
	"MC": true, "MI": true, "MA": true,
}

// Parse parses a vector such as
// "CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H".
func Parse(s string) (*Vector, error) {
	parts := strings.Split(s, "/")
	prefix, version, ok := strings.Cut(parts[0], ":")
	if !ok || prefix != "CVSS" || (version != "3.0" && version != "3.1") {
		return nil, fmt.Errorf("cvss: unsupported vector prefix %q", parts[0])
	}
	v := &Vector{raw: s, version: version, metrics: map[string]string{}}
	for _, p := range parts[1:] {
		name, value, ok := strings.Cut(p, ":")
		if !ok {
			return nil, fmt.Errorf("cvss: malformed metric %q", p)
		}
		if _, dup := v.metrics[name]; dup {
			return nil, fmt.Errorf("cvss: duplicate metric %q", name)
		}
		if allowed, ok := baseMetrics[name]; ok {
			if !contains(allowed, value) {
				return nil, fmt.Errorf("cvss: invalid value %q for metric %s", value, name)
			}
		} else if !otherMetrics[name] {
			return nil, fmt.Errorf("cvss: unknown metric %q", name)
		}
		v.metrics[name] = value
	}
	for name := range baseMetrics {
		if _, ok := v.metrics[name]; !ok {
			return nil, fmt.Errorf("cvss: missing base metric %s", name)
		}
	}
	return v, nil
}

func contains(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}

func (v *Vector) String() string { return v.raw }

// Version returns "3.0" or "3.1".
func (v *Vector) Version() string { return v.version }

var weights = map[string]map[string]float64{
	"AV": {"N": 0.85, "A": 0.62, "L": 0.55, "P": 0.2},
	"AC": {"L": 0.77, "H": 0.44},
	"UI": {"N": 0.85, "R": 0.62},
	"C":  {"H": 0.56, "L": 0.22, "N": 0},
	"I":  {"H": 0.56, "L": 0.22, "N": 0},
	"A":  {"H": 0.56, "L": 0.22, "N": 0},
}

// BaseScore returns the base score, between 0.0 and 10.0.
func (v *Vector) BaseScore() float64 {
	changed := v.metrics["S"] == "C"
	var pr float64
	switch v.metrics["PR"] {
	case "N":
		pr = 0.85
	case "L":
		pr = 0.62
		if changed {
			pr = 0.68
		}
	case "H":
		pr = 0.27
		if changed {
			pr = 0.5
		}
	}
	w := func(m string) float64 { return weights[m][v.metrics[m]] }

	iss := 1 - (1-w("C"))*(1-w("I"))*(1-w("A"))
	var impact float64
	if changed {
		impact = 7.52*(iss-0.029) - 3.25*math.Pow(iss-0.02, 15)
	} else {
		impact = 6.42 * iss
	}
	exploitability := 8.22 * w("AV") * w("AC") * pr * w("UI")
	if impact <= 0 {
		return 0
	}
	if changed {
		return roundUp(math.Min(1.08*(impact+exploitability), 10))
	}
	return roundUp(math.Min(impact+exploitability, 10))
}

// roundUp returns the smallest number, specified to one decimal place,
// that is equal to or higher than x. It avoids floating point
// artifacts as described in Appendix A of the v3.1 specification.
func roundUp(x float64) float64 {
	i := int64(math.Round(x * 100000))
	if i%10000 == 0 {
		return float64(i) / 100000
	}
	return float64(i/10000+1) / 10
}
