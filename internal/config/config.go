// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config reads lockaudit configuration files.
package config

import (
	"fmt"
	"os"

	"golang.org/x/lockaudit/advisory"
	"golang.org/x/lockaudit/internal/derrors"
	"golang.org/x/lockaudit/platform"
	"golang.org/x/lockaudit/report"
	"gopkg.in/yaml.v2"
)

// DatabaseEnv is the environment variable that overrides the database
// path of a configuration.
const DatabaseEnv = "LOCKAUDIT_DB"

// Output formats.
const (
	FormatJSON    = "json"
	FormatText    = "text"
	FormatSARIF   = "sarif"
	FormatOpenVEX = "openvex"
)

// Config is the contents of a configuration file.
type Config struct {
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
	Output struct {
		Format string `yaml:"format"`
	} `yaml:"output"`
	Target struct {
		Arch string `yaml:"arch"`
		OS   string `yaml:"os"`
	} `yaml:"target"`
	Severity              string   `yaml:"severity"`
	Ignore                []string `yaml:"ignore"`
	InformationalWarnings []string `yaml:"informational_warnings"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	c := &Config{
		InformationalWarnings: []string{
			string(advisory.Unmaintained),
			string(advisory.Unsound),
		},
	}
	c.Output.Format = FormatJSON
	return c
}

// Load reads the configuration file at filename, or returns the
// default configuration if filename is empty. In both cases a non-empty
// $LOCKAUDIT_DB replaces the database path.
func Load(filename string) (_ *Config, err error) {
	defer derrors.Wrap(&err, "config.Load(%q)", filename)

	c := Default()
	if filename != "" {
		b, err := os.ReadFile(filename)
		if err != nil {
			return nil, err
		}
		c, err = Parse(b)
		if err != nil {
			return nil, err
		}
	}
	if p := os.Getenv(DatabaseEnv); p != "" {
		c.Database.Path = p
	}
	return c, nil
}

// Parse parses a configuration file. Keys that are not part of Config
// are errors. Omitted keys take their default values.
func Parse(data []byte) (*Config, error) {
	c := Default()
	if err := yaml.UnmarshalStrict(data, c); err != nil {
		return nil, err
	}
	if c.Output.Format == "" {
		c.Output.Format = FormatJSON
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate reports whether every value in c is known.
func (c *Config) Validate() error {
	switch c.Output.Format {
	case FormatJSON, FormatText, FormatSARIF, FormatOpenVEX:
	default:
		return fmt.Errorf("unknown output format %q", c.Output.Format)
	}
	_, err := c.Settings()
	return err
}

// Settings returns the report settings described by c.
func (c *Config) Settings() (*report.Settings, error) {
	s := &report.Settings{}
	if c.Target.Arch != "" {
		a, err := platform.ParseArch(c.Target.Arch)
		if err != nil {
			return nil, err
		}
		s.TargetArch = &a
	}
	if c.Target.OS != "" {
		o, err := platform.ParseOS(c.Target.OS)
		if err != nil {
			return nil, err
		}
		s.TargetOS = &o
	}
	if c.Severity != "" {
		sev, err := advisory.ParseSeverity(c.Severity)
		if err != nil {
			return nil, err
		}
		s.Severity = &sev
	}
	for _, id := range c.Ignore {
		s.Ignore = append(s.Ignore, advisory.ID(id))
	}
	for _, i := range c.InformationalWarnings {
		s.InformationalWarnings = append(s.InformationalWarnings, advisory.Informational(i))
	}
	return s, nil
}
