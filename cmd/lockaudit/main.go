// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command lockaudit reports the known vulnerabilities and
// informational advisories affecting the packages in a Cargo.lock.
//
// Usage:
//
//	lockaudit [flags] [Cargo.lock]
//
// The advisory database is a local directory laid out like the RustSec
// advisory-db repository. It is taken from the -db flag, the
// LOCKAUDIT_DB environment variable, or the database.path key of the
// -config file, in that order.
//
// lockaudit exits with status 3 if vulnerabilities were found, 2 for
// usage errors and 1 for other errors.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"golang.org/x/lockaudit/database"
	"golang.org/x/lockaudit/internal/config"
	"golang.org/x/lockaudit/internal/log"
	"golang.org/x/lockaudit/internal/openvex"
	"golang.org/x/lockaudit/internal/sarif"
	"golang.org/x/lockaudit/lockfile"
	"golang.org/x/lockaudit/report"
)

var (
	configFile = flag.String("config", "", "path to a YAML configuration file")
	dbPath     = flag.String("db", "", "advisory database directory")
	format     = flag.String("format", "", "output format: json, text, sarif or openvex (default json)")
	targetArch = flag.String("target-arch", "", "only report advisories affecting this architecture")
	targetOS   = flag.String("target-os", "", "only report advisories affecting this operating system")
	severity   = flag.String("severity", "", "minimum severity: low, medium, high or critical")
	verbose    = flag.Bool("v", false, "log debugging information")
	ignore     stringsFlag
	warn       stringsFlag
)

func init() {
	flag.Var(&ignore, "ignore", "advisory ID to ignore (repeatable)")
	flag.Var(&warn, "warn", "informational category to report as a warning (repeatable)")
}

// errVulnerabilitiesFound is returned by run when the report lists
// vulnerabilities.
var errVulnerabilitiesFound = errors.New("vulnerabilities found")

// usageError is an error in the command line or configuration.
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func main() {
	flag.Usage = func() {
		out := flag.CommandLine.Output()
		fmt.Fprintln(out, "usage: lockaudit [flags] [Cargo.lock]")
		fmt.Fprintln(out, "flags:")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() > 1 {
		flag.Usage()
		os.Exit(2)
	}
	lockPath := "Cargo.lock"
	if flag.NArg() == 1 {
		lockPath = flag.Arg(0)
	}
	if *verbose {
		if err := log.SetLevel("debug"); err != nil {
			die("%v", err)
		}
	}
	ctx := log.WithLineLogger(context.Background())

	cfg, err := loadConfig()
	if err == nil {
		err = run(ctx, cfg, lockPath, os.Stdout)
	}
	var uerr *usageError
	switch {
	case err == nil:
	case errors.Is(err, errVulnerabilitiesFound):
		os.Exit(3)
	case errors.As(err, &uerr):
		fmt.Fprintln(os.Stderr, uerr)
		flag.Usage()
		os.Exit(2)
	default:
		die("%v", err)
	}
}

// loadConfig reads the configuration file, if any, and applies the
// command-line flags on top of it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil, &usageError{err}
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}
	if *format != "" {
		cfg.Output.Format = *format
	}
	if *targetArch != "" {
		cfg.Target.Arch = *targetArch
	}
	if *targetOS != "" {
		cfg.Target.OS = *targetOS
	}
	if *severity != "" {
		cfg.Severity = *severity
	}
	cfg.Ignore = append(cfg.Ignore, ignore...)
	if len(warn) > 0 {
		cfg.InformationalWarnings = warn
	}
	if cfg.Database.Path == "" {
		return nil, &usageError{fmt.Errorf("need -db, %s or database.path in the configuration", config.DatabaseEnv)}
	}
	if err := cfg.Validate(); err != nil {
		return nil, &usageError{err}
	}
	return cfg, nil
}

// run audits the lockfile at lockPath and writes the report to w.
func run(ctx context.Context, cfg *config.Config, lockPath string, w io.Writer) error {
	settings, err := cfg.Settings()
	if err != nil {
		return &usageError{err}
	}
	db, err := database.Open(ctx, cfg.Database.Path)
	if err != nil {
		return err
	}
	lf, err := lockfile.Load(lockPath)
	if err != nil {
		return err
	}
	log.Infof(ctx, "Scanning %s for vulnerabilities (%d crate dependencies)", lockPath, lf.Len())

	r := report.Generate(db, lf, settings)
	if *verbose {
		c := report.Classify(db, lf, settings)
		log.Debugf(ctx, "Informational matches not reported: %d ignored, %d not requested, %d without a warning kind",
			c.Ignored, c.Unrequested, c.Unmapped)
	}

	switch cfg.Output.Format {
	case config.FormatText:
		err = writeText(w, r)
	case config.FormatSARIF:
		err = sarif.Write(w, r, lockPath)
	case config.FormatOpenVEX:
		err = openvex.Write(w, r, time.Now())
	default:
		err = writeJSON(w, r)
	}
	if err != nil {
		return err
	}
	if r.HasVulnerabilities() {
		return errVulnerabilitiesFound
	}
	return nil
}

func writeJSON(w io.Writer, r *report.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

const dateFormat = "2006-01-02"

func writeText(w io.Writer, r *report.Report) error {
	db := r.Database
	fmt.Fprintf(w, "Loaded %d security advisories", db.AdvisoryCount)
	if db.LastCommit != nil {
		fmt.Fprintf(w, " (commit %s, updated %s)", shortCommit(*db.LastCommit), db.LastUpdated.Format(dateFormat))
	}
	fmt.Fprintf(w, "\nScanned %d crate dependencies\n", r.Lockfile.DependencyCount)

	vi := r.Vulnerabilities
	if vi.Found {
		fmt.Fprintln(w)
		tw := tabwriter.NewWriter(w, 1, 8, 2, ' ', 0)
		fmt.Fprintf(tw, "Crate\tVersion\tID\tSeverity\tTitle\n")
		for _, v := range vi.List {
			sev := "-"
			if s, ok := v.Advisory.Severity(); ok {
				sev = s.String()
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", v.Package.Name, v.Package.Version, v.Advisory.ID, sev, v.Advisory.Title)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	fmt.Fprintf(w, "\n%s found\n", plural(vi.Count, "vulnerability", "vulnerabilities"))

	for _, kind := range r.Warnings.Kinds() {
		ws := r.Warnings[kind]
		fmt.Fprintf(w, "\n%s: %s\n", plural(len(ws), "warning", "warnings"), kind)
		tw := tabwriter.NewWriter(w, 1, 8, 2, ' ', 0)
		for _, x := range ws {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", x.Package.Name, x.Package.Version, x.Advisory.ID, x.Advisory.Title)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func shortCommit(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

func plural(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return fmt.Sprintf("%d %s", n, many)
}

// stringsFlag is a flag.Value that collects each occurrence of a
// repeated flag. Comma-separated values are split.
type stringsFlag []string

func (s *stringsFlag) String() string { return strings.Join(*s, ",") }

func (s *stringsFlag) Set(v string) error {
	for _, x := range strings.Split(v, ",") {
		if x = strings.TrimSpace(x); x != "" {
			*s = append(*s, x)
		}
	}
	return nil
}

func die(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
	fmt.Fprintln(os.Stderr)
	os.Exit(1)
}
