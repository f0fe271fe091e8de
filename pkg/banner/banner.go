// Package banner prints the build configuration report shown at startup.
//
// The line sequence and wording are stable; log scrapers match on them.
package banner

import (
	"fmt"
	"io"
	"os"

	"github.com/dicengine/dice/pkg/buildinfo"
)

const (
	ProductLine   = "** Digital Image Correlation Engine (DICe)"
	CopyrightLine = "** Copyright 2021 National Technology & Engineering Solutions of Sandia, LLC (NTESS)"
	BugReportLine = "** Report bugs and feature requests as issues at https://github.com/dicengine/dice"
)

// Lines returns the banner content lines in their fixed order, without the
// surrounding blank lines.
func Lines(d buildinfo.Descriptor) []string {
	distributed := "disabled"
	if d.Distributed {
		distributed = "enabled"
	}

	return []string{
		ProductLine,
		"** git: " + d.Revision,
		"** distributed: " + distributed,
		"** Data type: " + d.Working.String(),
		"** Storage type: " + d.Storage.String(),
		CopyrightLine,
		BugReportLine,
	}
}

// Write emits the banner to w, framed by one blank line on each side.
// Write errors are ignored: the banner is best-effort diagnostic output.
func Write(w io.Writer, d buildinfo.Descriptor) {
	_, _ = fmt.Fprintln(w)
	for _, line := range Lines(d) {
		_, _ = fmt.Fprintln(w, line)
	}
	_, _ = fmt.Fprintln(w)
}

// Print writes the banner for the running binary to standard output.
func Print() {
	Write(os.Stdout, buildinfo.Current())
}
