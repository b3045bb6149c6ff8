package probe

import (
	"io"
	"os"

	"github.com/okian/scout/pkg/logger"
)

// SetupLogging initializes the global logger for the probe.
func SetupLogging(format string, verbose bool) error {
	level := "info"
	if verbose {
		level = "debug"
	}
	return logger.Init(logger.WithWriter(os.Stderr), logger.WithFormat(format), logger.WithLevel(level))
}

// ShowHelp prints usage information for the probe.
func ShowHelp(w io.Writer) {
	_, _ = io.WriteString(w, `Scout Probe
===========

Builds quadrant views on a running scout server and checks that normalized
axes stay within [0,100], totals match the series, highlights come first
and every point sits in the quadrant its pair thresholds imply.

Usage:
  scout-probe [options]

Options:
  -url string        Base URL of the service (default "http://localhost:9080")
  -pairs string      Comma separated pair ids (default: every listed pair)
  -min float         Minimum minutes played (default 0)
  -highlight string  Entity id to highlight
  -workers int       Concurrent view requests (default CPU cores)
  -timeout duration  HTTP request timeout (default 30s)
  -output string     Write fetched views to this JSON file
  -log-format string text or json (default "text")
  -verbose           Log every violation
  -help              Show this help message

Exit status is 1 when a view breaks an invariant or the service is down.
`)
}
