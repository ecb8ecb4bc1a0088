// Package logging builds the logr logger shared by commands and the server.
package logging

import (
	"io"
	stdlog "log"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
)

// New returns a logger writing to w. Debug enables V(1) messages.
func New(w io.Writer, debug bool) logr.Logger {
	verbosity := 0
	if debug {
		verbosity = 1
	}
	stdr.SetVerbosity(verbosity)
	return stdr.New(stdlog.New(w, "gtodo ", stdlog.LstdFlags)).WithName("gtodo")
}
