// Package cliutil provides output helpers for contractctl.
package cliutil

import (
	"fmt"
	"io"
	"os"
)

// Writef formats to w. A failed write is reported on stderr.
func Writef(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "contractctl: write failed: %v\n", err)
	}
}
