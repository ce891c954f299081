// Package main provides cstools, the client-success CLI: CSV mapping
// sync against the master solution capabilities file, sync run history,
// and evidence file tooling.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/paramify/client-success/internal/history"
	"github.com/paramify/client-success/pkg/mapping"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

// exitCode classifies an error. Problems with the invocation or its
// input — missing or unreadable files, a column the CSV does not have,
// an unknown run ID — exit 1; everything else exits 2.
func exitCode(err error) int {
	switch {
	case errors.Is(err, mapping.ErrColumnNotFound),
		errors.Is(err, history.ErrRunNotFound),
		errors.Is(err, fs.ErrNotExist),
		errors.Is(err, fs.ErrPermission):
		return exitUserError
	}
	return exitSysError
}
