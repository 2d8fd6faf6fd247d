package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
)

// Exit codes used by the command entry points.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

var (
	exit             = os.Exit
	stderr io.Writer = os.Stderr
)

// Exitf writes a formatted message to stderr and exits with ExitFailure.
func Exitf(format string, args ...any) {
	fmt.Fprintf(stderr, format+"\n", args...)
	exit(ExitFailure)
}

// ExitOnParseError ends the process when flag or env parsing failed. A help
// request exits cleanly since the flag package already printed usage.
func ExitOnParseError(err error) {
	if err == nil {
		return
	}
	if !errors.Is(err, flag.ErrHelp) {
		fmt.Fprintf(stderr, "parse flags: %v\n", err)
	}
	exit(ParseExitCode(err))
}

// ParseExitCode maps a parse error to the process exit code.
func ParseExitCode(err error) int {
	switch {
	case err == nil, errors.Is(err, flag.ErrHelp):
		return ExitOK
	default:
		return ExitUsage
	}
}
