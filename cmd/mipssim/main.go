// mipssim disassembles a binary MIPS-subset program and simulates it.
package main

import (
	"errors"
	"os"

	"github.com/colorfulnotion/mipssim/mips/interpreter"
	"github.com/colorfulnotion/mipssim/mips/program"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

const (
	exitFailure   = 1
	exitDecode    = 2
	exitExecution = 3
)

func exitCode(err error) int {
	var decodeErr *program.DecodeError
	var execErr *interpreter.ExecError
	switch {
	case errors.As(err, &decodeErr):
		return exitDecode
	case errors.As(err, &execErr):
		return exitExecution
	default:
		return exitFailure
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}
