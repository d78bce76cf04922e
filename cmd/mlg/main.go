package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mathlingua/mlg/cmd"
)

func main() {
	os.Exit(exitCode(cmd.Execute(), os.Stderr))
}

// exitCode maps the error returned by the command tree to a process exit
// code. ErrIssuesFound has already been reported by the command.
func exitCode(err error, stderr io.Writer) int {
	if err == nil {
		return 0
	}
	if !errors.Is(err, cmd.ErrIssuesFound) {
		fmt.Fprintf(stderr, "error: %v\n", err)
	}
	return 1
}
