package main

import (
	"fmt"
	"os"

	"github.com/temirov/arduino-ci/cmd/cli"
)

const failureExitCodeConstant = 1

// main runs arduino-ci and exits non-zero when any command reports a failure.
func main() {
	executionError := cli.Execute()
	if executionError == nil {
		return
	}
	fmt.Fprintln(os.Stderr, executionError)
	os.Exit(failureExitCodeConstant)
}
