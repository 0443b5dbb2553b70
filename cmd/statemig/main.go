// Command statemig loads block-state upgrade schemas and migrates stored
// block states to the latest version.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/statemig/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
