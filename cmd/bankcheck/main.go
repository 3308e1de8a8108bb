// Command bankcheck replays ITF traces against the reference bank state
// machine.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/bankcheck/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
