package main

import (
	"fmt"
	"os"

	"github.com/temirov/reposort/cmd/cli"
)

func main() {
	if runError := cli.Execute(); runError != nil {
		fmt.Fprintln(os.Stderr, runError)
		os.Exit(1)
	}
}
