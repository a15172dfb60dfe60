package main

import (
	"fmt"
	"os"

	"github.com/vsinha/prosim/pkg/interfaces/cli/commands"
)

func main() {
	if err := commands.BuildCLI().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
