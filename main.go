package main

import (
	"fmt"
	"os"

	"github.com/dkarpov/plank/internal/cli"
	"github.com/dkarpov/plank/internal/logging"
)

func main() {
	if err := logging.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logging: %v\n", err)
		os.Exit(cli.ExitError)
	}

	if err := cli.Execute(); err != nil {
		os.Exit(cli.ExitError)
	}
}
