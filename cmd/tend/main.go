package main

import (
	"os"

	"github.com/abelbrown/tend/internal/cli"
)

func main() {
	if err := cli.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
