package main

import (
	"os"

	"lead-router/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = ""

func main() {
	if err := cli.NewRootCmd(version).Execute(); err != nil {
		os.Exit(1)
	}
}
