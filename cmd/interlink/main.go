// Package main provides the interlink binary entry point.
package main

import (
	"context"
	"os"

	"github.com/custodia-labs/interlink/internal/adapters/driving/cli"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

func main() {
	cli.SetVersion(Version)
	if err := cli.Execute(context.Background()); err != nil {
		os.Exit(1)
	}
}
