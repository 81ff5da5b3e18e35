// chaosd CLI - fault injection and chaos scenarios for a local cloud emulator
package main

import (
	"github.com/getchaosd/chaosd/pkg/cli"
)

// Build-time variables set via ldflags
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

func main() {
	if Version != "dev" {
		cli.Version = Version
	}
	if Commit != "unknown" {
		cli.Commit = Commit
	}
	if BuildDate != "unknown" {
		cli.BuildDate = BuildDate
	}
	cli.Execute()
}
