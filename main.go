package main

import (
	"os"

	"github.com/UgoL76/aptitude/cmd"
)

// Version variable, filled in at link time
var Version string

func main() {
	if Version != "" {
		cmd.Version = Version
	}

	os.Exit(cmd.Run(cmd.RootCommand(), os.Args[1:], true))
}
