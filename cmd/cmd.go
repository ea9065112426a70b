// Package cmd implements console commands
package cmd

import (
	"os"

	"github.com/smira/commander"
	"github.com/smira/flag"
)

// Version of the tool, overridden at link time
var Version = "unknown"

// RootCommand creates root command in command tree
func RootCommand() *commander.Command {
	cmd := &commander.Command{
		UsageLine: os.Args[0],
		Short:     "Debian package search tool",
		Long: `
aptitude-search indexes Debian package lists along with the dpkg status
file and answers search patterns over them.

Patterns are boolean combinations of matchers on package name,
description, dependencies, state and more, with the familiar ?name(...)
and ~ shortcut syntax. Run 'update' first to import the package lists
configured in the config file, then 'search' or 'show' to query them.`,
		Flag: *flag.NewFlagSet("aptitude-search", flag.ExitOnError),
		Subcommands: []*commander.Command{
			makeCmdUpdate(),
			makeCmdSearch(),
			makeCmdShow(),
			makeCmdVersion(),
		},
	}

	cmd.Flag.Bool("dep-follow-recommends", false, "when computing broken packages, treat Recommends as mandatory")
	cmd.Flag.String("config", "", "location of configuration file (default locations are ~/.aptitude.conf, /etc/aptitude.conf)")

	return cmd
}
