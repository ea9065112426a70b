package cmd

import (
	"fmt"

	"github.com/smira/commander"
	"github.com/smira/flag"
)

func aptitudeVersion(cmd *commander.Command, args []string) error {
	fmt.Printf("aptitude-search version: %s\n", Version)
	return nil
}

func makeCmdVersion() *commander.Command {
	return &commander.Command{
		Run:       aptitudeVersion,
		UsageLine: "version",
		Short:     "display version",
		Long: `
Shows version of the tool.

Example:

  $ aptitude-search version
`,
		Flag: *flag.NewFlagSet("aptitude-version", flag.ExitOnError),
	}
}
