package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/smira/commander"
	"github.com/smira/flag"

	"github.com/UgoL76/aptitude/cache"
	"github.com/UgoL76/aptitude/deb"
	"github.com/UgoL76/aptitude/utils"
)

func importControlFile(path string, handler func(deb.Stanza) error) (count int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = f.Close()
	}()

	reader := deb.NewControlFileReader(f)
	for {
		stanza, err := reader.ReadStanza()
		if err != nil {
			return count, err
		}
		if stanza == nil {
			return count, nil
		}

		if err = handler(stanza); err != nil {
			return count, err
		}
		count++
	}
}

func aptitudeUpdate(cmd *commander.Command, args []string) error {
	if len(args) != 0 {
		cmd.Usage()
		return commander.ErrCommandError
	}

	statusFile := utils.Config.StatusFile
	if cmd.Flag.Lookup("status").Value.String() != "" {
		statusFile = cmd.Flag.Lookup("status").Value.String()
	}

	err := context.collection.Drop()
	if err != nil {
		return fmt.Errorf("unable to update: %s", err)
	}

	context.database.StartBatch()

	total := 0

	for _, index := range utils.Config.Indexes {
		log.Debug().Str("path", index.Path).Msg("importing package index")

		count, err := importControlFile(index.Path, func(stanza deb.Stanza) error {
			return context.collection.Update(&cache.StoredStanza{
				Stanza:    stanza,
				Origin:    index.Origin,
				Archive:   index.Archive,
				Component: index.Component,
			})
		})
		if err != nil {
			return fmt.Errorf("unable to import index %s: %s", index.Path, err)
		}

		fmt.Printf("Imported %d packages from %s (%s/%s)\n", count, index.Path, index.Origin, index.Archive)
		total += count
	}

	log.Debug().Str("path", statusFile).Msg("importing status file")

	count, err := importControlFile(statusFile, func(stanza deb.Stanza) error {
		return context.collection.Update(&cache.StoredStanza{
			Stanza:     stanza,
			FromStatus: true,
		})
	})
	if err != nil {
		return fmt.Errorf("unable to import status file %s: %s", statusFile, err)
	}

	fmt.Printf("Imported %d status entries from %s\n", count, statusFile)
	total += count

	err = context.database.FinishBatch()
	if err != nil {
		return fmt.Errorf("unable to update: %s", err)
	}

	fmt.Printf("\nUpdate complete, %d stanzas stored.\n", total)
	return nil
}

func makeCmdUpdate() *commander.Command {
	cmd := &commander.Command{
		Run:       aptitudeUpdate,
		UsageLine: "update",
		Short:     "import package indexes and the dpkg status file",
		Long: `
Command update drops the stored package stanzas and re-imports every
package index listed in the config file together with the dpkg status
file. Search and show commands operate on the imported data.

Example:

  $ aptitude-search update
`,
		Flag: *flag.NewFlagSet("aptitude-update", flag.ExitOnError),
	}

	cmd.Flag.String("status", "", "override status file location")

	return cmd
}
