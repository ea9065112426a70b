package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/smira/commander"
	"github.com/smira/flag"

	"github.com/UgoL76/aptitude/cache"
	"github.com/UgoL76/aptitude/deb"
	"github.com/UgoL76/aptitude/matching"
	"github.com/UgoL76/aptitude/utils"
)

func packageStateName(p *cache.Package) string {
	switch {
	case p.IsVirtual():
		return "virtual"
	case p.Current != nil:
		return "installed"
	case p.ConfigFiles:
		return "config-files"
	}
	return "not installed"
}

func depFieldValue(ver *cache.Version, depType cache.DepType) string {
	var groups []string
	for _, group := range ver.Depends {
		if group.Type != depType {
			continue
		}
		alternatives := make([]string, len(group.Alternatives))
		for i, edge := range group.Alternatives {
			alternatives[i] = edge.String()
		}
		groups = append(groups, strings.Join(alternatives, " | "))
	}
	return strings.Join(groups, ", ")
}

// descriptionValue rebuilds the Description control value from the
// record: the one-line summary first, blank lines as dots.
func descriptionValue(rec cache.Record) string {
	var b strings.Builder
	b.WriteString(" " + rec.ShortDescription + "\n")
	if rec.LongDescription != "" {
		for _, line := range strings.Split(rec.LongDescription, "\n") {
			if line == "" {
				line = "."
			}
			b.WriteString(" " + line + "\n")
		}
	}
	return b.String()
}

// versionStanza renders one version of a package back into control
// file form for display.
func versionStanza(cc *cache.Cache, p *cache.Package, ver *cache.Version) deb.Stanza {
	stanza := deb.Stanza{
		"Package":  p.Name,
		"State":    packageStateName(p),
		"Version":  ver.Version,
		"Priority": cc.PriorityName(ver.Priority),
	}
	if p.Essential {
		stanza["Essential"] = "yes"
	}
	if ver.Section != "" {
		stanza["Section"] = ver.Section
	}

	var rec cache.Record
	if len(ver.Files) > 0 {
		rec = cc.Records.Get(ver.Files[0].Record)
	}
	if rec.Maintainer != "" {
		stanza["Maintainer"] = rec.Maintainer
	}
	if rec.SourcePackage != "" {
		source := rec.SourcePackage
		if rec.SourceVersion != "" {
			source += " (" + rec.SourceVersion + ")"
		}
		stanza["Source"] = source
	}

	if len(ver.Provides) > 0 {
		names := make([]string, len(ver.Provides))
		for i, pr := range ver.Provides {
			names[i] = pr.Target.Name
		}
		stanza["Provides"] = strings.Join(names, ", ")
	}

	for depType := cache.DepTypeDepends; depType <= cache.DepTypeReplaces; depType++ {
		if value := depFieldValue(ver, depType); value != "" {
			stanza[depType.Field()] = value
		}
	}

	if rec.ShortDescription != "" {
		stanza["Description"] = descriptionValue(rec)
	}

	return stanza
}

func virtualStanza(p *cache.Package) deb.Stanza {
	stanza := deb.Stanza{
		"Package": p.Name,
		"State":   "virtual",
	}

	if len(p.ProvidedBy) > 0 {
		names := []string{}
		for _, pr := range p.ProvidedBy {
			names = appendUniqueName(names, pr.Owner.Package.Name)
		}
		stanza["Provided-By"] = strings.Join(names, ", ")
	}

	return stanza
}

func appendUniqueName(names []string, name string) []string {
	for _, n := range names {
		if n == name {
			return names
		}
	}
	return append(names, name)
}

func printStanza(w *bufio.Writer, stanza deb.Stanza) error {
	if err := stanza.WriteTo(w); err != nil {
		return err
	}
	return w.WriteByte('\n')
}

func aptitudeShow(cmd *commander.Command, args []string) error {
	if len(args) != 1 {
		cmd.Usage()
		return commander.ErrCommandError
	}

	cc, err := loadCache()
	if err != nil {
		return fmt.Errorf("unable to show: %s", err)
	}

	matcher, err := matching.Parse(args[0], matching.Options{
		Cache:              cc,
		SearchDescriptions: utils.Config.SearchDescriptions,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to compile search pattern")
		return commander.ErrCommandError
	}
	if matcher == nil {
		cmd.Usage()
		return commander.ErrCommandError
	}

	allVersions := cmd.Flag.Lookup("all-versions").Value.Get().(bool)

	w := bufio.NewWriter(os.Stdout)

	found := 0
	for _, p := range cc.Packages() {
		stack := matching.Stack{}
		if !matching.MatchesPackage(matcher, p, cc, &stack) {
			continue
		}
		found++

		if p.IsVirtual() {
			if err := printStanza(w, virtualStanza(p)); err != nil {
				return err
			}
			continue
		}

		if allVersions {
			for _, ver := range p.Versions {
				if err := printStanza(w, versionStanza(cc, p, ver)); err != nil {
					return err
				}
			}
			continue
		}

		ver := p.State.Candidate
		if ver == nil {
			ver = p.Versions[0]
		}
		if err := printStanza(w, versionStanza(cc, p, ver)); err != nil {
			return err
		}
	}

	if err := w.Flush(); err != nil {
		return err
	}

	if found == 0 {
		return fmt.Errorf("no results")
	}

	return nil
}

func makeCmdShow() *commander.Command {
	cmd := &commander.Command{
		Run:       aptitudeShow,
		UsageLine: "show <pattern>",
		Short:     "show detailed information about matching packages",
		Long: `
Command show displays the full record of every package matching the
search pattern: state, versions, dependencies, provides and the long
description.

Example:

  $ aptitude-search show xterm
`,
		Flag: *flag.NewFlagSet("aptitude-show", flag.ExitOnError),
	}

	cmd.Flag.Bool("all-versions", false, "display every known version, not just the candidate")

	return cmd
}
