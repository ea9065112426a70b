package cmd

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/smira/commander"
	"github.com/smira/flag"
	"github.com/wsxiaoys/terminal/color"

	"github.com/UgoL76/aptitude/cache"
	"github.com/UgoL76/aptitude/matching"
	"github.com/UgoL76/aptitude/utils"
)

func loadCache() (*cache.Cache, error) {
	return context.collection.Load(cache.Policy{
		FollowRecommends: utils.Config.DepFollowRecommends,
	})
}

// stateLetter is the first column of search output, dpkg-style
func stateLetter(p *cache.Package) byte {
	switch {
	case p.IsVirtual():
		return 'v'
	case p.Current != nil:
		return 'i'
	case p.ConfigFiles:
		return 'c'
	}
	return 'p'
}

// actionLetter is the second column, the pending action
func actionLetter(action cache.Action) byte {
	switch action {
	case cache.ActionBroken:
		return 'B'
	case cache.ActionInstall, cache.ActionAutoInstall:
		return 'i'
	case cache.ActionRemove, cache.ActionAutoRemove, cache.ActionUnusedRemove:
		return 'd'
	case cache.ActionUpgrade, cache.ActionDowngrade:
		return 'u'
	case cache.ActionReinstall:
		return 'r'
	case cache.ActionHold, cache.ActionAutoHold:
		return 'h'
	}
	return ' '
}

func shortDescription(cc *cache.Cache, p *cache.Package) string {
	ver := p.State.Candidate
	if ver == nil && len(p.Versions) > 0 {
		ver = p.Versions[0]
	}
	if ver == nil || len(ver.Files) == 0 {
		return ""
	}
	return cc.Records.Get(ver.Files[0].Record).ShortDescription
}

func aptitudeSearch(cmd *commander.Command, args []string) error {
	if len(args) != 1 {
		cmd.Usage()
		return commander.ErrCommandError
	}

	cc, err := loadCache()
	if err != nil {
		return fmt.Errorf("unable to search: %s", err)
	}

	searchDescriptions := utils.Config.SearchDescriptions
	if cmd.Flag.Lookup("search-descriptions").Value.Get().(bool) {
		searchDescriptions = true
	}

	matcher, err := matching.Parse(args[0], matching.Options{
		Cache:              cc,
		SearchDescriptions: searchDescriptions,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to compile search pattern")
		return commander.ErrCommandError
	}
	if matcher == nil {
		cmd.Usage()
		return commander.ErrCommandError
	}

	showGroups := cmd.Flag.Lookup("show-groups").Value.Get().(bool)

	found := 0
	for _, p := range cc.Packages() {
		stack := matching.Stack{}
		result := matching.MatchPackage(matcher, p, cc, &stack)
		if result == nil {
			continue
		}
		found++

		color.Printf("%c%c  @g%s@| - %s\n", stateLetter(p), actionLetter(cc.FindAction(p)), p.Name, shortDescription(cc, p))

		if showGroups {
			for i, group := range matching.Groups(result) {
				fmt.Printf("      %d. %s\n", i+1, group)
			}
		}
	}

	if found == 0 {
		return fmt.Errorf("no results")
	}

	return nil
}

func makeCmdSearch() *commander.Command {
	cmd := &commander.Command{
		Run:       aptitudeSearch,
		UsageLine: "search <pattern>",
		Short:     "search packages matching a pattern",
		Long: `
Command search lists packages matching the search pattern, one per line
with the package state, pending action and short description.

Example:

  $ aptitude-search search '?and(?installed, ?depends(libc6))'
`,
		Flag: *flag.NewFlagSet("aptitude-search-search", flag.ExitOnError),
	}

	cmd.Flag.Bool("search-descriptions", false, "match bare strings against descriptions as well as names")
	cmd.Flag.Bool("show-groups", false, "print the match groups for each result")

	return cmd
}
