package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/smira/flag"

	"github.com/UgoL76/aptitude/cache"
	"github.com/UgoL76/aptitude/database"
	"github.com/UgoL76/aptitude/utils"
)

var context struct {
	flags      *flag.FlagSet
	database   database.Storage
	collection *cache.Collection
}

// InitContext initializes context with default settings
func InitContext(flags *flag.FlagSet) error {
	var err error

	context.flags = flags

	configLocations := []string{
		filepath.Join(os.Getenv("HOME"), ".aptitude.conf"),
		"/etc/aptitude.conf",
	}

	if context.flags.Lookup("config").Value.String() != "" {
		err = utils.LoadConfig(context.flags.Lookup("config").Value.String(), &utils.Config)
		if err != nil {
			return fmt.Errorf("error loading config file %s: %s", context.flags.Lookup("config").Value.String(), err)
		}
	} else {
		for _, configLocation := range configLocations {
			err = utils.LoadConfig(configLocation, &utils.Config)
			if err == nil {
				break
			}
			if !os.IsNotExist(err) {
				return fmt.Errorf("error loading config file %s: %s", configLocation, err)
			}
		}
	}

	if context.flags.Lookup("dep-follow-recommends").Value.Get().(bool) {
		utils.Config.DepFollowRecommends = true
	}

	if utils.Config.LogFormat == "json" {
		utils.SetupJSONLogger(utils.Config.LogLevel, os.Stderr)
	} else {
		utils.SetupDefaultLogger(utils.Config.LogLevel)
	}

	if err = os.MkdirAll(utils.Config.GetRootDir(), 0755); err != nil {
		return fmt.Errorf("can't create root directory %s: %s", utils.Config.GetRootDir(), err)
	}

	context.database, err = database.OpenDB(utils.Config.DatabasePath())
	if err != nil {
		return fmt.Errorf("can't open database: %s", err)
	}

	context.collection = cache.NewCollection(context.database)

	return nil
}

// ShutdownContext shuts context down
func ShutdownContext() {
	if context.database != nil {
		_ = context.database.Close()
	}
}
