package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/DisposaBoy/JsonConfigReader"
	yaml "gopkg.in/yaml.v3"
)

// IndexSource is one Packages index to load, with the placement labels
// attributed to the versions found in it
type IndexSource struct {
	Path      string `json:"path"       yaml:"path"`
	Origin    string `json:"origin"     yaml:"origin"`
	Archive   string `json:"archive"    yaml:"archive"`
	Component string `json:"component"  yaml:"component"`
}

// ConfigStructure is structure of main configuration
type ConfigStructure struct {
	RootDir   string `json:"rootDir"    yaml:"root_dir"`
	LogLevel  string `json:"logLevel"   yaml:"log_level"`
	LogFormat string `json:"logFormat"  yaml:"log_format"`

	StatusFile string        `json:"statusFile"  yaml:"status_file"`
	Indexes    []IndexSource `json:"indexes"     yaml:"indexes"`

	// Dependency following
	DepFollowRecommends bool `json:"dependencyFollowRecommends"  yaml:"dep_follow_recommends"`

	// Search
	SearchDescriptions bool `json:"searchDescriptions"  yaml:"search_descriptions"`
}

// Config is configuration, shared by all modules
var Config = ConfigStructure{
	RootDir:             filepath.Join(os.Getenv("HOME"), ".aptitude"),
	LogLevel:            "info",
	LogFormat:           "default",
	StatusFile:          "/var/lib/dpkg/status",
	Indexes:             []IndexSource{},
	DepFollowRecommends: false,
	SearchDescriptions:  false,
}

// LoadConfig loads configuration from json (with comments) or yaml file
func LoadConfig(filename string, config *ConfigStructure) error {
	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	decJSON := json.NewDecoder(JsonConfigReader.New(f))
	if err = decJSON.Decode(&config); err != nil {
		_, _ = f.Seek(0, 0)
		decYAML := yaml.NewDecoder(f)
		if err2 := decYAML.Decode(&config); err2 != nil {
			err = fmt.Errorf("invalid yaml (%s) or json (%s)", err2, err)
		} else {
			err = nil
		}
	}
	return err
}

// SaveConfig write configuration to json file
func SaveConfig(filename string, config *ConfigStructure) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	encoded, err := json.MarshalIndent(&config, "", "  ")
	if err != nil {
		return err
	}

	_, err = f.Write(encoded)
	return err
}

// GetRootDir returns the RootDir with expanded ~ as home directory
func (conf *ConfigStructure) GetRootDir() string {
	return strings.Replace(conf.RootDir, "~", os.Getenv("HOME"), 1)
}

// DatabasePath is the directory of the package database
func (conf *ConfigStructure) DatabasePath() string {
	return filepath.Join(conf.GetRootDir(), "db")
}
