// Package cache builds the queryable package graph: packages, versions,
// dependency edges, provides edges and per-package install state, loaded
// from Packages indexes and the dpkg status file.
package cache

import (
	"io"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/UgoL76/aptitude/deb"
)

// DepType is a dependency relationship kind
type DepType int

// Dependency types
const (
	DepTypeDepends DepType = iota
	DepTypePreDepends
	DepTypeRecommends
	DepTypeSuggests
	DepTypeConflicts
	DepTypeBreaks
	DepTypeReplaces
)

var depTypeLabels = [...]string{
	"Depends",
	"PreDepends",
	"Recommends",
	"Suggests",
	"Conflicts",
	"Breaks",
	"Replaces",
}

var depTypeFields = [...]string{
	"Depends",
	"Pre-Depends",
	"Recommends",
	"Suggests",
	"Conflicts",
	"Breaks",
	"Replaces",
}

// Label gives display name of the dependency type
func (t DepType) Label() string {
	return depTypeLabels[t]
}

// Field gives the control file field name of the dependency type
func (t DepType) Field() string {
	return depTypeFields[t]
}

// DepTypeByName resolves a dependency type name, case-insensitively
func DepTypeByName(name string) (DepType, bool) {
	switch strings.ToLower(name) {
	case "depends":
		return DepTypeDepends, true
	case "predepends", "pre-depends":
		return DepTypePreDepends, true
	case "recommends":
		return DepTypeRecommends, true
	case "suggests":
		return DepTypeSuggests, true
	case "conflicts":
		return DepTypeConflicts, true
	case "breaks":
		return DepTypeBreaks, true
	case "replaces":
		return DepTypeReplaces, true
	}
	return 0, false
}

func (t DepType) conflictLike() bool {
	return t == DepTypeConflicts || t == DepTypeBreaks
}

// Package is a node of the package graph. A package with no versions is
// virtual: it exists only as a dependency or provides target.
type Package struct {
	Name string

	// Versions, newest first after Finalize
	Versions []*Version

	// Current is the installed version, nil if not installed
	Current *Version

	// RevDepends are dependency edges pointing at this package
	RevDepends []*DepEdge

	// ProvidedBy are provides edges pointing at this package
	ProvidedBy []*Provides

	Essential   bool
	ConfigFiles bool

	Tasks []string
	Tags  []string

	State State
}

// IsVirtual tells whether the package has no real versions
func (p *Package) IsVirtual() bool {
	return len(p.Versions) == 0
}

// FindVersion looks up a version of the package by version string
func (p *Package) FindVersion(version string) *Version {
	for _, v := range p.Versions {
		if v.Version == version {
			return v
		}
	}
	return nil
}

// Version is one version of a package
type Version struct {
	Package *Package

	Version  string
	Priority Priority
	Section  string

	// Downloadable is set when the version appears in some index, as
	// opposed to being known only from the dpkg status file
	Downloadable bool

	// Depends holds all forward dependency groups, any type
	Depends []*DepGroup

	Provides []*Provides

	Files []VersionFile
}

// VersionFile records where a version was seen and which record belongs
// to that placement. Status-file versions carry the "now" archive.
type VersionFile struct {
	Origin    string
	Archive   string
	Component string
	Record    int
}

// DepGroup is an or-group of dependency alternatives of one type.
// Satisfied reflects the planned target state of the cache and is
// recomputed by Refresh.
type DepGroup struct {
	Type         DepType
	Parent       *Version
	Alternatives []*DepEdge
	Satisfied    bool
}

// DepEdge is a single dependency alternative
type DepEdge struct {
	Group    *DepGroup
	Target   *Package
	Relation int
	Version  string
}

// String formats the edge the way it appears in a control file
func (e *DepEdge) String() string {
	if e.Relation == deb.VersionDontCare {
		return e.Target.Name
	}
	return e.Target.Name + " (" + deb.RelationString(e.Relation) + " " + e.Version + ")"
}

// Provides links a providing version to the virtual name it provides
type Provides struct {
	Owner  *Version
	Target *Package
}

// Policy holds the dependency-handling knobs
type Policy struct {
	// FollowRecommends makes unsatisfied Recommends count as broken
	FollowRecommends bool
}

// Cache is the package graph plus its lookup-side stores
type Cache struct {
	packages map[string]*Package

	Records *Records
	Policy  Policy

	userTags     []string
	userTagIndex map[string]UserTag
}

// New creates an empty cache
func New() *Cache {
	return &Cache{
		packages:     make(map[string]*Package),
		Records:      &Records{},
		userTagIndex: make(map[string]UserTag),
	}
}

// Package looks up a package by name, nil when absent
func (c *Cache) Package(name string) *Package {
	return c.packages[name]
}

// Packages returns all packages sorted by name
func (c *Cache) Packages() []*Package {
	result := make([]*Package, 0, len(c.packages))
	for _, p := range c.packages {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

func (c *Cache) getOrCreate(name string) *Package {
	if p, ok := c.packages[name]; ok {
		return p
	}
	p := &Package{Name: name}
	c.packages[name] = p
	return p
}

// LoadIndex reads a Packages index, attributing versions to the given
// origin/archive/component placement.
func (c *Cache) LoadIndex(r io.Reader, origin, archive, component string) error {
	reader := deb.NewControlFileReader(r)
	for {
		stanza, err := reader.ReadStanza()
		if err != nil {
			return errors.Wrap(err, "reading index")
		}
		if stanza == nil {
			return nil
		}
		if err = c.addIndexStanza(stanza, origin, archive, component); err != nil {
			return err
		}
	}
}

// LoadStatus reads a dpkg status file, populating installed versions,
// selections and the config-files state.
func (c *Cache) LoadStatus(r io.Reader) error {
	reader := deb.NewControlFileReader(r)
	for {
		stanza, err := reader.ReadStanza()
		if err != nil {
			return errors.Wrap(err, "reading status file")
		}
		if stanza == nil {
			return nil
		}
		if err = c.addStatusStanza(stanza); err != nil {
			return err
		}
	}
}

func (c *Cache) addIndexStanza(stanza deb.Stanza, origin, archive, component string) error {
	name := stanza["Package"]
	if name == "" {
		return errors.New("stanza missing Package field")
	}

	p := c.getOrCreate(name)

	v, err := c.mergeVersion(p, stanza, true)
	if err != nil {
		return err
	}

	v.Files = append(v.Files, VersionFile{
		Origin:    origin,
		Archive:   archive,
		Component: component,
		Record:    c.addRecord(stanza),
	})

	return nil
}

func (c *Cache) addStatusStanza(stanza deb.Stanza) error {
	name := stanza["Package"]
	if name == "" {
		return errors.New("stanza missing Package field")
	}

	want, status := parseStatusField(stanza["Status"])

	p := c.getOrCreate(name)
	p.State.Selection = parseSelection(want)

	for _, tag := range splitList(stanza["User-Tags"]) {
		p.State.UserTags = append(p.State.UserTags, c.InternUserTag(tag))
	}

	if status == "config-files" {
		p.ConfigFiles = true
		return nil
	}
	if status == "not-installed" || stanza["Version"] == "" {
		return nil
	}

	v, err := c.mergeVersion(p, stanza, false)
	if err != nil {
		return err
	}

	if len(v.Files) == 0 {
		v.Files = append(v.Files, VersionFile{
			Archive: "now",
			Record:  c.addRecord(stanza),
		})
	}

	if status == "installed" {
		p.Current = v
	}

	return nil
}

// mergeVersion finds or creates the version described by stanza. The
// dependency and provides fields are parsed only when the version is
// first seen; a later stanza for the same version contributes its file
// placement only.
func (c *Cache) mergeVersion(p *Package, stanza deb.Stanza, downloadable bool) (*Version, error) {
	verStr := stanza["Version"]
	if verStr == "" {
		return nil, errors.Errorf("package %s: stanza missing Version field", p.Name)
	}

	if stanza["Essential"] == "yes" {
		p.Essential = true
	}
	appendUnique(&p.Tasks, splitList(stanza["Task"]))
	appendUnique(&p.Tags, splitList(stanza["Tag"]))

	v := p.FindVersion(verStr)
	if v != nil {
		if downloadable {
			v.Downloadable = true
		}
		return v, nil
	}

	v = &Version{
		Package:      p,
		Version:      verStr,
		Section:      stanza["Section"],
		Downloadable: downloadable,
	}
	if pr, ok := c.ParsePriority(strings.ToLower(stanza["Priority"])); ok {
		v.Priority = pr
	}
	p.Versions = append(p.Versions, v)

	for t := DepTypeDepends; t <= DepTypeReplaces; t++ {
		groups, err := deb.ParseDependencyList(stanza[depTypeFields[t]])
		if err != nil {
			return nil, errors.Wrapf(err, "package %s %s: %s", p.Name, verStr, depTypeFields[t])
		}

		for _, alternatives := range groups {
			g := &DepGroup{Type: t, Parent: v}
			for _, d := range alternatives {
				target := c.getOrCreate(d.Pkg)
				e := &DepEdge{Group: g, Target: target, Relation: d.Relation, Version: d.Version}
				g.Alternatives = append(g.Alternatives, e)
				target.RevDepends = append(target.RevDepends, e)
			}
			v.Depends = append(v.Depends, g)
		}
	}

	providesGroups, err := deb.ParseDependencyList(stanza["Provides"])
	if err != nil {
		return nil, errors.Wrapf(err, "package %s %s: Provides", p.Name, verStr)
	}
	for _, alternatives := range providesGroups {
		for _, d := range alternatives {
			target := c.getOrCreate(d.Pkg)
			pr := &Provides{Owner: v, Target: target}
			v.Provides = append(v.Provides, pr)
			target.ProvidedBy = append(target.ProvidedBy, pr)
		}
	}

	return v, nil
}

func (c *Cache) addRecord(stanza deb.Stanza) int {
	short, long := parseDescription(stanza["Description"])
	srcPkg, srcVer := parseSource(stanza["Source"])

	return c.Records.add(Record{
		Maintainer:       stanza["Maintainer"],
		ShortDescription: short,
		LongDescription:  long,
		SourcePackage:    srcPkg,
		SourceVersion:    srcVer,
	})
}

// Finalize orders versions, picks candidates and seeds the planned state
// with "no pending changes". Call once after all loads.
func (c *Cache) Finalize() {
	for _, p := range c.packages {
		sort.SliceStable(p.Versions, func(i, j int) bool {
			return deb.CompareVersions(p.Versions[i].Version, p.Versions[j].Version) > 0
		})

		var candidate *Version
		for _, v := range p.Versions {
			if v.Downloadable {
				candidate = v
				break
			}
		}
		if candidate == nil && len(p.Versions) > 0 {
			candidate = p.Versions[0]
		}
		p.State.Candidate = candidate
		p.State.Target = p.Current
	}

	c.Refresh()
}

// Refresh recomputes dependency satisfaction and broken flags against
// the planned target state. Call after mutating any package's State.
func (c *Cache) Refresh() {
	for _, p := range c.packages {
		for _, v := range p.Versions {
			for _, g := range v.Depends {
				g.Satisfied = c.groupSatisfied(g)
			}
		}
	}

	for _, p := range c.packages {
		p.State.Broken = p.State.Target != nil && c.versionBroken(p.State.Target)
	}
}

func (c *Cache) groupSatisfied(g *DepGroup) bool {
	if g.Type.conflictLike() {
		for _, e := range g.Alternatives {
			if e.Target == g.Parent.Package {
				// self-conflict never applies
				continue
			}
			tv := e.Target.State.Target
			if tv != nil && deb.CheckDep(tv.Version, e.Relation, e.Version) {
				return false
			}
		}
		return true
	}

	for _, e := range g.Alternatives {
		tv := e.Target.State.Target
		if tv != nil && deb.CheckDep(tv.Version, e.Relation, e.Version) {
			return true
		}
		if e.Relation == deb.VersionDontCare {
			for _, pr := range e.Target.ProvidedBy {
				if pr.Owner.Package.State.Target == pr.Owner {
					return true
				}
			}
		}
	}
	return false
}

func (c *Cache) versionBroken(v *Version) bool {
	for _, g := range v.Depends {
		if !g.Satisfied && c.depImportant(g.Type) {
			return true
		}
	}
	return false
}

func (c *Cache) depImportant(t DepType) bool {
	switch t {
	case DepTypeDepends, DepTypePreDepends, DepTypeConflicts, DepTypeBreaks:
		return true
	case DepTypeRecommends:
		return c.Policy.FollowRecommends
	}
	return false
}

func parseStatusField(value string) (want, status string) {
	fields := strings.Fields(value)
	if len(fields) > 0 {
		want = fields[0]
	}
	if len(fields) > 2 {
		status = fields[2]
	}
	return
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	var result []string
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			result = append(result, item)
		}
	}
	return result
}

func appendUnique(list *[]string, items []string) {
	for _, item := range items {
		found := false
		for _, existing := range *list {
			if existing == item {
				found = true
				break
			}
		}
		if !found {
			*list = append(*list, item)
		}
	}
}
