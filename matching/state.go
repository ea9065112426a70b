package matching

import (
	"github.com/UgoL76/aptitude/cache"
	"github.com/UgoL76/aptitude/deb"
)

// stateMatcher is a predicate over the install state; on success the
// result is a single descriptive group.
type stateMatcher struct {
	label string
	test  func(pkg *cache.Package, ver *cache.Version, c *cache.Cache) bool
}

func (m stateMatcher) Matches(pkg *cache.Package, ver *cache.Version, c *cache.Cache, stack *Stack) bool {
	return m.test(pkg, ver, c)
}

func (m stateMatcher) Match(pkg *cache.Package, ver *cache.Version, c *cache.Cache, stack *Stack) Result {
	if !m.test(pkg, ver, c) {
		return nil
	}
	return UnitaryResult(m.label)
}

func newAutoMatcher() Matcher {
	return stateMatcher{label: "Automatically Installed", test: func(pkg *cache.Package, ver *cache.Version, c *cache.Cache) bool {
		return (pkg.Current != nil || pkg.State.Target != nil) && pkg.State.AutoInstalled
	}}
}

func newBrokenMatcher() Matcher {
	return stateMatcher{label: "Broken", test: func(pkg *cache.Package, ver *cache.Version, c *cache.Cache) bool {
		return ver != nil && pkg.State.Broken
	}}
}

func newVirtualMatcher() Matcher {
	return stateMatcher{label: "Virtual", test: func(pkg *cache.Package, ver *cache.Version, c *cache.Cache) bool {
		return ver == nil
	}}
}

func newInstalledMatcher() Matcher {
	return stateMatcher{label: "Installed", test: func(pkg *cache.Package, ver *cache.Version, c *cache.Cache) bool {
		return ver != nil && ver == pkg.Current
	}}
}

func newEssentialMatcher() Matcher {
	return stateMatcher{label: "Essential", test: func(pkg *cache.Package, ver *cache.Version, c *cache.Cache) bool {
		return pkg.Essential
	}}
}

func newConfigFilesMatcher() Matcher {
	return stateMatcher{label: "Config Files Remain", test: func(pkg *cache.Package, ver *cache.Version, c *cache.Cache) bool {
		return pkg.ConfigFiles
	}}
}

func newGarbageMatcher() Matcher {
	return stateMatcher{label: "Garbage", test: func(pkg *cache.Package, ver *cache.Version, c *cache.Cache) bool {
		return ver != nil && pkg.State.Garbage
	}}
}

func newNewMatcher() Matcher {
	return stateMatcher{label: "New Package", test: func(pkg *cache.Package, ver *cache.Version, c *cache.Cache) bool {
		return !pkg.IsVirtual() && pkg.State.NewPackage
	}}
}

func newUpgradableMatcher() Matcher {
	return stateMatcher{label: "Upgradable", test: func(pkg *cache.Package, ver *cache.Version, c *cache.Cache) bool {
		return pkg.Current != nil && pkg.State.Candidate != nil &&
			deb.CompareVersions(pkg.State.Candidate.Version, pkg.Current.Version) > 0
	}}
}

func newObsoleteMatcher() Matcher {
	return stateMatcher{label: "Obsolete", test: func(pkg *cache.Package, ver *cache.Version, c *cache.Cache) bool {
		if pkg.Current == nil {
			return false
		}
		for _, v := range pkg.Versions {
			if v.Downloadable {
				return false
			}
		}
		return true
	}}
}

func newKeepMatcher() Matcher {
	return stateMatcher{label: "Keep", test: func(pkg *cache.Package, ver *cache.Version, c *cache.Cache) bool {
		return pkg.Current != nil && pkg.State.Target == pkg.Current && !pkg.State.Reinstall
	}}
}

// trueMatcher matches everything and captures nothing
type trueMatcher struct{}

func (trueMatcher) Matches(pkg *cache.Package, ver *cache.Version, c *cache.Cache, stack *Stack) bool {
	return true
}

func (trueMatcher) Match(pkg *cache.Package, ver *cache.Version, c *cache.Cache, stack *Stack) Result {
	return EmptyResult()
}

// falseMatcher matches nothing
type falseMatcher struct{}

func (falseMatcher) Matches(pkg *cache.Package, ver *cache.Version, c *cache.Cache, stack *Stack) bool {
	return false
}

func (falseMatcher) Match(pkg *cache.Package, ver *cache.Version, c *cache.Cache, stack *Stack) Result {
	return nil
}

// priorityMatcher matches versions of the given priority class
type priorityMatcher struct {
	priority cache.Priority
}

func (m priorityMatcher) Matches(pkg *cache.Package, ver *cache.Version, c *cache.Cache, stack *Stack) bool {
	return ver != nil && ver.Priority == m.priority
}

func (m priorityMatcher) Match(pkg *cache.Package, ver *cache.Version, c *cache.Cache, stack *Stack) Result {
	if !m.Matches(pkg, ver, c, stack) {
		return nil
	}
	return UnitaryResult(c.PriorityName(m.priority))
}

// actionKind is the argument of the action matcher
type actionKind int

const (
	actionInstall actionKind = iota
	actionUpgrade
	actionDowngrade
	actionRemove
	actionReinstall
	actionHold
)

// actionMatcher matches packages by their pending action
type actionMatcher struct {
	kind         actionKind
	requirePurge bool
}

func (m actionMatcher) Matches(pkg *cache.Package, ver *cache.Version, c *cache.Cache, stack *Stack) bool {
	return m.Match(pkg, ver, c, stack) != nil
}

func (m actionMatcher) Match(pkg *cache.Package, ver *cache.Version, c *cache.Cache, stack *Stack) Result {
	st := &pkg.State

	switch m.kind {
	case actionInstall:
		switch c.FindAction(pkg) {
		case cache.ActionInstall:
			return UnitaryResult("Install")
		case cache.ActionAutoInstall:
			return UnitaryResult("Install [auto]")
		}
	case actionUpgrade:
		if c.FindAction(pkg) == cache.ActionUpgrade {
			return UnitaryResult("Upgrade")
		}
	case actionDowngrade:
		if c.FindAction(pkg) == cache.ActionDowngrade {
			return UnitaryResult("Downgrade")
		}
	case actionRemove:
		if m.requirePurge && !st.Purge {
			return nil
		}
		switch c.FindAction(pkg) {
		case cache.ActionRemove:
			return UnitaryResult("Remove")
		case cache.ActionAutoRemove:
			return UnitaryResult("Remove [auto]")
		case cache.ActionUnusedRemove:
			return UnitaryResult("Remove [unused]")
		}
	case actionReinstall:
		if c.FindAction(pkg) == cache.ActionReinstall {
			return UnitaryResult("Reinstall")
		}
	case actionHold:
		if pkg.Current != nil && st.Selection == cache.SelectionHold {
			return UnitaryResult("Hold")
		}
	}
	return nil
}

// actionByName maps ?action arguments to matchers
func actionByName(name string) (Matcher, bool) {
	switch name {
	case "install":
		return actionMatcher{kind: actionInstall}, true
	case "upgrade":
		return actionMatcher{kind: actionUpgrade}, true
	case "downgrade":
		return actionMatcher{kind: actionDowngrade}, true
	case "remove":
		return actionMatcher{kind: actionRemove}, true
	case "purge":
		return actionMatcher{kind: actionRemove, requirePurge: true}, true
	case "reinstall":
		return actionMatcher{kind: actionReinstall}, true
	case "hold":
		return actionMatcher{kind: actionHold}, true
	case "keep":
		return newKeepMatcher(), true
	}
	return nil, false
}
