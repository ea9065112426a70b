package matching

import (
	"strings"

	"github.com/UgoL76/aptitude/cache"
	"github.com/UgoL76/aptitude/deb"
)

// depGroupResult renders an or-group: the dependency type followed by
// the alternatives as they appear in the control file.
func depGroupResult(g *cache.DepGroup) Result {
	parts := make([]string, len(g.Alternatives))
	for i, e := range g.Alternatives {
		parts[i] = e.String()
	}
	return Pair(UnitaryResult(g.Type.Label()), UnitaryResult(strings.Join(parts, " | ")))
}

// typeSatisfies tells whether an edge of type actual answers a query
// for type queried; a pre-dependency satisfies a dependency query.
func typeSatisfies(queried, actual cache.DepType) bool {
	if queried == actual {
		return true
	}
	return queried == cache.DepTypeDepends && actual == cache.DepTypePreDepends
}

// depMatcher matches versions declaring a dependency of the given type
// on something matching the pattern. With onlyBroken set, only
// unsatisfied groups are considered.
type depMatcher struct {
	depType    cache.DepType
	pattern    Matcher
	onlyBroken bool
}

func (m depMatcher) Matches(pkg *cache.Package, ver *cache.Version, c *cache.Cache, stack *Stack) bool {
	return m.find(pkg, ver, c, stack, false) != nil
}

func (m depMatcher) Match(pkg *cache.Package, ver *cache.Version, c *cache.Cache, stack *Stack) Result {
	return m.find(pkg, ver, c, stack, true)
}

// find locates the first dependency group whose target matches; with
// wantResult unset it short-circuits using the cheap operation and
// returns EmptyResult as the found marker.
func (m depMatcher) find(pkg *cache.Package, ver *cache.Version, c *cache.Cache, stack *Stack, wantResult bool) Result {
	if ver == nil {
		return nil
	}

	for _, g := range ver.Depends {
		if !typeSatisfies(m.depType, g.Type) {
			continue
		}
		if m.onlyBroken && g.Satisfied {
			continue
		}

		for _, e := range g.Alternatives {
			if e.Target.IsVirtual() {
				if r := m.test(e.Target, nil, c, stack, wantResult); r != nil {
					return wrapDep(r, g, wantResult)
				}
				continue
			}

			for _, tv := range e.Target.Versions {
				if !deb.CheckDep(tv.Version, e.Relation, e.Version) {
					continue
				}
				if r := m.test(e.Target, tv, c, stack, wantResult); r != nil {
					return wrapDep(r, g, wantResult)
				}
			}
		}
	}
	return nil
}

func (m depMatcher) test(pkg *cache.Package, ver *cache.Version, c *cache.Cache, stack *Stack, wantResult bool) Result {
	if wantResult {
		return m.pattern.Match(pkg, ver, c, stack)
	}
	if m.pattern.Matches(pkg, ver, c, stack) {
		return EmptyResult()
	}
	return nil
}

func wrapDep(r Result, g *cache.DepGroup, wantResult bool) Result {
	if !wantResult {
		return r
	}
	return Pair(r, depGroupResult(g))
}

// revdepMatcher matches versions some other package declares a
// dependency of the given type on, directly or through a name this
// version provides.
type revdepMatcher struct {
	depType    cache.DepType
	pattern    Matcher
	onlyBroken bool
}

func (m revdepMatcher) Matches(pkg *cache.Package, ver *cache.Version, c *cache.Cache, stack *Stack) bool {
	return m.find(pkg, ver, c, stack, false) != nil
}

func (m revdepMatcher) Match(pkg *cache.Package, ver *cache.Version, c *cache.Cache, stack *Stack) Result {
	return m.find(pkg, ver, c, stack, true)
}

func (m revdepMatcher) find(pkg *cache.Package, ver *cache.Version, c *cache.Cache, stack *Stack, wantResult bool) Result {
	for _, e := range pkg.RevDepends {
		g := e.Group
		if !typeSatisfies(m.depType, g.Type) {
			continue
		}
		if m.onlyBroken && g.Satisfied {
			continue
		}
		if ver != nil {
			if !deb.CheckDep(ver.Version, e.Relation, e.Version) {
				continue
			}
		} else if e.Relation != deb.VersionDontCare {
			continue
		}

		if r := m.testParent(g, c, stack, wantResult); r != nil {
			return wrapDep(r, g, wantResult)
		}
	}

	// dependencies on names this version provides; only exact-type,
	// unversioned edges reach through a provides
	if ver != nil {
		for _, pr := range ver.Provides {
			for _, e := range pr.Target.RevDepends {
				g := e.Group
				if g.Type != m.depType || e.Relation != deb.VersionDontCare {
					continue
				}
				if m.onlyBroken && g.Satisfied {
					continue
				}
				if r := m.testParent(g, c, stack, wantResult); r != nil {
					return wrapDep(r, g, wantResult)
				}
			}
		}
	}

	return nil
}

func (m revdepMatcher) testParent(g *cache.DepGroup, c *cache.Cache, stack *Stack, wantResult bool) Result {
	parent := g.Parent
	if wantResult {
		return m.pattern.Match(parent.Package, parent, c, stack)
	}
	if m.pattern.Matches(parent.Package, parent, c, stack) {
		return EmptyResult()
	}
	return nil
}

// providesMatcher matches versions providing a name whose package
// matches the pattern.
type providesMatcher struct {
	pattern Matcher
}

func (m providesMatcher) Matches(pkg *cache.Package, ver *cache.Version, c *cache.Cache, stack *Stack) bool {
	if ver == nil {
		return false
	}
	for _, pr := range ver.Provides {
		if MatchesPackage(m.pattern, pr.Target, c, stack) {
			return true
		}
	}
	return false
}

func (m providesMatcher) Match(pkg *cache.Package, ver *cache.Version, c *cache.Cache, stack *Stack) Result {
	if ver == nil {
		return nil
	}
	for _, pr := range ver.Provides {
		if r := MatchPackage(m.pattern, pr.Target, c, stack); r != nil {
			return Pair(r, UnitaryResult("Provides"))
		}
	}
	return nil
}

// reverseProvidesMatcher matches packages some version of which is
// provided by a version matching the pattern.
type reverseProvidesMatcher struct {
	pattern Matcher
}

func (m reverseProvidesMatcher) Matches(pkg *cache.Package, ver *cache.Version, c *cache.Cache, stack *Stack) bool {
	for _, pr := range pkg.ProvidedBy {
		if m.pattern.Matches(pr.Owner.Package, pr.Owner, c, stack) {
			return true
		}
	}
	return false
}

func (m reverseProvidesMatcher) Match(pkg *cache.Package, ver *cache.Version, c *cache.Cache, stack *Stack) Result {
	for _, pr := range pkg.ProvidedBy {
		if r := m.pattern.Match(pr.Owner.Package, pr.Owner, c, stack); r != nil {
			return Pair(r, UnitaryResult("Provided by"))
		}
	}
	return nil
}

// brokenTypeMatcher matches versions with an unsatisfied dependency
// group of the given type.
type brokenTypeMatcher struct {
	depType cache.DepType
}

func (m brokenTypeMatcher) Matches(pkg *cache.Package, ver *cache.Version, c *cache.Cache, stack *Stack) bool {
	return m.Match(pkg, ver, c, stack) != nil
}

func (m brokenTypeMatcher) Match(pkg *cache.Package, ver *cache.Version, c *cache.Cache, stack *Stack) Result {
	if ver == nil {
		return nil
	}
	for _, g := range ver.Depends {
		if g.Type == m.depType && !g.Satisfied {
			return depGroupResult(g)
		}
	}
	return nil
}
