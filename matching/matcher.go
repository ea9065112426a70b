package matching

import (
	"github.com/UgoL76/aptitude/cache"
)

// Matcher is one node of a compiled search pattern. Both operations
// answer the same question; Match additionally builds the capture
// groups and returns nil exactly when Matches returns false. ver is nil
// when the package under test has no versions.
type Matcher interface {
	Matches(pkg *cache.Package, ver *cache.Version, c *cache.Cache, stack *Stack) bool
	Match(pkg *cache.Package, ver *cache.Version, c *cache.Cache, stack *Stack) Result
}

// packageMatcher is implemented by nodes that have their own
// whole-package semantics instead of the default any-version loop.
type packageMatcher interface {
	MatchesPackage(pkg *cache.Package, c *cache.Cache, stack *Stack) bool
	MatchPackage(pkg *cache.Package, c *cache.Cache, stack *Stack) Result
}

// MatchesPackage applies the matcher to a package as a whole: some
// version matches, or the bare package when it has no versions.
func MatchesPackage(m Matcher, pkg *cache.Package, c *cache.Cache, stack *Stack) bool {
	if pm, ok := m.(packageMatcher); ok {
		return pm.MatchesPackage(pkg, c, stack)
	}
	if len(pkg.Versions) == 0 {
		return m.Matches(pkg, nil, c, stack)
	}
	for _, v := range pkg.Versions {
		if m.Matches(pkg, v, c, stack) {
			return true
		}
	}
	return false
}

// MatchPackage is the Result-building counterpart of MatchesPackage
func MatchPackage(m Matcher, pkg *cache.Package, c *cache.Cache, stack *Stack) Result {
	if pm, ok := m.(packageMatcher); ok {
		return pm.MatchPackage(pkg, c, stack)
	}
	if len(pkg.Versions) == 0 {
		return m.Match(pkg, nil, c, stack)
	}
	for _, v := range pkg.Versions {
		if r := m.Match(pkg, v, c, stack); r != nil {
			return r
		}
	}
	return nil
}
