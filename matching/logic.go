package matching

import (
	"github.com/UgoL76/aptitude/cache"
)

type andMatcher struct {
	left, right Matcher
}

func (m andMatcher) Matches(pkg *cache.Package, ver *cache.Version, c *cache.Cache, stack *Stack) bool {
	return m.left.Matches(pkg, ver, c, stack) && m.right.Matches(pkg, ver, c, stack)
}

func (m andMatcher) Match(pkg *cache.Package, ver *cache.Version, c *cache.Cache, stack *Stack) Result {
	r1 := m.left.Match(pkg, ver, c, stack)
	if r1 == nil {
		return nil
	}
	r2 := m.right.Match(pkg, ver, c, stack)
	if r2 == nil {
		return nil
	}
	return Pair(r1, r2)
}

func (m andMatcher) MatchesPackage(pkg *cache.Package, c *cache.Cache, stack *Stack) bool {
	return MatchesPackage(m.left, pkg, c, stack) && MatchesPackage(m.right, pkg, c, stack)
}

func (m andMatcher) MatchPackage(pkg *cache.Package, c *cache.Cache, stack *Stack) Result {
	r1 := MatchPackage(m.left, pkg, c, stack)
	if r1 == nil {
		return nil
	}
	r2 := MatchPackage(m.right, pkg, c, stack)
	if r2 == nil {
		return nil
	}
	return Pair(r1, r2)
}

type orMatcher struct {
	left, right Matcher
}

func (m orMatcher) Matches(pkg *cache.Package, ver *cache.Version, c *cache.Cache, stack *Stack) bool {
	return m.left.Matches(pkg, ver, c, stack) || m.right.Matches(pkg, ver, c, stack)
}

func (m orMatcher) Match(pkg *cache.Package, ver *cache.Version, c *cache.Cache, stack *Stack) Result {
	if r := m.left.Match(pkg, ver, c, stack); r != nil {
		return r
	}
	return m.right.Match(pkg, ver, c, stack)
}

func (m orMatcher) MatchesPackage(pkg *cache.Package, c *cache.Cache, stack *Stack) bool {
	return MatchesPackage(m.left, pkg, c, stack) || MatchesPackage(m.right, pkg, c, stack)
}

func (m orMatcher) MatchPackage(pkg *cache.Package, c *cache.Cache, stack *Stack) Result {
	if r := MatchPackage(m.left, pkg, c, stack); r != nil {
		return r
	}
	return MatchPackage(m.right, pkg, c, stack)
}

type notMatcher struct {
	child Matcher
}

func (m notMatcher) Matches(pkg *cache.Package, ver *cache.Version, c *cache.Cache, stack *Stack) bool {
	return !m.child.Matches(pkg, ver, c, stack)
}

func (m notMatcher) Match(pkg *cache.Package, ver *cache.Version, c *cache.Cache, stack *Stack) Result {
	if m.child.Match(pkg, ver, c, stack) != nil {
		return nil
	}
	return EmptyResult()
}

func (m notMatcher) MatchesPackage(pkg *cache.Package, c *cache.Cache, stack *Stack) bool {
	return !MatchesPackage(m.child, pkg, c, stack)
}

func (m notMatcher) MatchPackage(pkg *cache.Package, c *cache.Cache, stack *Stack) Result {
	if MatchPackage(m.child, pkg, c, stack) != nil {
		return nil
	}
	return EmptyResult()
}

// widenMatcher discards the version under test and applies its child to
// the package as a whole.
type widenMatcher struct {
	child Matcher
}

func (m widenMatcher) Matches(pkg *cache.Package, ver *cache.Version, c *cache.Cache, stack *Stack) bool {
	return MatchesPackage(m.child, pkg, c, stack)
}

func (m widenMatcher) Match(pkg *cache.Package, ver *cache.Version, c *cache.Cache, stack *Stack) Result {
	return MatchPackage(m.child, pkg, c, stack)
}

func (m widenMatcher) MatchesPackage(pkg *cache.Package, c *cache.Cache, stack *Stack) bool {
	return MatchesPackage(m.child, pkg, c, stack)
}

func (m widenMatcher) MatchPackage(pkg *cache.Package, c *cache.Cache, stack *Stack) Result {
	return MatchPackage(m.child, pkg, c, stack)
}

// narrowMatcher restricts the versions the pattern sees to those
// accepted by the filter.
type narrowMatcher struct {
	filter  Matcher
	pattern Matcher
}

func (m narrowMatcher) Matches(pkg *cache.Package, ver *cache.Version, c *cache.Cache, stack *Stack) bool {
	return m.filter.Matches(pkg, ver, c, stack) && m.pattern.Matches(pkg, ver, c, stack)
}

func (m narrowMatcher) Match(pkg *cache.Package, ver *cache.Version, c *cache.Cache, stack *Stack) Result {
	if !m.filter.Matches(pkg, ver, c, stack) {
		return nil
	}
	return m.pattern.Match(pkg, ver, c, stack)
}

// allVersionsMatcher requires every version of the package to match.
// With no versions the match is vacuous.
type allVersionsMatcher struct {
	child Matcher
}

func (m allVersionsMatcher) Matches(pkg *cache.Package, ver *cache.Version, c *cache.Cache, stack *Stack) bool {
	return m.child.Matches(pkg, ver, c, stack)
}

func (m allVersionsMatcher) Match(pkg *cache.Package, ver *cache.Version, c *cache.Cache, stack *Stack) Result {
	return m.child.Match(pkg, ver, c, stack)
}

func (m allVersionsMatcher) MatchesPackage(pkg *cache.Package, c *cache.Cache, stack *Stack) bool {
	for _, v := range pkg.Versions {
		if !m.child.Matches(pkg, v, c, stack) {
			return false
		}
	}
	return true
}

func (m allVersionsMatcher) MatchPackage(pkg *cache.Package, c *cache.Cache, stack *Stack) Result {
	// which version's groups are returned is unspecified; this
	// implementation keeps the last
	result := EmptyResult()
	for _, v := range pkg.Versions {
		r := m.child.Match(pkg, v, c, stack)
		if r == nil {
			return nil
		}
		result = r
	}
	return result
}

// anyVersionMatcher requires some real version of the package to match
type anyVersionMatcher struct {
	child Matcher
}

func (m anyVersionMatcher) Matches(pkg *cache.Package, ver *cache.Version, c *cache.Cache, stack *Stack) bool {
	return m.child.Matches(pkg, ver, c, stack)
}

func (m anyVersionMatcher) Match(pkg *cache.Package, ver *cache.Version, c *cache.Cache, stack *Stack) Result {
	return m.child.Match(pkg, ver, c, stack)
}

func (m anyVersionMatcher) MatchesPackage(pkg *cache.Package, c *cache.Cache, stack *Stack) bool {
	for _, v := range pkg.Versions {
		if m.child.Matches(pkg, v, c, stack) {
			return true
		}
	}
	return false
}

func (m anyVersionMatcher) MatchPackage(pkg *cache.Package, c *cache.Cache, stack *Stack) Result {
	for _, v := range pkg.Versions {
		if r := m.child.Match(pkg, v, c, stack); r != nil {
			return r
		}
	}
	return nil
}

// explicitMatcher pushes the value under test onto the stack for the
// duration of its child's evaluation, making it addressable through
// variables.
type explicitMatcher struct {
	child Matcher
}

func (m explicitMatcher) Matches(pkg *cache.Package, ver *cache.Version, c *cache.Cache, stack *Stack) bool {
	stack.push(VersionValue(pkg, ver))
	defer stack.pop()
	return m.child.Matches(pkg, ver, c, stack)
}

func (m explicitMatcher) Match(pkg *cache.Package, ver *cache.Version, c *cache.Cache, stack *Stack) Result {
	stack.push(VersionValue(pkg, ver))
	defer stack.pop()
	return m.child.Match(pkg, ver, c, stack)
}

func (m explicitMatcher) MatchesPackage(pkg *cache.Package, c *cache.Cache, stack *Stack) bool {
	stack.push(PackageValue(pkg))
	defer stack.pop()
	return MatchesPackage(m.child, pkg, c, stack)
}

func (m explicitMatcher) MatchPackage(pkg *cache.Package, c *cache.Cache, stack *Stack) Result {
	stack.push(PackageValue(pkg))
	defer stack.pop()
	return MatchPackage(m.child, pkg, c, stack)
}

// bindMatcher ignores its input and applies the child to the stack
// value at the given index.
type bindMatcher struct {
	index int
	child Matcher
}

func (m bindMatcher) Matches(pkg *cache.Package, ver *cache.Version, c *cache.Cache, stack *Stack) bool {
	return stack.at(m.index).visit(m.child, c, stack)
}

func (m bindMatcher) Match(pkg *cache.Package, ver *cache.Version, c *cache.Cache, stack *Stack) Result {
	return stack.at(m.index).visitMatch(m.child, c, stack)
}

func (m bindMatcher) MatchesPackage(pkg *cache.Package, c *cache.Cache, stack *Stack) bool {
	return stack.at(m.index).visit(m.child, c, stack)
}

func (m bindMatcher) MatchPackage(pkg *cache.Package, c *cache.Cache, stack *Stack) Result {
	return stack.at(m.index).visitMatch(m.child, c, stack)
}

// equalMatcher tests the version under test for compatibility with the
// stack value at the given index.
type equalMatcher struct {
	index int
}

func (m equalMatcher) Matches(pkg *cache.Package, ver *cache.Version, c *cache.Cache, stack *Stack) bool {
	return stack.at(m.index).IsMatchFor(VersionValue(pkg, ver))
}

func (m equalMatcher) Match(pkg *cache.Package, ver *cache.Version, c *cache.Cache, stack *Stack) Result {
	if !m.Matches(pkg, ver, c, stack) {
		return nil
	}
	return EmptyResult()
}
