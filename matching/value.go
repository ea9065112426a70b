// Package matching implements the package search language: compiling
// search patterns into matcher trees and evaluating them against the
// package cache.
package matching

import (
	"github.com/UgoL76/aptitude/cache"
)

type valueKind int

const (
	packageValue valueKind = iota
	versionValue
)

// Value is an entry of the evaluation stack: either a whole package or
// one version of a package (possibly the nil "no version" of a virtual
// package).
type Value struct {
	kind valueKind
	pkg  *cache.Package
	ver  *cache.Version
}

// PackageValue wraps a whole package
func PackageValue(pkg *cache.Package) Value {
	return Value{kind: packageValue, pkg: pkg}
}

// VersionValue wraps one version of a package; ver may be nil
func VersionValue(pkg *cache.Package, ver *cache.Version) Value {
	return Value{kind: versionValue, pkg: pkg, ver: ver}
}

// IsMatchFor tells whether the value is compatible with other: package
// values are compatible with anything of the same package, version
// values additionally require the same version. The relation is
// reflexive and symmetric but not transitive.
func (v Value) IsMatchFor(other Value) bool {
	if v.pkg != other.pkg {
		return false
	}
	if v.kind == versionValue && other.kind == versionValue {
		return v.ver == other.ver
	}
	return true
}

// visit applies the matcher to the value at its natural level
func (v Value) visit(m Matcher, c *cache.Cache, stack *Stack) bool {
	if v.kind == packageValue {
		return MatchesPackage(m, v.pkg, c, stack)
	}
	return m.Matches(v.pkg, v.ver, c, stack)
}

func (v Value) visitMatch(m Matcher, c *cache.Cache, stack *Stack) Result {
	if v.kind == packageValue {
		return MatchPackage(m, v.pkg, c, stack)
	}
	return m.Match(v.pkg, v.ver, c, stack)
}

// Stack holds the values bound by enclosing explicit matchers. Index 0
// is the outermost binding.
type Stack []Value

func (s *Stack) push(v Value) {
	*s = append(*s, v)
}

func (s *Stack) pop() {
	*s = (*s)[:len(*s)-1]
}

func (s *Stack) at(i int) Value {
	return (*s)[i]
}
