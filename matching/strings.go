package matching

import (
	"regexp"

	"github.com/UgoL76/aptitude/cache"
)

// stringMatcher is the shared regexp engine of the string-valued leaf
// matchers. Matching is case-insensitive; an empty pattern matches
// anything.
type stringMatcher struct {
	re *regexp.Regexp
}

func newStringMatcher(pattern string) (*stringMatcher, error) {
	if pattern == "" {
		pattern = ".*"
	}
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, err
	}
	return &stringMatcher{re: re}, nil
}

func (m *stringMatcher) matches(s string) bool {
	return m.re.MatchString(s)
}

// match extracts the capture groups, stopping at the first group that
// did not participate in the match.
func (m *stringMatcher) match(s string) Result {
	loc := m.re.FindStringSubmatchIndex(s)
	if loc == nil {
		return nil
	}
	var groups stringResult
	for i := 0; 2*i < len(loc); i++ {
		if loc[2*i] == -1 {
			break
		}
		groups = append(groups, s[loc[2*i]:loc[2*i+1]])
	}
	return groups
}

// attributeMatcher applies a string matcher to a single attribute of
// the package or version under test.
type attributeMatcher struct {
	*stringMatcher
	attr func(pkg *cache.Package, ver *cache.Version, c *cache.Cache) (string, bool)
}

func (m *attributeMatcher) Matches(pkg *cache.Package, ver *cache.Version, c *cache.Cache, stack *Stack) bool {
	s, ok := m.attr(pkg, ver, c)
	return ok && m.matches(s)
}

func (m *attributeMatcher) Match(pkg *cache.Package, ver *cache.Version, c *cache.Cache, stack *Stack) Result {
	s, ok := m.attr(pkg, ver, c)
	if !ok {
		return nil
	}
	return m.match(s)
}

func newNameMatcher(s *stringMatcher) Matcher {
	return &attributeMatcher{stringMatcher: s, attr: func(pkg *cache.Package, ver *cache.Version, c *cache.Cache) (string, bool) {
		return pkg.Name, true
	}}
}

func versionRecord(ver *cache.Version, c *cache.Cache) (cache.Record, bool) {
	if ver == nil || len(ver.Files) == 0 {
		return cache.Record{}, false
	}
	return c.Records.Get(ver.Files[0].Record), true
}

func newDescriptionMatcher(s *stringMatcher) Matcher {
	return &attributeMatcher{stringMatcher: s, attr: func(pkg *cache.Package, ver *cache.Version, c *cache.Cache) (string, bool) {
		rec, ok := versionRecord(ver, c)
		if !ok {
			return "", false
		}
		return rec.ShortDescription + "\n" + rec.LongDescription, true
	}}
}

func newMaintainerMatcher(s *stringMatcher) Matcher {
	return &attributeMatcher{stringMatcher: s, attr: func(pkg *cache.Package, ver *cache.Version, c *cache.Cache) (string, bool) {
		rec, ok := versionRecord(ver, c)
		return rec.Maintainer, ok
	}}
}

func newSectionMatcher(s *stringMatcher) Matcher {
	return &attributeMatcher{stringMatcher: s, attr: func(pkg *cache.Package, ver *cache.Version, c *cache.Cache) (string, bool) {
		if ver == nil || ver.Section == "" {
			return "", false
		}
		return ver.Section, true
	}}
}

// Special version arguments selecting a particular version rather than
// matching the version string.
const (
	versionCurrent   = "CURRENT"
	versionCandidate = "CANDIDATE"
	versionTarget    = "TARGET"
)

func newVersionMatcher(arg string, s *stringMatcher) Matcher {
	switch arg {
	case versionCurrent:
		return specialVersionMatcher(func(pkg *cache.Package, ver *cache.Version) bool {
			return ver == pkg.Current
		})
	case versionCandidate:
		return specialVersionMatcher(func(pkg *cache.Package, ver *cache.Version) bool {
			return ver == pkg.State.Candidate
		})
	case versionTarget:
		return specialVersionMatcher(func(pkg *cache.Package, ver *cache.Version) bool {
			return ver == pkg.State.Target
		})
	}
	return &attributeMatcher{stringMatcher: s, attr: func(pkg *cache.Package, ver *cache.Version, c *cache.Cache) (string, bool) {
		if ver == nil {
			return "", false
		}
		return ver.Version, true
	}}
}

type specialVersionMatcher func(pkg *cache.Package, ver *cache.Version) bool

func (m specialVersionMatcher) Matches(pkg *cache.Package, ver *cache.Version, c *cache.Cache, stack *Stack) bool {
	return ver != nil && m(pkg, ver)
}

func (m specialVersionMatcher) Match(pkg *cache.Package, ver *cache.Version, c *cache.Cache, stack *Stack) Result {
	if !m.Matches(pkg, ver, c, stack) {
		return nil
	}
	return UnitaryResult(ver.Version)
}

// listMatcher matches when any of the strings produced for the value
// under test matches; the result comes from the first hit.
type listMatcher struct {
	*stringMatcher
	list func(pkg *cache.Package, ver *cache.Version, c *cache.Cache) []string
}

func (m *listMatcher) Matches(pkg *cache.Package, ver *cache.Version, c *cache.Cache, stack *Stack) bool {
	for _, s := range m.list(pkg, ver, c) {
		if m.matches(s) {
			return true
		}
	}
	return false
}

func (m *listMatcher) Match(pkg *cache.Package, ver *cache.Version, c *cache.Cache, stack *Stack) Result {
	for _, s := range m.list(pkg, ver, c) {
		if r := m.match(s); r != nil {
			return r
		}
	}
	return nil
}

func newTaskMatcher(s *stringMatcher) Matcher {
	return &listMatcher{stringMatcher: s, list: func(pkg *cache.Package, ver *cache.Version, c *cache.Cache) []string {
		return pkg.Tasks
	}}
}

func newTagMatcher(s *stringMatcher) Matcher {
	return &listMatcher{stringMatcher: s, list: func(pkg *cache.Package, ver *cache.Version, c *cache.Cache) []string {
		return pkg.Tags
	}}
}

func newOriginMatcher(s *stringMatcher) Matcher {
	return &listMatcher{stringMatcher: s, list: func(pkg *cache.Package, ver *cache.Version, c *cache.Cache) []string {
		if ver == nil {
			return nil
		}
		origins := make([]string, len(ver.Files))
		for i, f := range ver.Files {
			origins[i] = f.Origin
		}
		return origins
	}}
}

func newArchiveMatcher(s *stringMatcher) Matcher {
	return &listMatcher{stringMatcher: s, list: func(pkg *cache.Package, ver *cache.Version, c *cache.Cache) []string {
		if ver == nil {
			return nil
		}
		archives := make([]string, len(ver.Files))
		for i, f := range ver.Files {
			archives[i] = f.Archive
		}
		return archives
	}}
}

// sourceFieldMatcher walks the version's file records; files with an
// empty source field fall back to the binary value, tried once.
type sourceFieldMatcher struct {
	*stringMatcher
	field    func(rec cache.Record) string
	fallback func(pkg *cache.Package, ver *cache.Version) string
}

func (m *sourceFieldMatcher) values(pkg *cache.Package, ver *cache.Version, c *cache.Cache) []string {
	if ver == nil {
		return nil
	}
	var values []string
	triedFallback := false
	for _, f := range ver.Files {
		s := m.field(c.Records.Get(f.Record))
		if s == "" {
			if triedFallback {
				continue
			}
			triedFallback = true
			s = m.fallback(pkg, ver)
		}
		values = append(values, s)
	}
	return values
}

func (m *sourceFieldMatcher) Matches(pkg *cache.Package, ver *cache.Version, c *cache.Cache, stack *Stack) bool {
	for _, s := range m.values(pkg, ver, c) {
		if m.matches(s) {
			return true
		}
	}
	return false
}

func (m *sourceFieldMatcher) Match(pkg *cache.Package, ver *cache.Version, c *cache.Cache, stack *Stack) Result {
	for _, s := range m.values(pkg, ver, c) {
		if r := m.match(s); r != nil {
			return r
		}
	}
	return nil
}

func newSourcePackageMatcher(s *stringMatcher) Matcher {
	return &sourceFieldMatcher{
		stringMatcher: s,
		field:         func(rec cache.Record) string { return rec.SourcePackage },
		fallback:      func(pkg *cache.Package, ver *cache.Version) string { return pkg.Name },
	}
}

func newSourceVersionMatcher(s *stringMatcher) Matcher {
	return &sourceFieldMatcher{
		stringMatcher: s,
		field:         func(rec cache.Record) string { return rec.SourceVersion },
		fallback:      func(pkg *cache.Package, ver *cache.Version) string { return ver.Version },
	}
}

// userTagMatcher caches the match result per interned tag, so scanning
// a whole cache pays for each distinct tag once. Not safe for
// concurrent use.
type userTagMatcher struct {
	*stringMatcher
	cached map[cache.UserTag]Result
}

func newUserTagMatcher(s *stringMatcher) Matcher {
	return &userTagMatcher{stringMatcher: s, cached: make(map[cache.UserTag]Result)}
}

func (m *userTagMatcher) tagResult(t cache.UserTag, c *cache.Cache) Result {
	if r, ok := m.cached[t]; ok {
		return r
	}
	r := m.match(c.DerefUserTag(t))
	m.cached[t] = r
	return r
}

func (m *userTagMatcher) Matches(pkg *cache.Package, ver *cache.Version, c *cache.Cache, stack *Stack) bool {
	return m.Match(pkg, ver, c, stack) != nil
}

func (m *userTagMatcher) Match(pkg *cache.Package, ver *cache.Version, c *cache.Cache, stack *Stack) Result {
	for _, t := range pkg.State.UserTags {
		if r := m.tagResult(t, c); r != nil {
			return r
		}
	}
	return nil
}
