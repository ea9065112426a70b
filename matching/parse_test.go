package matching

import (
	check "gopkg.in/check.v1"
)

type ParseSuite struct{}

var _ = check.Suite(&ParseSuite{})

func (s *ParseSuite) parseError(c *check.C, pattern string) string {
	m, err := Parse(pattern, Options{})
	c.Assert(m, check.IsNil)
	c.Assert(err, check.NotNil)
	c.Assert(err, check.FitsTypeOf, &CompilationError{})
	return err.Error()
}

func (s *ParseSuite) TestBlank(c *check.C) {
	m, err := Parse("", Options{})
	c.Check(m, check.IsNil)
	c.Check(err, check.IsNil)

	m, err = Parse("   \t\n", Options{})
	c.Check(m, check.IsNil)
	c.Check(err, check.IsNil)
}

func (s *ParseSuite) TestWellFormed(c *check.C) {
	for _, pattern := range []string{
		"xterm",
		"!xterm",
		"(xterm | i3) ?installed",
		"?and(?or(~T, ~F), ?not(?virtual))",
		"?depends(?provides(x-window-manager))",
		"?priority(optional)",
		"?for x: ?depends(?=x)",
		"?for x: ?x:name(^xterm$)",
		"?widen(?any-version(?version(CURRENT)))",
		"~D~P~nfoo",
		"~ i",
		"~",
		"xterm ~",
		"\"quoted (string)\"",
		"?name(\"literal~\")",
	} {
		m, err := Parse(pattern, Options{})
		c.Check(err, check.IsNil, check.Commentf("pattern %s", pattern))
		c.Check(m, check.NotNil, check.Commentf("pattern %s", pattern))
	}
}

func (s *ParseSuite) TestUnbalanced(c *check.C) {
	c.Check(s.parseError(c, "(xterm"), check.Equals, "Unmatched '('")
	c.Check(s.parseError(c, "xterm)"), check.Equals, "Unexpected ')'")
	c.Check(s.parseError(c, "?depends(xterm"), check.Equals, "Unmatched '(' in ?depends")
	c.Check(s.parseError(c, "?depends"), check.Equals, "Expected '(' after ?depends")
	c.Check(s.parseError(c, "?or(xterm)"), check.Equals, "Expected ',' in ?or")
}

func (s *ParseSuite) TestEmptyExpressions(c *check.C) {
	c.Check(s.parseError(c, "xterm |"), check.Equals, "Unexpected empty expression")
	c.Check(s.parseError(c, "()"), check.Equals, "Unexpected empty expression")
	c.Check(s.parseError(c, "!"), check.Equals, "Unexpected empty expression")
}

func (s *ParseSuite) TestUnknownNames(c *check.C) {
	c.Check(s.parseError(c, "?frobnicate(x)"), check.Equals, "Unknown matcher type \"frobnicate\"")
	c.Check(s.parseError(c, "?priority(frobnicate)"), check.Equals, "Unknown priority \"frobnicate\"")
	c.Check(s.parseError(c, "?action(frobnicate)"), check.Equals, "Unknown action type \"frobnicate\"")
	c.Check(s.parseError(c, "~q"), check.Equals, "Unknown pattern type 'q'")
	c.Check(s.parseError(c, "~Bfrobnicates"), check.Equals, "Unknown dependency type \"frobnicates\"")
	c.Check(s.parseError(c, "~Dfrobnicates:foo"), check.Equals, "Unknown dependency type \"frobnicates\"")
}

func (s *ParseSuite) TestVariableErrors(c *check.C) {
	c.Check(s.parseError(c, "?=x"), check.Equals, "Unknown variable \"x\"")
	c.Check(s.parseError(c, "?bind(x, ?true)"), check.Equals, "Unknown variable \"x\"")
	c.Check(s.parseError(c, "?y:name(foo)"), check.Equals, "Unknown variable \"y\"")
	c.Check(s.parseError(c, "?for"), check.Equals, "Expected variable name after ?for")
	c.Check(s.parseError(c, "?for x ?true"), check.Equals, "Expected ':' following the variable of ?for")

	// variables do not leak out of their scope
	c.Check(s.parseError(c, "?and(?for x: ?true, ?=x)"), check.Equals, "Unknown variable \"x\"")
}

func (s *ParseSuite) TestWideContextErrors(c *check.C) {
	const wideError = " may only be used in a package-wide context (at top level or inside ?widen)"

	c.Check(s.parseError(c, "?narrow(?all-versions(xterm), xterm)"), check.Equals, "?all-versions"+wideError)
	c.Check(s.parseError(c, "?depends(?any-version(xterm))"), check.Equals, "?any-version"+wideError)
	c.Check(s.parseError(c, "?all-versions(?all-versions(xterm))"), check.Equals, "?all-versions"+wideError)

	// ?widen restores the package-wide context
	m, err := Parse("?narrow(?true, ?widen(?all-versions(xterm)))", Options{})
	c.Check(err, check.IsNil)
	c.Check(m, check.NotNil)
}

func (s *ParseSuite) TestStringErrors(c *check.C) {
	c.Check(s.parseError(c, "\"unterminated"), check.Equals, "Unterminated literal string")
	c.Check(s.parseError(c, "?name([)"), check.Matches, "Regular expression .*")
}

func (s *ParseSuite) TestProvidesShortcutErrors(c *check.C) {
	c.Check(s.parseError(c, "~DBprovides:foo"), check.Equals, "Provides: cannot be broken")
	c.Check(s.parseError(c, "~RBprovides:foo"), check.Equals, "Provides: cannot be broken")
}
