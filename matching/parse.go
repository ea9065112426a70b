package matching

import (
	"fmt"
	"strings"

	"github.com/UgoL76/aptitude/cache"
)

// CompilationError is returned when a search pattern fails to compile
type CompilationError struct {
	Message string
}

func (e *CompilationError) Error() string {
	return e.Message
}

// Options configures pattern compilation
type Options struct {
	// Cache resolves priority display names in ?priority and ~p;
	// may be nil, the canonical names always parse
	Cache *cache.Cache

	// SearchDescriptions makes bare strings match descriptions as
	// well as names
	SearchDescriptions bool
}

// Parse compiles a search pattern. A blank pattern yields a nil matcher
// with no error; a malformed one a *CompilationError.
func Parse(pattern string, opts Options) (m Matcher, err error) {
	p := &parser{input: pattern, opts: opts}

	defer func() {
		if r := recover(); r != nil {
			if ce, ok := r.(*CompilationError); ok {
				m, err = nil, ce
				return
			}
			panic(r)
		}
	}()

	p.skipWhitespace()
	if p.eof() {
		return nil, nil
	}

	m = p.parseConditionList(nil, nil, true)

	p.skipWhitespace()
	if !p.eof() {
		p.die("Unexpected ')'")
	}

	return m, nil
}

type parser struct {
	input string
	pos   int
	opts  Options
}

func (p *parser) die(format string, args ...interface{}) {
	panic(&CompilationError{Message: fmt.Sprintf(format, args...)})
}

func (p *parser) eof() bool {
	return p.pos >= len(p.input)
}

func (p *parser) cur() byte {
	return p.input[p.pos]
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

// metacharacters terminate bare strings and must be tilde-escaped or
// quoted to be matched literally
func isMetachar(ch byte) bool {
	switch ch {
	case '(', ')', '!', '~', '|', '"':
		return true
	}
	return false
}

func (p *parser) skipWhitespace() {
	for !p.eof() && isSpace(p.cur()) {
		p.pos++
	}
}

func (p *parser) atTerminator(terminators []string) bool {
	for _, t := range terminators {
		if strings.HasPrefix(p.input[p.pos:], t) {
			return true
		}
	}
	return false
}

// parseConditionList handles the '|' alternation level of the grammar
func (p *parser) parseConditionList(env *environment, terminators []string, wide bool) Matcher {
	left := p.parseAndGroup(env, terminators, wide)

	p.skipWhitespace()
	if !p.eof() && p.cur() == '|' {
		p.pos++
		right := p.parseConditionList(env, terminators, wide)
		return orMatcher{left: left, right: right}
	}
	if p.eof() || p.cur() == ')' || p.atTerminator(terminators) {
		return left
	}
	p.die("Badly formed expression")
	return nil
}

// parseAndGroup folds juxtaposed atoms into a conjunction
func (p *parser) parseAndGroup(env *environment, terminators []string, wide bool) Matcher {
	var result Matcher

	p.skipWhitespace()
	for !p.eof() && p.cur() != '|' && p.cur() != ')' && !p.atTerminator(terminators) {
		atom := p.parseAtom(env, terminators, wide)
		if result == nil {
			result = atom
		} else {
			result = andMatcher{left: result, right: atom}
		}
		p.skipWhitespace()
	}

	if result == nil {
		p.die("Unexpected empty expression")
	}
	return result
}

func (p *parser) parseAtom(env *environment, terminators []string, wide bool) Matcher {
	p.skipWhitespace()
	if p.eof() {
		p.die("Unexpected empty expression")
	}

	switch p.cur() {
	case '!':
		p.pos++
		return notMatcher{child: p.parseAtom(env, terminators, wide)}
	case '(':
		p.pos++
		m := p.parseConditionList(env, nil, wide)
		p.skipWhitespace()
		if p.eof() || p.cur() != ')' {
			p.die("Unmatched '('")
		}
		p.pos++
		return m
	case '?':
		p.pos++
		return p.parseFunction(env, terminators, wide)
	case '~':
		p.pos++
		return p.parseShortcut(env, terminators, wide)
	}

	s := p.compileString(p.parseSubstr(terminators, true))
	name := newNameMatcher(s)
	if p.opts.SearchDescriptions {
		return orMatcher{left: name, right: newDescriptionMatcher(s)}
	}
	return name
}

// parseSubstr reads a bare string up to a metacharacter or terminator.
// "~X" makes a metacharacter literal; an embedded quoted section is
// taken verbatim with backslash escapes.
func (p *parser) parseSubstr(terminators []string, whitespaceBreaks bool) string {
	var b strings.Builder

	for !p.eof() {
		if p.atTerminator(terminators) {
			break
		}
		ch := p.cur()
		if ch == '"' {
			p.pos++
			p.parseLiteralStringTail(&b)
			continue
		}
		if ch == '~' && p.pos+1 < len(p.input) && isMetachar(p.input[p.pos+1]) {
			b.WriteByte(p.input[p.pos+1])
			p.pos += 2
			continue
		}
		if isMetachar(ch) {
			break
		}
		if whitespaceBreaks && isSpace(ch) {
			break
		}
		b.WriteByte(ch)
		p.pos++
	}

	return b.String()
}

func (p *parser) parseLiteralStringTail(b *strings.Builder) {
	for {
		if p.eof() {
			p.die("Unterminated literal string")
		}
		ch := p.cur()
		if ch == '"' {
			p.pos++
			return
		}
		if ch == '\\' && p.pos+1 < len(p.input) {
			p.pos++
			switch p.cur() {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(p.cur())
			}
			p.pos++
			continue
		}
		b.WriteByte(ch)
		p.pos++
	}
}

// parseName reads a function or variable name; variable names stop at
// ':' so the "?var:function(...)" form can be split.
func (p *parser) parseName(terminators []string, stopColon bool) string {
	start := p.pos
	for !p.eof() {
		ch := p.cur()
		if isMetachar(ch) || ch == '?' || ch == ',' || isSpace(ch) ||
			(stopColon && ch == ':') || p.atTerminator(terminators) {
			break
		}
		p.pos++
	}
	return p.input[start:p.pos]
}

func (p *parser) compileString(pattern string) *stringMatcher {
	s, err := newStringMatcher(pattern)
	if err != nil {
		p.die("Regular expression %q: %s", pattern, err)
	}
	return s
}

func (p *parser) expectOpen(name string) {
	p.skipWhitespace()
	if p.eof() || p.cur() != '(' {
		p.die("Expected '(' after ?%s", name)
	}
	p.pos++
}

func (p *parser) expectClose(name string) {
	p.skipWhitespace()
	if p.eof() || p.cur() != ')' {
		p.die("Unmatched '(' in ?%s", name)
	}
	p.pos++
}

func (p *parser) expectComma(name string) {
	p.skipWhitespace()
	if p.eof() || p.cur() != ',' {
		p.die("Expected ',' in ?%s", name)
	}
	p.pos++
}

// parseStringArg reads a parenthesized bare-string argument
func (p *parser) parseStringArg(name string) string {
	p.expectOpen(name)
	s := p.parseSubstr(nil, false)
	p.expectClose(name)
	return s
}

func (p *parser) lookupVariable(env *environment, name string) int {
	idx, ok := env.lookup(name)
	if !ok {
		p.die("Unknown variable %q", name)
	}
	return idx
}

func (p *parser) parseFunction(env *environment, terminators []string, wide bool) Matcher {
	if !p.eof() && p.cur() == '=' {
		p.pos++
		name := strings.ToLower(p.parseName(terminators, true))
		if name == "" {
			p.die("Expected variable name after ?=")
		}
		return equalMatcher{index: p.lookupVariable(env, name)}
	}

	raw := p.parseName(terminators, false)
	boundVariable := ""
	if i := strings.Index(raw, ":"); i != -1 {
		boundVariable = strings.ToLower(raw[:i])
		raw = raw[i+1:]
	}

	m := p.parseFunctionBody(strings.ToLower(raw), env, terminators, wide)

	if boundVariable == "" {
		return m
	}
	return bindMatcher{index: p.lookupVariable(env, boundVariable), child: m}
}

func (p *parser) parseFunctionBody(name string, env *environment, terminators []string, wide bool) Matcher {
	// string-attribute matchers
	if ctor, ok := stringFunctions[name]; ok {
		return ctor(p.compileString(p.parseStringArg(name)))
	}

	// nullary matchers
	if ctor, ok := nullaryFunctions[name]; ok {
		return ctor()
	}

	switch name {
	case "version":
		arg := p.parseStringArg(name)
		return newVersionMatcher(arg, p.compileString(arg))
	case "priority":
		arg := strings.ToLower(p.parseStringArg(name))
		pr, ok := p.opts.Cache.ParsePriority(arg)
		if !ok {
			p.die("Unknown priority %q", arg)
		}
		return priorityMatcher{priority: pr}
	case "action":
		arg := strings.ToLower(p.parseStringArg(name))
		m, ok := actionByName(arg)
		if !ok {
			p.die("Unknown action type %q", arg)
		}
		return m
	case "not":
		p.expectOpen(name)
		m := p.parseConditionList(env, nil, wide)
		p.expectClose(name)
		return notMatcher{child: m}
	case "and", "or":
		p.expectOpen(name)
		left := p.parseConditionList(env, []string{","}, wide)
		p.expectComma(name)
		right := p.parseConditionList(env, nil, wide)
		p.expectClose(name)
		if name == "and" {
			return andMatcher{left: left, right: right}
		}
		return orMatcher{left: left, right: right}
	case "widen":
		p.expectOpen(name)
		m := p.parseConditionList(env, nil, true)
		p.expectClose(name)
		return widenMatcher{child: m}
	case "narrow":
		p.expectOpen(name)
		filter := p.parseConditionList(env, []string{","}, false)
		p.expectComma(name)
		pattern := p.parseConditionList(env, nil, false)
		p.expectClose(name)
		return narrowMatcher{filter: filter, pattern: pattern}
	case "all-versions", "any-version":
		if !wide {
			p.die("?%s may only be used in a package-wide context (at top level or inside ?widen)", name)
		}
		p.expectOpen(name)
		m := p.parseConditionList(env, nil, false)
		p.expectClose(name)
		if name == "all-versions" {
			return allVersionsMatcher{child: m}
		}
		return anyVersionMatcher{child: m}
	case "for":
		p.skipWhitespace()
		variable := strings.ToLower(p.parseName(terminators, true))
		if variable == "" {
			p.die("Expected variable name after ?for")
		}
		p.skipWhitespace()
		if p.eof() || p.cur() != ':' {
			p.die("Expected ':' following the variable of ?for")
		}
		p.pos++
		body := p.parseConditionList(env.bind(variable, env.size()), terminators, wide)
		return explicitMatcher{child: body}
	case "bind":
		p.expectOpen(name)
		p.skipWhitespace()
		variable := strings.ToLower(p.parseName([]string{","}, true))
		idx := p.lookupVariable(env, variable)
		p.expectComma(name)
		m := p.parseConditionList(env, nil, wide)
		p.expectClose(name)
		return bindMatcher{index: idx, child: m}
	case "provides":
		p.expectOpen(name)
		m := p.parseConditionList(env, nil, false)
		p.expectClose(name)
		return providesMatcher{pattern: m}
	}

	return p.parseDependencyFunction(name, env, wide)
}

// parseDependencyFunction resolves the composed dependency keywords:
// a dependency type name with optional broken- and reverse- prefixes,
// plus reverse-provides.
func (p *parser) parseDependencyFunction(name string, env *environment, wide bool) Matcher {
	rest := name
	broken := strings.HasPrefix(rest, "broken-")
	if broken {
		rest = rest[len("broken-"):]
	}
	reverse := strings.HasPrefix(rest, "reverse-")
	if reverse {
		rest = rest[len("reverse-"):]
	}
	if !broken && strings.HasPrefix(rest, "broken-") {
		broken = true
		rest = rest[len("broken-"):]
	}

	if reverse && !broken && rest == "provides" {
		p.expectOpen(name)
		m := p.parseConditionList(env, nil, false)
		p.expectClose(name)
		return reverseProvidesMatcher{pattern: m}
	}

	dt, ok := cache.DepTypeByName(rest)
	if !ok {
		p.die("Unknown matcher type %q", name)
	}

	p.skipWhitespace()
	if broken && !reverse && (p.eof() || p.cur() != '(') {
		return brokenTypeMatcher{depType: dt}
	}

	p.expectOpen(name)
	m := p.parseConditionList(env, nil, false)
	p.expectClose(name)

	if reverse {
		return revdepMatcher{depType: dt, pattern: m, onlyBroken: broken}
	}
	return depMatcher{depType: dt, pattern: m, onlyBroken: broken}
}

var stringFunctions = map[string]func(*stringMatcher) Matcher{
	"archive":        newArchiveMatcher,
	"description":    newDescriptionMatcher,
	"maintainer":     newMaintainerMatcher,
	"name":           newNameMatcher,
	"origin":         newOriginMatcher,
	"section":        newSectionMatcher,
	"source-package": newSourcePackageMatcher,
	"source-version": newSourceVersionMatcher,
	"tag":            newTagMatcher,
	"task":           newTaskMatcher,
	"user-tag":       newUserTagMatcher,
}

var nullaryFunctions = map[string]func() Matcher{
	"automatic":    newAutoMatcher,
	"broken":       newBrokenMatcher,
	"config-files": newConfigFilesMatcher,
	"essential":    newEssentialMatcher,
	"false":        func() Matcher { return falseMatcher{} },
	"garbage":      newGarbageMatcher,
	"installed":    newInstalledMatcher,
	"new":          newNewMatcher,
	"obsolete":     newObsoleteMatcher,
	"true":         func() Matcher { return trueMatcher{} },
	"upgradable":   newUpgradableMatcher,
	"virtual":      newVirtualMatcher,
}

func (p *parser) parseShortcut(env *environment, terminators []string, wide bool) Matcher {
	p.skipWhitespace()
	if p.eof() {
		// a trailing "~" matches the character itself
		return newNameMatcher(p.compileString("~"))
	}
	ch := p.cur()
	p.pos++

	switch ch {
	case 'v':
		return newVirtualMatcher()
	case 'b':
		return newBrokenMatcher()
	case 'g':
		return newGarbageMatcher()
	case 'c':
		return newConfigFilesMatcher()
	case 'i':
		return newInstalledMatcher()
	case 'E':
		return newEssentialMatcher()
	case 'M':
		return newAutoMatcher()
	case 'N':
		return newNewMatcher()
	case 'U':
		return newUpgradableMatcher()
	case 'o':
		return newObsoleteMatcher()
	case 'T':
		return trueMatcher{}
	case 'F':
		return falseMatcher{}
	case 'P':
		return providesMatcher{pattern: p.parseAtom(env, terminators, false)}
	case 'C':
		return depMatcher{depType: cache.DepTypeConflicts, pattern: p.parseAtom(env, terminators, false)}
	case 'W':
		return widenMatcher{child: p.parseAtom(env, terminators, true)}
	case 'S':
		filter := p.parseAtom(env, terminators, false)
		pattern := p.parseAtom(env, terminators, false)
		return narrowMatcher{filter: filter, pattern: pattern}
	case 'D', 'R':
		return p.parseDependencyShortcut(ch, env, terminators)
	case 'B':
		arg := strings.ToLower(p.parseSubstr(terminators, true))
		dt, ok := cache.DepTypeByName(arg)
		if !ok {
			p.die("Unknown dependency type %q", arg)
		}
		return brokenTypeMatcher{depType: dt}
	case 'a':
		arg := strings.ToLower(p.parseSubstr(terminators, true))
		m, ok := actionByName(arg)
		if !ok {
			p.die("Unknown action type %q", arg)
		}
		return m
	case 'p':
		arg := strings.ToLower(p.parseSubstr(terminators, true))
		pr, ok := p.opts.Cache.ParsePriority(arg)
		if !ok {
			p.die("Unknown priority %q", arg)
		}
		return priorityMatcher{priority: pr}
	case 'V':
		arg := p.parseSubstr(terminators, true)
		return newVersionMatcher(arg, p.compileString(arg))
	case 'A':
		return newArchiveMatcher(p.compileString(p.parseSubstr(terminators, true)))
	case 'd':
		return newDescriptionMatcher(p.compileString(p.parseSubstr(terminators, true)))
	case 'G':
		return newTagMatcher(p.compileString(p.parseSubstr(terminators, true)))
	case 'm':
		return newMaintainerMatcher(p.compileString(p.parseSubstr(terminators, true)))
	case 'n':
		return newNameMatcher(p.compileString(p.parseSubstr(terminators, true)))
	case 'O':
		return newOriginMatcher(p.compileString(p.parseSubstr(terminators, true)))
	case 's':
		return newSectionMatcher(p.compileString(p.parseSubstr(terminators, true)))
	case 't':
		return newTaskMatcher(p.compileString(p.parseSubstr(terminators, true)))
	}

	p.die("Unknown pattern type '%c'", ch)
	return nil
}

// parseDependencyShortcut handles ~D and ~R: an optional 'B' selects
// broken groups, an optional "type:" prefix picks the dependency type
// or a provides traversal.
func (p *parser) parseDependencyShortcut(kind byte, env *environment, terminators []string) Matcher {
	broken := false
	if !p.eof() && p.cur() == 'B' {
		broken = true
		p.pos++
	}

	dt := cache.DepTypeDepends
	provides := false

	save := p.pos
	prefix := p.parseName(terminators, true)
	if prefix != "" && !p.eof() && p.cur() == ':' {
		p.pos++
		lower := strings.ToLower(prefix)
		if lower == "provides" {
			provides = true
		} else {
			var ok bool
			dt, ok = cache.DepTypeByName(lower)
			if !ok {
				p.die("Unknown dependency type %q", prefix)
			}
		}
	} else {
		p.pos = save
	}

	if provides && broken {
		p.die("Provides: cannot be broken")
	}

	pattern := p.parseAtom(env, terminators, false)

	switch {
	case provides && kind == 'D':
		return providesMatcher{pattern: pattern}
	case provides:
		return reverseProvidesMatcher{pattern: pattern}
	case kind == 'D':
		return depMatcher{depType: dt, pattern: pattern, onlyBroken: broken}
	}
	return revdepMatcher{depType: dt, pattern: pattern, onlyBroken: broken}
}
