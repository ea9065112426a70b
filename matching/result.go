package matching

// Result carries the ordered capture groups of a successful match. A
// nil Result means no match; a Result with zero groups is a match that
// captured nothing.
type Result interface {
	NumGroups() int
	Group(n int) string
}

type emptyResult struct{}

// EmptyResult is a match with no capture groups
func EmptyResult() Result {
	return emptyResult{}
}

func (emptyResult) NumGroups() int     { return 0 }
func (emptyResult) Group(n int) string { panic("no such group") }

type unitaryResult string

// UnitaryResult is a match with a single capture group
func UnitaryResult(s string) Result {
	return unitaryResult(s)
}

func (unitaryResult) NumGroups() int { return 1 }

func (r unitaryResult) Group(n int) string {
	if n != 0 {
		panic("no such group")
	}
	return string(r)
}

// stringResult holds the groups extracted by a regexp match, truncated
// at the first group that did not participate in the match.
type stringResult []string

func (r stringResult) NumGroups() int { return len(r) }

func (r stringResult) Group(n int) string { return r[n] }

type resultPair struct {
	left, right Result
}

// Pair concatenates the groups of two results, left groups first
func Pair(left, right Result) Result {
	return resultPair{left: left, right: right}
}

func (r resultPair) NumGroups() int {
	return r.left.NumGroups() + r.right.NumGroups()
}

func (r resultPair) Group(n int) string {
	if n < r.left.NumGroups() {
		return r.left.Group(n)
	}
	return r.right.Group(n - r.left.NumGroups())
}

// Groups flattens a result into its capture group strings
func Groups(r Result) []string {
	groups := make([]string, r.NumGroups())
	for i := range groups {
		groups[i] = r.Group(i)
	}
	return groups
}
