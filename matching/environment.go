package matching

// environment maps variable names to stack indexes at parse time. It is
// a persistent association list: binding returns a new environment and
// leaves the old one usable, so sibling branches of the pattern cannot
// see each other's variables.
type environment struct {
	name  string
	index int
	next  *environment
}

func (e *environment) bind(name string, index int) *environment {
	return &environment{name: name, index: index, next: e}
}

func (e *environment) lookup(name string) (int, bool) {
	for ; e != nil; e = e.next {
		if e.name == name {
			return e.index, true
		}
	}
	return 0, false
}

func (e *environment) size() int {
	n := 0
	for ; e != nil; e = e.next {
		n++
	}
	return n
}
