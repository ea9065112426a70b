package cache

import (
	"strings"
)

// Record holds the per-version-file fields that are looked up on demand
// rather than kept in the package graph.
type Record struct {
	Maintainer       string
	ShortDescription string
	LongDescription  string
	SourcePackage    string
	SourceVersion    string
}

// Records is the lookup side store for version file records
type Records struct {
	recs []Record
}

func (r *Records) add(rec Record) int {
	r.recs = append(r.recs, rec)
	return len(r.recs) - 1
}

// Get returns record by its id; zero record for out-of-range ids
func (r *Records) Get(id int) Record {
	if id < 0 || id >= len(r.recs) {
		return Record{}
	}
	return r.recs[id]
}

// parseDescription splits the Description field into the one-line summary
// and the long description with the leading-space framing removed.
func parseDescription(value string) (short, long string) {
	lines := strings.Split(value, "\n")
	short = strings.TrimSpace(lines[0])

	var b strings.Builder
	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "." {
			line = ""
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
	}
	long = b.String()
	return
}

// parseSource splits the Source field into package name and optional
// version given in parentheses.
func parseSource(value string) (pkg, version string) {
	i := strings.Index(value, "(")
	if i == -1 {
		return strings.TrimSpace(value), ""
	}
	pkg = strings.TrimSpace(value[:i])
	version = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(value[i+1:]), ")"))
	return
}
