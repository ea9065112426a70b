package deb

import (
	"bufio"
	"errors"
	"io"
	"sort"
	"strings"
	"unicode"
)

// Stanza or paragraph of Debian control file
type Stanza map[string]string

// MaxFieldSize is maximum stanza field size in bytes
const MaxFieldSize = 2 * 1024 * 1024

// Canonical order of fields in a binary package stanza, following
// apt's ordering; fields not listed here are written last,
// alphabetically.
var canonicalOrderBinary = []string{
	"Package",
	"Essential",
	"Status",
	"State",
	"Priority",
	"Section",
	"Installed-Size",
	"Maintainer",
	"Original-Maintainer",
	"Architecture",
	"Source",
	"Version",
	"Replaces",
	"Provides",
	"Depends",
	"Pre-Depends",
	"Recommends",
	"Suggests",
	"Conflicts",
	"Breaks",
	"Task",
	"Tag",
	"Conffiles",
	"Filename",
	"Size",
	"MD5sum",
	"SHA1",
	"SHA256",
	"Description",
}

// Copy returns copy of Stanza
func (s Stanza) Copy() (result Stanza) {
	result = make(Stanza, len(s))
	for k, v := range s {
		result[k] = v
	}
	return
}

func isMultilineField(field string) bool {
	switch field {
	case "Description":
		return true
	case "Conffiles":
		return true
	}
	return false
}

// Write single field from Stanza to writer.
func writeField(w *bufio.Writer, field, value string) (err error) {
	if !isMultilineField(field) {
		_, err = w.WriteString(field + ": " + value + "\n")
	} else {
		if !strings.HasSuffix(value, "\n") {
			value = value + "\n"
		}

		if field != "Description" {
			value = "\n" + value
		}

		_, err = w.WriteString(field + ":" + value)
	}

	return
}

// WriteTo saves stanza back to stream, modifying itself on the fly
func (s Stanza) WriteTo(w *bufio.Writer) error {
	for _, field := range canonicalOrderBinary {
		value, ok := s[field]
		if ok {
			delete(s, field)
			err := writeField(w, field, value)
			if err != nil {
				return err
			}
		}
	}

	// Print extra fields in deterministic order (alphabetical)
	keys := make([]string, len(s))
	i := 0
	for field := range s {
		keys[i] = field
		i++
	}
	sort.Strings(keys)
	for _, field := range keys {
		err := writeField(w, field, s[field])
		if err != nil {
			return err
		}
	}

	return nil
}

// Parsing errors
var (
	ErrMalformedStanza = errors.New("malformed stanza syntax")
)

func canonicalCase(field string) string {
	upper := strings.ToUpper(field)
	switch upper {
	case "SHA1", "SHA256", "SHA512":
		return upper
	case "MD5SUM":
		return "MD5sum"
	}

	startOfWord := true

	return strings.Map(func(r rune) rune {
		if startOfWord {
			startOfWord = false
			return unicode.ToUpper(r)
		}

		if r == '-' {
			startOfWord = true
		}

		return unicode.ToLower(r)
	}, field)
}

// ControlFileReader implements reading of control files stanza by stanza
type ControlFileReader struct {
	scanner *bufio.Scanner
}

// NewControlFileReader creates ControlFileReader, it wraps with buffering
func NewControlFileReader(r io.Reader) *ControlFileReader {
	scnr := bufio.NewScanner(bufio.NewReaderSize(r, 32768))
	scnr.Buffer(nil, MaxFieldSize)

	return &ControlFileReader{scanner: scnr}
}

// ReadStanza reads one stanza from control file; nil stanza with nil error
// signals end of stream.
func (c *ControlFileReader) ReadStanza() (Stanza, error) {
	stanza := make(Stanza, 32)
	lastField := ""
	lastFieldMultiline := false

	for c.scanner.Scan() {
		line := c.scanner.Text()

		// Current stanza ends with empty line
		if line == "" {
			if len(stanza) > 0 {
				return stanza, nil
			}
			continue
		}

		if line[0] == ' ' || line[0] == '\t' {
			if lastFieldMultiline {
				stanza[lastField] += line + "\n"
			} else {
				stanza[lastField] += " " + strings.TrimSpace(line)
			}
		} else {
			parts := strings.SplitN(line, ":", 2)
			if len(parts) != 2 {
				return nil, ErrMalformedStanza
			}
			lastField = canonicalCase(parts[0])
			lastFieldMultiline = isMultilineField(lastField)
			if lastFieldMultiline {
				stanza[lastField] = parts[1]
				if parts[1] != "" {
					stanza[lastField] += "\n"
				}
			} else {
				stanza[lastField] = strings.TrimSpace(parts[1])
			}
		}
	}
	if err := c.scanner.Err(); err != nil {
		return nil, err
	}
	if len(stanza) > 0 {
		return stanza, nil
	}
	return nil, nil
}
