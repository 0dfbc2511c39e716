package rfc5424

import (
	"bytes"
	"strings"
)

// Structured-data grammar: SD-NAME, enterprise numbers, SD-ID, and
// the element writer. The predicates are exported so callers can
// vet identifiers before building elements.

// MaxSDNameLen is the RFC 5424 limit on SD-NAME length.
const MaxSDNameLen = 32

// ValidSDName reports whether s is a valid SD-NAME: 1 to 32 ASCII
// characters, none of which is a control character, whitespace, or
// one of '@', '=', ']', '"'.
func ValidSDName(s string) bool {
	if len(s) < 1 || len(s) > MaxSDNameLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !isASCII(c) || isControl(c) || isWhitespace(c) {
			return false
		}
		switch c {
		case '@', '=', ']', '"':
			return false
		}
	}
	return true
}

// Enterprise-number scanner states.
const (
	expectDigit = iota
	expectDot
	expectDigitOrDot
)

// ValidEnterpriseNumber reports whether s is a valid private
// enterprise number: dot-separated, non-empty runs of decimal digits
// such as "1.3.6.1". Leading dots, trailing dots, consecutive dots
// and any non-digit character all reject.
func ValidEnterpriseNumber(s string) bool {
	state := expectDigit
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch state {
		case expectDigit, expectDot:
			// expectDot means a separator was just consumed; in
			// both states only a digit may follow.
			if !isDigit(c) {
				return false
			}
			state = expectDigitOrDot
		case expectDigitOrDot:
			switch {
			case isDigit(c):
			case c == '.':
				state = expectDot
			default:
				return false
			}
		}
	}
	// Accepting only in expectDigitOrDot rejects the empty string
	// (still in expectDigit) and a trailing dot (left in expectDot).
	return state == expectDigitOrDot
}

// ValidSDID reports whether s is a valid SD-ID. The part before the
// first '@' must be a valid SD-NAME; if an '@' is present, the part
// after it must be a valid enterprise number. An SD-ID without '@'
// is an IETF-reserved bare name.
func ValidSDID(s string) bool {
	name, enterprise, hasAt := strings.Cut(s, "@")
	if !ValidSDName(name) {
		return false
	}
	if hasAt && !ValidEnterpriseNumber(enterprise) {
		return false
	}
	return true
}

// validElement checks an element's SD-ID and every parameter name.
// Parameter values are unconstrained: the writer escapes them.
func validElement(e SDElement) error {
	if !ValidSDID(e.ID) {
		return fieldErr("sd-id", e.ID, "not a valid SD-ID")
	}
	for _, p := range e.Params {
		if !ValidSDName(p.Name) {
			return fieldErr("sd-param", p.Name, "not a valid SD-NAME")
		}
	}
	return nil
}

// writeEscaped emits a parameter value, escaping '"', '\' and ']'
// with a backslash. Everything else passes through unchanged.
func writeEscaped(b *bytes.Buffer, value string) {
	for i := 0; i < len(value); i++ {
		c := value[i]
		if c == '"' || c == '\\' || c == ']' {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
}

// writeElement emits one element: [id name="value" ...]. Names are
// written verbatim; the SD-NAME charset excludes every character the
// value escaping exists for.
func writeElement(b *bytes.Buffer, e SDElement) {
	b.WriteByte('[')
	b.WriteString(e.ID)
	for _, p := range e.Params {
		b.WriteByte(' ')
		b.WriteString(p.Name)
		b.WriteByte('=')
		b.WriteByte('"')
		writeEscaped(b, p.Value)
		b.WriteByte('"')
	}
	b.WriteByte(']')
}

// writeStructuredData emits all elements back to back, or the
// NILVALUE placeholder when there are none.
func writeStructuredData(b *bytes.Buffer, elements []SDElement) {
	if len(elements) == 0 {
		b.WriteByte('-')
		return
	}
	for _, e := range elements {
		writeElement(b, e)
	}
}
