package rfc5424

// Byte-level predicates used by every validator in this package.
// RFC 5424 grammars are defined over ASCII, so these operate on raw
// bytes rather than runes.

func isASCII(c byte) bool {
	return c < 128
}

// isControl reports whether c is treated as a non-printable character
// for header field purposes: space and DEL terminate or separate
// fields and are excluded from PRINTUSASCII.
func isControl(c byte) bool {
	return c <= ' ' || c == 0x7f
}

// isGraphic reports whether c is a printable ASCII character
// (PRINTUSASCII in the RFC grammar: %d33-126).
func isGraphic(c byte) bool {
	return isASCII(c) && !isControl(c)
}

func isWhitespace(c byte) bool {
	switch c {
	case '\t', '\n', '\v', '\f', '\r', ' ':
		return true
	}
	return false
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
