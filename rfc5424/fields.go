package rfc5424

import (
	"bytes"
	"strconv"
)

// Per-field validators and writers. Each field has a valid* predicate
// and a write* emitter; writers are only called after the predicate
// has passed and perform no re-validation. Writers targeting a
// bytes.Buffer cannot fail, which is what lets WriteTo guarantee that
// nothing reaches the sink until the whole message has validated.

func validPriority(p int) bool {
	return p >= 0 && p < 192
}

func writePriority(b *bytes.Buffer, p int) {
	b.WriteByte('<')
	b.WriteString(strconv.Itoa(p))
	b.WriteByte('>')
}

// validTimestamp range-checks each component independently. Calendar
// consistency (month length, leap years) is deliberately not checked.
func validTimestamp(ts Timestamp) error {
	switch {
	case ts.Year < 1000 || ts.Year > 9999:
		return fieldErr("timestamp.year", strconv.Itoa(ts.Year), "must be in [1000, 9999]")
	case ts.Month < 1 || ts.Month > 12:
		return fieldErr("timestamp.month", strconv.Itoa(ts.Month), "must be in [1, 12]")
	case ts.Day < 1 || ts.Day > 31:
		return fieldErr("timestamp.day", strconv.Itoa(ts.Day), "must be in [1, 31]")
	case ts.Hour < 0 || ts.Hour > 23:
		return fieldErr("timestamp.hour", strconv.Itoa(ts.Hour), "must be in [0, 23]")
	case ts.Minute < 0 || ts.Minute > 59:
		return fieldErr("timestamp.minute", strconv.Itoa(ts.Minute), "must be in [0, 59]")
	case ts.Second < 0 || ts.Second > 59:
		return fieldErr("timestamp.second", strconv.Itoa(ts.Second), "must be in [0, 59]")
	case ts.HasFraction && (ts.Fraction < 0 || ts.Fraction >= 1):
		return fieldErr("timestamp.fraction", strconv.FormatFloat(ts.Fraction, 'g', -1, 64), "must be in [0, 1)")
	}
	return nil
}

// writeTimestamp emits YYYY-MM-DDTHH:MM:SS[.ffffff]Z. The fractional
// part is exactly six digits, obtained by truncating fraction*10^6
// toward zero: 0.1234567 renders as "123456", never rounded up.
func writeTimestamp(b *bytes.Buffer, ts Timestamp) {
	writePadded(b, ts.Year, 4)
	b.WriteByte('-')
	writePadded(b, ts.Month, 2)
	b.WriteByte('-')
	writePadded(b, ts.Day, 2)
	b.WriteByte('T')
	writePadded(b, ts.Hour, 2)
	b.WriteByte(':')
	writePadded(b, ts.Minute, 2)
	b.WriteByte(':')
	writePadded(b, ts.Second, 2)
	if ts.HasFraction {
		b.WriteByte('.')
		writePadded(b, int(ts.Fraction*1e6), 6)
	}
	b.WriteByte('Z')
}

// writePadded writes n zero-padded to the given width.
func writePadded(b *bytes.Buffer, n, width int) {
	s := strconv.Itoa(n)
	for i := len(s); i < width; i++ {
		b.WriteByte('0')
	}
	b.WriteString(s)
}

// validHeaderField checks an optional header field value: absent
// (empty) is valid, otherwise every byte must be printable ASCII and
// the length must not exceed the field's limit.
func validHeaderField(field, value string, maxLen int) error {
	if value == "" {
		return nil
	}
	if len(value) > maxLen {
		return fieldErr(field, value, "exceeds "+strconv.Itoa(maxLen)+" characters")
	}
	for i := 0; i < len(value); i++ {
		if !isGraphic(value[i]) {
			return fieldErr(field, value, "contains a non-printable or non-ASCII character")
		}
	}
	return nil
}

// writeHeaderField emits the value, or the NILVALUE placeholder when
// the field is absent.
func writeHeaderField(b *bytes.Buffer, value string) {
	if value == "" {
		b.WriteByte('-')
		return
	}
	b.WriteString(value)
}
