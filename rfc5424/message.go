package rfc5424

import "time"

// Maximum lengths for the optional header fields, per RFC 5424 §6.
const (
	MaxHostnameLen = 255
	MaxAppNameLen  = 48
	MaxProcIDLen   = 128
	MaxMsgIDLen    = 32
)

// Message is the logical input to the encoder. A Message is built
// fresh per log call, validated and written by WriteTo, and holds no
// state between calls. The zero value of every optional field means
// "absent" and encodes as the NILVALUE placeholder.
type Message struct {
	// Priority is severity + 8*facility, in [0, 192). The encoder
	// validates the combined value only; composing it is the
	// caller's job (see the syslog package).
	Priority int

	Timestamp Timestamp

	// Optional header fields. Empty string means absent.
	Hostname string
	AppName  string
	ProcID   string
	MsgID    string

	// StructuredData elements are written in order with no
	// separator between elements.
	StructuredData []SDElement

	// Text is the free-form message body. The RFC recommends UTF-8
	// but the encoder does not enforce it. Empty means absent: no
	// trailing space is written.
	Text string
}

// Timestamp holds the six timestamp components plus an optional
// fractional second. Components are range-checked independently;
// there is no cross-field calendar validation, so e.g. April 31
// passes. Timestamps are always rendered in UTC with a "Z" suffix.
type Timestamp struct {
	Year   int // [1000, 9999]
	Month  int // [1, 12]
	Day    int // [1, 31]
	Hour   int // [0, 23]
	Minute int // [0, 59]
	Second int // [0, 59]

	// Fraction is the sub-second part in [0, 1), rendered as
	// exactly six digits by truncation. Only written when
	// HasFraction is set.
	Fraction    float64
	HasFraction bool
}

// FromTime converts a time.Time to a Timestamp, normalizing to UTC.
// The nanosecond part always yields a fraction, so the wire form
// carries six fractional digits even when they are zero.
func FromTime(t time.Time) Timestamp {
	t = t.UTC()
	return Timestamp{
		Year:        t.Year(),
		Month:       int(t.Month()),
		Day:         t.Day(),
		Hour:        t.Hour(),
		Minute:      t.Minute(),
		Second:      t.Second(),
		Fraction:    float64(t.Nanosecond()) / 1e9,
		HasFraction: true,
	}
}

// SDElement is one structured-data element: an SD-ID plus ordered
// parameters. The ID and every parameter name must satisfy the SD
// grammar before the element is handed to the encoder.
type SDElement struct {
	ID     string
	Params []SDParam
}

// SDParam is a single name/value annotation. Values may contain any
// text; the writer escapes `"`, `\` and `]`.
type SDParam struct {
	Name  string
	Value string
}

// Element is a convenience constructor for an SDElement.
func Element(id string, params ...SDParam) SDElement {
	return SDElement{ID: id, Params: params}
}

// Param is a convenience constructor for an SDParam.
func Param(name, value string) SDParam {
	return SDParam{Name: name, Value: value}
}
