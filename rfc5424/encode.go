package rfc5424

import (
	"bytes"
	"io"
	"strconv"
)

// version is the only SYSLOG-MSG version this encoder produces.
const version = "1"

// Validate checks every field of the message against the RFC 5424
// grammar and returns a *FieldError for the first violation found.
// A nil return means WriteTo will succeed apart from sink I/O errors.
func (m *Message) Validate() error {
	if !validPriority(m.Priority) {
		return fieldErr("priority", strconv.Itoa(m.Priority), "must be in [0, 192)")
	}
	if err := validTimestamp(m.Timestamp); err != nil {
		return err
	}
	if err := validHeaderField("hostname", m.Hostname, MaxHostnameLen); err != nil {
		return err
	}
	if err := validHeaderField("app-name", m.AppName, MaxAppNameLen); err != nil {
		return err
	}
	if err := validHeaderField("procid", m.ProcID, MaxProcIDLen); err != nil {
		return err
	}
	if err := validHeaderField("msgid", m.MsgID, MaxMsgIDLen); err != nil {
		return err
	}
	for _, e := range m.StructuredData {
		if err := validElement(e); err != nil {
			return err
		}
	}
	return nil
}

// WriteTo validates the message and, only if every field passes,
// writes the complete RFC 5424 encoding to w. On a validation
// failure the returned error unwraps to ErrMalformed and w receives
// zero bytes. Errors returned by w itself pass through unchanged.
//
// The message is assembled in memory first, so a partially written
// message can only result from the sink failing mid-write, never
// from the encoder.
func (m *Message) WriteTo(w io.Writer) (int64, error) {
	if err := m.Validate(); err != nil {
		return 0, err
	}
	var b bytes.Buffer
	m.encode(&b)
	n, err := w.Write(b.Bytes())
	return int64(n), err
}

// String renders the message, returning an error for invalid input.
func (m *Message) String() (string, error) {
	if err := m.Validate(); err != nil {
		return "", err
	}
	var b bytes.Buffer
	m.encode(&b)
	return b.String(), nil
}

// encode is the pre-validated fast path. It must only be called
// after Validate has passed; it performs no checking of its own.
// Field order is fixed by RFC 5424 §6:
//
//	<PRI>VERSION SP TIMESTAMP SP HOSTNAME SP APP-NAME SP PROCID
//	SP MSGID SP STRUCTURED-DATA [SP MSG]
func (m *Message) encode(b *bytes.Buffer) {
	writePriority(b, m.Priority)
	b.WriteString(version)
	b.WriteByte(' ')
	writeTimestamp(b, m.Timestamp)
	b.WriteByte(' ')
	writeHeaderField(b, m.Hostname)
	b.WriteByte(' ')
	writeHeaderField(b, m.AppName)
	b.WriteByte(' ')
	writeHeaderField(b, m.ProcID)
	b.WriteByte(' ')
	writeHeaderField(b, m.MsgID)
	b.WriteByte(' ')
	writeStructuredData(b, m.StructuredData)
	if m.Text != "" {
		b.WriteByte(' ')
		b.WriteString(m.Text)
	}
}
