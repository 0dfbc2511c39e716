package syslog

import (
	"os"
	"strconv"
	"time"

	"github.com/coffersTech/syslogkit/rfc5424"
)

// Logger builds one rfc5424.Message per call and hands it to its
// transport. Hostname, app-name and procid are stamped from the
// process environment unless overridden; the message record itself
// is constructed fresh per call and never retained.
type Logger struct {
	transport Transport
	facility  Facility

	// Defaults applied to every message.
	Hostname string
	AppName  string
	ProcID   string
}

// NewLogger wraps a transport with per-process identity. Hostname
// defaults to os.Hostname and procid to the process PID.
func NewLogger(t Transport, facility Facility, appName string) *Logger {
	hostname, _ := os.Hostname()
	return &Logger{
		transport: t,
		facility:  facility,
		Hostname:  hostname,
		AppName:   appName,
		ProcID:    strconv.Itoa(os.Getpid()),
	}
}

// Log sends msg at the given severity, timestamped now.
func (l *Logger) Log(s Severity, msg string, sd ...rfc5424.SDElement) error {
	m := rfc5424.Message{
		Priority:       Priority(l.facility, s),
		Timestamp:      rfc5424.FromTime(time.Now()),
		Hostname:       l.Hostname,
		AppName:        l.AppName,
		ProcID:         l.ProcID,
		StructuredData: sd,
		Text:           msg,
	}
	return l.transport.WriteMessage(&m)
}

// WriteMessage sends a caller-built message, filling in the identity
// fields the caller left absent.
func (l *Logger) WriteMessage(m *rfc5424.Message) error {
	if m.Hostname == "" {
		m.Hostname = l.Hostname
	}
	if m.AppName == "" {
		m.AppName = l.AppName
	}
	if m.ProcID == "" {
		m.ProcID = l.ProcID
	}
	return l.transport.WriteMessage(m)
}

func (l *Logger) Emerg(msg string) error   { return l.Log(SeverityEmerg, msg) }
func (l *Logger) Alert(msg string) error   { return l.Log(SeverityAlert, msg) }
func (l *Logger) Crit(msg string) error    { return l.Log(SeverityCrit, msg) }
func (l *Logger) Err(msg string) error     { return l.Log(SeverityErr, msg) }
func (l *Logger) Warning(msg string) error { return l.Log(SeverityWarning, msg) }
func (l *Logger) Notice(msg string) error  { return l.Log(SeverityNotice, msg) }
func (l *Logger) Info(msg string) error    { return l.Log(SeverityInfo, msg) }
func (l *Logger) Debug(msg string) error   { return l.Log(SeverityDebug, msg) }

// Close closes the underlying transport.
func (l *Logger) Close() error {
	return l.transport.Close()
}
