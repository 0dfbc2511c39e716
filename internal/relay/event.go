package relay

import (
	"strings"
	"time"

	"github.com/valyala/fastjson"

	"github.com/coffersTech/syslogkit/rfc5424"
	"github.com/coffersTech/syslogkit/syslog"
)

// eventToMessage maps one ingested JSON object onto an RFC 5424
// message. Recognized fields:
//
//	timestamp  unix nanoseconds (missing or 0 means "now")
//	severity   keyword; "level" is accepted as an alias
//	facility   keyword, defaulting to the configured facility
//	host       HOSTNAME, falling back to the peer address
//	app        APP-NAME, defaulting to the configured app name
//	procid     PROCID
//	msgid      MSGID
//	message    body; "msg" is accepted as an alias
//
// Unknown severity and facility keywords degrade to notice and the
// default facility rather than dropping the event: the relay's job
// is delivery, and the encoder still guarantees the output is
// well-formed.
func (s *Server) eventToMessage(val *fastjson.Value, peerHost string) rfc5424.Message {
	ts := val.GetInt64("timestamp")
	var stamp rfc5424.Timestamp
	if ts == 0 {
		stamp = rfc5424.FromTime(time.Now())
	} else {
		stamp = rfc5424.FromTime(time.Unix(0, ts))
	}

	sevStr := string(val.GetStringBytes("severity"))
	if sevStr == "" {
		sevStr = string(val.GetStringBytes("level"))
	}
	sev, err := syslog.ParseSeverity(sevStr)
	if err != nil {
		sev = syslog.SeverityNotice
	}

	facility := s.cfg.Facility()
	if facStr := string(val.GetStringBytes("facility")); facStr != "" {
		if f, err := syslog.ParseFacility(facStr); err == nil {
			facility = f
		}
	}

	host := string(val.GetStringBytes("host"))
	if host == "" {
		host = peerHost
	}

	app := string(val.GetStringBytes("app"))
	if app == "" {
		app = s.cfg.DefaultAppName
	}

	msg := string(val.GetStringBytes("message"))
	if msg == "" {
		msg = string(val.GetStringBytes("msg"))
	}

	return rfc5424.Message{
		Priority:  syslog.Priority(facility, sev),
		Timestamp: stamp,
		Hostname:  sanitizeField(host, rfc5424.MaxHostnameLen),
		AppName:   sanitizeField(app, rfc5424.MaxAppNameLen),
		ProcID:    sanitizeField(string(val.GetStringBytes("procid")), rfc5424.MaxProcIDLen),
		MsgID:     sanitizeField(string(val.GetStringBytes("msgid")), rfc5424.MaxMsgIDLen),
		StructuredData: []rfc5424.SDElement{
			rfc5424.Element("origin",
				rfc5424.Param("software", "syslogkit-relay"),
				rfc5424.Param("swVersion", Version),
			),
		},
		Text: msg,
	}
}

// sanitizeField coerces arbitrary input into a valid header field:
// printable ASCII, truncated to the field limit. Offending bytes
// become '_' so the event still identifies its source; a value left
// empty encodes as the NILVALUE placeholder.
func sanitizeField(v string, maxLen int) string {
	if v == "" {
		return ""
	}
	var b strings.Builder
	for i := 0; i < len(v) && b.Len() < maxLen; i++ {
		c := v[i]
		if c > ' ' && c < 0x7f {
			b.WriteByte(c)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}
