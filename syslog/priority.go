// Package syslog is the client surface over the rfc5424 encoder:
// facility/severity tables, transports for local and network
// delivery, and a small logger that stamps per-process identity onto
// outgoing messages.
package syslog

import (
	"fmt"
	"strings"
)

// Severity is the syslog severity code, 0 (emergency) through 7
// (debug).
type Severity int

const (
	SeverityEmerg Severity = iota
	SeverityAlert
	SeverityCrit
	SeverityErr
	SeverityWarning
	SeverityNotice
	SeverityInfo
	SeverityDebug
)

// Facility is the syslog facility code, 0 (kernel) through 23
// (local7).
type Facility int

const (
	FacilityKern Facility = iota
	FacilityUser
	FacilityMail
	FacilityDaemon
	FacilityAuth
	FacilitySyslog
	FacilityLPR
	FacilityNews
	FacilityUUCP
	FacilityCron
	FacilityAuthPriv
	FacilityFTP
	FacilityNTP
	FacilityAudit
	FacilityAlert
	FacilityClock
	FacilityLocal0
	FacilityLocal1
	FacilityLocal2
	FacilityLocal3
	FacilityLocal4
	FacilityLocal5
	FacilityLocal6
	FacilityLocal7
)

// Priority composes the PRI value the encoder validates:
// severity + 8*facility.
func Priority(f Facility, s Severity) int {
	return int(f)*8 + int(s)
}

var severityNames = []string{
	"emerg", "alert", "crit", "err", "warning", "notice", "info", "debug",
}

var facilityNames = []string{
	"kern", "user", "mail", "daemon", "auth", "syslog", "lpr", "news",
	"uucp", "cron", "authpriv", "ftp", "ntp", "audit", "alert", "clock",
	"local0", "local1", "local2", "local3", "local4", "local5", "local6", "local7",
}

func (s Severity) String() string {
	if s >= 0 && int(s) < len(severityNames) {
		return severityNames[s]
	}
	return fmt.Sprintf("severity(%d)", int(s))
}

func (f Facility) String() string {
	if f >= 0 && int(f) < len(facilityNames) {
		return facilityNames[f]
	}
	return fmt.Sprintf("facility(%d)", int(f))
}

// ParseSeverity maps a case-insensitive keyword to a severity code.
// The common aliases used by log frameworks are accepted alongside
// the canonical keywords.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(s) {
	case "emerg", "emergency", "panic":
		return SeverityEmerg, nil
	case "alert":
		return SeverityAlert, nil
	case "crit", "critical", "fatal":
		return SeverityCrit, nil
	case "err", "error":
		return SeverityErr, nil
	case "warning", "warn":
		return SeverityWarning, nil
	case "notice":
		return SeverityNotice, nil
	case "info", "informational":
		return SeverityInfo, nil
	case "debug", "trace":
		return SeverityDebug, nil
	}
	return 0, fmt.Errorf("unknown severity keyword: %q", s)
}

// ParseFacility maps a case-insensitive keyword to a facility code.
func ParseFacility(s string) (Facility, error) {
	lower := strings.ToLower(s)
	for i, name := range facilityNames {
		if name == lower {
			return Facility(i), nil
		}
	}
	if lower == "security" {
		return FacilityAuth, nil
	}
	return 0, fmt.Errorf("unknown facility keyword: %q", s)
}
