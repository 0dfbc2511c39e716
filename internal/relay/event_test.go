package relay

import (
	"strings"
	"testing"

	"github.com/valyala/fastjson"
)

func parseEvent(t *testing.T, raw string) *fastjson.Value {
	t.Helper()
	v, err := fastjson.Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return v
}

func TestEventToMessage(t *testing.T) {
	srv, _ := newTestServer(t, testConfig(t))

	v := parseEvent(t, `{
		"timestamp": 1065910455003000000,
		"severity": "notice",
		"facility": "local4",
		"host": "mymachine.example.com",
		"app": "su",
		"msgid": "ID47",
		"message": "ready"
	}`)

	m := srv.eventToMessage(v, "192.0.2.1")

	if m.Priority != 165 {
		t.Errorf("Priority = %d, want 165", m.Priority)
	}
	// 1065910455003000000 ns is 2003-10-11T22:14:15.003Z.
	if m.Timestamp.Year != 2003 || m.Timestamp.Month != 10 || m.Timestamp.Day != 11 {
		t.Errorf("date = %04d-%02d-%02d, want 2003-10-11", m.Timestamp.Year, m.Timestamp.Month, m.Timestamp.Day)
	}
	if m.Hostname != "mymachine.example.com" || m.AppName != "su" || m.MsgID != "ID47" {
		t.Errorf("header fields = %q %q %q", m.Hostname, m.AppName, m.MsgID)
	}
	if m.Text != "ready" {
		t.Errorf("Text = %q", m.Text)
	}
	if err := m.Validate(); err != nil {
		t.Errorf("mapped message does not validate: %v", err)
	}
}

func TestEventToMessageDefaults(t *testing.T) {
	srv, _ := newTestServer(t, testConfig(t))

	m := srv.eventToMessage(parseEvent(t, `{"msg":"fallback body"}`), "192.0.2.9")

	// No severity: notice. No facility: configured default (user).
	if m.Priority != 13 {
		t.Errorf("Priority = %d, want 13 (user/notice)", m.Priority)
	}
	if m.Hostname != "192.0.2.9" {
		t.Errorf("Hostname = %q, want peer fallback", m.Hostname)
	}
	if m.AppName != "relay" {
		t.Errorf("AppName = %q, want configured default", m.AppName)
	}
	if m.Text != "fallback body" {
		t.Errorf("Text = %q, want msg alias", m.Text)
	}
}

func TestEventToMessageSanitizes(t *testing.T) {
	srv, _ := newTestServer(t, testConfig(t))

	m := srv.eventToMessage(parseEvent(t, `{"host":"bad host\nname","message":"x"}`), "peer")

	if m.Hostname != "bad_host_name" {
		t.Errorf("Hostname = %q, want sanitized %q", m.Hostname, "bad_host_name")
	}
	if err := m.Validate(); err != nil {
		t.Errorf("sanitized message does not validate: %v", err)
	}
}

func TestEventToMessageStampsOrigin(t *testing.T) {
	srv, _ := newTestServer(t, testConfig(t))

	m := srv.eventToMessage(parseEvent(t, `{"message":"x"}`), "peer")

	s, err := m.String()
	if err != nil {
		t.Fatalf("String: %v", err)
	}
	if !strings.Contains(s, `[origin software="syslogkit-relay"`) {
		t.Errorf("encoded %q: origin element missing", s)
	}
}

func TestSanitizeField(t *testing.T) {
	tests := []struct {
		input string
		max   int
		want  string
	}{
		{"", 48, ""},
		{"clean", 48, "clean"},
		{"with space", 48, "with_space"},
		{"tab\there", 48, "tab_here"},
		{"caf\xc3\xa9", 48, "caf__"},
		{"toolong", 4, "tool"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := sanitizeField(tt.input, tt.max); got != tt.want {
				t.Errorf("sanitizeField(%q, %d) = %q, want %q", tt.input, tt.max, got, tt.want)
			}
		})
	}
}
