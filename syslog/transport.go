package syslog

import (
	"bytes"
	"fmt"
	"net"
	"strconv"
	"sync"

	"github.com/coffersTech/syslogkit/rfc5424"
)

// Transport delivers a fully encoded message to a destination. The
// encoder itself makes no ordering guarantee across callers sharing a
// sink, so implementations serialize their own writes.
type Transport interface {
	// WriteMessage validates and sends one message. Validation
	// failures surface as rfc5424.ErrMalformed; nothing is sent.
	WriteMessage(m *rfc5424.Message) error
	Close() error
}

// RawWriter is the optional transport extension for sending bytes
// that were already encoded and validated, e.g. when replaying a
// disk spool. Implementations apply the same framing as
// WriteMessage.
type RawWriter interface {
	WriteRaw(encoded []byte) error
}

// netTransport sends messages over a net.Conn. Datagram sockets get
// one message per packet; stream sockets use the octet-counting
// framing from RFC 6587 ("<len> <msg>") so message boundaries survive
// TCP coalescing.
type netTransport struct {
	mu     sync.Mutex
	conn   net.Conn
	framed bool
}

// Dial connects a transport to the given destination. Supported
// networks: "udp", "udp4", "udp6", "unixgram" (datagram, unframed)
// and "tcp", "tcp4", "tcp6", "unix" (stream, octet-counted).
func Dial(network, addr string) (Transport, error) {
	var framed bool
	switch network {
	case "udp", "udp4", "udp6", "unixgram":
	case "tcp", "tcp4", "tcp6", "unix":
		framed = true
	default:
		return nil, fmt.Errorf("syslog: unsupported network %q", network)
	}

	conn, err := net.Dial(network, addr)
	if err != nil {
		return nil, err
	}
	return &netTransport{conn: conn, framed: framed}, nil
}

func (t *netTransport) WriteMessage(m *rfc5424.Message) error {
	var buf bytes.Buffer
	if _, err := m.WriteTo(&buf); err != nil {
		return err
	}
	return t.WriteRaw(buf.Bytes())
}

// WriteRaw sends pre-encoded bytes with the transport's framing.
func (t *netTransport) WriteRaw(encoded []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.framed {
		if _, err := t.conn.Write([]byte(strconv.Itoa(len(encoded)) + " ")); err != nil {
			return err
		}
	}
	_, err := t.conn.Write(encoded)
	return err
}

func (t *netTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.conn.Close()
}

// localSocketPaths are the conventional locations of the kernel log
// facility socket, probed in order by DialLocal.
var localSocketPaths = []string{"/dev/log", "/var/run/syslog", "/var/run/log"}

// DialLocal connects to the local OS log facility over a unix
// datagram socket, trying the conventional socket paths in order.
func DialLocal() (Transport, error) {
	for _, network := range []string{"unixgram", "unix"} {
		for _, path := range localSocketPaths {
			conn, err := net.Dial(network, path)
			if err != nil {
				continue
			}
			return &netTransport{conn: conn, framed: network == "unix"}, nil
		}
	}
	return nil, fmt.Errorf("syslog: no local log socket found (tried %v)", localSocketPaths)
}
