package relay

import (
	"bytes"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/coffersTech/syslogkit/internal/spool"
	"github.com/coffersTech/syslogkit/rfc5424"
	"github.com/coffersTech/syslogkit/syslog"
)

// Forwarder delivers encoded messages upstream, spooling them while
// the connection is down and draining the spool once it recovers.
type Forwarder struct {
	network string
	addr    string
	spool   *spool.Spool

	mu        sync.Mutex
	transport syslog.Transport

	// Counters exposed via /api/status.
	delivered int64
	spooled   int64
}

// NewForwarder creates a forwarder; the first connection attempt
// happens on the first Send.
func NewForwarder(network, addr string, sp *spool.Spool) *Forwarder {
	return &Forwarder{network: network, addr: addr, spool: sp}
}

// Send encodes and delivers one message. Malformed messages are
// rejected immediately; delivery failures land the encoded bytes in
// the spool and are not an error to the caller.
func (f *Forwarder) Send(m *rfc5424.Message) error {
	var buf bytes.Buffer
	if _, err := m.WriteTo(&buf); err != nil {
		return err
	}
	f.deliver(buf.Bytes())
	return nil
}

func (f *Forwarder) deliver(encoded []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.transport == nil {
		t, err := syslog.Dial(f.network, f.addr)
		if err != nil {
			f.spoolLocked(encoded)
			return
		}
		f.transport = t
		f.drainLocked()
		if f.transport == nil {
			// The drain lost the fresh connection again.
			f.spoolLocked(encoded)
			return
		}
	}

	if err := f.writeRaw(encoded); err != nil {
		log.Printf("Upstream write failed, spooling: %v", err)
		f.transport.Close()
		f.transport = nil
		f.spoolLocked(encoded)
		return
	}
	f.delivered++
}

// writeRaw sends pre-encoded bytes through the live transport. The
// bytes were produced by Message.WriteTo, so re-validating via a
// parsed Message is unnecessary; the raw path keeps spool replay
// byte-identical to the original encoding.
func (f *Forwarder) writeRaw(encoded []byte) error {
	rt, ok := f.transport.(syslog.RawWriter)
	if !ok {
		return errors.New("transport does not support raw writes")
	}
	return rt.WriteRaw(encoded)
}

func (f *Forwarder) spoolLocked(encoded []byte) {
	if err := f.spool.Add(encoded); err != nil {
		log.Printf("Spool write failed, message dropped: %v", err)
		return
	}
	f.spooled++
}

// drainLocked replays spooled messages through the fresh connection.
func (f *Forwarder) drainLocked() {
	err := f.spool.Drain(func(msg []byte) error {
		if err := f.writeRaw(msg); err != nil {
			return err
		}
		f.delivered++
		return nil
	})
	if err != nil {
		log.Printf("Spool drain interrupted: %v", err)
		if f.transport != nil {
			f.transport.Close()
			f.transport = nil
		}
	}
}

// RunPurger deletes expired spool segments on a ticker until stop is
// closed. A non-positive retention disables purging.
func (f *Forwarder) RunPurger(retention time.Duration, interval time.Duration, stop <-chan struct{}) {
	if retention <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			removed, err := f.spool.Purge(retention)
			if err != nil {
				log.Printf("Spool purge error: %v", err)
			} else if removed > 0 {
				log.Printf("Spool purge: removed %d expired segments", removed)
			}
		case <-stop:
			return
		}
	}
}

// Stats returns delivery counters.
func (f *Forwarder) Stats() (delivered, spooled int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.delivered, f.spooled
}

// Close flushes the spool and closes the upstream connection.
func (f *Forwarder) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.transport != nil {
		f.transport.Close()
		f.transport = nil
	}
	return f.spool.Close()
}
