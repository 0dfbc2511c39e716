// Package spool buffers encoded syslog messages on disk while the
// upstream destination is unreachable. Messages accumulate in memory
// and are flushed as zstd-compressed segment files; Drain replays
// them oldest-first once delivery recovers. Delivery is at-least-once:
// a segment interrupted mid-drain is replayed whole on the next pass.
package spool

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

// Segment file header.
var magicHeader = []byte("SPOOLSG1")

var ErrInvalidSegment = errors.New("invalid spool segment header")

// flushThreshold is the pending byte count that triggers an
// automatic flush.
const flushThreshold = 1 << 20

// Spool accumulates messages and persists them as compressed
// segments under a single directory.
type Spool struct {
	dir     string
	encoder *zstd.Encoder
	decoder *zstd.Decoder

	mu           sync.Mutex
	pending      [][]byte
	pendingBytes int
	minTs, maxTs int64
	seq          int
}

// New opens a spool rooted at dir, creating the directory if needed.
func New(dir string) (*Spool, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	return &Spool{dir: dir, encoder: enc, decoder: dec}, nil
}

// Add queues one encoded message. The spool owns its own copy. When
// pending data crosses the flush threshold a segment is written
// immediately.
func (s *Spool) Add(msg []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	buf := make([]byte, len(msg))
	copy(buf, msg)

	now := time.Now().Unix()
	if len(s.pending) == 0 {
		s.minTs = now
	}
	s.maxTs = now
	s.pending = append(s.pending, buf)
	s.pendingBytes += len(buf)

	if s.pendingBytes >= flushThreshold {
		return s.flushLocked()
	}
	return nil
}

// Pending returns the number of messages not yet written to disk.
func (s *Spool) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Flush writes all pending messages as one segment file.
func (s *Spool) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushLocked()
}

func (s *Spool) flushLocked() error {
	if len(s.pending) == 0 {
		return nil
	}

	// Frame: [Len uint32][Bytes] per message, then compress the
	// whole block.
	raw := new(bytes.Buffer)
	for _, msg := range s.pending {
		binary.Write(raw, binary.LittleEndian, uint32(len(msg)))
		raw.Write(msg)
	}
	compressed := s.encoder.EncodeAll(raw.Bytes(), make([]byte, 0, raw.Len()))

	s.seq++
	name := fmt.Sprintf("spool_%d_%d_%d.seg", s.minTs, s.maxTs, s.seq)
	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"

	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := f.Write(magicHeader); err != nil {
		f.Close()
		return err
	}
	if err := binary.Write(f, binary.LittleEndian, uint32(len(compressed))); err != nil {
		f.Close()
		return err
	}
	if _, err := f.Write(compressed); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		return err
	}

	s.pending = nil
	s.pendingBytes = 0
	return nil
}

// Drain replays spooled messages oldest-first through deliver.
// Pending in-memory messages are flushed first. Each fully delivered
// segment is deleted; if deliver fails, draining stops and the
// current segment stays on disk for the next attempt.
func (s *Spool) Drain(deliver func(msg []byte) error) error {
	if err := s.Flush(); err != nil {
		return err
	}

	files, err := s.segmentFiles()
	if err != nil {
		return err
	}
	sort.Strings(files)

	for _, file := range files {
		msgs, err := s.readSegment(file)
		if err != nil {
			// A corrupt segment blocks nothing else; drop it.
			os.Remove(file)
			continue
		}
		for _, msg := range msgs {
			if err := deliver(msg); err != nil {
				return err
			}
		}
		if err := os.Remove(file); err != nil {
			return err
		}
	}
	return nil
}

// Purge deletes segments whose newest message is older than the
// retention window. Returns the number of segments removed.
func (s *Spool) Purge(retention time.Duration) (int, error) {
	files, err := s.segmentFiles()
	if err != nil {
		return 0, err
	}

	threshold := time.Now().Add(-retention).Unix()
	removed := 0
	for _, file := range files {
		maxTs, err := maxTsFromName(filepath.Base(file))
		if err != nil {
			continue
		}
		if maxTs < threshold {
			if err := os.Remove(file); err == nil {
				removed++
			}
		}
	}
	return removed, nil
}

// Close flushes pending messages and releases the codecs.
func (s *Spool) Close() error {
	err := s.Flush()
	s.encoder.Close()
	s.decoder.Close()
	return err
}

func (s *Spool) segmentFiles() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".seg") {
			files = append(files, filepath.Join(s.dir, entry.Name()))
		}
	}
	return files, nil
}

func (s *Spool) readSegment(path string) ([][]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) < len(magicHeader)+4 || !bytes.Equal(data[:len(magicHeader)], magicHeader) {
		return nil, ErrInvalidSegment
	}

	size := binary.LittleEndian.Uint32(data[len(magicHeader) : len(magicHeader)+4])
	compressed := data[len(magicHeader)+4:]
	if uint32(len(compressed)) != size {
		return nil, ErrInvalidSegment
	}

	raw, err := s.decoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil, err
	}

	var msgs [][]byte
	r := bytes.NewReader(raw)
	for r.Len() > 0 {
		var length uint32
		if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
			return nil, ErrInvalidSegment
		}
		msg := make([]byte, length)
		if _, err := io.ReadFull(r, msg); err != nil {
			return nil, ErrInvalidSegment
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

// maxTsFromName extracts the max timestamp from a segment filename.
// Format: spool_{minTs}_{maxTs}_{seq}.seg
func maxTsFromName(name string) (int64, error) {
	base := strings.TrimSuffix(name, ".seg")
	parts := strings.Split(base, "_")
	if len(parts) != 4 {
		return 0, fmt.Errorf("invalid segment name")
	}
	return strconv.ParseInt(parts[2], 10, 64)
}
