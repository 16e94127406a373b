// pattern: Imperative Shell

package logging

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// ChannelSink is a zapcore.WriteSyncer that decodes each JSON line zap
// writes and pushes the resulting LogEntry onto a bounded channel. When the
// channel is full the oldest entry is discarded.
type ChannelSink struct {
	entries chan LogEntry
	mu      sync.Mutex
	closed  bool
}

// NewChannelSink creates a sink buffering up to bufferSize entries.
func NewChannelSink(bufferSize int) *ChannelSink {
	return &ChannelSink{entries: make(chan LogEntry, bufferSize)}
}

// Write implements io.Writer. Undecodable input is accepted and dropped.
func (s *ChannelSink) Write(p []byte) (int, error) {
	entry, err := decodeEntry(p)
	if err != nil {
		return len(p), nil
	}
	if err := s.push(entry); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Send pushes an already-built entry.
func (s *ChannelSink) Send(entry LogEntry) {
	_ = s.push(entry)
}

func (s *ChannelSink) push(entry LogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("write to closed channel sink")
	}

	select {
	case s.entries <- entry:
		return nil
	default:
	}
	// Full: evict the oldest, then retry once.
	select {
	case <-s.entries:
	default:
	}
	select {
	case s.entries <- entry:
	default:
	}
	return nil
}

// Sync implements zapcore.WriteSyncer.
func (s *ChannelSink) Sync() error {
	return nil
}

// Close closes the channel. Safe to call more than once.
func (s *ChannelSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.entries)
	}
	return nil
}

// Entries returns the receive side of the channel.
func (s *ChannelSink) Entries() <-chan LogEntry {
	return s.entries
}

func decodeEntry(data []byte) (LogEntry, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return LogEntry{}, err
	}

	entry := LogEntry{
		Timestamp: time.Now(),
		Level:     "INFO",
		Scope:     "app",
		Fields:    make(map[string]any),
	}

	if msg, ok := raw["msg"].(string); ok {
		entry.Message = msg
	}
	if level, ok := raw["level"].(string); ok {
		entry.Level = ParseLevel(level)
	}
	if logger, ok := raw["logger"].(string); ok {
		entry.Scope = logger
	}
	if ts, ok := raw["ts"].(float64); ok {
		sec := int64(ts)
		entry.Timestamp = time.Unix(sec, int64((ts-float64(sec))*1e9))
	}

	for _, k := range []string{"msg", "level", "logger", "ts", "caller", "stacktrace"} {
		delete(raw, k)
	}
	for k, v := range raw {
		entry.Fields[k] = v
	}
	return entry, nil
}
