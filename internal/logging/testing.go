// pattern: Imperative Shell

package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NopLogger returns a logger that discards all output.
func NopLogger() *ScopedLogger {
	return &ScopedLogger{}
}

// TestLogManager is a channel-only provider for tests. Every level is
// recorded so assertions can look for debug traces too.
type TestLogManager struct {
	channelSink *ChannelSink
	cache       *scopeCache
}

// NewTestLogManager creates a TestLogManager with the given channel buffer.
func NewTestLogManager(bufferSize int) *TestLogManager {
	sink := NewChannelSink(bufferSize)
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig()),
		zapcore.AddSync(sink),
		zapcore.DebugLevel,
	)
	return &TestLogManager{
		channelSink: sink,
		cache:       newScopeCache(zap.New(core), zapcore.DebugLevel),
	}
}

// For returns a scoped logger, matching Manager.For.
func (m *TestLogManager) For(scope string) *ScopedLogger {
	return m.cache.get(scope)
}

// Channel returns the channel of recorded entries.
func (m *TestLogManager) Channel() <-chan LogEntry {
	return m.channelSink.Entries()
}

// Drain returns every entry currently buffered without blocking.
func (m *TestLogManager) Drain() []LogEntry {
	var out []LogEntry
	for {
		select {
		case e, ok := <-m.channelSink.Entries():
			if !ok {
				return out
			}
			out = append(out, e)
		default:
			return out
		}
	}
}

// Close closes the underlying channel.
func (m *TestLogManager) Close() error {
	return m.channelSink.Close()
}
