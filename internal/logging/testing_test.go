// pattern: Imperative Shell

package logging

import "testing"

func TestNopLogger(t *testing.T) {
	logger := NopLogger()
	logger.Debug("x")
	logger.Info("x")
	logger.Warn("x")
	logger.Error("x")
	if logger.With("k", "v") == nil {
		t.Fatal("With() returned nil")
	}
}

func TestNilScopedLogger(t *testing.T) {
	var logger *ScopedLogger
	logger.Info("no panic")
	if logger.Scope() != "" {
		t.Error("nil logger scope should be empty")
	}
}

func TestTestLogManager_RecordsDebug(t *testing.T) {
	lm := NewTestLogManager(10)
	defer func() { _ = lm.Close() }()

	lm.For("bus").Debug("notify", "reason", "init")

	entries := lm.Drain()
	if len(entries) != 1 {
		t.Fatalf("Drain() = %d entries, want 1", len(entries))
	}
	if entries[0].Scope != "bus" || entries[0].Level != "DEBUG" {
		t.Errorf("entry = %+v", entries[0])
	}
	if entries[0].Fields["reason"] != "init" {
		t.Errorf("reason field = %v", entries[0].Fields["reason"])
	}
}

func TestTestLogManager_CachesScopes(t *testing.T) {
	lm := NewTestLogManager(1)
	defer func() { _ = lm.Close() }()

	if lm.For("gate") != lm.For("gate") {
		t.Error("For() should cache by scope")
	}
	if lm.For("gate") == lm.For("fit") {
		t.Error("different scopes should yield different loggers")
	}
}
