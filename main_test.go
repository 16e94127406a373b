package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"devframe/internal/config"
	"devframe/internal/logging"
)

func TestLogManagerInitialization(t *testing.T) {
	tmpDir := t.TempDir()

	lm, err := logging.NewManager(logConfig(tmpDir, config.DefaultConfig(), "sess-1"))
	if err != nil {
		t.Fatalf("failed to create LogManager: %v", err)
	}
	defer lm.Close()

	logger := lm.For("app")
	logger.Info("test message")

	lm.Sync()

	if _, err := os.Stat(filepath.Join(tmpDir, "devframe.log")); os.IsNotExist(err) {
		t.Error("log file was not created")
	}

	select {
	case entry := <-lm.Entries():
		if entry.Scope != "app" {
			t.Errorf("expected scope 'app', got %q", entry.Scope)
		}
		if entry.Message != "test message" {
			t.Errorf("expected message 'test message', got %q", entry.Message)
		}
		if entry.Fields["session"] != "sess-1" {
			t.Errorf("expected session field 'sess-1', got %v", entry.Fields["session"])
		}
	default:
		t.Error("no log entry received on channel")
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("missing file uses defaults", func(t *testing.T) {
		cfg, err := loadConfig(t.TempDir(), deviceOverrides{})
		if err != nil {
			t.Fatalf("loadConfig() error = %v", err)
		}
		if cfg.Simulator != config.DefaultConfig().Simulator {
			t.Errorf("Simulator = %+v, want defaults", cfg.Simulator)
		}
	})

	t.Run("flags override file", func(t *testing.T) {
		dir := t.TempDir()
		content := "device:\n  user_agent: desktop\n  pointer: fine\n"
		if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		cfg, err := loadConfig(dir, deviceOverrides{UserAgent: "Mozilla/5.0 (iPhone)", Pointer: "coarse"})
		if err != nil {
			t.Fatalf("loadConfig() error = %v", err)
		}
		if cfg.Device.UserAgent != "Mozilla/5.0 (iPhone)" || cfg.Device.Pointer != "coarse" {
			t.Errorf("Device = %+v, want overrides", cfg.Device)
		}
	})

	t.Run("invalid pointer flag fails validation", func(t *testing.T) {
		_, err := loadConfig(t.TempDir(), deviceOverrides{Pointer: "stylus"})
		if err == nil || !strings.Contains(err.Error(), "device.pointer") {
			t.Fatalf("loadConfig() error = %v, want device.pointer error", err)
		}
	})
}

func TestConfigPath(t *testing.T) {
	if got := configPath("/tmp/df"); got != filepath.Join("/tmp/df", "config.yaml") {
		t.Errorf("configPath(dir) = %q", got)
	}
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := configPath(""); got != filepath.Join("/tmp/xdg", "devframe", "config.yaml") {
		t.Errorf("configPath(\"\") = %q", got)
	}
}
