package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFrom_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	want := DefaultConfig()
	if cfg.Layout != want.Layout || cfg.Anchors != want.Anchors || cfg.Simulator != want.Simulator {
		t.Errorf("LoadFrom() = %+v, want defaults", cfg)
	}
}

func TestLoadFrom_OverridesAndDurations(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
theme: latte
log_level: debug
web:
  port: 7070
device:
  user_agent: "Mozilla/5.0 (iPhone)"
  pointer: coarse
layout:
  grid_cell: 24
  churn_interval: 25ms
  churn_ticks: 16
anchors:
  frame: phone
`)
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Theme != "latte" {
		t.Errorf("Theme = %q", cfg.Theme)
	}
	if cfg.Web.Port != 7070 || cfg.Web.Bind != "127.0.0.1" {
		t.Errorf("Web = %+v", cfg.Web)
	}
	if cfg.Device.Pointer != "coarse" {
		t.Errorf("Device.Pointer = %q", cfg.Device.Pointer)
	}
	if cfg.Layout.GridCell != 24 {
		t.Errorf("GridCell = %d", cfg.Layout.GridCell)
	}
	if cfg.Layout.ChurnInterval != 25*time.Millisecond {
		t.Errorf("ChurnInterval = %v", cfg.Layout.ChurnInterval)
	}
	if cfg.Layout.MinFrameHeight != 320 {
		t.Errorf("MinFrameHeight = %d, want default 320", cfg.Layout.MinFrameHeight)
	}
	if cfg.Anchors.Frame != "phone" || cfg.Anchors.Header != "headerGroup" {
		t.Errorf("Anchors = %+v", cfg.Anchors)
	}
}

func TestLoadFrom_ZeroedFieldsRestored(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
theme: ""
layout:
  min_frame_height: 0
  grid_cell: 0
`)
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Theme != "mocha" || cfg.Layout.MinFrameHeight != 320 || cfg.Layout.GridCell != 32 {
		t.Errorf("defaults not restored: %+v", cfg)
	}
}

func TestLoadFrom_InvalidYAML(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "layout: [unclosed")
	cfg, err := LoadFrom(path)
	if err == nil {
		t.Fatal("LoadFrom() should fail on invalid yaml")
	}
	if cfg.Theme != "mocha" {
		t.Errorf("defaults should be returned with the error, got %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"min above max", func(c *Config) { c.Simulator.MinWidth = 2000 }, "min_width"},
		{"negative fudge", func(c *Config) { c.Layout.Fudge = -1 }, "fudge"},
		{"bad pointer", func(c *Config) { c.Device.Pointer = "stylus" }, "pointer"},
		{"port range", func(c *Config) { c.Web.Port = 70000 }, "port"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestPath_UsesXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := Path(); got != filepath.Join("/tmp/xdg", "devframe", "config.yaml") {
		t.Errorf("Path() = %q", got)
	}
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "theme: mocha\n")

	changes := make(chan Config, 4)
	w, err := NewWatcher(path, func(c Config) {
		select {
		case changes <- c:
		default:
		}
	}, nil)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give Run a moment to register the directory watch.
	time.Sleep(100 * time.Millisecond)
	writeConfig(t, dir, "theme: frappe\n")

	select {
	case cfg := <-changes:
		if cfg.Theme != "frappe" {
			t.Errorf("reloaded Theme = %q, want frappe", cfg.Theme)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timeout waiting for reload")
	}

	cancel()
	<-done
}
