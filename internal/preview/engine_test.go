package preview

import (
	"testing"

	"devframe/internal/config"
	"devframe/internal/dom"
	"devframe/internal/logging"
)

func TestEngine_Init(t *testing.T) {
	cfg := config.DefaultConfig()
	tlm := logging.NewTestLogManager(500)
	defer tlm.Close()

	e := NewEngine(cfg, dom.Size{Width: 1024, Height: 800}, tlm)
	e.Init()

	if e.Bus.Len() != 1 {
		t.Errorf("bus subscribers = %d, want the scheduler only", e.Bus.Len())
	}
	if got := e.Doc.ByID(cfg.Anchors.Frame).Style("width"); got != "512px" {
		t.Errorf("frame width = %q", got)
	}

	e.Loop.Tick(cfg.Layout.FrameInterval)
	g, ok := e.Fit.Last()
	if !ok || g.Reason != "init" {
		t.Fatalf("Last() = %+v, %v", g, ok)
	}
	if e.Gate.Active() {
		t.Error("gate active without a mobile device")
	}

	var observed bool
	for _, entry := range tlm.Drain() {
		if entry.Scope == "bus" && entry.Message == "layout change" {
			observed = true
		}
	}
	if !observed {
		t.Error("bus observer did not log")
	}
}

func TestEngine_MobileGate(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Device.UserAgent = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X)"
	tlm := logging.NewTestLogManager(500)
	defer tlm.Close()

	e := NewEngine(cfg, dom.Size{Width: 390, Height: 844}, tlm)
	e.Init()

	if !e.Gate.Active() {
		t.Fatal("gate inactive for an iPhone user agent")
	}
	if !e.Doc.Body.HasClass(dom.ClassRotateBlock) {
		t.Error("portrait iPhone not blocked")
	}
}
