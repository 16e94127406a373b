// pattern: Imperative Shell

// Package simulator holds the geometry producers: the frame width slider,
// the mobile/desktop presets and the live and game-template toggles. Every
// change is announced on the layout bus.
package simulator

import (
	"errors"
	"fmt"
	"slices"

	"devframe/internal/bus"
	"devframe/internal/config"
	"devframe/internal/dom"
	"devframe/internal/logging"
)

// Bus reasons published by the simulator.
const (
	ReasonSetWidth   = "Simulator.setWidth"
	ReasonToggleLive = "Simulator.toggleLive"
	ReasonToggleGame = "Simulator.toggleGame"
	ReasonSetMode    = "Simulator.setMode"
)

// Presets.
const (
	ModeMobile  = "mobile"
	ModeDesktop = "desktop"
)

// Action names accepted by Do.
const (
	ActionMobile  = "mobile"
	ActionDesktop = "desktop"
	ActionLive    = "live"
	ActionGame    = "game"
)

// Actions lists every action name in display order.
var Actions = []string{ActionMobile, ActionDesktop, ActionLive, ActionGame}

var (
	ErrUnknownMode   = errors.New("unknown mode")
	ErrUnknownAction = errors.New("unknown action")
)

// Churner re-applies layout while a CSS transition runs.
type Churner interface {
	Churn(reason string)
}

// Simulator drives the device frame. It is not safe for concurrent use.
type Simulator struct {
	doc     *dom.Document
	bus     *bus.Bus
	churner Churner
	cfg     config.SimulatorConfig
	frameID string
	logger  *logging.ScopedLogger

	width int
}

// New creates a simulator for the frame with id frameID. churner may be nil.
func New(doc *dom.Document, b *bus.Bus, churner Churner, cfg config.SimulatorConfig, frameID string, logger *logging.ScopedLogger) *Simulator {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Simulator{
		doc:     doc,
		bus:     b,
		churner: churner,
		cfg:     cfg,
		frameID: frameID,
		logger:  logger,
	}
}

// Init applies the default slider width.
func (s *Simulator) Init() {
	s.logger.Info("init")
	s.SetWidth(s.cfg.DefaultWidth, "init")
}

// ClampWidth bounds px to the slider range. Zero means the default width.
func ClampWidth(px int, cfg config.SimulatorConfig) int {
	if px == 0 {
		px = cfg.DefaultWidth
	}
	return max(cfg.MinWidth, min(cfg.MaxWidth, px))
}

// SetWidth clamps px, writes it as the frame width and notifies the bus.
// In live mode the width is remembered and applied when live mode ends.
// It returns the applied width, or 0 when the frame is missing.
func (s *Simulator) SetWidth(px int, reason string) int {
	f := s.doc.ByID(s.frameID)
	if f == nil {
		s.logger.Warn("device frame missing", "id", s.frameID)
		return 0
	}
	w := ClampWidth(px, s.cfg)
	s.width = w
	if !s.Live() {
		f.SetStyle("width", dom.Px(float64(w)))
	}
	s.logger.Debug("setWidth", "w", w, "reason", reason)
	s.notify(ReasonSetWidth)
	return w
}

// Nudge moves the slider by steps slider steps.
func (s *Simulator) Nudge(steps int) int {
	return s.SetWidth(s.width+steps*s.cfg.Step, "slider:input")
}

// SetMode applies a preset width. The width animates, so the layout is
// churned for the length of the transition.
func (s *Simulator) SetMode(mode string) error {
	var w int
	switch mode {
	case ModeMobile:
		w = s.cfg.MobileWidth
	case ModeDesktop:
		w = s.cfg.DesktopWidth
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
	s.logger.Info("setMode", "mode", mode)
	if s.SetWidth(w, "setMode:"+mode) == 0 {
		return nil
	}
	if s.churner != nil {
		s.churner.Churn(ReasonSetMode)
	}
	return nil
}

// ToggleLive flips the live preview. Live mode lets the frame fill the
// page; leaving it restores the slider width.
func (s *Simulator) ToggleLive() bool {
	body := s.doc.Body
	before := body.HasClass(dom.ClassLive)
	after := body.ToggleClass(dom.ClassLive)

	if f := s.doc.ByID(s.frameID); f != nil {
		if after {
			f.SetStyle("width", "")
		} else if s.width > 0 {
			f.SetStyle("width", dom.Px(float64(s.width)))
		}
	}
	s.logger.Info("toggleLiveMode", "before", before, "after", after)
	s.notify(ReasonToggleLive)
	return after
}

// ToggleGame flips between the workspace and game templates.
func (s *Simulator) ToggleGame() bool {
	body := s.doc.Body
	before := body.HasClass(dom.ClassGame)
	after := body.ToggleClass(dom.ClassGame)
	s.logger.Info("toggleGame", "before", before, "after", after)
	s.notify(ReasonToggleGame)
	return after
}

// Do runs a named action.
func (s *Simulator) Do(action string) error {
	switch action {
	case ActionMobile, ActionDesktop:
		return s.SetMode(action)
	case ActionLive:
		s.ToggleLive()
	case ActionGame:
		s.ToggleGame()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	return nil
}

// ValidAction reports whether Do accepts name.
func ValidAction(name string) bool {
	return slices.Contains(Actions, name)
}

// Width is the slider width.
func (s *Simulator) Width() int {
	return s.width
}

// Live reports live mode.
func (s *Simulator) Live() bool {
	return s.doc.Body.HasClass(dom.ClassLive)
}

// Game reports the game template.
func (s *Simulator) Game() bool {
	return s.doc.Body.HasClass(dom.ClassGame)
}

// SetConfig replaces the slider bounds and re-clamps the current width.
func (s *Simulator) SetConfig(cfg config.SimulatorConfig) {
	s.cfg = cfg
	if s.width != 0 && ClampWidth(s.width, cfg) != s.width {
		s.SetWidth(s.width, "config.reload")
	}
}

func (s *Simulator) notify(reason string) {
	if s.bus != nil {
		s.bus.Notify(reason)
	}
}
