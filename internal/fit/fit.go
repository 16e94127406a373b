// pattern: Imperative Shell

// Package fit recomputes the device frame and workspace geometry, at most
// once per frame, whenever anything asks it to.
package fit

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"devframe/internal/bus"
	"devframe/internal/config"
	"devframe/internal/dom"
	"devframe/internal/frame"
	"devframe/internal/layout"
	"devframe/internal/logging"
)

// ErrMissingAnchor is returned by Fit when a required element is absent.
var ErrMissingAnchor = errors.New("missing layout anchor")

// IconID is the id of the game-template icon overlay.
const IconID = "gameIcon"

// Options configures a Scheduler.
type Options struct {
	Anchors       dom.Anchors
	Limits        layout.Limits
	SafetyBuffer  float64
	ChurnInterval time.Duration
	ChurnTicks    int
}

// OptionsFromConfig maps the config file onto scheduler options.
func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		Anchors: dom.Anchors{
			Frame:   cfg.Anchors.Frame,
			Header:  cfg.Anchors.Header,
			Grid:    cfg.Anchors.Grid,
			Tile:    cfg.Anchors.Tile,
			Canvas:  cfg.Anchors.Canvas,
			Toolbar: cfg.Anchors.Toolbar,
		},
		Limits: layout.Limits{
			MinFrameHeight:     cfg.Layout.MinFrameHeight,
			MinWorkspaceHeight: cfg.Layout.MinWorkspaceHeight,
			Fudge:              cfg.Layout.Fudge,
			GridCell:           cfg.Layout.GridCell,
		},
		SafetyBuffer:  float64(cfg.Layout.SafetyBuffer),
		ChurnInterval: cfg.Layout.ChurnInterval,
		ChurnTicks:    cfg.Layout.ChurnTicks,
	}
}

// Mode is the pair of document flags a fit pass branches on.
type Mode struct {
	Live bool
	Game bool
}

// ModeOf reads the mode flags from the body's classes.
func ModeOf(doc *dom.Document) Mode {
	return Mode{
		Live: doc.Body.HasClass(dom.ClassLive),
		Game: doc.Body.HasClass(dom.ClassGame),
	}
}

// Geometry records what one fit pass measured and wrote.
type Geometry struct {
	Seq               uint64  `json:"seq"`
	Reason            string  `json:"reason"`
	Live              bool    `json:"live"`
	Game              bool    `json:"game"`
	ViewportWidth     int     `json:"viewport_width"`
	ViewportHeight    int     `json:"viewport_height"`
	FrameTop          float64 `json:"frame_top"`
	Gutter            float64 `json:"gutter"`
	FrameHeight       int     `json:"frame_height"`
	FrameClientHeight int     `json:"frame_client_height"`
	FrameWidth        int     `json:"frame_width"`
	HeaderHeight      int     `json:"header_height"`
	PadTop            float64 `json:"pad_top"`
	PadBottom         float64 `json:"pad_bottom"`
	PadLeft           float64 `json:"pad_left"`
	PadRight          float64 `json:"pad_right"`
	Fudge             int     `json:"fudge"`
	WorkspaceHeight   int     `json:"workspace_height"`
	WorkspaceWidth    int     `json:"workspace_width"`
	GridCell          float64 `json:"grid_cell,omitempty"`
	GridColumns       int     `json:"grid_columns,omitempty"`
	IconRotation      int     `json:"icon_rotation"`
	ScrollReset       bool    `json:"scroll_reset"`
	OverflowFrame     int     `json:"overflow_frame"`
	OverflowGrid      int     `json:"overflow_grid"`
}

type anchors struct {
	frame, header, grid, tile, canvas *dom.Element
	toolbar                           *dom.Element // optional
}

// Scheduler turns layout triggers into fit passes. Requests made before the
// next frame replace each other, so a burst of triggers costs one pass that
// runs with the last reason against the document as it is at that frame.
type Scheduler struct {
	doc    *dom.Document
	bus    *bus.Bus
	clock  frame.Clock
	opts   Options
	logger *logging.ScopedLogger

	initialized bool
	pending     frame.Handle
	icon        *dom.Element

	churnTimer  frame.Handle
	churnLeft   int
	churnReason string

	observers []func(Geometry)
	seq       uint64
	last      Geometry
	hasLast   bool
}

// New creates a scheduler. Call Init to start listening.
func New(doc *dom.Document, b *bus.Bus, clock frame.Clock, opts Options, logger *logging.ScopedLogger) *Scheduler {
	if logger == nil {
		logger = logging.NopLogger()
	}
	if opts.Limits == (layout.Limits{}) {
		opts.Limits = layout.DefaultLimits()
	}
	return &Scheduler{doc: doc, bus: b, clock: clock, opts: opts, logger: logger}
}

// Init marks the frame for workspace sizing, subscribes to the bus and the
// raw environment events, and requests the first pass. Later calls only
// log.
func (s *Scheduler) Init() {
	if s.initialized {
		s.logger.Debug("init skipped (already initialized)")
		return
	}
	s.initialized = true
	s.logger.Info("init")

	a, missing := s.resolve()
	if len(missing) > 0 {
		s.logger.Warn("init missing elements", "missing", strings.Join(missing, ","))
	} else {
		a.frame.AddClass(dom.ClassWorkspace)
	}

	if s.bus != nil {
		s.bus.Subscribe(s.RequestFit)
	}
	s.doc.AddEventListener(dom.EventResize, func() {
		s.RequestFit("window.resize")
	})
	s.doc.AddEventListener(dom.EventOrientationChange, func() {
		s.RequestFit("window.orientationchange")
	})

	s.RequestFit("init")
}

// SetOptions swaps the options used by later passes.
func (s *Scheduler) SetOptions(opts Options) {
	if opts.Limits == (layout.Limits{}) {
		opts.Limits = layout.DefaultLimits()
	}
	s.opts = opts
}

// OnFit registers fn to receive the geometry of every completed pass.
func (s *Scheduler) OnFit(fn func(Geometry)) {
	if fn != nil {
		s.observers = append(s.observers, fn)
	}
}

// RequestFit schedules a pass for the next frame, replacing any pass that
// is already scheduled.
func (s *Scheduler) RequestFit(reason string) {
	if reason == "" {
		reason = "fitSoon"
	}
	if s.pending != 0 {
		s.clock.CancelFrame(s.pending)
	}
	s.pending = s.clock.RequestFrame(func() {
		s.pending = 0
		_, _ = s.Fit(reason)
	})
}

// Pending reports whether a pass is scheduled.
func (s *Scheduler) Pending() bool {
	return s.pending != 0
}

// Churn re-requests a pass every ChurnInterval until ChurnTicks requests
// have been made, the first one immediately. It covers CSS transitions that
// keep moving geometry after the trigger. A new Churn restarts the count.
func (s *Scheduler) Churn(reason string) {
	if s.churnTimer != 0 {
		s.clock.CancelTimer(s.churnTimer)
		s.churnTimer = 0
	}
	s.churnReason = reason
	s.churnLeft = max(s.opts.ChurnTicks, 1)
	s.churnTick()
}

// Churning reports whether churn requests remain.
func (s *Scheduler) Churning() bool {
	return s.churnLeft > 0
}

func (s *Scheduler) churnTick() {
	s.churnTimer = 0
	if s.churnLeft <= 0 {
		return
	}
	s.churnLeft--
	s.RequestFit(s.churnReason)
	if s.churnLeft > 0 {
		s.churnTimer = s.clock.AfterFunc(s.opts.ChurnInterval, s.churnTick)
	}
}

// Last returns the geometry of the most recent completed pass.
func (s *Scheduler) Last() (Geometry, bool) {
	return s.last, s.hasLast
}

// Fit runs a pass now with the mode read from the document.
func (s *Scheduler) Fit(reason string) (Geometry, error) {
	return s.Pass(reason, ModeOf(s.doc))
}

// Pass runs a pass now with an explicit mode. Nothing is written when a
// required anchor is missing.
func (s *Scheduler) Pass(reason string, mode Mode) (Geometry, error) {
	a, missing := s.resolve()
	if len(missing) > 0 {
		s.logger.Warn("fit skipped (missing elements)",
			"reason", reason,
			"missing", strings.Join(missing, ","),
		)
		return Geometry{}, fmt.Errorf("%w: %s", ErrMissingAnchor, strings.Join(missing, ", "))
	}

	vp := s.doc.Viewport()
	lim := s.opts.Limits
	g := Geometry{
		Reason:         reason,
		Live:           mode.Live,
		Game:           mode.Game,
		ViewportWidth:  vp.Width,
		ViewportHeight: vp.Height,
		Fudge:          lim.Fudge,
	}

	// 1) Frame height.
	toolbarH := 0.0
	if a.toolbar != nil {
		toolbarH = float64(a.toolbar.OffsetHeight())
	}
	g.FrameTop = a.frame.BoundingTop()
	if mode.Live {
		body := s.doc.Body.Box
		g.FrameHeight = layout.LiveFrameHeight(layout.LiveFrame{
			ViewportHeight: float64(vp.Height),
			BodyPadTop:     body.PaddingTop,
			BodyPadBottom:  body.PaddingBottom,
			ToolbarHeight:  toolbarH,
		}, lim)
	} else {
		below := a.toolbar != nil && !a.toolbar.Hidden() && a.toolbar.BoundingTop() >= g.FrameTop
		g.Gutter = layout.Gutter(a.frame.Box.MarginBottom, s.opts.SafetyBuffer, toolbarH, below)
		g.FrameHeight = layout.EditorFrameHeight(layout.EditorFrame{
			ViewportHeight: float64(vp.Height),
			FrameTop:       g.FrameTop,
			Gutter:         g.Gutter,
		}, lim)
	}
	a.frame.SetStyle("height", dom.Px(float64(g.FrameHeight)))

	// 2) Re-measure after the write.
	g.FrameClientHeight = a.frame.ClientHeight()
	g.FrameWidth = a.frame.ClientWidth()
	g.HeaderHeight = a.header.OffsetHeight()
	g.PadTop = a.grid.Box.PaddingTop
	g.PadBottom = a.grid.Box.PaddingBottom
	g.PadLeft = a.grid.Box.PaddingLeft
	g.PadRight = a.grid.Box.PaddingRight

	// 3) Workspace height, fudge absorbs the rounding scrollbar.
	g.WorkspaceHeight = layout.WorkspaceHeight(layout.Workspace{
		FrameClientHeight: g.FrameClientHeight,
		HeaderHeight:      g.HeaderHeight,
		PadTop:            g.PadTop,
		PadBottom:         g.PadBottom,
	}, lim)
	a.tile.SetStyle("height", dom.Px(float64(g.WorkspaceHeight)))
	a.canvas.SetStyle("height", "100%")
	g.WorkspaceWidth = a.tile.ClientWidth()

	// 4) The frame never scrolls because of layout churn.
	if before := a.frame.ScrollTop(); before != 0 {
		s.logger.Debug("frame scrollTop reset", "before", before)
		a.frame.SetScrollTop(0)
		g.ScrollReset = true
	}

	// 5) Decoration.
	if mode.Game {
		s.decorateGame(a, &g)
	} else {
		s.decorateGrid(a, &g)
	}

	g.OverflowFrame = a.frame.ScrollHeight() - a.frame.ClientHeight()
	g.OverflowGrid = a.grid.ScrollHeight() - a.grid.ClientHeight()

	s.seq++
	g.Seq = s.seq
	s.last, s.hasLast = g, true

	s.logger.Debug("fit",
		"reason", reason,
		"live", g.Live,
		"game", g.Game,
		"frame_h", g.FrameHeight,
		"frame_client_h", g.FrameClientHeight,
		"header_h", g.HeaderHeight,
		"pad_top", g.PadTop,
		"pad_bottom", g.PadBottom,
		"fudge", g.Fudge,
		"workspace_h", g.WorkspaceHeight,
		"overflow_frame", g.OverflowFrame,
		"overflow_grid", g.OverflowGrid,
	)

	for _, fn := range s.observers {
		fn(g)
	}
	return g, nil
}

func (s *Scheduler) decorateGame(a anchors, g *Geometry) {
	icon := s.ensureIcon(a.tile)
	g.IconRotation = layout.IconRotation(g.WorkspaceWidth, g.WorkspaceHeight)
	icon.SetStyle("display", "flex")
	icon.SetStyle("transform", fmt.Sprintf("translate(-50%%, -50%%) rotate(%ddeg)", g.IconRotation))
	a.tile.SetStyle("background-size", "")
	a.tile.RemoveClass("grid-lines")
}

func (s *Scheduler) decorateGrid(a anchors, g *Geometry) {
	w := float64(g.WorkspaceWidth)
	target := float64(s.opts.Limits.GridCell)
	g.GridCell = layout.GridCell(w, target)
	g.GridColumns = layout.GridColumns(w, target)
	cell := dom.Px(g.GridCell)
	a.tile.SetStyle("background-size", cell+" "+cell)
	a.tile.AddClass("grid-lines")
	if s.icon != nil {
		s.icon.SetStyle("display", "none")
	}
}

// ensureIcon returns the game icon, creating it inside tile on first use.
// An icon moved out of the tile is put back.
func (s *Scheduler) ensureIcon(tile *dom.Element) *dom.Element {
	if s.icon == nil {
		icon := s.doc.CreateElement(IconID)
		icon.SetStyle("position", "absolute")
		icon.SetStyle("left", "50%")
		icon.SetStyle("top", "50%")
		icon.SetStyle("pointer-events", "none")
		icon.Text = "▲"
		s.icon = icon
		s.logger.Debug("game icon created")
	}
	if s.icon.Parent() != tile {
		tile.AppendChild(s.icon)
	}
	return s.icon
}

// Icon returns the game icon, nil until game mode first ran.
func (s *Scheduler) Icon() *dom.Element {
	return s.icon
}

func (s *Scheduler) resolve() (anchors, []string) {
	ids := s.opts.Anchors
	a := anchors{
		frame:   s.doc.ByID(ids.Frame),
		header:  s.doc.ByID(ids.Header),
		grid:    s.doc.ByID(ids.Grid),
		tile:    s.doc.ByID(ids.Tile),
		canvas:  s.doc.ByID(ids.Canvas),
		toolbar: s.doc.ByID(ids.Toolbar),
	}
	var missing []string
	for _, c := range []struct {
		name string
		el   *dom.Element
	}{
		{"frame", a.frame},
		{"header", a.header},
		{"grid", a.grid},
		{"tile", a.tile},
		{"canvas", a.canvas},
	} {
		if c.el == nil {
			missing = append(missing, c.name)
		}
	}
	return a, missing
}
