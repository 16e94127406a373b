// pattern: Imperative Shell

// Package gate blocks interaction with a rotate-to-landscape overlay while a
// native mobile device is held in portrait.
package gate

import (
	"devframe/internal/bus"
	"devframe/internal/device"
	"devframe/internal/dom"
	"devframe/internal/logging"
)

// State is the gate's two-state machine.
type State int

const (
	Unblocked State = iota
	Blocked
)

func (s State) String() string {
	switch s {
	case Unblocked:
		return "UNBLOCKED"
	case Blocked:
		return "BLOCKED"
	default:
		return "UNKNOWN"
	}
}

const (
	// OverlayID is the id the overlay is created with and found by.
	OverlayID = "rotateGate"

	// Reason is published on the bus on every transition.
	Reason = "RotateGate.tick"

	// OverlayTitle and OverlayMessage are the overlay texts.
	OverlayTitle   = "Rotate to play"
	OverlayMessage = "Please rotate your device to landscape."
)

// Gate watches orientation and toggles the overlay. It only acts on
// devices the capability classifies as native mobile.
type Gate struct {
	doc    *dom.Document
	bus    *bus.Bus
	cap    device.Capability
	hostID string
	logger *logging.ScopedLogger

	overlay     *dom.Element
	state       State
	evaluated   bool // whether lastBlocked holds a classification
	lastBlocked bool
	active      bool
	enabled     bool
	initialized bool
	transitions int
}

// New creates a gate that places its overlay inside the element with id
// hostID, or the body when that element is absent. Capability faults are
// absorbed by device.Safe.
func New(doc *dom.Document, b *bus.Bus, capability device.Capability, hostID string, logger *logging.ScopedLogger) *Gate {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Gate{
		doc:     doc,
		bus:     b,
		cap:     device.Safe(capability, logger),
		hostID:  hostID,
		logger:  logger,
		enabled: true,
	}
}

// Init classifies the device once. On native mobile it marks the body,
// builds the overlay, listens to resize and orientation events and runs the
// first evaluation. Elsewhere it only clears the mobile marker.
func (g *Gate) Init() {
	if g.initialized {
		g.logger.Debug("init skipped (already initialized)")
		return
	}
	g.initialized = true

	mobile := g.cap.IsNativeMobile()
	g.logger.Info("init", "mobile", mobile)
	if !mobile {
		g.doc.Body.RemoveClass(dom.ClassNativeMobile)
		return
	}

	g.active = true
	g.doc.Body.AddClass(dom.ClassNativeMobile)
	g.ensureOverlay()

	g.doc.AddEventListener(dom.EventResize, func() {
		g.Evaluate("window.resize")
	})
	g.doc.AddEventListener(dom.EventOrientationChange, func() {
		g.Evaluate("window.orientationchange")
	})

	g.Evaluate("init")
}

// Evaluate reads the orientation and transitions if the classification
// changed since the last evaluation. It returns whether a transition
// happened.
func (g *Gate) Evaluate(reason string) bool {
	if !g.enabled || !g.active {
		return false
	}

	block := g.cap.IsPortrait()
	if g.evaluated && g.lastBlocked == block {
		return false
	}
	first := !g.evaluated
	g.evaluated = true
	g.lastBlocked = block

	next := Unblocked
	if block {
		next = Blocked
	}
	g.apply(next)

	if next == g.state {
		// First evaluation on a landscape device: the DOM is synced but
		// nothing transitioned.
		g.logger.Debug("settled", "reason", reason, "state", next.String(), "first", first)
		return false
	}

	g.state = next
	g.transitions++
	if block {
		g.logger.Info("BLOCK", "reason", reason, "portrait", true)
	} else {
		g.logger.Info("UNBLOCK", "reason", reason, "portrait", false)
	}
	if g.bus != nil {
		g.bus.Notify(Reason)
	}
	return true
}

func (g *Gate) apply(s State) {
	if s == Blocked {
		g.overlay.SetStyle("display", "flex")
		g.doc.Body.AddClass(dom.ClassRotateBlock)
		return
	}
	g.overlay.SetStyle("display", "none")
	g.doc.Body.RemoveClass(dom.ClassRotateBlock)
}

// ensureOverlay returns the stored overlay, adopts one already in the
// document, or builds it.
func (g *Gate) ensureOverlay() *dom.Element {
	if g.overlay != nil {
		return g.overlay
	}
	if existing := g.doc.ByID(OverlayID); existing != nil {
		g.logger.Debug("overlay reused")
		g.overlay = existing
		return existing
	}

	o := g.doc.CreateElement(OverlayID)
	o.SetAttr("role", "dialog")
	o.SetAttr("aria-live", "polite")
	o.SetStyle("position", "absolute")
	o.SetStyle("inset", "0")
	o.SetStyle("display", "none")
	o.SetStyle("align-items", "center")
	o.SetStyle("justify-content", "center")
	o.SetStyle("z-index", "9999")

	box := g.doc.CreateElement("")
	box.SetStyle("max-width", "320px")
	box.SetStyle("text-align", "center")

	title := g.doc.CreateElement("")
	title.Text = OverlayTitle
	body := g.doc.CreateElement("")
	body.Text = OverlayMessage

	box.AppendChild(title)
	box.AppendChild(body)
	o.AppendChild(box)

	host := g.doc.ByID(g.hostID)
	if host == nil {
		host = g.doc.Body
	}
	if host.Style("position") == "" {
		host.SetStyle("position", "relative")
	}
	host.AppendChild(o)

	g.logger.Debug("overlay created", "host", host.ID)
	g.overlay = o
	return o
}

// SetEnabled turns evaluation on or off. Turning it off while blocked
// releases the overlay. Turning it back on forgets the last classification
// so the next evaluation resyncs the overlay.
func (g *Gate) SetEnabled(on bool) {
	if on == g.enabled {
		return
	}
	g.enabled = on
	g.logger.Info("enabled changed", "enabled", on)
	if on {
		g.evaluated = false
		return
	}
	if g.state != Blocked {
		return
	}
	g.apply(Unblocked)
	g.state = Unblocked
	g.transitions++
	g.logger.Info("UNBLOCK", "reason", "disabled")
	if g.bus != nil {
		g.bus.Notify(Reason)
	}
}

// Enabled reports whether evaluations run.
func (g *Gate) Enabled() bool {
	return g.enabled
}

// Active reports whether Init classified the device as native mobile.
func (g *Gate) Active() bool {
	return g.active
}

// State returns the current state.
func (g *Gate) State() State {
	return g.state
}

// Transitions counts transitions since Init.
func (g *Gate) Transitions() int {
	return g.transitions
}

// Overlay returns the overlay element, nil until Init built it.
func (g *Gate) Overlay() *dom.Element {
	return g.overlay
}
