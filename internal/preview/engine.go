// pattern: Imperative Shell

package preview

import (
	"devframe/internal/bus"
	"devframe/internal/config"
	"devframe/internal/device"
	"devframe/internal/dom"
	"devframe/internal/fit"
	"devframe/internal/frame"
	"devframe/internal/gate"
	"devframe/internal/logging"
	"devframe/internal/simulator"
)

// ReasonConfigReload is published after a config reload is applied.
const ReasonConfigReload = "config.reload"

// Engine wires one page: the document, the layout bus, the frame loop and
// the components that read and write geometry. Everything on it runs on
// the preview's update goroutine.
type Engine struct {
	Doc  *dom.Document
	Bus  *bus.Bus
	Loop *frame.Loop
	Fit  *fit.Scheduler
	Gate *gate.Gate
	Sim  *simulator.Simulator

	logger *logging.ScopedLogger
}

// NewEngine builds the preview page at the given viewport. The device
// capability reads orientation from the document's own viewport.
func NewEngine(cfg config.Config, viewport dom.Size, logs logging.LoggerProvider) *Engine {
	opts := fit.OptionsFromConfig(cfg)
	doc := dom.NewPreviewPage(viewport, opts.Anchors)
	busLogger := logs.For("bus")
	b := bus.New(busLogger)
	loop := frame.NewLoop()

	sched := fit.New(doc, b, loop, opts, logs.For("fit"))

	deviceLogger := logs.For("device")
	detector := device.Detector{
		UserAgent: cfg.Device.UserAgent,
		Pointer:   cfg.Device.Pointer,
		Viewport: func() (int, int) {
			s := doc.Viewport()
			return s.Width, s.Height
		},
		Logger: deviceLogger,
	}
	capability := device.Safe(detector, deviceLogger)
	g := gate.New(doc, b, capability, cfg.Anchors.Frame, logs.For("gate"))

	sim := simulator.New(doc, b, sched, cfg.Simulator, cfg.Anchors.Frame, logs.For("sim"))

	b.SetObserver(func(reason string) {
		busLogger.Debug("layout change", "reason", reason)
	})

	return &Engine{
		Doc:    doc,
		Bus:    b,
		Loop:   loop,
		Fit:    sched,
		Gate:   g,
		Sim:    sim,
		logger: logs.For("app"),
	}
}

// Init starts the components in page boot order: the slider, the fit
// scheduler, then the orientation gate.
func (e *Engine) Init() {
	e.Sim.Init()
	e.Fit.Init()
	e.Gate.Init()
}

// Apply hands a reloaded config to the components and asks for a refit.
func (e *Engine) Apply(cfg config.Config) {
	e.Fit.SetOptions(fit.OptionsFromConfig(cfg))
	e.Sim.SetConfig(cfg.Simulator)
	e.logger.Info("config applied")
	e.Bus.Notify(ReasonConfigReload)
}
