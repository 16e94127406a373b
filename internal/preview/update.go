// pattern: Imperative Shell

package preview

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"devframe/internal/events"
	"devframe/internal/frame"
	"devframe/internal/logging"
	"devframe/internal/simulator"
)

// logEntriesMsg delivers log entries from the logging channel.
type logEntriesMsg struct {
	entries []logging.LogEntry
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		vp := m.scale.Viewport(msg.Width, msg.Height)
		m.logger.Debug("terminal resized", "cols", msg.Width, "rows", msg.Height, "vw", vp.Width, "vh", vp.Height)
		m.engine.Doc.SetViewport(vp)
		return m, nil

	case frame.TickMsg:
		dt := m.interval
		if !m.lastTick.IsZero() {
			dt = msg.Time.Sub(m.lastTick)
		}
		m.lastTick = msg.Time
		m.engine.Loop.Tick(dt)
		return m, frame.Ticker(m.interval)

	case events.ActionMsg:
		m.runAction(msg.Name, "web")
		return m, nil

	case events.ConfigReloadedMsg:
		cfg := msg.Config
		m.cfg = &cfg
		m.styles = NewStyles(cfg.Theme)
		m.scale = ScaleFromConfig(cfg.Preview)
		m.interval = frameInterval(&cfg)
		m.engine.Apply(cfg)
		if m.width > 0 {
			m.engine.Doc.SetViewport(m.scale.Viewport(m.width, m.height))
		}
		m.logger.Info("config reloaded", "theme", cfg.Theme)
		return m, nil

	case events.WebListenURLMsg:
		m.webURL = msg.URL
		return m, nil

	case logEntriesMsg:
		for i := range msg.entries {
			e := msg.entries[i]
			m.lastLog = &e
			if e.IsProblem() {
				m.lastProblem = &e
			}
		}
		if m.logs != nil {
			return m, consumeLogEntries(m.logs)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.logger.Debug("quit")
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Mobile):
		m.runAction(simulator.ActionMobile, "key")
	case key.Matches(msg, m.keys.Desktop):
		m.runAction(simulator.ActionDesktop, "key")
	case key.Matches(msg, m.keys.Live):
		m.runAction(simulator.ActionLive, "key")
	case key.Matches(msg, m.keys.Game):
		m.runAction(simulator.ActionGame, "key")
	case key.Matches(msg, m.keys.Narrow):
		m.engine.Sim.Nudge(-1)
	case key.Matches(msg, m.keys.Widen):
		m.engine.Sim.Nudge(1)
	}
	return m, nil
}

func (m *Model) runAction(name, source string) {
	m.logger.Debug("action", "name", name, "source", source)
	if err := m.engine.Sim.Do(name); err != nil {
		m.logger.Warn("action failed", "name", name, "source", source, "error", err)
		m.err = err
		return
	}
	m.err = nil
	m.lastAction = name
}
