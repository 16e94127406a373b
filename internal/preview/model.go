// pattern: Imperative Shell

// Package preview renders the device frame in the terminal. The terminal
// size is the page viewport; the frame loop is driven by a ticker.
package preview

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"devframe/internal/config"
	"devframe/internal/frame"
	"devframe/internal/logging"
)

// Model represents the preview state.
type Model struct {
	width  int
	height int
	styles *Styles
	keys   keyMap
	help   help.Model

	cfg      *config.Config
	scale    Scale
	interval time.Duration
	engine   *Engine

	logger      *logging.ScopedLogger
	logs        <-chan logging.LogEntry
	lastLog     *logging.LogEntry
	lastProblem *logging.LogEntry

	webURL     string
	lastTick   time.Time
	lastAction string
	err        error
}

// NewModel creates a preview over an initialized engine. entries may be nil.
func NewModel(cfg *config.Config, engine *Engine, logs logging.LoggerProvider, entries <-chan logging.LogEntry) Model {
	logger := logs.For("preview")
	logger.Info("preview model created", "theme", cfg.Theme)

	return Model{
		styles:   NewStyles(cfg.Theme),
		keys:     defaultKeyMap(),
		help:     help.New(),
		cfg:      cfg,
		scale:    ScaleFromConfig(cfg.Preview),
		interval: frameInterval(cfg),
		engine:   engine,
		logger:   logger,
		logs:     entries,
	}
}

func frameInterval(cfg *config.Config) time.Duration {
	if cfg.Layout.FrameInterval > 0 {
		return cfg.Layout.FrameInterval
	}
	return 16 * time.Millisecond
}

// Init returns the initial commands: the first frame and the log feed.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{frame.Ticker(m.interval)}
	if m.logs != nil {
		cmds = append(cmds, consumeLogEntries(m.logs))
	}
	return tea.Batch(cmds...)
}

// Engine returns the wired page.
func (m Model) Engine() *Engine {
	return m.engine
}

// consumeLogEntries waits for one entry, then takes whatever else is
// already buffered.
func consumeLogEntries(entries <-chan logging.LogEntry) tea.Cmd {
	return func() tea.Msg {
		first, ok := <-entries
		if !ok {
			return nil
		}
		batch := []logging.LogEntry{first}
		for len(batch) < 100 {
			select {
			case e, ok := <-entries:
				if !ok {
					return logEntriesMsg{entries: batch}
				}
				batch = append(batch, e)
			default:
				return logEntriesMsg{entries: batch}
			}
		}
		return logEntriesMsg{entries: batch}
	}
}
